package testgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/gslgen/internal/hdr"
	"github.com/jward/gslgen/internal/store"
)

type fakeDB map[string]*store.Function

func (db fakeDB) FunctionByCName(cname string) (*store.Function, error) {
	return db[cname], nil
}

func testDB() fakeDB {
	return fakeDB{
		"gsl_sf_foo_e": {
			GoName: "foo",
			Args: []store.Arg{
				{Name: "x", Type: hdr.TypeFloat64},
				{Name: "n", Type: hdr.TypeInt32},
				{Name: "result", Type: hdr.TypeResultPtr},
			},
		},
		"gsl_sf_bar_e": {
			GoName: "bar",
			Args: []store.Arg{
				{Name: "x", Type: hdr.TypeFloat64},
				{Name: "result", Type: hdr.TypeResultPtr},
			},
		},
		"gsl_sf_gone_e": {
			GoName:   "gone",
			Excluded: true,
			Args: []store.Arg{
				{Name: "x", Type: hdr.TypeFloat64},
				{Name: "result", Type: hdr.TypeResultPtr},
			},
		},
	}
}

func extractOne(t *testing.T, line string) Record {
	t.Helper()
	groups, err := Extract(line, testDB())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Records, 1)
	return groups[0].Records[0]
}

func TestExtractRecord(t *testing.T) {
	rec := extractOne(t, `  TEST_SF(s, gsl_sf_foo_e, (2.0, 3, &r), 5.0, 1e-10);`)

	assert.Equal(t, "foo", rec.Target)
	assert.Equal(t, []string{"2.0", "3"}, rec.Args)
	assert.Equal(t, "5.0", rec.Expected)
	assert.Equal(t, "1e-10", rec.Tolerance)
}

func TestExtractIntegerToFloatCoercion(t *testing.T) {
	// An integer constant against a floating-point declaration becomes an
	// explicit float literal; the expected value follows suit once the
	// tuple carries non-integer text.
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (5, &r), 7, TEST_TOL0);`)
	assert.Equal(t, []string{"5.0"}, rec.Args)
	assert.Equal(t, "7.0", rec.Expected)
}

func TestExtractIntegerArgumentKeepsIntegerSpelling(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_foo_e, (1.5, -2, &r), 0.25, TEST_TOL1);`)
	assert.Equal(t, []string{"1.5", "-2"}, rec.Args)
}

func TestExtractLeadingDotFixup(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (0.5, &r), .5, TEST_TOL0);`)
	assert.Equal(t, "0.5", rec.Expected)

	rec = extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (0.5, &r), -.5, TEST_TOL0);`)
	assert.Equal(t, "-0.5", rec.Expected)

	rec = extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (0.5, &r), +.5, TEST_TOL0);`)
	assert.Equal(t, "0.5", rec.Expected)
}

func TestExtractStripsLeadingPlus(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (+0.5, &r), 1.0, TEST_TOL0);`)
	assert.Equal(t, []string{"0.5"}, rec.Args)
}

func TestExtractKeepsArithmeticExpressions(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (1.0/3.0, &r), 2.5, TEST_TOL0);`)
	assert.Equal(t, []string{"1.0/3.0"}, rec.Args)
}

func TestExtractPatchesMalformedExpression(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (4097-1.0/4096.0, &r), 2.5, TEST_TOL0);`)
	assert.Equal(t, []string{"4097.-1.0/4096.0"}, rec.Args)
}

func TestExtractDiscards(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"variable argument", `TEST_SF(s, gsl_sf_foo_e, (2.0, n, &r), 5.0, TEST_TOL0);`},
		{"symbolic expected", `TEST_SF(s, gsl_sf_bar_e, (0.5, &r), M_PI, TEST_TOL0);`},
		{"unknown function", `TEST_SF(s, gsl_sf_unknown_e, (2.0, &r), 5.0, TEST_TOL0);`},
		{"excluded function", `TEST_SF(s, gsl_sf_gone_e, (2.0, &r), 5.0, TEST_TOL0);`},
		{"tuple arity mismatch", `TEST_SF(s, gsl_sf_foo_e, (2.0, &r), 5.0, TEST_TOL0);`},
		{"not an assertion", `  int status = 0;`},
		{"wrong field count", `TEST_SF(s, gsl_sf_foo_e, (2.0, 3, &r), 5.0);`},
		{"unparenthesized tuple", `TEST_SF(s, gsl_sf_foo_e, 2.0, 5.0, TEST_TOL0);`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Extract(tt.line, testDB())
			require.NoError(t, err)
			assert.Empty(t, groups)
		})
	}
}

func TestExtractExponentLiteralsAreNotIdentifiers(t *testing.T) {
	rec := extractOne(t, `TEST_SF(s, gsl_sf_bar_e, (1.0e-3, &r), 2.5e4, TEST_TOL0);`)
	assert.Equal(t, []string{"1.0e-3"}, rec.Args)
	assert.Equal(t, "2.5e4", rec.Expected)
}

func TestExtractGroupsInEncounterOrder(t *testing.T) {
	src := `
TEST_SF(s, gsl_sf_foo_e, (2.0, 3, &r), 5.0, TEST_TOL0);
TEST_SF(s, gsl_sf_bar_e, (0.5, &r), 1.0, TEST_TOL0);
TEST_SF(s, gsl_sf_foo_e, (4.0, 1, &r), 6.0, TEST_TOL1);
`
	groups, err := Extract(src, testDB())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "foo", groups[0].Name)
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, "bar", groups[1].Name)
	assert.Len(t, groups[1].Records, 1)
}
