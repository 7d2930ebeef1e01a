package gslgen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/gslgen/internal/hdr"
)

func newTestDatabase(t *testing.T) (*Database, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "functions.db")
	db, err := CreateDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func descriptors(t *testing.T, decls ...[3]string) []*hdr.Descriptor {
	t.Helper()
	var out []*hdr.Descriptor
	for _, d := range decls {
		desc, err := hdr.Decompose(d[0], d[1], d[2])
		require.NoError(t, err)
		out = append(out, desc)
	}
	return out
}

func TestUpdateInsertsNewEntries(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.Update(descriptors(t,
		[3]string{"gsl_sf_gamma_e", "int", "const double x, gsl_sf_result * result"},
	))

	f := db.Lookup("gsl_sf_gamma_e")
	require.NotNil(t, f)
	assert.Equal(t, "gsl_sf_gamma", f.CanonicalName)
	assert.Equal(t, "gamma", f.GoName)
	assert.False(t, f.Excluded)
	require.Len(t, f.Args, 2)
	assert.Equal(t, "x", f.Args[0].Name)
	assert.Equal(t, hdr.TypeFloat64, f.Args[0].Type)
}

func TestDatabaseMonotonicity(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.Update(descriptors(t,
		[3]string{"gsl_sf_gamma_e", "int", "const double x, gsl_sf_result * result"},
		[3]string{"gsl_sf_erf_e", "int", "double x, gsl_sf_result * result"},
	))
	assert.Equal(t, 2, db.Len())

	// A later run that no longer sees a declaration never removes its key.
	db.Update(descriptors(t,
		[3]string{"gsl_sf_erf_e", "int", "double x, gsl_sf_result * result"},
	))
	assert.Equal(t, 2, db.Len())
	assert.NotNil(t, db.Lookup("gsl_sf_gamma_e"))
}

func TestSyncRoundTrip(t *testing.T) {
	db, path := newTestDatabase(t)

	db.Update(descriptors(t,
		[3]string{"gsl_sf_zeta_e", "int", "const double s, gsl_sf_result * result"},
		[3]string{"gsl_sf_gamma_e", "int", "const double x, gsl_sf_result * result"},
	))
	require.NoError(t, db.Sync())
	require.NoError(t, db.Close())

	reopened, err := OpenDatabase(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.Len())
	assert.Equal(t, []string{"gsl_sf_gamma_e", "gsl_sf_zeta_e"}, reopened.Functions())

	f := reopened.Lookup("gsl_sf_zeta_e")
	require.NotNil(t, f)
	require.Len(t, f.Args, 2)
	assert.Equal(t, "s", f.Args[0].Name)
}

func TestCuratedFieldsSurviveRefresh(t *testing.T) {
	db, path := newTestDatabase(t)

	gamma := [3]string{"gsl_sf_gamma_e", "int", "const double x, gsl_sf_result * result"}
	db.Update(descriptors(t, gamma))
	require.NoError(t, db.Sync())

	require.NoError(t, db.Exclude("gsl_sf_gamma_e"))
	require.NoError(t, db.Rename("gsl_sf_gamma_e", "gammaFn"))

	// A fresh scan refreshes arguments but never curated fields.
	db.Update(descriptors(t, gamma))
	require.NoError(t, db.Sync())
	require.NoError(t, db.Close())

	reopened, err := OpenDatabase(path)
	require.NoError(t, err)
	defer reopened.Close()

	f := reopened.Lookup("gsl_sf_gamma_e")
	require.NotNil(t, f)
	assert.True(t, f.Excluded)
	assert.Equal(t, "gammaFn", f.GoName)
}

func TestGoNameResolution(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.Update(descriptors(t,
		[3]string{"gsl_sf_bessel_Jn_e", "int", "int n, double x, gsl_sf_result * result"},
	))
	require.NoError(t, db.Sync())

	assert.Equal(t, "bessel_Jn", db.GoName("gsl_sf_bessel_Jn_e"))

	require.NoError(t, db.Rename("gsl_sf_bessel_Jn_e", "besselJn"))
	assert.Equal(t, "besselJn", db.GoName("gsl_sf_bessel_Jn_e"))

	// Unknown identifiers fall back to the derived name.
	assert.Equal(t, "erf", db.GoName("gsl_sf_erf_e"))
}

func TestCurationRequiresPersistedEntry(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.Update(descriptors(t,
		[3]string{"gsl_sf_exp_e", "int", "double x, gsl_sf_result * result"},
	))

	// Not yet synced, so not curatable; unknown names never are.
	assert.Error(t, db.Exclude("gsl_sf_exp_e"))
	assert.Error(t, db.Rename("gsl_sf_unknown", "x"))

	require.NoError(t, db.Sync())
	assert.NoError(t, db.Exclude("gsl_sf_exp_e"))
}

func TestOpenDatabaseMissingFileIsFatal(t *testing.T) {
	_, err := OpenDatabase(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
}
