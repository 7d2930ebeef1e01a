package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCurator struct {
	known    []string
	excluded []string
	renamed  map[string]string
}

func (c *fakeCurator) Functions() []string { return c.known }

func (c *fakeCurator) Exclude(cname string) error {
	for _, k := range c.known {
		if k == cname {
			c.excluded = append(c.excluded, cname)
			return nil
		}
	}
	return fmt.Errorf("unknown function %q", cname)
}

func (c *fakeCurator) Rename(cname, goName string) error {
	if c.renamed == nil {
		c.renamed = map[string]string{}
	}
	c.renamed[cname] = goName
	return nil
}

func TestRunCurationScript(t *testing.T) {
	cur := &fakeCurator{known: []string{"gsl_sf_airy_Ai_e", "gsl_sf_gamma_e"}}

	src := `
for _, name := range functions() {
    if strings.has_prefix(name, "gsl_sf_airy") {
        exclude(name)
    }
}
rename("gsl_sf_gamma_e", "gammaFn")
log.Info("curation done")
`
	err := Run(context.Background(), src, "test.risor", cur)
	require.NoError(t, err)

	assert.Equal(t, []string{"gsl_sf_airy_Ai_e"}, cur.excluded)
	assert.Equal(t, "gammaFn", cur.renamed["gsl_sf_gamma_e"])
}

func TestRunSurfacesCuratorErrors(t *testing.T) {
	cur := &fakeCurator{known: []string{"gsl_sf_gamma_e"}}

	err := Run(context.Background(), `exclude("gsl_sf_unknown")`, "test.risor", cur)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gsl_sf_unknown")
}

func TestRunRejectsBadArguments(t *testing.T) {
	cur := &fakeCurator{}

	assert.Error(t, Run(context.Background(), `exclude()`, "test.risor", cur))
	assert.Error(t, Run(context.Background(), `exclude(42)`, "test.risor", cur))
	assert.Error(t, Run(context.Background(), `rename("a")`, "test.risor", cur))
}

func TestRunFile(t *testing.T) {
	cur := &fakeCurator{known: []string{"gsl_sf_erf_e"}}

	path := filepath.Join(t.TempDir(), "curate.risor")
	require.NoError(t, os.WriteFile(path, []byte(`exclude("gsl_sf_erf_e")`), 0o644))

	require.NoError(t, RunFile(context.Background(), path, cur))
	assert.Equal(t, []string{"gsl_sf_erf_e"}, cur.excluded)

	require.Error(t, RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.risor"), cur))
}
