package hdr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoHeader = `
#ifndef __GSL_SF_DEMO_H__
#define __GSL_SF_DEMO_H__

#include <gsl/gsl_sf_result.h>

int gsl_sf_demo_e(const double x, gsl_sf_result * result);
double gsl_sf_demo(const double x);
void gsl_sf_demo_init(void);
int gsl_sf_demo_pair_e(double x, int n, gsl_sf_result * result);

#endif
`

func TestScanHeader(t *testing.T) {
	decls, err := ScanHeader(context.Background(), []byte(demoHeader))
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, Decl{
		Ret:     "int",
		CName:   "gsl_sf_demo_e",
		RawArgs: "const double x, gsl_sf_result * result",
	}, decls[0])
	assert.Equal(t, "gsl_sf_demo", decls[1].CName)
	assert.Equal(t, "gsl_sf_demo_pair_e", decls[2].CName)
}

func TestScanHeaderSkipsUnsupportedShapes(t *testing.T) {
	src := []byte(`
double * gsl_sf_pointer_return(double x);
unsigned int gsl_sf_multiword_return(double x);
void gsl_sf_noargs(void);
int gsl_sf_kept_e(double x, gsl_sf_result * result);
`)
	decls, err := ScanHeader(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "gsl_sf_kept_e", decls[0].CName)
}

func TestDecomposeHeader(t *testing.T) {
	descs, err := DecomposeHeader(context.Background(), []byte(demoHeader))
	require.NoError(t, err)
	require.Len(t, descs, 3)

	assert.Equal(t, "gsl_sf_demo_e", descs[0].CName)
	assert.Equal(t, TypeInt32, descs[0].Ret)
	assert.True(t, descs[0].HasSingleOutputParam)
	assert.Equal(t, TypeFloat64, descs[1].Ret)
}

func TestDecomposeHeaderFatalOnMalformedArgs(t *testing.T) {
	src := []byte(`int gsl_sf_bad_e(double, gsl_sf_result * result);`)
	_, err := DecomposeHeader(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gsl_sf_bad_e")
}
