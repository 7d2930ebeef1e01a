package gslgen

import "path/filepath"

// Module is one named group of related functions: one header, one emitted
// source unit, and one optional native test source file.
type Module struct {
	Name string
}

// HeaderName returns the header file name, e.g. gsl_sf_gamma.h.
func (m Module) HeaderName() string {
	return "gsl_sf_" + m.Name + ".h"
}

// HeaderPath returns the header path inside the GSL source tree.
func (m Module) HeaderPath(gslDir string) string {
	return filepath.Join(gslDir, "specfunc", m.HeaderName())
}

// TestSourceName returns the native test file name, e.g. test_gamma.c.
func (m Module) TestSourceName() string {
	return "test_" + m.Name + ".c"
}

// TestSourcePath returns the native test source path inside the GSL
// source tree. Not every module has one.
func (m Module) TestSourcePath(gslDir string) string {
	return filepath.Join(gslDir, "specfunc", m.TestSourceName())
}

// OutPath returns the emitted binding file path.
func (m Module) OutPath(outDir string) string {
	return filepath.Join(outDir, m.Name+".go")
}

// TestOutPath returns the emitted test file path.
func (m Module) TestOutPath(outDir string) string {
	return filepath.Join(outDir, m.Name+"_test.go")
}

// DefaultModules is the special-function module list, in generation order.
var DefaultModules = []Module{
	{Name: "airy"},
	{Name: "bessel"},
	{Name: "clausen"},
	{Name: "coupling"},
	{Name: "dawson"},
	{Name: "debye"},
	{Name: "dilog"},
	{Name: "elementary"},
	{Name: "ellint"},
	{Name: "elljac"},
	{Name: "erf"},
	{Name: "exp"},
	{Name: "expint"},
	{Name: "fermi_dirac"},
	{Name: "gamma"},
	{Name: "gegenbauer"},
	{Name: "hermite"},
	{Name: "hyperg"},
	{Name: "laguerre"},
	{Name: "lambert"},
	{Name: "legendre"},
	{Name: "log"},
	{Name: "mathieu"},
	{Name: "pow_int"},
	{Name: "psi"},
	{Name: "sincos_pi"},
	{Name: "synchrotron"},
	{Name: "transport"},
	{Name: "trig"},
	{Name: "zeta"},
}

// ModulesByName selects modules from DefaultModules; an empty selection
// means all of them. Unknown names are ignored.
func ModulesByName(names []string) []Module {
	if len(names) == 0 {
		return DefaultModules
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Module
	for _, m := range DefaultModules {
		if want[m.Name] {
			out = append(out, m)
		}
	}
	return out
}
