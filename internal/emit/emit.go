// Package emit renders module binding files, test scaffolds, and
// conformance-test blocks from filtered signature lists. It is the
// template-rendering collaborator of the pipeline: all naming and
// filtering decisions are made here on descriptor views; the templates
// themselves stay logic-light.
package emit

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/jward/gslgen/internal/hdr"
	"github.com/jward/gslgen/internal/testgen"
)

// Renderer executes the embedded emission templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every template in fsys (normally templates.FS).
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Func is one function prepared for template execution. Name carries the
// exported spelling; CallArgs is the pre-rendered cgo argument list (with
// a trailing separator for the output-struct family, whose calls append
// the result pointer).
type Func struct {
	CName    string
	Name     string
	Nolint   bool
	Params   string
	CallArgs string
	Ret      string
}

// ModuleData is the view for module.go.tmpl.
type ModuleData struct {
	Package    string
	Header     string
	EFuncs     []Func
	PlainFuncs []Func
}

// cgoCasts maps Go parameter types to their cgo conversions.
var cgoCasts = map[string]string{
	hdr.TypeFloat64: "C.double",
	hdr.TypeInt32:   "C.int",
	hdr.TypeUint32:  "C.uint",
}

// BuildModuleData applies both filter profiles to the module's
// descriptors and prepares template views. nameOf resolves a native
// identifier to its generated name (database resolution, curated
// overrides included); excluded reports curated exclusions.
func BuildModuleData(pkg, header string, descriptors []*hdr.Descriptor, nameOf func(string) string, excluded func(string) bool) ModuleData {
	data := ModuleData{Package: pkg, Header: header}
	taken := make(map[string]bool)

	for _, d := range descriptors {
		if excluded(d.CName) || !hdr.OutputStructProfile(d) {
			continue
		}
		f := buildFunc(d, nameOf(d.CName), true)
		data.EFuncs = append(data.EFuncs, f)
		taken[f.Name] = true
	}
	for _, d := range descriptors {
		if excluded(d.CName) || !hdr.PlainReturnProfile(d) {
			continue
		}
		if !hdr.ScalarType(d.Ret) {
			continue // only scalar returns are renderable
		}
		f := buildFunc(d, nameOf(d.CName), false)
		if taken[f.Name] {
			continue // output-struct form wins the generated name
		}
		f.Ret = d.Ret
		data.PlainFuncs = append(data.PlainFuncs, f)
		taken[f.Name] = true
	}
	return data
}

func buildFunc(d *hdr.Descriptor, goName string, outputStruct bool) Func {
	name := hdr.Exported(goName)
	var params, calls []string
	for _, arg := range d.Args {
		switch arg.Type {
		case hdr.TypeResultPtr:
			continue
		case hdr.TypeRNG:
			params = append(params, arg.Name+" *RNG")
			calls = append(calls, "(*C.gsl_rng)("+arg.Name+".p)")
		default:
			params = append(params, arg.Name+" "+arg.Type)
			calls = append(calls, cgoCasts[arg.Type]+"("+arg.Name+")")
		}
	}
	callArgs := strings.Join(calls, ", ")
	if outputStruct && callArgs != "" {
		callArgs += ", "
	}
	return Func{
		CName:    d.CName,
		Name:     name,
		Nolint:   strings.Contains(name, "_"),
		Params:   strings.Join(params, ", "),
		CallArgs: callArgs,
	}
}

// Module renders a module binding file.
func (r *Renderer) Module(data ModuleData) (string, error) {
	return r.execute("module.go.tmpl", data)
}

// TestScaffold renders the initial test file for a module: package
// clause, imports, and the empty test-section boundary.
func (r *Renderer) TestScaffold(pkg, testSource string) (string, error) {
	return r.execute("module_test.go.tmpl", struct {
		Package    string
		TestSource string
	}{pkg, testSource})
}

// Support renders the shared support file (Result, Error, RNG).
func (r *Renderer) Support(pkg string) (string, error) {
	return r.execute("support.go.tmpl", struct{ Package string }{pkg})
}

// TestSupport renders the shared test helpers and tolerance constants.
func (r *Renderer) TestSupport(pkg string) (string, error) {
	return r.execute("support_test.go.tmpl", struct{ Package string }{pkg})
}

// testCase is one rendered conformance case.
type testCase struct {
	Call      string
	Expected  string
	Tolerance string
}

type testGroup struct {
	TestName string
	Cases    []testCase
}

// TestBlock renders the grouped assertion records into the block spliced
// after the test-section boundary.
func (r *Renderer) TestBlock(groups []*testgen.Group) (string, error) {
	view := struct{ Groups []testGroup }{}
	for _, g := range groups {
		tg := testGroup{TestName: hdr.Exported(g.Name)}
		for _, rec := range g.Records {
			tg.Cases = append(tg.Cases, testCase{
				Call:      hdr.Exported(g.Name) + "(" + strings.Join(rec.Args, ", ") + ")",
				Expected:  rec.Expected,
				Tolerance: rec.Tolerance,
			})
		}
		view.Groups = append(view.Groups, tg)
	}
	return r.execute("testblock.tmpl", view)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
