package hdr

import (
	"fmt"
	"strings"
)

// Arg is one typed argument of a decomposed declaration.
type Arg struct {
	Name string
	Type string
}

// Descriptor is the transient decomposition of one header declaration:
// typed arguments plus the derived flags the signature filter keys on.
// Descriptors are rebuilt on every parse and never persisted directly.
type Descriptor struct {
	CName   string
	Ret     string // mapped return type
	RawArgs string // verbatim parameter-list text
	Args    []Arg

	HasSingleOutputParam bool
	TakesArrayParams     bool
	NoCommentsInArgs     bool
}

// CanonicalName strips the error-variant suffix from a native identifier.
// gsl_sf_gamma_e → gsl_sf_gamma.
func CanonicalName(cname string) string {
	return strings.TrimSuffix(cname, "_e")
}

// GeneratedName derives the default generated name for a native identifier:
// the canonical form minus the library prefix. gsl_sf_gamma_e → gamma.
func GeneratedName(cname string) string {
	return strings.TrimPrefix(CanonicalName(cname), "gsl_sf_")
}

// Exported applies Go export casing to a generated name at emission time.
// The database keeps the lowercase form; only emitted source and markers
// use the exported spelling. bessel_Jn → Bessel_Jn.
func Exported(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Decompose splits a raw declaration into a typed Descriptor.
//
// Each comma-separated argument is split on whitespace and classified by
// token count: 2 → (type, name); 3 with a "*" middle token → pointer
// argument keeping its C spelling; 3 otherwise → (qualifier, type, name);
// 4 → (q1, q2, type, name) mapping the middle pair. Any other count is an
// input-format violation — such declarations do not appear in well-formed
// headers, so the error is not recoverable.
func Decompose(cname, ret, rawArgs string) (*Descriptor, error) {
	d := &Descriptor{
		CName:            cname,
		Ret:              GoType(ret),
		RawArgs:          rawArgs,
		NoCommentsInArgs: !strings.Contains(rawArgs, "/*"),
	}

	for _, raw := range strings.Split(rawArgs, ",") {
		tokens := strings.Fields(raw)
		var arg Arg
		switch {
		case len(tokens) == 2:
			arg = Arg{Name: strings.ToLower(tokens[1]), Type: GoType(tokens[0])}
		case len(tokens) == 3 && tokens[1] == "*":
			arg = Arg{Name: strings.ToLower(tokens[2]), Type: tokens[0] + "*"}
		case len(tokens) == 3:
			arg = Arg{Name: strings.ToLower(tokens[2]), Type: GoType(tokens[0], tokens[1])}
		case len(tokens) == 4:
			arg = Arg{Name: strings.ToLower(tokens[3]), Type: GoType(tokens[1], tokens[2])}
		default:
			return nil, fmt.Errorf("decompose %s: invalid argument %q", cname, strings.TrimSpace(raw))
		}
		d.Args = append(d.Args, arg)
	}

	outputs := 0
	for _, arg := range d.Args {
		switch arg.Type {
		case TypeResultPtr:
			outputs++
		case TypeDoublePtr, TypeIntPtr:
			d.TakesArrayParams = true
		}
	}
	d.HasSingleOutputParam = outputs == 1

	return d, nil
}
