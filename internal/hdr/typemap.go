package hdr

import "strings"

// Go type names produced by the mapper, plus the sentinel types that the
// signature filter keys on. Pointer-typed arguments keep their C spelling
// (base token + "*") so they stay visibly distinct from safe scalars.
const (
	TypeFloat64 = "float64"
	TypeInt32   = "int32"
	TypeUint32  = "uint32"

	// TypeResultPtr is the output-result pointer: a gsl_sf_result carries a
	// computed value plus an error estimate out of the call.
	TypeResultPtr = "gsl_sf_result*"

	// TypeDoublePtr and TypeIntPtr mark array-style output parameters.
	TypeDoublePtr = "double*"
	TypeIntPtr    = "int*"

	// TypeMode is the precision-mode qualifier type. It passes through the
	// mapper unchanged and is excluded downstream by the filter.
	TypeMode = "gsl_mode_t"

	// TypeVoid is the no-value return sentinel.
	TypeVoid = "void"

	// TypeRNG is the library's mutable generator handle.
	TypeRNG = "gsl_rng*"
)

// goTypes is the fixed mapping table from C type-token tuples to Go type
// names. Keys are the tokens joined with a single space.
var goTypes = map[string]string{
	"double":           TypeFloat64,
	"int":              TypeInt32,
	"const int":        TypeInt32,
	"const double":     TypeFloat64,
	"unsigned int":     TypeUint32,
	"double *":         TypeDoublePtr,
	"int *":            TypeIntPtr,
	"const gsl_mode_t": TypeMode,
	"gsl_rng *":        TypeRNG,
	"void":             TypeVoid,
}

// GoType maps a C type-token sequence to a Go type name. Unrecognized
// sequences pass through verbatim (tokens joined with a space); the
// pass-through is not an error — the signature filter later rejects
// signatures carrying unmapped types. Pure: no state, no side effects.
func GoType(tokens ...string) string {
	key := strings.Join(tokens, " ")
	if t, ok := goTypes[key]; ok {
		return t
	}
	return key
}

// ScalarType reports whether t is one of the safe scalar Go types.
func ScalarType(t string) bool {
	return t == TypeFloat64 || t == TypeInt32 || t == TypeUint32
}
