package hdr

import "strings"

// OutputStructProfile accepts descriptors for the primary binding family:
// one gsl_sf_result output parameter, scalar inputs only, no precision-mode
// qualifier, no array parameters, and no stray pointer markers glued onto
// argument names. Rejected descriptors are silently dropped — the function
// is simply absent from the generated set and must be hand-written if
// needed.
func OutputStructProfile(d *Descriptor) bool {
	for _, arg := range d.Args {
		if strings.Contains(arg.Type, TypeMode) {
			return false
		}
		if strings.Contains(arg.Name, "*") {
			return false
		}
	}
	return d.HasSingleOutputParam && !d.TakesArrayParams
}

// PlainReturnProfile accepts descriptors for the secondary family of
// ordinary scalar-returning functions: every argument type on the
// whitelist and a real return value.
func PlainReturnProfile(d *Descriptor) bool {
	if d.Ret == TypeVoid {
		return false
	}
	for _, arg := range d.Args {
		switch arg.Type {
		case TypeFloat64, TypeUint32, TypeRNG:
		default:
			return false
		}
	}
	return true
}
