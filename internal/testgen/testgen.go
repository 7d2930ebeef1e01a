// Package testgen turns native TEST_SF assertion lines into normalized
// literal records for the generated conformance tests. Only the fixed call
// shape `TEST_SF(<ignored>, <function>, (<args...>, &r), <expected>,
// <tolerance>);` is recognized; anything else on a line yields no record.
// Assertions whose arguments reference variables or symbolic names cannot
// be mechanically translated without surrounding test context and are
// discarded, never errors.
package testgen

import (
	"regexp"
	"strings"

	"github.com/jward/gslgen/internal/hdr"
	"github.com/jward/gslgen/internal/store"
)

// DB is the function lookup the extractor needs: native identifier to
// database entry with argument-type metadata.
type DB interface {
	FunctionByCName(cname string) (*store.Function, error)
}

// Record is one normalized literal assertion.
type Record struct {
	Target    string // generated function name
	Args      []string
	Expected  string
	Tolerance string
}

// Group is every accepted record for one target function, in encounter
// order. A function with zero accepted records produces no group.
type Group struct {
	Name    string
	Records []Record
}

// The native test corpus carries one malformed constant expression with a
// missing decimal point immediately before a unary minus. This is a
// narrow single-site patch, not a general rule.
const (
	malformedExpr = "4097-1.0/4096.0"
	patchedExpr   = "4097.-1.0/4096.0"
)

var intLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// Extract parses test source line by line and returns record groups keyed
// by generated function name, grouped in encounter order.
func Extract(src string, db DB) ([]*Group, error) {
	var groups []*Group
	byName := make(map[string]*Group)

	for _, line := range strings.Split(src, "\n") {
		rec, ok, err := parseLine(line, db)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		g := byName[rec.Target]
		if g == nil {
			g = &Group{Name: rec.Target}
			byName[rec.Target] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, rec)
	}
	return groups, nil
}

// parseLine extracts at most one record from a line. ok is false for
// lines that do not match the call shape, reference unknown or excluded
// functions, or carry untranslatable arguments.
func parseLine(line string, db DB) (Record, bool, error) {
	fields, ok := callFields(line)
	if !ok {
		return Record{}, false, nil
	}
	cname := strings.TrimSpace(fields[1])

	fn, err := db.FunctionByCName(cname)
	if err != nil {
		return Record{}, false, err
	}
	if fn == nil || fn.Excluded || len(fn.Args) == 0 {
		return Record{}, false, nil
	}

	tuple, ok := tupleEntries(fields[2])
	if !ok || len(tuple) != len(fn.Args) {
		return Record{}, false, nil
	}

	var args []string
	nonIntArg := false
	for i, entry := range tuple {
		if fn.Args[i].Type == hdr.TypeResultPtr {
			continue // the result pointer is not a call argument
		}
		text, ok := normalizeArg(entry, fn.Args[i].Type)
		if !ok {
			return Record{}, false, nil
		}
		if !intLiteral.MatchString(text) {
			nonIntArg = true
		}
		args = append(args, text)
	}

	expected, ok := normalizeExpected(fields[3], nonIntArg)
	if !ok {
		return Record{}, false, nil
	}

	return Record{
		Target:    fn.GoName,
		Args:      args,
		Expected:  expected,
		Tolerance: strings.TrimSpace(fields[4]),
	}, true, nil
}

// callFields splits the TEST_SF call into its five top-level fields:
// ignored, function identifier, argument tuple, expected, tolerance.
func callFields(line string) ([]string, bool) {
	idx := strings.Index(line, "TEST_SF(")
	if idx < 0 {
		return nil, false
	}
	inner, ok := balancedInner(line[idx+len("TEST_SF"):])
	if !ok {
		return nil, false
	}
	fields := splitTopLevel(inner)
	if len(fields) != 5 {
		return nil, false
	}
	tuple := strings.TrimSpace(fields[2])
	if !strings.HasPrefix(tuple, "(") || !strings.HasSuffix(tuple, ")") {
		return nil, false
	}
	return fields, true
}

// balancedInner returns the text inside the balanced parentheses that s
// must start with.
func balancedInner(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") {
		return "", false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits on commas not nested inside parentheses.
func splitTopLevel(s string) []string {
	var fields []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, s[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, s[start:])
}

// tupleEntries splits the parenthesized argument tuple into its entries.
func tupleEntries(field string) ([]string, bool) {
	inner, ok := balancedInner(strings.TrimSpace(field))
	if !ok {
		return nil, false
	}
	entries := splitTopLevel(inner)
	for i := range entries {
		entries[i] = strings.TrimSpace(entries[i])
	}
	return entries, true
}

// normalizeArg rewrites one argument's source text. Integer constants
// declared as floating-point become explicit float literals; everything
// else is kept verbatim (arithmetic expressions included) with any
// leading + sign stripped. Returns ok=false when the text references
// identifiers that cannot be mechanically translated.
func normalizeArg(text, declType string) (string, bool) {
	text = strings.Replace(text, malformedExpr, patchedExpr, 1)
	if intLiteral.MatchString(text) && declType == hdr.TypeFloat64 {
		return text + ".0", true
	}
	text = strings.TrimPrefix(text, "+")
	if hasBareIdentifier(text) {
		return "", false
	}
	return text, true
}

// normalizeExpected applies the argument rules plus the leading-dot
// fix-up: a literal starting with a bare decimal point gains an explicit
// leading zero, with optional sign handled (-.5 → -0.5, +.5 → 0.5).
func normalizeExpected(text string, nonIntArg bool) (string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "+")
	switch {
	case strings.HasPrefix(text, "."):
		text = "0" + text
	case strings.HasPrefix(text, "-."):
		text = "-0" + text[1:]
	}
	if intLiteral.MatchString(text) && nonIntArg {
		return text + ".0", true
	}
	if hasBareIdentifier(text) {
		return "", false
	}
	return text, true
}

// hasBareIdentifier reports whether text contains an alphabetic character
// outside literal numeric syntax. The only letter allowed is an exponent
// e/E directly following a digit or decimal point.
func hasBareIdentifier(text string) bool {
	runes := []rune(text)
	for i, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			if (r == 'e' || r == 'E') && i > 0 {
				prev := runes[i-1]
				if (prev >= '0' && prev <= '9') || prev == '.' {
					continue
				}
			}
			return true
		}
	}
	return false
}
