// Package patch splices generated documentation and test blocks into
// previously emitted module source at marker positions.
//
// Doc injection inserts a prose block immediately before a function's
// signature marker. It is NOT safely re-runnable: the marker text is
// unaffected by a previous injection, so running it again inserts a
// duplicate block. Doc injection must run exactly once per freshly
// emitted module.
//
// Test injection replaces everything after the single test-section
// boundary and IS idempotent: rerunning always converges to the same
// output for the same inputs.
package patch

import (
	"fmt"
	"strings"

	"github.com/jward/gslgen/internal/hdr"
)

// TestBoundary separates ordinary emitted source from the generated test
// section. It must occur exactly once in an emitted test file.
const TestBoundary = "\n// ---- generated conformance cases ----\n"

// NolintLine is the suppression attribute the emitter prepends to
// functions whose exported name trips the style checker.
const NolintLine = "//nolint:stylecheck"

// mathFrontMatter precedes any injected prose block that carries inline
// math snippets, so readers know how to interpret the delimiters.
const mathFrontMatter = "// Mathematical notation below uses inline math snippets\n" +
	"// delimited by $`...`$.\n"

// DocMarkers returns the marker variants for a function's generated
// signature, attribute-qualified variant first. goName is the database
// form; export casing is applied here, at marker-construction time.
func DocMarkers(goName string) []string {
	signature := "\nfunc " + hdr.Exported(goName) + "("
	return []string{
		"\n" + NolintLine + signature,
		signature,
	}
}

// InjectDoc inserts a comment block built from prose immediately before
// the signature marker for goName. The marker must occur exactly once;
// zero or multiple occurrences fail the injection for this function.
func InjectDoc(contents, goName, prose string) (string, error) {
	marker, err := findMarker(contents, goName)
	if err != nil {
		return "", err
	}
	before, after, _ := strings.Cut(contents, marker)
	return before + "\n\n" + commentBlock(prose) + marker + after, nil
}

// HasMarker reports whether contents carries a usable signature marker
// for goName. Used to skip functions that were filtered out of emission.
func HasMarker(contents, goName string) bool {
	_, err := findMarker(contents, goName)
	return err == nil
}

func findMarker(contents, goName string) (string, error) {
	for _, marker := range DocMarkers(goName) {
		switch n := strings.Count(contents, marker); n {
		case 0:
			continue
		case 1:
			return marker, nil
		default:
			return "", fmt.Errorf("inject docs: marker for %q occurs %d times", goName, n)
		}
	}
	return "", fmt.Errorf("inject docs: no marker for %q", goName)
}

// commentBlock renders prose as a line-comment block, math front matter
// included when the prose carries math snippets. The block ends with a
// newline so it sits directly above the signature marker.
func commentBlock(prose string) string {
	var sb strings.Builder
	if strings.Contains(prose, "$`") {
		sb.WriteString(mathFrontMatter)
	}
	for _, line := range strings.Split(prose, "\n") {
		if line == "" {
			sb.WriteString("//\n")
			continue
		}
		sb.WriteString("// " + line + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// InjectTests replaces everything after the test-section boundary with a
// freshly rendered block. The boundary must occur exactly once.
func InjectTests(contents, block string) (string, error) {
	switch n := strings.Count(contents, TestBoundary); n {
	case 1:
	default:
		return "", fmt.Errorf("inject tests: boundary occurs %d times", n)
	}
	before, _, _ := strings.Cut(contents, TestBoundary)
	return before + TestBoundary + "\n" + block, nil
}
