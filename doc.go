// Package gslgen generates cgo bindings and conformance tests for the
// GSL special-function library.
//
// The pipeline reads C headers from a GSL source tree, decomposes each
// declaration into a typed descriptor, and merges the results into a
// persistent SQLite function database. Filtered signature families are
// rendered through templates into module binding files; documentation
// from the reference manual and assertion records from the native test
// suite are then spliced into the emitted sources at marker positions.
//
// The database is the durable heart of the tool: discovered functions
// are never removed, and curated fields (exclusions, generated-name
// overrides) survive automatic refreshes. Curation happens through the
// CLI or through Risor scripts run against the database.
package gslgen
