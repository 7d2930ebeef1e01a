// Package templates embeds the code-emission templates. The generator
// loads them through an fs.FS so tests can substitute their own.
package templates

import "embed"

//go:embed *.tmpl
var FS embed.FS
