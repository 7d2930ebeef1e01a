// Package manual extracts per-function documentation from the GSL
// reference manual HTML. Function blocks are <dl class="c function">
// elements whose <dt> id carries the native identifier and whose <dd>
// holds the prose. Two node rewrites run before conversion: math images
// become inline math-notation snippets built from their alt text, and
// hyperlinks are replaced by their child content — documentation must not
// carry dead or environment-specific links.
package manual

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	lineEdges  = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLines = regexp.MustCompile(`\n(\s*\n)+`)
)

// Extract parses manual markup and returns prose keyed by canonical
// identifier (native identifier minus the error-variant suffix).
// Entries whose identifier already denotes the simple form win; an
// error-variant-only entry is folded onto the canonical key.
func Extract(r io.Reader) (map[string]string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse manual: %w", err)
	}

	docs := make(map[string]string)
	for _, dl := range findAll(root, func(n *html.Node) bool {
		return n.Data == "dl" && hasClass(n, "c") && hasClass(n, "function")
	}) {
		name := functionID(dl)
		if name == "" {
			continue
		}
		name = strings.TrimPrefix(name, "c.")
		variant := strings.HasSuffix(name, "_e")
		key := strings.TrimSuffix(name, "_e")

		dd := findFirst(dl, func(n *html.Node) bool { return n.Data == "dd" })
		if dd == nil {
			continue
		}
		rewriteMathImages(dd)
		rewriteLinks(dd)
		prose := lineEdges.ReplaceAllString(render(dd), "\n")
		prose = strings.TrimSpace(blankLines.ReplaceAllString(prose, "\n"))

		if _, exists := docs[key]; exists && variant {
			continue // simple-form entry already present; keep it
		}
		docs[key] = prose
	}
	return docs, nil
}

// functionID returns the id of the signature <dt> inside a function block.
func functionID(dl *html.Node) string {
	dt := findFirst(dl, func(n *html.Node) bool {
		return n.Data == "dt" && attr(n, "id") != ""
	})
	if dt == nil {
		return ""
	}
	return attr(dt, "id")
}

// rewriteMathImages replaces every math image by an inline delimited
// math-notation snippet built from its alt text, so math survives as text
// rather than a lost image reference.
func rewriteMathImages(n *html.Node) {
	for _, img := range findAll(n, func(c *html.Node) bool {
		return c.Data == "img" && hasClass(c, "math")
	}) {
		snippet := &html.Node{Type: html.TextNode, Data: "$`" + attr(img, "alt") + "`$"}
		img.Parent.InsertBefore(snippet, img)
		img.Parent.RemoveChild(img)
	}
}

// rewriteLinks replaces every anchor by its child content, discarding the
// link target.
func rewriteLinks(n *html.Node) {
	for _, a := range findAll(n, func(c *html.Node) bool { return c.Data == "a" }) {
		for a.FirstChild != nil {
			child := a.FirstChild
			a.RemoveChild(child)
			a.Parent.InsertBefore(child, a)
		}
		a.Parent.RemoveChild(a)
	}
}

// render converts a rewritten subtree to markdown-flavored prose.
func render(n *html.Node) string {
	var sb strings.Builder
	renderChildren(&sb, n)
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c)
	}
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
	case html.ElementNode:
		switch n.Data {
		case "p", "div":
			renderChildren(sb, n)
			sb.WriteString("\n")
		case "code", "tt":
			sb.WriteString("`" + textContent(n) + "`")
		case "em", "i":
			sb.WriteString("*")
			renderChildren(sb, n)
			sb.WriteString("*")
		case "strong", "b":
			sb.WriteString("**")
			renderChildren(sb, n)
			sb.WriteString("**")
		case "li":
			sb.WriteString("- ")
			renderChildren(sb, n)
			sb.WriteString("\n")
		default:
			renderChildren(sb, n)
		}
	}
}

// collapseSpace squeezes whitespace runs to single spaces, keeping one
// leading/trailing space when the original had any (word boundaries).
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\n\r") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\n\r") != s {
		out += " "
	}
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll collects matching element nodes in document order. Matched
// nodes are not descended into.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
