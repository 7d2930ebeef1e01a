package hdr

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// Decl is one raw function declaration located in header text:
// `<word> <identifier> ( <argument-list> ) ;`. Ret and CName are the
// leading type word and the identifier; RawArgs is the verbatim text
// between the parentheses, comments included.
type Decl struct {
	Ret     string
	CName   string
	RawArgs string
}

// ScanHeader locates every declaration of the supported surface shape in
// header source. The header is parsed once with the tree-sitter C grammar
// and the tree is walked for declaration nodes; declarations that do not
// match the shape (pointer returns, multi-word return types, empty or
// void parameter lists, function definitions) are skipped, not errors.
func ScanHeader(ctx context.Context, src []byte) ([]Decl, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("scan header: %w", err)
	}
	defer tree.Close()

	var decls []Decl
	collectDecls(tree.RootNode(), src, &decls)
	return decls, nil
}

// collectDecls walks the tree recursively so declarations nested under
// preprocessor conditionals (or recovered error nodes) are still found.
func collectDecls(node *sitter.Node, src []byte, out *[]Decl) {
	if node.Type() == "declaration" {
		if d, ok := declFromNode(node, src); ok {
			*out = append(*out, d)
		}
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectDecls(node.NamedChild(i), src, out)
	}
}

func declFromNode(node *sitter.Node, src []byte) (Decl, bool) {
	typeNode := node.ChildByFieldName("type")
	declarator := node.ChildByFieldName("declarator")
	if typeNode == nil || declarator == nil {
		return Decl{}, false
	}
	// The return type must be a single word.
	ret := typeNode.Content(src)
	if strings.ContainsAny(ret, " \t\n") {
		return Decl{}, false
	}
	if declarator.Type() != "function_declarator" {
		return Decl{}, false
	}
	ident := declarator.ChildByFieldName("declarator")
	params := declarator.ChildByFieldName("parameters")
	if ident == nil || params == nil || ident.Type() != "identifier" {
		return Decl{}, false
	}

	// Verbatim parameter text between the parentheses.
	start, end := params.StartByte()+1, params.EndByte()-1
	if end <= start {
		return Decl{}, false
	}
	rawArgs := string(src[start:end])
	if trimmed := strings.TrimSpace(rawArgs); trimmed == "" || trimmed == "void" {
		return Decl{}, false
	}

	return Decl{
		Ret:     ret,
		CName:   ident.Content(src),
		RawArgs: rawArgs,
	}, true
}

// DecomposeHeader scans header source and decomposes every located
// declaration. A malformed argument list aborts the whole header parse —
// that is the input-format violation of the decomposition contract.
func DecomposeHeader(ctx context.Context, src []byte) ([]*Descriptor, error) {
	decls, err := ScanHeader(ctx, src)
	if err != nil {
		return nil, err
	}
	descriptors := make([]*Descriptor, 0, len(decls))
	for _, decl := range decls {
		d, err := Decompose(decl.CName, decl.Ret, decl.RawArgs)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
