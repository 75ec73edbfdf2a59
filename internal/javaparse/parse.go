// Package javaparse produces syntax constructs for the method and
// constructor bodies of a Java compilation unit, using tree-sitter.
package javaparse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// File is a parsed compilation unit. It is immutable after Parse and safe
// for concurrent reads; it holds no tree-sitter handles.
type File struct {
	Source   string
	Bodies   []*Body
	Comments []*syntax.Construct
	// HasErrors is set when tree-sitter recovered from syntax errors.
	HasErrors bool

	// keyword token → sorted start offsets
	keywords map[string][]int
}

// Body is one method or constructor with a body.
type Body struct {
	Name string
	// Owner is the dotted chain of enclosing type names, e.g. "Outer.Inner".
	Owner string
	// Signature is the name followed by the parameter types, e.g.
	// "put(String, List<Integer>)".
	Signature string
	// Constructor is set for constructors and compact record constructors.
	Constructor bool
	Decl        *syntax.Construct
	// Comments lie inside the declaration, in source order.
	Comments []*syntax.Construct
}

// Parse parses src and extracts every method and constructor body declared
// in a (possibly nested) type. Bodies of local and anonymous classes are
// part of their enclosing body and are not extracted separately.
func Parse(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(Grammar())

	t, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("javaparse: tree-sitter parse failed: %w", err)
	}
	defer t.Close()

	root := t.RootNode()
	cv := &converter{src: src}
	f := &File{
		Source:    string(src),
		HasErrors: root.HasError(),
		keywords:  make(map[string][]int),
	}

	cv.scan(root, f)
	for kw := range f.keywords {
		sort.Ints(f.keywords[kw])
	}
	sort.SliceStable(f.Comments, func(i, j int) bool {
		return f.Comments[i].Range.Start < f.Comments[j].Range.Start
	})

	cv.collectBodies(root, nil, f)
	for _, b := range f.Bodies {
		b.Comments = commentsWithin(f.Comments, b.Decl.Range)
	}
	return f, nil
}

// LocateKeyword returns the start of the first keyword token in r, or
// syntax.NotFound. Only real tokens count: keywords inside comments,
// literals and identifiers are never matched.
func (f *File) LocateKeyword(r tree.SourceRange, keyword string) int {
	starts := f.keywords[keyword]
	i := sort.SearchInts(starts, r.Start)
	if r.Start < 0 || i >= len(starts) || starts[i]+len(keyword) > r.End {
		return syntax.NotFound
	}
	return starts[i]
}

// Body returns the first body whose name or signature matches.
func (f *File) Body(nameOrSignature string) *Body {
	for _, b := range f.Bodies {
		if b.Signature == nameOrSignature || b.Name == nameOrSignature {
			return b
		}
	}
	return nil
}

func commentsWithin(comments []*syntax.Construct, r tree.SourceRange) []*syntax.Construct {
	var out []*syntax.Construct
	for _, c := range comments {
		if r.Contains(c.Range) {
			out = append(out, c)
		}
	}
	return out
}

// scan records every comment and keyword token in the tree.
func (cv *converter) scan(n *sitter.Node, f *File) {
	if isComment(n) {
		f.Comments = append(f.Comments, cv.comment(n))
		return
	}
	count := int(n.ChildCount())
	if count == 0 {
		if !n.IsNamed() && isKeyword(n.Type()) {
			f.keywords[n.Type()] = append(f.keywords[n.Type()], int(n.StartByte()))
		}
		return
	}
	for i := 0; i < count; i++ {
		cv.scan(n.Child(i), f)
	}
}

func isKeyword(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

var typeDeclarations = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

var typeBodies = map[string]bool{
	"class_body":             true,
	"interface_body":         true,
	"enum_body":              true,
	"enum_body_declarations": true,
	"annotation_type_body":   true,
}

// collectBodies walks type declarations and their member lists, never
// descending into a method body.
func (cv *converter) collectBodies(n *sitter.Node, owners []string, f *File) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch {
		case typeDeclarations[c.Type()]:
			name := ""
			if nn := c.ChildByFieldName("name"); nn != nil {
				name = cv.text(nn)
			}
			if b := c.ChildByFieldName("body"); b != nil {
				cv.collectBodies(b, append(owners[:len(owners):len(owners)], name), f)
			}
		case typeBodies[c.Type()]:
			cv.collectBodies(c, owners, f)
		case c.Type() == "method_declaration",
			c.Type() == "constructor_declaration",
			c.Type() == "compact_constructor_declaration":
			if b := cv.body(c, owners); b != nil {
				f.Bodies = append(f.Bodies, b)
			}
		}
	}
}

func (cv *converter) body(n *sitter.Node, owners []string) *Body {
	blk := n.ChildByFieldName("body")
	if blk == nil {
		return nil
	}
	name := ""
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = cv.text(nn)
	}
	decl := cv.leaf(syntax.KindDeclaration, n)
	decl.Statements = cv.statements(blk)
	return &Body{
		Name:        name,
		Owner:       strings.Join(owners, "."),
		Signature:   name + "(" + strings.Join(cv.paramTypes(n.ChildByFieldName("parameters")), ", ") + ")",
		Constructor: n.Type() != "method_declaration",
		Decl:        decl,
	}
}

func (cv *converter) paramTypes(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var types []string
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "formal_parameter":
			if t := p.ChildByFieldName("type"); t != nil {
				types = append(types, squash(cv.text(t)+cv.dimensions(p)))
			}
		case "spread_parameter":
			parts := namedChildren(p)
			var b strings.Builder
			for _, part := range parts {
				if part.Type() == "modifiers" || part.Type() == "variable_declarator" {
					continue
				}
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(cv.text(part))
			}
			types = append(types, squash(b.String())+"...")
		}
	}
	return types
}

// dimensions returns C-style array dimensions written after a parameter
// name, as in `int x[]`.
func (cv *converter) dimensions(p *sitter.Node) string {
	if d := p.ChildByFieldName("dimensions"); d != nil {
		return cv.text(d)
	}
	return ""
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
