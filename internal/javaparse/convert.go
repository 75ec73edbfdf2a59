package javaparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// converter maps tree-sitter nodes to syntax constructs.
type converter struct {
	src []byte
}

func (cv *converter) text(n *sitter.Node) string {
	return n.Content(cv.src)
}

func rangeOf(n *sitter.Node) tree.SourceRange {
	return tree.SourceRange{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (cv *converter) leaf(kind syntax.Kind, n *sitter.Node) *syntax.Construct {
	return &syntax.Construct{Kind: kind, Range: rangeOf(n), Text: cv.text(n)}
}

// span builds an expression construct covering from..to inclusive of both
// nodes.
func (cv *converter) span(kind syntax.Kind, from, to *sitter.Node) *syntax.Construct {
	r := tree.SourceRange{Start: int(from.StartByte()), End: int(to.EndByte())}
	return &syntax.Construct{Kind: kind, Range: r, Text: string(cv.src[r.Start:r.End])}
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "line_comment", "block_comment", "comment":
		return true
	}
	return false
}

func (cv *converter) comment(n *sitter.Node) *syntax.Construct {
	text := cv.text(n)
	kind := syntax.KindBlockComment
	switch {
	case strings.HasPrefix(text, "//"):
		kind = syntax.KindLineComment
	case strings.HasPrefix(text, "/**") && text != "/**/":
		kind = syntax.KindJavadoc
	}
	return &syntax.Construct{Kind: kind, Range: rangeOf(n), Text: text}
}

// namedChildren returns n's named children without comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if !isComment(c) {
			out = append(out, c)
		}
	}
	return out
}

func firstNamed(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range namedChildren(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

func lastNamed(n *sitter.Node, typ string) *sitter.Node {
	var last *sitter.Node
	for _, c := range namedChildren(n) {
		if c.Type() == typ {
			last = c
		}
	}
	return last
}

// statements converts the statements of a block-like node: a block, a
// constructor body or a switch group.
func (cv *converter) statements(n *sitter.Node) []*syntax.Construct {
	var out []*syntax.Construct
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() {
			if c.Type() == ";" {
				out = append(out, cv.leaf(syntax.KindEmpty, c))
			}
			continue
		}
		if s := cv.statement(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// statement converts one statement node. Comments and nodes that are not
// statements (including error nodes) yield nil.
func (cv *converter) statement(n *sitter.Node) *syntax.Construct {
	if n == nil || isComment(n) {
		return nil
	}
	switch n.Type() {
	case "block", "constructor_body":
		c := cv.leaf(syntax.KindBlock, n)
		c.Statements = cv.statements(n)
		return c

	case ";":
		return cv.leaf(syntax.KindEmpty, n)

	case "expression_statement":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		if kids[0].Type() == "switch_expression" {
			return cv.statement(kids[0])
		}
		return cv.expression(kids[0])

	case "labeled_statement":
		c := cv.leaf(syntax.KindLabeled, n)
		kids := namedChildren(n)
		if len(kids) > 0 && kids[0].Type() == "identifier" {
			c.Label = cv.text(kids[0])
		}
		if len(kids) > 1 {
			c.Body = cv.statement(kids[len(kids)-1])
		}
		return c

	case "if_statement":
		c := cv.leaf(syntax.KindIf, n)
		c.Expr = cv.condition(n.ChildByFieldName("condition"))
		c.Then = cv.statement(n.ChildByFieldName("consequence"))
		c.Else = cv.statement(n.ChildByFieldName("alternative"))
		return c

	case "while_statement":
		c := cv.leaf(syntax.KindWhile, n)
		c.Expr = cv.condition(n.ChildByFieldName("condition"))
		c.Body = cv.statement(n.ChildByFieldName("body"))
		return c

	case "do_statement":
		c := cv.leaf(syntax.KindDo, n)
		c.Expr = cv.condition(n.ChildByFieldName("condition"))
		c.Body = cv.statement(n.ChildByFieldName("body"))
		return c

	case "for_statement":
		c := cv.leaf(syntax.KindFor, n)
		if cond := n.ChildByFieldName("condition"); cond != nil {
			c.Expr = cv.expression(cond)
		}
		c.Body = cv.statement(n.ChildByFieldName("body"))
		return c

	case "enhanced_for_statement":
		return cv.foreach(n)

	case "switch_expression", "switch_statement":
		c := cv.leaf(syntax.KindSwitch, n)
		c.Expr = cv.condition(n.ChildByFieldName("condition"))
		if b := n.ChildByFieldName("body"); b != nil {
			c.Statements = cv.switchBlock(b)
		}
		return c

	case "synchronized_statement":
		c := cv.leaf(syntax.KindSynchronized, n)
		c.Expr = cv.condition(firstNamed(n, "parenthesized_expression"))
		body := n.ChildByFieldName("body")
		if body == nil {
			body = lastNamed(n, "block")
		}
		c.Body = cv.statement(body)
		return c

	case "local_variable_declaration":
		c := cv.leaf(syntax.KindLocalDeclaration, n)
		if t := n.ChildByFieldName("type"); t != nil {
			c.Type = cv.leaf(syntax.KindExpression, t)
		}
		if d := lastNamed(n, "variable_declarator"); d != nil {
			if v := d.ChildByFieldName("value"); v != nil {
				c.Init = cv.expression(v)
			}
		}
		return c

	case "assert_statement":
		c := cv.leaf(syntax.KindAssert, n)
		kids := namedChildren(n)
		if len(kids) > 0 {
			c.Expr = cv.expression(kids[0])
		}
		if len(kids) > 1 {
			c.Message = cv.expression(kids[1])
		}
		return c

	case "break_statement", "continue_statement":
		kind := syntax.KindBreak
		if n.Type() == "continue_statement" {
			kind = syntax.KindContinue
		}
		c := cv.leaf(kind, n)
		if id := firstNamed(n, "identifier"); id != nil {
			c.Label = cv.text(id)
		}
		return c

	case "return_statement", "throw_statement", "yield_statement":
		kind := map[string]syntax.Kind{
			"return_statement": syntax.KindReturn,
			"throw_statement":  syntax.KindThrow,
			"yield_statement":  syntax.KindYield,
		}[n.Type()]
		c := cv.leaf(kind, n)
		if kids := namedChildren(n); len(kids) > 0 {
			c.Expr = cv.expression(kids[0])
		}
		return c

	case "try_statement", "try_with_resources_statement":
		return cv.try(n)

	case "explicit_constructor_invocation":
		return cv.leaf(syntax.KindConstructorCall, n)

	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration", "local_class_declaration":
		return cv.leaf(syntax.KindTypeDeclaration, n)
	}
	return nil
}

// condition unwraps a parenthesized expression.
func (cv *converter) condition(n *sitter.Node) *syntax.Construct {
	if n == nil {
		return nil
	}
	if n.Type() == "parenthesized_expression" {
		if kids := namedChildren(n); len(kids) > 0 {
			return cv.expression(kids[0])
		}
	}
	return cv.expression(n)
}

// foreach builds a foreach construct. Element spans the modifiers, type and
// variable name before the colon.
func (cv *converter) foreach(n *sitter.Node) *syntax.Construct {
	c := cv.leaf(syntax.KindForeach, n)
	value := n.ChildByFieldName("value")
	if value != nil {
		c.Expr = cv.expression(value)
	}
	c.Body = cv.statement(n.ChildByFieldName("body"))

	kids := namedChildren(n)
	if len(kids) == 0 || value == nil {
		return c
	}
	start := int(kids[0].StartByte())
	end := int(value.StartByte())
	if start < end {
		text := strings.TrimRight(string(cv.src[start:end]), " \t\r\n:")
		c.Element = &syntax.Construct{
			Kind:  syntax.KindExpression,
			Range: tree.SourceRange{Start: start, End: start + len(text)},
			Text:  text,
		}
	}
	return c
}

// switchBlock flattens labels and statements of a switch body in source
// order. Each label becomes a case construct.
func (cv *converter) switchBlock(b *sitter.Node) []*syntax.Construct {
	var out []*syntax.Construct
	for _, g := range namedChildren(b) {
		switch g.Type() {
		case "switch_block_statement_group":
			for i := 0; i < int(g.ChildCount()); i++ {
				c := g.Child(i)
				switch {
				case c.Type() == "switch_label":
					out = append(out, cv.caseLabel(c))
				case !c.IsNamed():
					if c.Type() == ";" {
						out = append(out, cv.leaf(syntax.KindEmpty, c))
					}
				default:
					if s := cv.statement(c); s != nil {
						out = append(out, s)
					}
				}
			}
		case "switch_rule":
			for _, c := range namedChildren(g) {
				if c.Type() == "switch_label" {
					out = append(out, cv.caseLabel(c))
					continue
				}
				if s := cv.statement(c); s != nil {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func (cv *converter) caseLabel(n *sitter.Node) *syntax.Construct {
	c := cv.leaf(syntax.KindCase, n)
	kids := namedChildren(n)
	if strings.HasPrefix(c.Text, "default") || len(kids) == 0 {
		return c
	}
	c.Expr = cv.span(syntax.KindExpression, kids[0], kids[len(kids)-1])
	return c
}

func (cv *converter) try(n *sitter.Node) *syntax.Construct {
	c := cv.leaf(syntax.KindTry, n)
	c.Body = cv.statement(n.ChildByFieldName("body"))
	for _, k := range namedChildren(n) {
		switch k.Type() {
		case "catch_clause":
			cc := &syntax.Catch{}
			if p := firstNamed(k, "catch_formal_parameter"); p != nil {
				cc.Param = cv.leaf(syntax.KindExpression, p)
				if t := firstNamed(p, "catch_type"); t != nil {
					cc.Type = cv.leaf(syntax.KindExpression, t)
				}
			}
			blk := k.ChildByFieldName("body")
			if blk == nil {
				blk = lastNamed(k, "block")
			}
			cc.Block = cv.statement(blk)
			c.Catches = append(c.Catches, cc)
		case "finally_clause":
			c.Finally = cv.statement(lastNamed(k, "block"))
		}
	}
	return c
}

// expression maps an expression node to a leaf construct of the matching
// kind. Operands are not converted.
func (cv *converter) expression(n *sitter.Node) *syntax.Construct {
	return cv.leaf(cv.expressionKind(n), n)
}

func (cv *converter) expressionKind(n *sitter.Node) syntax.Kind {
	switch n.Type() {
	case "assignment_expression":
		if op := n.ChildByFieldName("operator"); op != nil && cv.text(op) != "=" {
			return syntax.KindCompoundAssignment
		}
		return syntax.KindAssignment
	case "binary_expression":
		return cv.binaryKind(n)
	case "unary_expression":
		return syntax.KindUnary
	case "update_expression":
		if n.ChildCount() > 0 && !n.Child(0).IsNamed() {
			return syntax.KindPrefix
		}
		return syntax.KindPostfix
	case "cast_expression":
		return syntax.KindCast
	case "instanceof_expression":
		return syntax.KindInstanceOf
	case "ternary_expression":
		return syntax.KindConditional
	case "object_creation_expression":
		if firstNamed(n, "class_body") != nil {
			return syntax.KindQualifiedAllocation
		}
		if n.ChildCount() > 0 && n.Child(0).IsNamed() {
			return syntax.KindQualifiedAllocation
		}
		return syntax.KindAllocation
	case "array_creation_expression":
		return syntax.KindArrayAllocation
	case "array_initializer":
		return syntax.KindArrayInitializer
	case "method_invocation":
		return syntax.KindMessageSend
	case "class_literal":
		return syntax.KindClassLiteral
	case "character_literal":
		return syntax.KindCharLiteral
	case "string_literal", "text_block":
		return syntax.KindStringLiteral
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if t := cv.text(n); strings.HasSuffix(t, "l") || strings.HasSuffix(t, "L") {
			return syntax.KindLongLiteral
		}
		return syntax.KindIntLiteral
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if t := cv.text(n); strings.HasSuffix(t, "f") || strings.HasSuffix(t, "F") {
			return syntax.KindFloatLiteral
		}
		return syntax.KindDoubleLiteral
	case "true":
		return syntax.KindTrueLiteral
	case "false":
		return syntax.KindFalseLiteral
	case "null_literal":
		return syntax.KindNullLiteral
	}
	return syntax.KindExpression
}

func (cv *converter) binaryKind(n *sitter.Node) syntax.Kind {
	op := ""
	if o := n.ChildByFieldName("operator"); o != nil {
		op = cv.text(o)
	}
	switch op {
	case "&&":
		return syntax.KindAnd
	case "||":
		return syntax.KindOr
	case "==", "!=":
		return syntax.KindEqual
	case "+":
		if cv.isStringOperand(n.ChildByFieldName("left")) || cv.isStringOperand(n.ChildByFieldName("right")) {
			return syntax.KindStringConcatenation
		}
	}
	return syntax.KindBinary
}

func (cv *converter) isStringOperand(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "string_literal", "text_block":
		return true
	case "binary_expression":
		return cv.binaryKind(n) == syntax.KindStringConcatenation
	}
	return false
}
