package transform

import (
	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// rule describes how a construct kind becomes a node. A nil children
// selector makes the construct a leaf.
type rule struct {
	value    func(c *syntax.Construct) string
	children func(c *syntax.Construct) []*syntax.Construct
	span     func(c *syntax.Construct) tree.SourceRange
}

var rules = map[syntax.Kind]rule{
	syntax.KindFor:          {value: exprText, children: body},
	syntax.KindForeach:      {value: foreachValue, children: body},
	syntax.KindDo:           {value: exprText, children: body},
	syntax.KindWhile:        {value: exprText, children: body},
	syntax.KindSwitch:       {value: exprText, children: statements},
	syntax.KindLabeled:      {value: labelText, children: body},
	syntax.KindSynchronized: {value: exprText, children: body},

	syntax.KindCase:             {value: caseValue},
	syntax.KindAssert:           {value: assertValue},
	syntax.KindBreak:            {value: labelText},
	syntax.KindContinue:         {value: labelText},
	syntax.KindReturn:           {value: terminated},
	syntax.KindThrow:            {value: terminated},
	syntax.KindYield:            {value: terminated},
	syntax.KindConstructorCall:  {value: sourceText},
	syntax.KindEmpty:            {value: empty},
	syntax.KindLocalDeclaration: {value: sourceText, span: declarationSpan},
	syntax.KindTypeDeclaration:  {value: sourceText},
}

// expressionRule flattens any expression used as a statement: the value
// gets a statement terminator and the range grows by one to cover it.
var expressionRule = rule{
	value: func(c *syntax.Construct) string { return c.Text + ";" },
	span: func(c *syntax.Construct) tree.SourceRange {
		return tree.SourceRange{Start: c.Range.Start, End: c.Range.End + 1}
	},
}

func (t *Transformer) visit(c *syntax.Construct) {
	if c == nil || c.Kind.IsComment() {
		return
	}
	switch c.Kind {
	case syntax.KindBlock:
		for _, s := range c.Statements {
			t.visit(s)
		}
	case syntax.KindIf:
		t.visitIf(c)
	case syntax.KindTry:
		t.visitTry(c)
	default:
		r, ok := rules[c.Kind]
		if !ok {
			if c.Kind.IsExpression() {
				r = expressionRule
			} else {
				r = rule{value: sourceText}
			}
		}
		t.visitRule(c, r)
	}
}

func (t *Transformer) visitRule(c *syntax.Construct, r rule) {
	t.preVisit(c)
	rng := c.Range
	if r.span != nil {
		rng = r.span(c)
	}
	n := t.push(t.oracle.Classify(c), r.value(c), rng)
	if r.children != nil {
		for _, child := range r.children(c) {
			t.visit(child)
		}
	}
	t.pop(n, c)
	t.postVisit(c)
}

// visitIf emits IF_STATEMENT with THEN_STATEMENT and ELSE_STATEMENT wrappers
// that carry the condition and span their branch.
func (t *Transformer) visitIf(c *syntax.Construct) {
	t.preVisit(c)
	cond := exprText(c)
	n := t.push(tree.IfStatement, cond, c.Range)
	t.branch(tree.ThenStatement, cond, c.Then)
	t.branch(tree.ElseStatement, cond, c.Else)
	t.pop(n, c)
	t.postVisit(c)
}

func (t *Transformer) branch(label tree.Label, cond string, b *syntax.Construct) {
	if b == nil {
		return
	}
	n := t.push(label, cond, b.Range)
	t.visit(b)
	t.pop(n, b)
}

// visitTry emits the try node with BODY, CATCH_CLAUSES and FINALLY
// wrappers. Resources of a try-with-resources are not traversed.
func (t *Transformer) visitTry(c *syntax.Construct) {
	t.preVisit(c)
	n := t.push(t.oracle.Classify(c), "", c.Range)

	prevEnd := c.Range.Start
	if c.Body != nil {
		b := t.push(tree.Body, "", c.Body.Range)
		t.visit(c.Body)
		t.pop(b, c.Body)
		prevEnd = c.Body.Range.End
	}

	if len(c.Catches) > 0 {
		last := c.Catches[len(c.Catches)-1]
		clauses := t.push(tree.CatchClauses, "", tree.SourceRange{Start: prevEnd, End: blockEnd(last)})
		for _, cc := range c.Catches {
			start := t.locator.LocateKeyword(tree.SourceRange{Start: prevEnd, End: catchArgStart(cc)}, "catch")
			clause := t.push(tree.CatchClause, cc.TypeText(), tree.SourceRange{Start: start, End: blockEnd(cc)})
			if cc.Block != nil {
				t.visit(cc.Block)
			}
			t.pop(clause, cc.Type)
			prevEnd = blockEnd(cc)
		}
		t.pop(clauses, nil)
	}

	if c.Finally != nil {
		f := t.push(tree.Finally, "", c.Finally.Range)
		t.visit(c.Finally)
		t.pop(f, c.Finally)
	}

	t.pop(n, c)
	t.postVisit(c)
}

func catchArgStart(cc *syntax.Catch) int {
	switch {
	case cc.Param != nil:
		return cc.Param.Range.Start
	case cc.Type != nil:
		return cc.Type.Range.Start
	case cc.Block != nil:
		return cc.Block.Range.Start
	}
	return syntax.NotFound
}

func blockEnd(cc *syntax.Catch) int {
	if cc.Block == nil {
		return catchArgStart(cc)
	}
	return cc.Block.Range.End
}

func exprText(c *syntax.Construct) string {
	return syntax.TextOf(c.Expr)
}

func labelText(c *syntax.Construct) string {
	return c.Label
}

func sourceText(c *syntax.Construct) string {
	return c.Text
}

func empty(*syntax.Construct) string {
	return ""
}

func foreachValue(c *syntax.Construct) string {
	return syntax.TextOf(c.Element) + ":" + syntax.TextOf(c.Expr)
}

func caseValue(c *syntax.Construct) string {
	if c.Expr == nil {
		return "default"
	}
	return c.Expr.Text
}

func assertValue(c *syntax.Construct) string {
	v := syntax.TextOf(c.Expr)
	if c.Message != nil {
		v += ":" + c.Message.Text
	}
	return v
}

// terminated renders the statement's expression followed by a terminator,
// or nothing when the expression is absent.
func terminated(c *syntax.Construct) string {
	if c.Expr == nil {
		return ""
	}
	return c.Expr.Text + ";"
}

// declarationSpan runs from the declared type to one past the initializer,
// covering the terminator.
func declarationSpan(c *syntax.Construct) tree.SourceRange {
	rng := c.Range
	if c.Type != nil {
		rng.Start = c.Type.Range.Start
	}
	if c.Init != nil {
		rng.End = c.Init.Range.End + 1
	}
	return rng
}

func body(c *syntax.Construct) []*syntax.Construct {
	if c.Body == nil {
		return nil
	}
	return []*syntax.Construct{c.Body}
}

func statements(c *syntax.Construct) []*syntax.Construct {
	return c.Statements
}
