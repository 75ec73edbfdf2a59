// Package syntax is the producer-neutral model of a parsed method body that
// the tree builder consumes: constructs with a kind, a source range, their
// source text and the kind-specific parts the builder needs.
package syntax

import "github.com/unibodydesignn/changedistiller/internal/tree"

// Construct is one syntactic unit of a body. Which parts are set depends on
// Kind; absent optional parts are nil or empty.
type Construct struct {
	Kind  Kind
	Range tree.SourceRange
	Text  string

	// Expr is the condition of if/while/do/for, the selector of a switch,
	// the guarded expression of synchronized, the value of return, throw and
	// yield, the condition of assert, the constant of a case label and the
	// collection of a foreach.
	Expr *Construct
	// Message is the optional assert message.
	Message *Construct

	Then *Construct
	Else *Construct

	// Body is the action of a loop, the try block, the body of synchronized
	// and the statement of a labeled statement.
	Body *Construct

	// Element is the element declaration of a foreach.
	Element *Construct

	// Type and Init are the declared type and last initializer of a local
	// variable declaration.
	Type *Construct
	Init *Construct

	// Statements holds the statements of a block, the labels and statements
	// of a switch in source order, and the body statements of a declaration.
	Statements []*Construct

	Catches []*Catch
	Finally *Construct

	// Label is the label of labeled, break and continue statements.
	Label string
}

// Catch is one catch clause of a try statement.
type Catch struct {
	// Param is the catch argument, e.g. `IOException | SQLException e`.
	Param *Construct
	// Type is the caught type, e.g. `IOException | SQLException`.
	Type  *Construct
	Block *Construct
}

// TypeText returns the caught type's text, falling back to the parameter.
func (c *Catch) TypeText() string {
	if c.Type != nil {
		return c.Type.Text
	}
	if c.Param != nil {
		return c.Param.Text
	}
	return ""
}

// TextOf returns c.Text, or "" for a nil construct.
func TextOf(c *Construct) string {
	if c == nil {
		return ""
	}
	return c.Text
}

// Comments filters the comment constructs out of cs, preserving order.
func Comments(cs []*Construct) []*Construct {
	var out []*Construct
	for _, c := range cs {
		if c.Kind.IsComment() {
			out = append(out, c)
		}
	}
	return out
}
