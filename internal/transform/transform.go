// Package transform builds the generic labeled tree of one method body in a
// single depth-first pass and anchors the body's comments to nearby nodes.
//
// A Transformer is single-use and not safe for concurrent use. Callers that
// distill many bodies in parallel create one Transformer per body.
package transform

import (
	"fmt"

	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// Transformer turns the statements of one declaration into children of a
// root node.
type Transformer struct {
	src     string
	decl    *syntax.Construct
	oracle  classify.Oracle
	locator syntax.KeywordLocator

	stack []*tree.Node

	// Comment queue, ordered by source position.
	comments []*syntax.Construct
	pending  []pendingComment
	// Ranges of every comment in the body; never drained.
	commentRanges []tree.SourceRange

	lastVisited *syntax.Construct
	lastAdded   *tree.Node

	done bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithOracle sets the classification oracle. The default is
// classify.Default().
func WithOracle(o classify.Oracle) Option {
	return func(t *Transformer) {
		if o != nil {
			t.oracle = o
		}
	}
}

// WithKeywordLocator sets how catch keywords are found. The default scans
// the source text with syntax.TextScanner.
func WithKeywordLocator(l syntax.KeywordLocator) Option {
	return func(t *Transformer) {
		if l != nil {
			t.locator = l
		}
	}
}

// New returns a Transformer that will attach the statements of decl to
// root. src is the full source the construct ranges index into; comments
// are the comments lexically inside the declaration in source order. The
// comment slice is copied.
func New(root *tree.Node, decl *syntax.Construct, src string, comments []*syntax.Construct, opts ...Option) *Transformer {
	t := &Transformer{
		src:         src,
		decl:        decl,
		oracle:      classify.Default(),
		stack:       []*tree.Node{root},
		comments:    append([]*syntax.Construct(nil), comments...),
		lastVisited: decl,
		lastAdded:   root,
	}
	for _, c := range comments {
		t.commentRanges = append(t.commentRanges, c.Range)
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.locator == nil {
		t.locator = syntax.NewTextScanner(src)
	}
	return t
}

// Run traverses the declaration's statements and returns the root node.
// It panics if the traversal leaves the node stack unbalanced, or if it is
// called twice.
func (t *Transformer) Run() *tree.Node {
	if t.done {
		panic("transform: Run called twice")
	}
	t.done = true
	if t.decl != nil {
		for _, s := range t.decl.Statements {
			t.visit(s)
		}
	}
	if len(t.stack) != 1 {
		panic(fmt.Sprintf("transform: unbalanced node stack: depth %d after traversal", len(t.stack)))
	}
	if len(t.pending) != 0 {
		panic(fmt.Sprintf("transform: %d comment(s) still awaiting resolution", len(t.pending)))
	}
	return t.stack[0]
}

// PendingComments returns the comments that were never placed, in source
// order. It is empty when every comment lay between two visited constructs.
func (t *Transformer) PendingComments() []*syntax.Construct {
	return t.comments
}

// Depth returns the current size of the node stack; 1 outside a traversal.
func (t *Transformer) Depth() int {
	return len(t.stack)
}

func (t *Transformer) parent() *tree.Node {
	return t.stack[len(t.stack)-1]
}

// push attaches a new node to the current parent and makes it the parent.
func (t *Transformer) push(label tree.Label, value string, rng tree.SourceRange) *tree.Node {
	n := tree.NewNode(label, value, rng)
	t.parent().Add(n)
	t.stack = append(t.stack, n)
	return n
}

// pop removes n from the top of the stack and moves the cursors: visited
// becomes the last visited construct and n the last added node.
func (t *Transformer) pop(n *tree.Node, visited *syntax.Construct) {
	if len(t.stack) <= 1 {
		panic("transform: pop would remove the root node")
	}
	top := t.stack[len(t.stack)-1]
	if top != n {
		panic(fmt.Sprintf("transform: pop of %s but top of stack is %s", n, top))
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.lastVisited = visited
	t.lastAdded = n
}
