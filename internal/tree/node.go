// Package tree defines the generic labeled tree (GLT) produced for a method
// body: nodes with a label, a trimmed value and a source range, plus a
// symmetric association relation used to anchor comments.
package tree

import (
	"fmt"
	"strings"
)

// SourceRange is a half-open byte range [Start, End) into the source text of
// the body a node was built from.
type SourceRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r SourceRange) Len() int {
	return r.End - r.Start
}

// Valid reports whether the range has a non-negative start and does not end
// before it starts.
func (r SourceRange) Valid() bool {
	return r.Start >= 0 && r.End >= r.Start
}

// Contains reports whether other lies entirely within r.
func (r SourceRange) Contains(other SourceRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r SourceRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Node is one node of a generic labeled tree. Children are owned by their
// parent; associated nodes are not.
type Node struct {
	Label    Label
	Value    string
	Range    SourceRange
	Children []*Node

	parent     *Node
	associated []*Node
}

// NewNode creates a detached node. The value is trimmed of surrounding
// whitespace.
func NewNode(label Label, value string, rng SourceRange) *Node {
	return &Node{
		Label: label,
		Value: strings.TrimSpace(value),
		Range: rng,
	}
}

// Add appends child to n's children and sets its parent.
func (n *Node) Add(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// AddAssociatedNode links n and other in both directions. Adding an existing
// edge again is a no-op.
func (n *Node) AddAssociatedNode(other *Node) {
	if other == nil {
		return
	}
	n.addAssociated(other)
	other.addAssociated(n)
}

func (n *Node) addAssociated(other *Node) {
	for _, a := range n.associated {
		if a == other {
			return
		}
	}
	n.associated = append(n.associated, other)
}

// Associated returns the nodes linked to n, in the order the links were made.
func (n *Node) Associated() []*Node {
	return n.associated
}

// IsAssociatedWith reports whether an association edge joins n and other.
func (n *Node) IsAssociatedWith(other *Node) bool {
	for _, a := range n.associated {
		if a == other {
			return true
		}
	}
	return false
}

// Walk calls fn for n and all its descendants in pre-order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q %s", n.Label, n.Value, n.Range)
}
