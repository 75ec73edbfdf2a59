package changedistiller

import (
	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/store"
	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// Public type aliases for internal types used in the Engine and QueryBuilder
// API. These are Go type aliases (=) — identical to the internal types at
// compile time. External consumers use these names; no conversion is needed.

type Store = store.Store
type File = store.File
type Body = store.Body

type Node = tree.Node
type Label = tree.Label
type SourceRange = tree.SourceRange

type Construct = syntax.Construct
type Oracle = classify.Oracle

// BodyTree is the distilled tree of one method or constructor body.
type BodyTree struct {
	Name string
	// Owner is the dotted chain of enclosing type names.
	Owner       string
	Signature   string
	Constructor bool
	Range       SourceRange
	Root        *Node
	// Unplaced holds the body's comments that were never anchored, in
	// source order. They all follow the last statement.
	Unplaced []*Construct
}

// LabelCount is the number of stored nodes carrying one label.
type LabelCount struct {
	Label Label
	Count int
}
