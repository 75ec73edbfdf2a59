package changedistiller

import (
	"fmt"
	"sort"

	"github.com/unibodydesignn/changedistiller/internal/store"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// QueryBuilder provides read access to indexed trees.
type QueryBuilder struct {
	store *store.Store
}

// Files returns every indexed file ordered by path.
func (q *QueryBuilder) Files() ([]*File, error) {
	files, err := q.store.Files()
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	return files, nil
}

// Bodies returns the bodies of the file at path in source order, or nil if
// the file is not indexed.
func (q *QueryBuilder) Bodies(path string) ([]*Body, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("bodies: lookup file: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	bodies, err := q.store.BodiesByFile(f.ID)
	if err != nil {
		return nil, fmt.Errorf("bodies: %w", err)
	}
	return bodies, nil
}

// BodiesWithSignature returns every indexed body with the given signature,
// across files.
func (q *QueryBuilder) BodiesWithSignature(signature string) ([]*Body, error) {
	bodies, err := q.store.BodiesBySignature(signature)
	if err != nil {
		return nil, fmt.Errorf("bodies with signature: %w", err)
	}
	return bodies, nil
}

// Tree rebuilds the stored tree of a body, association edges included. It
// returns nil if the body does not exist.
func (q *QueryBuilder) Tree(bodyID int64) (*Node, error) {
	root, err := q.store.LoadTree(bodyID)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	return root, nil
}

// TreeBySignature finds the body of the file at path whose signature (or,
// failing that, bare name) matches and rebuilds its tree. It returns nils
// if there is no such body.
func (q *QueryBuilder) TreeBySignature(path, signature string) (*Body, *Node, error) {
	bodies, err := q.Bodies(path)
	if err != nil {
		return nil, nil, err
	}
	var match *Body
	for _, b := range bodies {
		if b.Signature == signature {
			match = b
			break
		}
		if match == nil && b.Name == signature {
			match = b
		}
	}
	if match == nil {
		return nil, nil, nil
	}
	root, err := q.Tree(match.ID)
	if err != nil {
		return nil, nil, err
	}
	return match, root, nil
}

// LabelSummary counts stored nodes per label, most frequent first.
func (q *QueryBuilder) LabelSummary() ([]LabelCount, error) {
	counts, err := q.store.LabelCounts()
	if err != nil {
		return nil, fmt.Errorf("label summary: %w", err)
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: tree.Label(label), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}
