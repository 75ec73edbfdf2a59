package store

import (
	"fmt"

	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// SaveTree writes root and its descendants in pre-order, then one
// association row per symmetric edge. It returns the number of nodes
// written.
func SaveTree(ds DataStore, bodyID int64, root *tree.Node) (int, error) {
	if root == nil {
		return 0, nil
	}
	ids := make(map[*tree.Node]int64)
	pos := make(map[*tree.Node]int)
	var order []*tree.Node

	var save func(n *tree.Node, parent *int64, ordinal int) error
	save = func(n *tree.Node, parent *int64, ordinal int) error {
		id, err := ds.InsertNode(&Node{
			BodyID:    bodyID,
			ParentID:  parent,
			Ordinal:   ordinal,
			Label:     string(n.Label),
			Value:     n.Value,
			StartByte: n.Range.Start,
			EndByte:   n.Range.End,
		})
		if err != nil {
			return fmt.Errorf("save node %s: %w", n, err)
		}
		ids[n] = id
		pos[n] = len(order)
		order = append(order, n)
		for i, c := range n.Children {
			if err := save(c, &id, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := save(root, nil, 0); err != nil {
		return 0, err
	}

	for i, n := range order {
		for _, a := range n.Associated() {
			// Each edge is seen from both ends; keep the one whose node comes first.
			j, ok := pos[a]
			if !ok || j < i {
				continue
			}
			if _, err := ds.InsertAssociation(&Association{
				BodyID:       bodyID,
				NodeID:       ids[n],
				AssociatedID: ids[a],
			}); err != nil {
				return 0, fmt.Errorf("save association %s ~ %s: %w", n, a, err)
			}
		}
	}
	return len(order), nil
}

// LoadTree rebuilds a stored body tree including its association edges.
// It returns nil if the body has no nodes.
func (s *Store) LoadTree(bodyID int64) (*tree.Node, error) {
	rows, err := s.NodesByBody(bodyID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*tree.Node, len(rows))
	var root *tree.Node
	for _, r := range rows {
		n := tree.NewNode(tree.Label(r.Label), r.Value, tree.SourceRange{Start: r.StartByte, End: r.EndByte})
		byID[r.ID] = n
		if r.ParentID == nil {
			if root != nil {
				return nil, fmt.Errorf("load tree %d: more than one root", bodyID)
			}
			root = n
			continue
		}
		parent, ok := byID[*r.ParentID]
		if !ok {
			return nil, fmt.Errorf("load tree %d: node %d precedes its parent %d", bodyID, r.ID, *r.ParentID)
		}
		parent.Add(n)
	}
	if root == nil {
		return nil, fmt.Errorf("load tree %d: no root node", bodyID)
	}

	assocs, err := s.AssociationsByBody(bodyID)
	if err != nil {
		return nil, err
	}
	for _, a := range assocs {
		from, to := byID[a.NodeID], byID[a.AssociatedID]
		if from == nil || to == nil {
			return nil, fmt.Errorf("load tree %d: association %d references a missing node", bodyID, a.ID)
		}
		from.AddAssociatedNode(to)
	}
	return root, nil
}
