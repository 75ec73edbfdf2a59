package store

import "fmt"

// CommitBatch inserts all buffered data from a BatchedStore into SQLite
// within a single transaction. Fake (negative) IDs are remapped to real
// (positive, AUTOINCREMENT) IDs, and all FK references within the batch
// are rewritten using the fakeToReal mapping.
//
// Insert order respects FK dependencies:
//  1. Bodies (depend on file_id only, which is already real)
//  2. Nodes (depend on body_id and parent_id; parents precede children)
//  3. Associations (depend on body_id and both node ids)
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64)
	remap := func(id int64) (int64, error) {
		if id >= 0 {
			return id, nil
		}
		realID, ok := fakeToReal[id]
		if !ok {
			return 0, fmt.Errorf("id %d not in fakeToReal map", id)
		}
		return realID, nil
	}

	// 1. Bodies
	for _, b := range batch.Bodies {
		realID, err := insertBody(tx, &b)
		if err != nil {
			return fmt.Errorf("commit batch: body %q: %w", b.Signature, err)
		}
		fakeToReal[b.ID] = realID
	}

	// 2. Nodes
	for _, n := range batch.Nodes {
		if n.BodyID, err = remap(n.BodyID); err != nil {
			return fmt.Errorf("commit batch: node %s: body: %w", n.Label, err)
		}
		if n.ParentID != nil {
			parent, err := remap(*n.ParentID)
			if err != nil {
				return fmt.Errorf("commit batch: node %s: parent: %w", n.Label, err)
			}
			n.ParentID = &parent
		}
		realID, err := insertNode(tx, &n)
		if err != nil {
			return fmt.Errorf("commit batch: node %s: %w", n.Label, err)
		}
		fakeToReal[n.ID] = realID
	}

	// 3. Associations
	for _, a := range batch.Associations {
		if a.BodyID, err = remap(a.BodyID); err != nil {
			return fmt.Errorf("commit batch: association: %w", err)
		}
		if a.NodeID, err = remap(a.NodeID); err != nil {
			return fmt.Errorf("commit batch: association: %w", err)
		}
		if a.AssociatedID, err = remap(a.AssociatedID); err != nil {
			return fmt.Errorf("commit batch: association: %w", err)
		}
		if _, err := insertAssociation(tx, &a); err != nil {
			return fmt.Errorf("commit batch: association: %w", err)
		}
	}

	return tx.Commit()
}
