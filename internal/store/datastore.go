package store

// DataStore is the interface for distillation-phase writes. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering for parallel
// indexing) implement this interface.
type DataStore interface {
	// Inserts — each returns the assigned ID.
	InsertBody(b *Body) (int64, error)
	InsertNode(n *Node) (int64, error)
	InsertAssociation(a *Association) (int64, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
