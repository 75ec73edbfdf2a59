package store

import "sync"

// BatchedStore buffers tree inserts in memory using fake (negative) IDs. It
// implements DataStore so SaveTree can write to it without knowing whether
// it's hitting SQLite or an in-memory buffer.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
type BatchedStore struct {
	mu sync.Mutex

	// Buffered data, in insertion order.
	Bodies       []Body
	Nodes        []Node
	Associations []Association

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates an empty BatchedStore. Its contents reach SQLite
// through Store.CommitBatch.
func NewBatchedStore() *BatchedStore {
	return &BatchedStore{
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertBody(body *Body) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	body.ID = fakeID
	b.Bodies = append(b.Bodies, *body)
	return fakeID, nil
}

func (b *BatchedStore) InsertNode(n *Node) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	n.ID = fakeID
	b.Nodes = append(b.Nodes, *n)
	return fakeID, nil
}

func (b *BatchedStore) InsertAssociation(a *Association) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	a.ID = fakeID
	b.Associations = append(b.Associations, *a)
	return fakeID, nil
}
