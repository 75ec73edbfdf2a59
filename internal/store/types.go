package store

import "time"

type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LineCount   int
	HasErrors   bool
	LastIndexed time.Time
}

// Body is one distilled method or constructor. Byte offsets are half-open;
// lines are 0-based.
type Body struct {
	ID          int64
	FileID      int64
	Owner       string
	Name        string
	Signature   string
	Constructor bool
	StartByte   int
	EndByte     int
	StartLine   int
	EndLine     int
	TreeHash    string
	NodeCount   int
	// Unplaced counts the comments that were never anchored to a node.
	Unplaced int
}

// Node is one stored tree node. Siblings are ordered by Ordinal; the root
// has no parent.
type Node struct {
	ID        int64
	BodyID    int64
	ParentID  *int64
	Ordinal   int
	Label     string
	Value     string
	StartByte int
	EndByte   int
}

// Association is one symmetric comment association edge, stored once.
type Association struct {
	ID           int64
	BodyID       int64
	NodeID       int64
	AssociatedID int64
}
