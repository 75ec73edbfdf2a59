package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, language, hash, line_count, has_errors, last_indexed) VALUES (?, ?, ?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.LineCount, f.HasErrors, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

const fileCols = "id, path, language, hash, line_count, has_errors, last_indexed"

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	err := scanner.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LineCount, &f.HasErrors, &f.LastIndexed)
	return f, err
}

// FileByPath returns the file stored under path, or nil if there is none.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT " + fileCols + " FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SetFileHasErrors records whether the parser had to recover from syntax
// errors in a file.
func (s *Store) SetFileHasErrors(fileID int64, hasErrors bool) error {
	if _, err := s.db.Exec("UPDATE files SET has_errors = ? WHERE id = ?", hasErrors, fileID); err != nil {
		return fmt.Errorf("set file has_errors: %w", err)
	}
	return nil
}

// --- Body operations ---

func (s *Store) InsertBody(b *Body) (int64, error) {
	id, err := insertBody(s.db, b)
	if err != nil {
		return 0, fmt.Errorf("insert body: %w", err)
	}
	b.ID = id
	return id, nil
}

// BodyCols is the column list for body queries, exported for use by
// QueryBuilder.
const BodyCols = `id, file_id, owner, name, signature, is_constructor,
	start_byte, end_byte, start_line, end_line, tree_hash, node_count, unplaced`

// ScanBodyRow scans a single row selected with BodyCols.
func ScanBodyRow(scanner interface{ Scan(...any) error }) (*Body, error) {
	b := &Body{}
	var owner, hash sql.NullString
	err := scanner.Scan(
		&b.ID, &b.FileID, &owner, &b.Name, &b.Signature, &b.Constructor,
		&b.StartByte, &b.EndByte, &b.StartLine, &b.EndLine, &hash, &b.NodeCount, &b.Unplaced,
	)
	if err != nil {
		return nil, err
	}
	b.Owner = owner.String
	b.TreeHash = hash.String
	return b, nil
}

func (s *Store) queryBodies(query string, args ...any) ([]*Body, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bodies []*Body
	for rows.Next() {
		b, err := ScanBodyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan body: %w", err)
		}
		bodies = append(bodies, b)
	}
	return bodies, rows.Err()
}

// BodiesByFile returns a file's bodies in source order.
func (s *Store) BodiesByFile(fileID int64) ([]*Body, error) {
	return s.queryBodies("SELECT "+BodyCols+" FROM bodies WHERE file_id = ? ORDER BY start_byte, id", fileID)
}

// BodiesBySignature returns every body with the given signature, across files.
func (s *Store) BodiesBySignature(signature string) ([]*Body, error) {
	return s.queryBodies("SELECT "+BodyCols+" FROM bodies WHERE signature = ? ORDER BY file_id, start_byte", signature)
}

// BodyByID returns a body, or nil if there is none.
func (s *Store) BodyByID(id int64) (*Body, error) {
	b, err := ScanBodyRow(s.db.QueryRow("SELECT "+BodyCols+" FROM bodies WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("body by id: %w", err)
	}
	return b, nil
}

// --- Node operations ---

func (s *Store) InsertNode(n *Node) (int64, error) {
	id, err := insertNode(s.db, n)
	if err != nil {
		return 0, fmt.Errorf("insert node: %w", err)
	}
	n.ID = id
	return id, nil
}

// NodesByBody returns a body's nodes in insertion order, which is pre-order
// for trees written by SaveTree.
func (s *Store) NodesByBody(bodyID int64) ([]*Node, error) {
	rows, err := s.db.Query(
		`SELECT id, body_id, parent_id, ordinal, label, value, start_byte, end_byte
		 FROM nodes WHERE body_id = ? ORDER BY id`, bodyID,
	)
	if err != nil {
		return nil, fmt.Errorf("nodes by body: %w", err)
	}
	defer rows.Close()
	var nodes []*Node
	for rows.Next() {
		n := &Node{}
		var value sql.NullString
		if err := rows.Scan(&n.ID, &n.BodyID, &n.ParentID, &n.Ordinal, &n.Label, &value, &n.StartByte, &n.EndByte); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.Value = value.String
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// LabelCounts returns how many stored nodes carry each label.
func (s *Store) LabelCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT label, COUNT(*) FROM nodes GROUP BY label")
	if err != nil {
		return nil, fmt.Errorf("label counts: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

// --- Association operations ---

func (s *Store) InsertAssociation(a *Association) (int64, error) {
	id, err := insertAssociation(s.db, a)
	if err != nil {
		return 0, fmt.Errorf("insert association: %w", err)
	}
	a.ID = id
	return id, nil
}

func (s *Store) AssociationsByBody(bodyID int64) ([]*Association, error) {
	rows, err := s.db.Query(
		"SELECT id, body_id, node_id, associated_id FROM associations WHERE body_id = ? ORDER BY id", bodyID,
	)
	if err != nil {
		return nil, fmt.Errorf("associations by body: %w", err)
	}
	defer rows.Close()
	var out []*Association
	for rows.Next() {
		a := &Association{}
		if err := rows.Scan(&a.ID, &a.BodyID, &a.NodeID, &a.AssociatedID); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- Shared insert helpers ---
// These run against either the database or an open transaction.

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertBody(db execer, b *Body) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO bodies (file_id, owner, name, signature, is_constructor,
			start_byte, end_byte, start_line, end_line, tree_hash, node_count, unplaced)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.FileID, b.Owner, b.Name, b.Signature, b.Constructor,
		b.StartByte, b.EndByte, b.StartLine, b.EndLine, b.TreeHash, b.NodeCount, b.Unplaced,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertNode(db execer, n *Node) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO nodes (body_id, parent_id, ordinal, label, value, start_byte, end_byte)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.BodyID, n.ParentID, n.Ordinal, n.Label, n.Value, n.StartByte, n.EndByte,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertAssociation(db execer, a *Association) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO associations (body_id, node_id, associated_id) VALUES (?, ?, ?)",
		a.BodyID, a.NodeID, a.AssociatedID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
