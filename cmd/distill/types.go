package main

import (
	"github.com/unibodydesignn/changedistiller"
)

// CLIResult is the top-level JSON envelope for all commands that print
// results.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIBody is a JSON-friendly distilled body. Lines are 0-based.
type CLIBody struct {
	ID          int64    `json:"id,omitempty"`
	File        string   `json:"file,omitempty"`
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	Signature   string   `json:"signature"`
	Constructor bool     `json:"constructor,omitempty"`
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	Unplaced    []string `json:"unplaced,omitempty"`
	// UnplacedCount is set for stored bodies, whose comment texts are not kept.
	UnplacedCount int      `json:"unplaced_count,omitempty"`
	Tree          *CLINode `json:"tree"`
}

// CLINode is a JSON-friendly tree node. Byte offsets are half-open.
type CLINode struct {
	Label      string     `json:"label"`
	Value      string     `json:"value,omitempty"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Associated []CLIRef   `json:"associated,omitempty"`
	Children   []*CLINode `json:"children,omitempty"`
}

// CLIRef names the other end of an association edge.
type CLIRef struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CLIFile is a JSON-friendly file representation.
type CLIFile struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
	HasErrors bool   `json:"has_errors,omitempty"`
}

// CLILabelCount is one row of the label summary.
type CLILabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CLISummary describes the whole index.
type CLISummary struct {
	Files  []CLIFile       `json:"files"`
	Labels []CLILabelCount `json:"labels"`
}

func nodeToCLI(n *changedistiller.Node) *CLINode {
	if n == nil {
		return nil
	}
	out := &CLINode{
		Label: string(n.Label),
		Value: n.Value,
		Start: n.Range.Start,
		End:   n.Range.End,
	}
	for _, a := range n.Associated() {
		out.Associated = append(out.Associated, CLIRef{
			Label: string(a.Label),
			Value: a.Value,
			Start: a.Range.Start,
			End:   a.Range.End,
		})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, nodeToCLI(c))
	}
	return out
}

func fileToCLI(f *changedistiller.File) CLIFile {
	return CLIFile{
		ID:        f.ID,
		Path:      f.Path,
		Language:  f.Language,
		LineCount: f.LineCount,
		HasErrors: f.HasErrors,
	}
}

// storedBodyToCLI converts an indexed body and its rebuilt tree.
func storedBodyToCLI(b *changedistiller.Body, path string, root *changedistiller.Node) CLIBody {
	return CLIBody{
		ID:            b.ID,
		File:          path,
		Owner:         b.Owner,
		Name:          b.Name,
		Signature:     b.Signature,
		Constructor:   b.Constructor,
		StartLine:     b.StartLine,
		EndLine:       b.EndLine,
		UnplacedCount: b.Unplaced,
		Tree:          nodeToCLI(root),
	}
}

// bodyTreeToCLI converts a freshly distilled body of src.
func bodyTreeToCLI(bt *changedistiller.BodyTree, path string, src []byte) CLIBody {
	out := CLIBody{
		File:        path,
		Owner:       bt.Owner,
		Name:        bt.Name,
		Signature:   bt.Signature,
		Constructor: bt.Constructor,
		StartLine:   lineAt(src, bt.Range.Start),
		EndLine:     lineAt(src, bt.Range.End),
		Tree:        nodeToCLI(bt.Root),
	}
	for _, c := range bt.Unplaced {
		out.Unplaced = append(out.Unplaced, c.Text)
	}
	return out
}

// lineAt returns the 0-based line of a byte offset in src.
func lineAt(src []byte, off int) int {
	off = max(0, min(off, len(src)))
	line := 0
	for _, b := range src[:off] {
		if b == '\n' {
			line++
		}
	}
	return line
}
