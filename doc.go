// Package changedistiller turns the method and constructor bodies of Java
// source files into generic labeled trees and anchors each comment to the
// statement it most plausibly describes.
//
// # Pipeline
//
// For each source file:
//
//  1. Parse: tree-sitter produces the syntax constructs of every body, the
//     file's comments, and the positions of its keyword tokens.
//
//  2. Distill: one depth-first pass per body builds a tree whose nodes carry
//     a label (chosen by a classification oracle), a value (a normalized
//     source fragment) and a source range. Statement-level expressions
//     become leaves; blocks are transparent. Comments met along the way
//     become leaves too and are linked to the preceding or succeeding
//     statement by lexical proximity and shared words.
//
//  3. Store: trees and their association edges are written to SQLite so
//     they can be queried without reparsing.
//
// # Usage
//
// Distill a single source without a database:
//
//	trees, err := changedistiller.DistillSource(ctx, src, nil)
//	for _, t := range trees {
//		fmt.Println(t.Signature)
//		tree.Fprint(os.Stdout, t.Root)
//	}
//
// Or index a directory and query it:
//
//	e, err := changedistiller.New("distill.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	err = e.IndexDirectory(ctx, "path/to/project")
//	body, root, err := e.Query().TreeBySignature("Account.java", "deposit(int)")
//
// # Classification
//
// The default oracle maps each construct kind to a fixed label. A YAML
// label table ([classify.LoadTable]) can override individual kinds, and a
// Risor script ([classify.NewScriptOracle]) can relabel constructs based on
// their text. The oracle's fingerprint is stored with the index; when it
// changes, files are redistilled even if their content did not.
//
// # Incremental Indexing
//
// [Engine.IndexFiles] detects unchanged files via content hashing and skips
// them. With [WithParallel] (the default) files are distilled by a worker
// pool and committed by a single writer.
package changedistiller
