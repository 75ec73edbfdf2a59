package changedistiller

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/javaparse"
	"github.com/unibodydesignn/changedistiller/internal/store"
)

// fingerprintKey is the metadata key under which the oracle fingerprint of
// the last indexing run is stored.
const fingerprintKey = "classification_fingerprint"

// Engine orchestrates the pipeline: file discovery, change detection,
// distillation, persistence and query access.
type Engine struct {
	store  *store.Store
	oracle Oracle

	// useParallel enables the parallel indexing pipeline.
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle sets the classification oracle. The default is
// classify.Default(). The oracle must be safe for concurrent use.
func WithOracle(o Oracle) Option {
	return func(e *Engine) {
		if o != nil {
			e.oracle = o
		}
	}
}

// WithParallel controls parallel indexing. When true (default), IndexFiles
// uses a worker pool for parsing and distillation, with a single writer
// committing batches to SQLite. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("changedistiller: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("changedistiller: migrate: %w", err)
	}

	e := &Engine{
		store:       s,
		oracle:      classify.Default(),
		useParallel: true, // default to parallel indexing
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// fingerprint identifies the oracle's labelling behaviour. Oracles that
// cannot describe themselves get a fixed placeholder.
func (e *Engine) fingerprint() string {
	if fp, ok := e.oracle.(interface{ Fingerprint() string }); ok {
		return fp.Fingerprint()
	}
	return fmt.Sprintf("opaque:%T", e.oracle)
}

// ClassificationChanged reports whether the oracle differs from the one
// used to build the current database. Returns true if the DB has no stored
// fingerprint (first run) or if the fingerprint doesn't match.
func (e *Engine) ClassificationChanged() bool {
	stored, err := e.store.GetMetadata(fingerprintKey)
	if err != nil || stored == "" {
		return true
	}
	return stored != e.fingerprint()
}

// ClassificationStale reports whether the database was built with a
// different oracle, so the next index run redistills every file. Unlike
// ClassificationChanged it is false on a fresh database.
func (e *Engine) ClassificationStale() bool {
	return e.stale()
}

// stale reports whether previously indexed files must be redistilled even
// if their content is unchanged.
func (e *Engine) stale() bool {
	stored, err := e.store.GetMetadata(fingerprintKey)
	return err == nil && stored != "" && stored != e.fingerprint()
}

// IndexFiles indexes the given file paths. When WithParallel is enabled,
// uses a worker pool for concurrent distillation with batched SQLite
// writes. Otherwise falls back to the serial path.
//
// For each file:
//  1. Skip files that are not Java sources
//  2. Skip unchanged files (same content hash, same oracle fingerprint)
//  3. Delete the stale file record and its trees
//  4. Parse and distill every body
//  5. Write the file record, bodies, nodes and association edges
//
// Errors on individual files are collected; processing continues.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) error {
	var err error
	if e.useParallel {
		err = e.IndexFilesParallel(ctx, paths)
	} else {
		err = e.indexFilesSerial(ctx, paths)
	}
	if err != nil {
		return err
	}
	if oe, ok := e.oracle.(interface{ Err() error }); ok && oe.Err() != nil {
		return fmt.Errorf("classification: %w", oe.Err())
	}
	if err := e.store.SetMetadata(fingerprintKey, e.fingerprint()); err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	return nil
}

func (e *Engine) indexFilesSerial(ctx context.Context, paths []string) error {
	stale := e.stale()
	var errs []error
	for _, path := range paths {
		if err := e.indexFile(ctx, path, stale); err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

func (e *Engine) indexFile(ctx context.Context, path string, stale bool) error {
	item, skip, err := e.prepareFile(ctx, path, stale)
	if err != nil || skip {
		return err
	}
	if err := e.distillFile(ctx, &item); err != nil {
		return e.discardFile(item, err)
	}
	if err := e.commitFile(item); err != nil {
		return e.discardFile(item, err)
	}
	return nil
}

// discardFile drops the record of a file that failed after preparation so
// the next run retries it. A failed cleanup is reported alongside cause.
func (e *Engine) discardFile(item workItem, cause error) error {
	if err := e.store.DeleteFile(item.fileID); err != nil {
		return fmt.Errorf("%w (cleanup %s: %w)", cause, item.path, err)
	}
	return cause
}

// IndexDirectory walks root and indexes all Java sources.
// If root is inside a git repository, uses git ls-files to respect .gitignore.
// Falls back to filesystem walk (skipping hidden dirs and build output) if
// git is unavailable.
func (e *Engine) IndexDirectory(ctx context.Context, root string) error {
	paths, err := gitListFiles(root)
	if err != nil {
		// Not a git repo or git not available — fall back to walk.
		paths, err = walkListFiles(root)
		if err != nil {
			return err
		}
	}
	return e.IndexFiles(ctx, paths)
}

// skipDirs are directories that should be excluded from indexing.
var skipDirs = map[string]bool{
	"build":        true,
	"target":       true,
	"out":          true,
	"node_modules": true,
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, filtered to Java sources.
func gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := javaparse.LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem, used as a fallback
// when git is not available.
func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := javaparse.LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

// workItem holds everything needed to distill and commit one file.
type workItem struct {
	path    string
	lang    string
	hash    string
	content []byte
	fileID  int64
	batch   *store.BatchedStore

	hasErrors bool
}

// prepareFile does the serial preparation for a single file: hash check,
// cleanup, file record. Returns (item, skip, error). skip=true means the
// file is unchanged or not a Java source.
func (e *Engine) prepareFile(_ context.Context, path string, stale bool) (workItem, bool, error) {
	lang, ok := javaparse.LanguageForFile(path)
	if !ok {
		return workItem{}, true, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := store.ContentHash(content)

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash && !stale {
		return workItem{}, true, nil // unchanged
	}

	if existing != nil {
		if err := e.store.DeleteFile(existing.ID); err != nil {
			return workItem{}, false, fmt.Errorf("delete old data: %w", err)
		}
	}

	// Insert new file record (real ID assigned by SQLite).
	fileID, err := e.store.InsertFile(&store.File{
		Path:        path,
		Language:    lang,
		Hash:        hash,
		LineCount:   bytes.Count(content, []byte{'\n'}) + 1,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return workItem{}, false, fmt.Errorf("insert file: %w", err)
	}

	return workItem{
		path:    path,
		lang:    lang,
		hash:    hash,
		content: content,
		fileID:  fileID,
		batch:   store.NewBatchedStore(),
	}, false, nil
}

// distillFile parses and distills one file into its BatchedStore. It never
// touches SQLite directly, so it is safe to run from several workers.
func (e *Engine) distillFile(ctx context.Context, item *workItem) error {
	f, trees, err := distill(ctx, item.content, e.oracle)
	if err != nil {
		return err
	}
	item.hasErrors = f.HasErrors
	return writeTrees(item.batch, item.fileID, f.Source, trees)
}

// commitFile writes a distilled file's batch in one transaction.
func (e *Engine) commitFile(item workItem) error {
	if err := e.store.CommitBatch(item.batch); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if item.hasErrors {
		if err := e.store.SetFileHasErrors(item.fileID, true); err != nil {
			return err
		}
	}
	return nil
}

// writeTrees records every body and its tree.
func writeTrees(ds store.DataStore, fileID int64, src string, trees []*BodyTree) error {
	for _, bt := range trees {
		b := &store.Body{
			FileID:      fileID,
			Owner:       bt.Owner,
			Name:        bt.Name,
			Signature:   bt.Signature,
			Constructor: bt.Constructor,
			StartByte:   bt.Range.Start,
			EndByte:     bt.Range.End,
			StartLine:   lineOf(src, bt.Range.Start),
			EndLine:     lineOf(src, bt.Range.End),
			TreeHash:    store.ComputeTreeHash(bt.Root),
			NodeCount:   bt.Root.Count(),
			Unplaced:    len(bt.Unplaced),
		}
		id, err := ds.InsertBody(b)
		if err != nil {
			return fmt.Errorf("insert body %s: %w", bt.Signature, err)
		}
		if _, err := store.SaveTree(ds, id, bt.Root); err != nil {
			return fmt.Errorf("save tree %s: %w", bt.Signature, err)
		}
	}
	return nil
}

// lineOf returns the 0-based line of a byte offset.
func lineOf(src string, off int) int {
	if off > len(src) {
		off = len(src)
	}
	if off < 0 {
		return 0
	}
	return strings.Count(src[:off], "\n")
}
