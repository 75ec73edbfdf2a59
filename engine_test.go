package changedistiller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/store"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// copyFixtures copies testdata/java into a fresh directory outside any git
// checkout, so IndexDirectory falls back to walking it.
func copyFixtures(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.CopyFS(dir, os.DirFS(filepath.Join("testdata", "java"))))
	return dir
}

func writeJava(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

const counterSource = `class Counter {
    int next(int n) {
        // bump
        n = n + 1;
        return n;
    }
}
`

func TestNew_CreatesStore(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	require.NotNil(t, e.Store())
	require.NotNil(t, e.Query())

	// Migration ran.
	_, err := e.Store().InsertFile(&store.File{
		Path: "/tmp/A.java", Language: "java", Hash: "abc", LastIndexed: time.Now(),
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := New("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	t.Parallel()
	e, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, e.Close())
}

func TestWithOracle_NilKeepsDefault(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithOracle(nil))
	assert.Equal(t, classify.Default().Fingerprint(), e.fingerprint())
}

func TestIndexFiles_SkipsNonJava(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	tmp := writeJava(t, t.TempDir(), "readme.txt", "hello")

	require.NoError(t, e.IndexFiles(context.Background(), []string{tmp}))

	f, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestIndexFiles_InsertsNewFile(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{true, false} {
		e := newTestEngine(t, WithParallel(parallel))
		tmp := writeJava(t, t.TempDir(), "Counter.java", counterSource)

		require.NoError(t, e.IndexFiles(context.Background(), []string{tmp}))

		f, err := e.Store().FileByPath(tmp)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "java", f.Language)
		assert.Equal(t, store.ContentHash([]byte(counterSource)), f.Hash)
		assert.Equal(t, 8, f.LineCount)
		assert.False(t, f.HasErrors)

		bodies, err := e.Store().BodiesByFile(f.ID)
		require.NoError(t, err)
		require.Len(t, bodies, 1)
		b := bodies[0]
		assert.Equal(t, "next(int)", b.Signature)
		assert.Equal(t, "Counter", b.Owner)
		assert.Equal(t, 1, b.StartLine)
		assert.Equal(t, 5, b.EndLine)
		assert.Equal(t, 0, b.Unplaced)
		assert.NotEmpty(t, b.TreeHash)

		root, err := e.Store().LoadTree(b.ID)
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Equal(t, b.NodeCount, root.Count())
		assert.Equal(t, b.TreeHash, store.ComputeTreeHash(root))
	}
}

func TestIndexFiles_SkipsUnchangedFiles(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	tmp := writeJava(t, t.TempDir(), "Counter.java", counterSource)
	ctx := context.Background()

	require.NoError(t, e.IndexFiles(ctx, []string{tmp}))
	first, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)

	require.NoError(t, e.IndexFiles(ctx, []string{tmp}))
	second, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)

	// An unchanged file keeps its record.
	assert.Equal(t, first.ID, second.ID)
}

func TestIndexFiles_ReindexesChangedFiles(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	dir := t.TempDir()
	tmp := writeJava(t, dir, "Counter.java", counterSource)
	ctx := context.Background()

	require.NoError(t, e.IndexFiles(ctx, []string{tmp}))
	first, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)

	writeJava(t, dir, "Counter.java", `class Counter {
    int next(int n) {
        return n + 2;
    }

    void reset() {
        clear();
    }
}
`)
	require.NoError(t, e.IndexFiles(ctx, []string{tmp}))
	second, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	bodies, err := e.Store().BodiesByFile(second.ID)
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.Equal(t, "reset()", bodies[1].Signature)

	// Old rows are gone.
	old, err := e.Store().BodiesByFile(first.ID)
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestIndexFiles_RecordsSyntaxErrors(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	tmp := writeJava(t, t.TempDir(), "Broken.java", `class Broken {
    void m() {
        int x = ;
        run();
    }
}
`)
	require.NoError(t, e.IndexFiles(context.Background(), []string{tmp}))

	f, err := e.Store().FileByPath(tmp)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.True(t, f.HasErrors)
}

func TestIndexFiles_MissingFile(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{true, false} {
		e := newTestEngine(t, WithParallel(parallel))
		err := e.IndexFiles(context.Background(), []string{filepath.Join(t.TempDir(), "Gone.java")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read file")
	}
}

func TestIndexFiles_MissingFileDoesNotStrandOthers(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{true, false} {
		e := newTestEngine(t, WithParallel(parallel))
		dir := t.TempDir()
		tmp := writeJava(t, dir, "Counter.java", counterSource)
		ctx := context.Background()

		err := e.IndexFiles(ctx, []string{tmp, filepath.Join(dir, "Missing.java")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Missing.java")

		bodies, err := e.Query().Bodies(tmp)
		require.NoError(t, err)
		assert.Len(t, bodies, 1, "parallel=%v", parallel)

		require.NoError(t, e.IndexFiles(ctx, []string{tmp}))
		bodies, err = e.Query().Bodies(tmp)
		require.NoError(t, err)
		assert.Len(t, bodies, 1, "parallel=%v", parallel)
	}
}

func TestDiscardFile_ReportsCleanupFailure(t *testing.T) {
	t.Parallel()
	e, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	cause := errors.New("distill failed")
	err = e.discardFile(workItem{path: "A.java", fileID: 1}, cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cleanup A.java")
}

func TestIndexFiles_ScriptErrorSurfaced(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithOracle(classify.NewScriptOracle(`no_such_function()`, nil)))
	tmp := writeJava(t, t.TempDir(), "Counter.java", counterSource)

	err := e.IndexFiles(context.Background(), []string{tmp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classification")

	// The fingerprint is only stored after a clean run.
	stored, err := e.Store().GetMetadata(fingerprintKey)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIndexFiles_OracleChangeForcesReindex(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	tmp := writeJava(t, t.TempDir(), "Counter.java", counterSource)
	ctx := context.Background()

	e1, err := New(dbPath)
	require.NoError(t, err)
	assert.True(t, e1.ClassificationChanged())
	assert.False(t, e1.ClassificationStale(), "fresh database is not stale")
	require.NoError(t, e1.IndexFiles(ctx, []string{tmp}))
	assert.False(t, e1.ClassificationChanged())
	first, err := e1.Store().FileByPath(tmp)
	require.NoError(t, err)
	require.NoError(t, e1.Close())

	script := `
func pick() {
	if kind == "assignment" {
		return "BUMP"
	}
	return label
}
pick()
`
	e2, err := New(dbPath, WithOracle(classify.NewScriptOracle(script, nil)))
	require.NoError(t, err)
	defer e2.Close()
	assert.True(t, e2.ClassificationChanged())
	assert.True(t, e2.ClassificationStale())

	require.NoError(t, e2.IndexFiles(ctx, []string{tmp}))
	second, err := e2.Store().FileByPath(tmp)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, e2.ClassificationChanged())
	assert.False(t, e2.ClassificationStale())

	summary, err := e2.Query().LabelSummary()
	require.NoError(t, err)
	labels := map[Label]int{}
	for _, lc := range summary {
		labels[lc.Label] = lc.Count
	}
	assert.Equal(t, 1, labels["BUMP"])
}

func TestIndexDirectory_WalksFixtures(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	dir := copyFixtures(t)

	require.NoError(t, e.IndexDirectory(context.Background(), dir))

	files, err := e.Query().Files()
	require.NoError(t, err)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "Inventory.java"),
		filepath.Join(dir, "audit", "Report.java"),
	}, paths)
}

func TestWalkListFiles_SkipsHiddenAndBuildDirs(t *testing.T) {
	t.Parallel()
	dir := copyFixtures(t)

	paths, err := walkListFiles(dir)
	require.NoError(t, err)
	for _, p := range paths {
		assert.NotContains(t, p, ".cache")
		assert.NotContains(t, p, "target")
	}
	assert.Len(t, paths, 2)
}

func TestIndexFiles_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()
	dir := copyFixtures(t)
	paths, err := walkListFiles(dir)
	require.NoError(t, err)

	hashes := func(parallel bool) map[string]string {
		e := newTestEngine(t, WithParallel(parallel))
		require.NoError(t, e.IndexFiles(context.Background(), paths))
		out := map[string]string{}
		for _, p := range paths {
			bodies, err := e.Query().Bodies(p)
			require.NoError(t, err)
			for _, b := range bodies {
				out[b.Owner+"."+b.Signature] = b.TreeHash
			}
		}
		return out
	}

	serial := hashes(false)
	assert.Len(t, serial, 5)
	assert.Equal(t, serial, hashes(true))
}

func TestLineOf(t *testing.T) {
	t.Parallel()
	src := "a\nbc\n\nd"
	assert.Equal(t, 0, lineOf(src, 0))
	assert.Equal(t, 1, lineOf(src, 2))
	assert.Equal(t, 3, lineOf(src, len(src)))
	assert.Equal(t, 3, lineOf(src, 100))
	assert.Equal(t, 0, lineOf(src, -1))
}
