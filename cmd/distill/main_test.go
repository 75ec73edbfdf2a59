package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(root)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "sub", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(deep)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := findRepoRoot(dir)
	assert.Equal(t, dir, got)
}

// Not parallel: mutates the --db flag variable.
func TestResolveDBPath(t *testing.T) {
	defer func() { flagDB = "" }()

	flagDB = ""
	assert.Equal(t, filepath.Join("/repo", ".distill", "index.db"), resolveDBPath("/repo"))

	flagDB = "custom/trees.db"
	assert.Equal(t, filepath.Join("/repo", "custom", "trees.db"), resolveDBPath("/repo"))

	flagDB = "/abs/trees.db"
	assert.Equal(t, "/abs/trees.db", resolveDBPath("/repo"))
}

func TestResolveTargetDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	got, err := resolveTargetDir([]string{dir})
	assert.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveTargetDir([]string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "directory not found")

	file := filepath.Join(dir, "A.java")
	if err := os.WriteFile(file, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = resolveTargetDir([]string{file})
	assert.ErrorContains(t, err, "not a directory")
}
