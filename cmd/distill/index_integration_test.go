package main_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBinary compiles the distill binary into t.TempDir() and returns its
// path.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "distill"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(projectRoot(t), "cmd", "distill")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))
	return bin
}

// projectRoot walks up from this file's directory to the one holding go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, parent, dir, "could not find project root")
		dir = parent
	}
}

const fixtureSource = `package demo;

class Cart {
    int total(int[] prices) {
        int sum = 0;
        for (int p : prices) {
            sum += p;
        }

        // hand back the sum
        return sum;
    }

    void clear() {
        log.info("cleared");
    }
}
`

// createJavaFixture creates a directory with a .git dir and one Java file.
func createJavaFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cart.java"), []byte(fixtureSource), 0o644))
	return dir
}

func run(t *testing.T, bin, dir string, args ...string) []byte {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err, "%v failed: %s", args, string(out))
	return out
}

func countRows(t *testing.T, dbPath, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

type envelope struct {
	Command string `json:"command"`
	Results []struct {
		Signature string `json:"signature"`
		Tree      struct {
			Label    string `json:"label"`
			Children []struct {
				Label string `json:"label"`
			} `json:"children"`
		} `json:"tree"`
	} `json:"results"`
	Error string `json:"error"`
}

func TestCLI_IndexAndShow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createJavaFixture(t)

	run(t, bin, fixture, "index", fixture)

	dbPath := filepath.Join(fixture, ".distill", "index.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err, ".distill/index.db should exist")
	assert.Equal(t, 1, countRows(t, dbPath, "files"))
	assert.Equal(t, 2, countRows(t, dbPath, "bodies"))
	assert.Positive(t, countRows(t, dbPath, "associations"))

	var res envelope
	out := run(t, bin, fixture, "show", "Cart.java", "total")
	require.NoError(t, json.Unmarshal(out, &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, "total(int[])", res.Results[0].Signature)
	assert.Equal(t, "METHOD", res.Results[0].Tree.Label)
	assert.Len(t, res.Results[0].Tree.Children, 4)
}

func TestCLI_TreeWithBuiltinScript(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createJavaFixture(t)

	var res envelope
	out := run(t, bin, fixture, "tree", "Cart.java", "--method", "clear", "--classify-script", "builtin")
	require.NoError(t, json.Unmarshal(out, &res))
	require.Len(t, res.Results, 1)
	require.Len(t, res.Results[0].Tree.Children, 1)
	assert.Equal(t, "LOGGING_STATEMENT", res.Results[0].Tree.Children[0].Label)

	// No database is written by tree.
	_, err := os.Stat(filepath.Join(fixture, ".distill"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_ForceReindex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createJavaFixture(t)
	dbPath := filepath.Join(fixture, ".distill", "index.db")

	run(t, bin, fixture, "index", fixture)
	require.NoError(t, os.WriteFile(filepath.Join(fixture, "Extra.java"), []byte(`class Extra {
    int one() { return 1; }
}
`), 0o644))

	run(t, bin, fixture, "index", "--force", fixture)
	assert.Equal(t, 2, countRows(t, dbPath, "files"))
	assert.Equal(t, 3, countRows(t, dbPath, "bodies"))
}

func TestCLI_ClassificationNoticeOnlyWhenChanged(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createJavaFixture(t)

	stderr := func(args ...string) string {
		var buf bytes.Buffer
		cmd := exec.Command(bin, args...)
		cmd.Dir = fixture
		cmd.Stderr = &buf
		require.NoError(t, cmd.Run(), "%v failed: %s", args, buf.String())
		return buf.String()
	}

	const notice = "Classification changed"
	assert.NotContains(t, stderr("index", fixture), notice, "fresh database")
	assert.NotContains(t, stderr("index", fixture), notice, "same oracle")
	assert.Contains(t, stderr("index", "--classify-script", "builtin", fixture), notice)
}

func TestCLI_ShowWithoutDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createJavaFixture(t)

	cmd := exec.Command(bin, "show", "Cart.java")
	cmd.Dir = fixture
	out, err := cmd.Output()
	require.Error(t, err)

	var res envelope
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, "show", res.Command)
	assert.Contains(t, res.Error, "database not found")
}

func TestCLI_InvalidFormat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	cmd := exec.Command(bin, "--format", "yaml", "summary")
	cmd.Dir = t.TempDir()
	out, err := cmd.CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(out), `invalid format "yaml"`)
}
