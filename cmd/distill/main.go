package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/unibodydesignn/changedistiller"
	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/runtime"
	"github.com/unibodydesignn/changedistiller/scripts"
)

var (
	flagDB             string
	flagFormat         string
	flagLabels         string
	flagClassifyScript string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "distill",
	Short:         "Build generic labeled trees from Java method bodies",
	Long:          "Distill parses Java sources with tree-sitter, turns every method and constructor body into a generic labeled tree with anchored comments, and stores the trees in a SQLite database.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .distill/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLabels, "labels", "", "YAML file overriding the default kind → label table")
	rootCmd.PersistentFlags().StringVar(&flagClassifyScript, "classify-script", "", `Risor classification script ("builtin" for the embedded one)`)

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
}

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index every Java source under a directory",
	Long:  "Distills every method and constructor body of the .java files under path and writes the trees to the SQLite database. Unchanged files are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dbDir, err)
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	oracle, err := buildOracle()
	if err != nil {
		return err
	}

	engine, err := changedistiller.New(dbPath, changedistiller.WithOracle(oracle))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	if engine.ClassificationStale() {
		fmt.Fprintln(os.Stderr, "Classification changed: redistilling all files")
	}

	if err := engine.IndexDirectory(context.Background(), targetDir); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// buildOracle assembles the classification oracle from --labels and
// --classify-script.
func buildOracle() (classify.Oracle, error) {
	var base classify.Oracle = classify.Default()
	if flagLabels != "" {
		f, err := os.Open(flagLabels)
		if err != nil {
			return nil, fmt.Errorf("opening label table: %w", err)
		}
		defer f.Close()
		table, err := classify.LoadTable(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", flagLabels, err)
		}
		base = table
	}

	switch flagClassifyScript {
	case "":
		return base, nil
	case "builtin":
		rt := runtime.NewRuntime("", runtime.WithRuntimeFS(scripts.FS))
		src, err := rt.LoadScript(scripts.Entry)
		if err != nil {
			return nil, err
		}
		return classify.NewScriptOracle(src, base, classify.WithRuntime(rt)), nil
	default:
		// Imports resolve next to the script.
		abs, err := filepath.Abs(flagClassifyScript)
		if err != nil {
			return nil, fmt.Errorf("resolving script path %q: %w", flagClassifyScript, err)
		}
		rt := runtime.NewRuntime(filepath.Dir(abs))
		src, err := rt.LoadScript(abs)
		if err != nil {
			return nil, err
		}
		return classify.NewScriptOracle(src, base, classify.WithRuntime(rt)), nil
	}
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".distill", "index.db")
}
