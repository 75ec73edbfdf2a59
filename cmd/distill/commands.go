package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unibodydesignn/changedistiller"
)

// --- tree ---

var flagMethod string

var treeCmd = &cobra.Command{
	Use:   "tree <file.java>",
	Short: "Print the distilled trees of a Java file",
	Long:  "Parses a Java file and prints the generic labeled tree of every method and constructor body. No database is used.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().StringVar(&flagMethod, "method", "", "only print bodies with this name or signature")
}

func runTree(cmd *cobra.Command, args []string) error {
	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("tree", err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return outputError("tree", fmt.Errorf("reading %s: %w", path, err))
	}
	oracle, err := buildOracle()
	if err != nil {
		return outputError("tree", err)
	}

	trees, err := changedistiller.DistillSource(context.Background(), src, oracle)
	if err != nil {
		return outputError("tree", err)
	}
	if se, ok := oracle.(interface{ Err() error }); ok && se.Err() != nil {
		return outputError("tree", fmt.Errorf("classification: %w", se.Err()))
	}

	var bodies []CLIBody
	for _, bt := range trees {
		if !matchesMethod(bt.Name, bt.Signature) {
			continue
		}
		bodies = append(bodies, bodyTreeToCLI(bt, path, src))
	}
	if flagMethod != "" && len(bodies) == 0 {
		return outputError("tree", fmt.Errorf("no body named %q in %s", flagMethod, path))
	}
	return outputResult(CLIResult{Command: "tree", Results: bodies})
}

func matchesMethod(name, signature string) bool {
	return flagMethod == "" || flagMethod == name || flagMethod == signature
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <file.java> [signature]",
	Short: "Print stored trees of an indexed file",
	Long:  "Reads the trees of an indexed Java file back from the database. With a signature (or bare method name) only that body is printed.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("show", err)
	}
	engine, err := openEngine()
	if err != nil {
		return outputError("show", err)
	}
	defer engine.Close()
	q := engine.Query()

	if len(args) == 2 {
		b, root, err := q.TreeBySignature(path, args[1])
		if err != nil {
			return outputError("show", err)
		}
		if b == nil {
			return outputError("show", fmt.Errorf("no indexed body %q in %s", args[1], path))
		}
		return outputResult(CLIResult{Command: "show", Results: []CLIBody{storedBodyToCLI(b, path, root)}})
	}

	bodies, err := q.Bodies(path)
	if err != nil {
		return outputError("show", err)
	}
	if bodies == nil {
		return outputError("show", fmt.Errorf("file not indexed: %s", path))
	}
	out := make([]CLIBody, 0, len(bodies))
	for _, b := range bodies {
		root, err := q.Tree(b.ID)
		if err != nil {
			return outputError("show", err)
		}
		out = append(out, storedBodyToCLI(b, path, root))
	}
	return outputResult(CLIResult{Command: "show", Results: out})
}

// --- summary ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List indexed files and label frequencies",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("summary", err)
	}
	defer engine.Close()
	q := engine.Query()

	files, err := q.Files()
	if err != nil {
		return outputError("summary", err)
	}
	labels, err := q.LabelSummary()
	if err != nil {
		return outputError("summary", err)
	}

	summary := CLISummary{Files: []CLIFile{}, Labels: []CLILabelCount{}}
	for _, f := range files {
		summary.Files = append(summary.Files, fileToCLI(f))
	}
	for _, l := range labels {
		summary.Labels = append(summary.Labels, CLILabelCount{Label: string(l.Label), Count: l.Count})
	}
	return outputResult(CLIResult{Command: "summary", Results: summary})
}

// --- helpers ---

// openEngine opens the Engine on the --db path (or default). The database
// must already exist.
func openEngine() (*changedistiller.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'distill index' first)", dbPath)
	}
	return changedistiller.New(dbPath)
}

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}
