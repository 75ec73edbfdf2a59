package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatBodiesText prints each body header followed by its indented tree.
func formatBodiesText(w io.Writer, bodies []CLIBody) {
	for i, b := range bodies {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := b.Signature
		if b.Owner != "" {
			name = b.Owner + "." + b.Signature
		}
		fmt.Fprintf(w, "%s  [lines %d-%d]\n", name, b.StartLine, b.EndLine)
		formatNodeText(w, b.Tree, 1)
		for _, u := range b.Unplaced {
			fmt.Fprintf(w, "  unplaced: %s\n", u)
		}
		if b.UnplacedCount > 0 {
			fmt.Fprintf(w, "  unplaced comments: %d\n", b.UnplacedCount)
		}
	}
}

func formatNodeText(w io.Writer, n *CLINode, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	if n.Value != "" {
		fmt.Fprintf(w, "%s%s %q\n", indent, n.Label, n.Value)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, n.Label)
	}
	for _, a := range n.Associated {
		fmt.Fprintf(w, "%s  ~> %s %q\n", indent, a.Label, a.Value)
	}
	for _, c := range n.Children {
		formatNodeText(w, c, depth+1)
	}
}

// formatSummaryText formats CLISummary as aligned tables.
func formatSummaryText(w io.Writer, s CLISummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLINES\tERRORS")
	for _, f := range s.Files {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\n", f.ID, f.Path, f.LineCount, f.HasErrors)
	}
	tw.Flush()
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tCOUNT")
	for _, l := range s.Labels {
		fmt.Fprintf(tw, "%s\t%d\n", l.Label, l.Count)
	}
	tw.Flush()
}

// outputResult writes result to stdout in the selected format.
func outputResult(result CLIResult) error {
	return writeResult(os.Stdout, flagFormat, result)
}

func writeResult(w io.Writer, format string, result CLIResult) error {
	if format != "text" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	switch v := result.Results.(type) {
	case []CLIBody:
		formatBodiesText(w, v)
	case CLISummary:
		formatSummaryText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
