package tree

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a deterministic, indented rendering of the tree rooted at n.
// Each node is printed as `LABEL "value" [start,end)`; association edges are
// listed under the node as `~> LABEL "value"`.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

// Sprint returns the Fprint rendering of n as a string.
func Sprint(n *Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}

func fprint(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, n); err != nil {
		return err
	}
	for _, a := range n.associated {
		if _, err := fmt.Fprintf(w, "%s  ~> %s %q\n", indent, a.Label, a.Value); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := fprint(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
