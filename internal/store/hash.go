package store

import (
	"crypto/sha256"
	"fmt"

	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// ContentHash is the hex-encoded SHA-256 of a file's bytes.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// ComputeTreeHash computes a deterministic hash from a tree's semantic
// identity: labels, values, shape and association edges.
// Source ranges do NOT affect the hash, so a body that only moved keeps it.
func ComputeTreeHash(root *tree.Node) string {
	h := sha256.New()
	if root == nil {
		return fmt.Sprintf("%x", h.Sum(nil))
	}

	// Pre-order positions identify nodes independently of ranges.
	pos := make(map[*tree.Node]int)
	var write func(n *tree.Node, depth int)
	write = func(n *tree.Node, depth int) {
		pos[n] = len(pos)
		fmt.Fprintf(h, "node:%d:%s:%q\n", depth, n.Label, n.Value)
		for _, c := range n.Children {
			write(c, depth+1)
		}
	}
	write(root, 0)

	root.Walk(func(n *tree.Node) bool {
		for _, a := range n.Associated() {
			if j, ok := pos[a]; ok && pos[n] <= j {
				fmt.Fprintf(h, "assoc:%d:%d\n", pos[n], j)
			}
		}
		return true
	})

	return fmt.Sprintf("%x", h.Sum(nil))
}
