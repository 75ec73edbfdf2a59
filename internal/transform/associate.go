package transform

import (
	"strings"

	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// pendingComment is a placed comment waiting for the construct that follows
// it to finish, so both neighbours can be scored.
type pendingComment struct {
	preceding     *syntax.Construct
	precedingNode *tree.Node
	comment       *syntax.Construct
	commentNode   *tree.Node
	succeeding    *syntax.Construct
}

// preVisit places every queued comment that lies between the last visited
// construct and upcoming. Each placed comment becomes a leaf under the
// current parent and waits for upcoming to finish.
func (t *Transformer) preVisit(upcoming *syntax.Construct) {
	if len(t.comments) == 0 || upcoming.Kind.IsComment() {
		return
	}
	for i := 0; i < len(t.comments); {
		c := t.comments[i]
		if !t.precedes(c, upcoming) {
			i++
			continue
		}
		rec := pendingComment{
			preceding:     t.lastVisited,
			precedingNode: t.lastAdded,
			comment:       c,
			succeeding:    upcoming,
		}
		n := t.push(t.oracle.Classify(c), c.Text, c.Range)
		t.pop(n, c)
		rec.commentNode = n
		t.pending = append(t.pending, rec)
		t.comments = append(t.comments[:i], t.comments[i+1:]...)
	}
}

// precedes reports whether comment starts strictly between the last visited
// construct and upcoming.
func (t *Transformer) precedes(comment, upcoming *syntax.Construct) bool {
	lv := t.lastVisited
	return lv != nil && lv.Range.Start >= 0 &&
		lv.Range.Start < comment.Range.Start &&
		comment.Range.Start < upcoming.Range.Start
}

// postVisit resolves every pending comment whose succeeding construct is
// finished. At this point lastAdded is finished's node.
func (t *Transformer) postVisit(finished *syntax.Construct) {
	if finished.Kind.IsComment() {
		return
	}
	for len(t.pending) > 0 {
		top := t.pending[len(t.pending)-1]
		if top.succeeding != finished {
			return
		}
		t.pending = t.pending[:len(t.pending)-1]
		t.resolve(top)
	}
}

// resolve links the comment to whichever neighbour scores higher. Proximity
// decides first, word overlap breaks ties, and the succeeding construct wins
// a remaining tie.
func (t *Transformer) resolve(p pendingComment) {
	pre := proximity(t.src, p.preceding.Range, p.comment.Range)
	suc := proximity(t.src, p.comment.Range, p.succeeding.Range)
	if pre == suc {
		pre += wordOverlap(t.codeText(p.preceding), p.comment.Text)
		suc += wordOverlap(t.codeText(p.succeeding), p.comment.Text)
	}
	if pre == suc {
		suc++
	}
	if pre > suc {
		p.commentNode.AddAssociatedNode(p.precedingNode)
		return
	}
	p.commentNode.AddAssociatedNode(t.lastAdded)
}

// codeText returns the source of c with the comments inside it cut out, so
// a neighbour never shares words with a comment through comments it encloses.
func (t *Transformer) codeText(c *syntax.Construct) string {
	r := c.Range
	if c.Kind.IsComment() || r.Start < 0 || r.Start > r.End || r.End > len(t.src) {
		return c.Text
	}
	var sb strings.Builder
	pos := r.Start
	for _, cr := range t.commentRanges {
		if cr.Start < pos || cr.End > r.End {
			continue
		}
		sb.WriteString(t.src[pos:cr.Start])
		sb.WriteByte(' ')
		pos = cr.End
	}
	sb.WriteString(t.src[pos:r.End])
	return sb.String()
}
