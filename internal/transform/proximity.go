package transform

import (
	"strings"

	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// Proximity scores.
const (
	sameLine     = 2
	adjacentLine = 1
	farAway      = 0
)

// proximity rates how close two ranges are lexically: 4 when nothing but
// same-line text separates them, 2 for adjacent lines, 0 otherwise.
func proximity(src string, a, b tree.SourceRange) int {
	earlier, later := a, b
	if later.Start < earlier.Start {
		earlier, later = later, earlier
	}
	laterStart := clamp(later.Start, 0, len(src))

	end := earlier.End
	if end > laterStart {
		// later sits inside earlier: measure from earlier's last
		// non-whitespace byte before later.
		end = lastNonSpace(src, clamp(earlier.Start, 0, laterStart), laterStart)
	}
	end = clamp(end, 0, laterStart)

	gap := src[end:laterStart]
	if i := lastTerminator(gap); i >= 0 {
		gap = gap[i+1:]
	}

	var score int
	switch lineBreaks(gap) {
	case 0:
		score = sameLine
	case 1:
		score = adjacentLine
	default:
		score = farAway
	}
	return score * 2
}

// wordOverlap counts how often the comment's words occur in the candidate.
// The candidate is split on runs of whitespace and periods, the comment on
// runs of whitespace.
func wordOverlap(candidate, comment string) int {
	counts := make(map[string]int)
	for _, tok := range strings.FieldsFunc(candidate, isWordBreak) {
		counts[tok]++
	}
	result := 0
	for _, tok := range strings.FieldsFunc(comment, isSpaceRune) {
		result += counts[tok]
	}
	return result * 2
}

// lastNonSpace returns the offset of the last non-whitespace byte in
// src[from:to], or from if there is none.
func lastNonSpace(src string, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if !isSpace(src[i]) {
			return i
		}
	}
	return from
}

// lastTerminator returns the offset of the last '}' or ';' in s, or -1.
func lastTerminator(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '}' || s[i] == ';' {
			return i
		}
	}
	return -1
}

// lineBreaks counts \n, \r\n and lone \r, each as one break.
func lineBreaks(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		}
	}
	return n
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

func isWordBreak(r rune) bool {
	return r == '.' || isSpaceRune(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
