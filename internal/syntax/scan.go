package syntax

import "github.com/unibodydesignn/changedistiller/internal/tree"

// NotFound is the position returned when a keyword cannot be located.
const NotFound = -1

// KeywordLocator finds the start offset of the first keyword token inside a
// byte range of the source. It returns NotFound instead of failing.
type KeywordLocator interface {
	LocateKeyword(r tree.SourceRange, keyword string) int
}

// KeywordLocatorFunc adapts a function to KeywordLocator.
type KeywordLocatorFunc func(r tree.SourceRange, keyword string) int

// LocateKeyword implements KeywordLocator.
func (f KeywordLocatorFunc) LocateKeyword(r tree.SourceRange, keyword string) int {
	return f(r, keyword)
}

// TextScanner locates keywords with a narrow lexical scan of Java-like
// source: it skips whitespace, comments, string, text block and character
// literals, and matches whole identifier tokens only.
type TextScanner struct {
	src string
}

// NewTextScanner returns a TextScanner over src.
func NewTextScanner(src string) *TextScanner {
	return &TextScanner{src: src}
}

// LocateKeyword implements KeywordLocator.
func (s *TextScanner) LocateKeyword(r tree.SourceRange, keyword string) int {
	if keyword == "" || r.Start < 0 || r.End > len(s.src) || r.Start > r.End {
		return NotFound
	}
	src := s.src[:r.End]
	i := r.Start
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := indexFrom(src, "*/", i+2)
			if end < 0 {
				return NotFound
			}
			i = end + 2
		case c == '"' && i+2 < len(src) && src[i+1] == '"' && src[i+2] == '"':
			end := indexFrom(src, `"""`, i+3)
			if end < 0 {
				return NotFound
			}
			i = end + 3
		case c == '"' || c == '\'':
			end := skipQuoted(src, i)
			if end < 0 {
				return NotFound
			}
			i = end
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			if src[start:i] == keyword {
				return start
			}
		default:
			i++
		}
	}
	return NotFound
}

// skipQuoted returns the offset just past the literal opened at src[i], or
// -1 if it is not terminated on the same line.
func skipQuoted(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '\n':
			return -1
		case quote:
			return j + 1
		}
	}
	return -1
}

func indexFrom(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
