package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unibodydesignn/changedistiller/internal/tree"
)

func TestKindString_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, k := range Kinds() {
		name := k.String()
		got, ok := ParseKind(name)
		require.True(t, ok, "kind %d has no parseable name", int(k))
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("invalid")
	assert.False(t, ok)
	_, ok = ParseKind("no_such_kind")
	assert.False(t, ok)
	assert.Equal(t, "kind(999)", Kind(999).String())
}

func TestKindClasses(t *testing.T) {
	t.Parallel()
	assert.True(t, KindAssignment.IsExpression())
	assert.True(t, KindMessageSend.IsExpression())
	assert.True(t, KindExpression.IsExpression())
	assert.False(t, KindReturn.IsExpression())
	assert.False(t, KindLineComment.IsExpression())

	assert.True(t, KindJavadoc.IsComment())
	assert.True(t, KindBlockComment.IsComment())
	assert.False(t, KindBlock.IsComment())
}

func TestCatchTypeText(t *testing.T) {
	t.Parallel()
	c := &Catch{
		Param: &Construct{Text: "IOException e"},
		Type:  &Construct{Text: "IOException"},
	}
	assert.Equal(t, "IOException", c.TypeText())
	c.Type = nil
	assert.Equal(t, "IOException e", c.TypeText())
	assert.Equal(t, "", (&Catch{}).TypeText())
	assert.Equal(t, "", TextOf(nil))
}

func TestComments(t *testing.T) {
	t.Parallel()
	a := &Construct{Kind: KindLineComment}
	b := &Construct{Kind: KindReturn}
	c := &Construct{Kind: KindJavadoc}
	assert.Equal(t, []*Construct{a, c}, Comments([]*Construct{a, b, c}))
}

func TestTextScanner_LocateKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want int
	}{
		{"plain", "} catch (E e)", 2},
		{"skips line comment", "} // catch\n catch (E e)", 12},
		{"skips block comment", "} /* catch */ catch (E e)", 14},
		{"skips string", `} "catch" catch`, 10},
		{"skips char", `} 'c' catch`, 6},
		{"whole token only", "} catcher catch", 10},
		{"missing", "} finally {", NotFound},
		{"unterminated comment", "} /* catch", NotFound},
		{"unterminated string", "} \"catch", NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewTextScanner(tt.src)
			got := s.LocateKeyword(tree.SourceRange{Start: 0, End: len(tt.src)}, "catch")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextScanner_RespectsRange(t *testing.T) {
	t.Parallel()
	src := "try { a(); } catch (A a) { } catch (B b) { }"
	s := NewTextScanner(src)

	first := strings.Index(src, "catch")
	second := strings.LastIndex(src, "catch")

	assert.Equal(t, first, s.LocateKeyword(tree.SourceRange{Start: 0, End: len(src)}, "catch"))
	assert.Equal(t, second, s.LocateKeyword(tree.SourceRange{Start: first + 1, End: len(src)}, "catch"))
	assert.Equal(t, NotFound, s.LocateKeyword(tree.SourceRange{Start: 0, End: first}, "catch"))
	assert.Equal(t, NotFound, s.LocateKeyword(tree.SourceRange{Start: -1, End: 4}, "catch"))
	assert.Equal(t, NotFound, s.LocateKeyword(tree.SourceRange{Start: 0, End: len(src) + 1}, "catch"))
	assert.Equal(t, NotFound, s.LocateKeyword(tree.SourceRange{Start: 0, End: len(src)}, ""))
}

func TestKeywordLocatorFunc(t *testing.T) {
	t.Parallel()
	var l KeywordLocator = KeywordLocatorFunc(func(tree.SourceRange, string) int { return NotFound })
	assert.Equal(t, NotFound, l.LocateKeyword(tree.SourceRange{}, "catch"))
}
