// Package classify maps syntax constructs to tree labels. The tree builder
// consumes an Oracle; this package ships a built-in table, a YAML-configured
// table and a Risor script oracle layered on top of either.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// Oracle assigns a label to a construct. Implementations must be pure and,
// when shared between workers, safe for concurrent use.
type Oracle interface {
	Classify(c *syntax.Construct) tree.Label
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(c *syntax.Construct) tree.Label

// Classify implements Oracle.
func (f OracleFunc) Classify(c *syntax.Construct) tree.Label {
	return f(c)
}

// Table is a kind-to-label lookup. Kinds missing from the table classify as
// tree.Unknown.
type Table map[syntax.Kind]tree.Label

// Classify implements Oracle.
func (t Table) Classify(c *syntax.Construct) tree.Label {
	if c == nil {
		return tree.Unknown
	}
	if l, ok := t[c.Kind]; ok {
		return l
	}
	return tree.Unknown
}

// Fingerprint returns a stable digest of the table's entries. The index
// stores it so that changing the labels forces a reindex.
func (t Table) Fingerprint() string {
	lines := make([]string, 0, len(t))
	for k, l := range t {
		lines = append(lines, k.String()+"="+string(l))
	}
	sort.Strings(lines)
	h := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h[:])
}

var defaultLabels = map[syntax.Kind]tree.Label{
	syntax.KindDeclaration:      tree.Method,
	syntax.KindIf:               tree.IfStatement,
	syntax.KindTry:              tree.TryStatement,
	syntax.KindFor:              tree.ForStatement,
	syntax.KindForeach:          tree.ForeachStatement,
	syntax.KindDo:               tree.DoStatement,
	syntax.KindWhile:            tree.WhileStatement,
	syntax.KindSwitch:           tree.SwitchStatement,
	syntax.KindCase:             tree.SwitchCase,
	syntax.KindAssert:           tree.AssertStatement,
	syntax.KindBreak:            tree.BreakStatement,
	syntax.KindContinue:         tree.ContinueStatement,
	syntax.KindReturn:           tree.ReturnStatement,
	syntax.KindThrow:            tree.ThrowStatement,
	syntax.KindYield:            tree.YieldStatement,
	syntax.KindConstructorCall:  tree.ConstructorInvocation,
	syntax.KindEmpty:            tree.EmptyStatement,
	syntax.KindLocalDeclaration: tree.VariableDeclarationStatement,
	syntax.KindLabeled:          tree.LabeledStatement,
	syntax.KindSynchronized:     tree.SynchronizedStatement,
	syntax.KindTypeDeclaration:  tree.TypeDeclarationStatement,

	syntax.KindAssignment:          tree.Assignment,
	syntax.KindCompoundAssignment:  tree.Assignment,
	syntax.KindBinary:              tree.InfixExpression,
	syntax.KindAnd:                 tree.InfixExpression,
	syntax.KindOr:                  tree.InfixExpression,
	syntax.KindEqual:               tree.InfixExpression,
	syntax.KindStringConcatenation: tree.InfixExpression,
	syntax.KindUnary:               tree.PrefixExpression,
	syntax.KindPrefix:              tree.PrefixExpression,
	syntax.KindPostfix:             tree.PostfixExpression,
	syntax.KindCast:                tree.CastExpression,
	syntax.KindInstanceOf:          tree.InstanceofExpression,
	syntax.KindConditional:         tree.ConditionalExpression,
	syntax.KindAllocation:          tree.ClassInstanceCreation,
	syntax.KindQualifiedAllocation: tree.ClassInstanceCreation,
	syntax.KindArrayAllocation:     tree.ArrayCreation,
	syntax.KindArrayInitializer:    tree.ArrayInitializer,
	syntax.KindMessageSend:         tree.MethodInvocation,
	syntax.KindClassLiteral:        tree.TypeLiteral,
	syntax.KindCharLiteral:         tree.CharacterLiteral,
	syntax.KindStringLiteral:       tree.StringLiteral,
	syntax.KindIntLiteral:          tree.NumberLiteral,
	syntax.KindLongLiteral:         tree.NumberLiteral,
	syntax.KindFloatLiteral:        tree.NumberLiteral,
	syntax.KindDoubleLiteral:       tree.NumberLiteral,
	syntax.KindTrueLiteral:         tree.BooleanLiteral,
	syntax.KindFalseLiteral:        tree.BooleanLiteral,
	syntax.KindNullLiteral:         tree.NullLiteral,
	syntax.KindExpression:          tree.Expression,

	syntax.KindLineComment:  tree.LineComment,
	syntax.KindBlockComment: tree.BlockComment,
	syntax.KindJavadoc:      tree.Javadoc,
}

// Default returns a fresh copy of the built-in table. It covers every
// construct kind except blocks, which never produce a node.
func Default() Table {
	t := make(Table, len(defaultLabels))
	for k, l := range defaultLabels {
		t[k] = l
	}
	return t
}

type tableFile struct {
	Labels map[string]string `yaml:"labels"`
}

// LoadTable reads a YAML document of the form
//
//	labels:
//	  message_send: CALL
//	  local_declaration: DECL
//
// and returns the default table with those entries overridden. Unknown top
// level keys, unknown kind names and empty labels are rejected.
func LoadTable(r io.Reader) (Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f tableFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("classify: decode labels: %w", err)
	}

	t := Default()
	for name, label := range f.Labels {
		kind, ok := syntax.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("classify: unknown construct kind %q", name)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("classify: empty label for kind %q", name)
		}
		t[kind] = tree.Label(label)
	}
	return t, nil
}
