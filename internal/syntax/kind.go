package syntax

import "fmt"

// Kind is the closed set of construct kinds a producer can emit.
type Kind int

// Construct kinds.
const (
	KindInvalid Kind = iota

	// Root of a body: a method or constructor declaration.
	KindDeclaration

	// Statements.
	KindBlock
	KindIf
	KindTry
	KindFor
	KindForeach
	KindDo
	KindWhile
	KindSwitch
	KindCase
	KindAssert
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindYield
	KindConstructorCall
	KindEmpty
	KindLocalDeclaration
	KindLabeled
	KindSynchronized
	KindTypeDeclaration

	// Expressions.
	KindAssignment
	KindCompoundAssignment
	KindBinary
	KindAnd
	KindOr
	KindEqual
	KindStringConcatenation
	KindUnary
	KindPrefix
	KindPostfix
	KindCast
	KindInstanceOf
	KindConditional
	KindAllocation
	KindQualifiedAllocation
	KindArrayAllocation
	KindArrayInitializer
	KindMessageSend
	KindClassLiteral
	KindCharLiteral
	KindStringLiteral
	KindIntLiteral
	KindLongLiteral
	KindFloatLiteral
	KindDoubleLiteral
	KindTrueLiteral
	KindFalseLiteral
	KindNullLiteral
	KindExpression

	// Comments.
	KindLineComment
	KindBlockComment
	KindJavadoc

	numKinds
)

var kindNames = [...]string{
	KindInvalid:             "invalid",
	KindDeclaration:         "declaration",
	KindBlock:               "block",
	KindIf:                  "if",
	KindTry:                 "try",
	KindFor:                 "for",
	KindForeach:             "foreach",
	KindDo:                  "do",
	KindWhile:               "while",
	KindSwitch:              "switch",
	KindCase:                "case",
	KindAssert:              "assert",
	KindBreak:               "break",
	KindContinue:            "continue",
	KindReturn:              "return",
	KindThrow:               "throw",
	KindYield:               "yield",
	KindConstructorCall:     "constructor_call",
	KindEmpty:               "empty",
	KindLocalDeclaration:    "local_declaration",
	KindLabeled:             "labeled",
	KindSynchronized:        "synchronized",
	KindTypeDeclaration:     "type_declaration",
	KindAssignment:          "assignment",
	KindCompoundAssignment:  "compound_assignment",
	KindBinary:              "binary",
	KindAnd:                 "and",
	KindOr:                  "or",
	KindEqual:               "equal",
	KindStringConcatenation: "string_concatenation",
	KindUnary:               "unary",
	KindPrefix:              "prefix",
	KindPostfix:             "postfix",
	KindCast:                "cast",
	KindInstanceOf:          "instance_of",
	KindConditional:         "conditional",
	KindAllocation:          "allocation",
	KindQualifiedAllocation: "qualified_allocation",
	KindArrayAllocation:     "array_allocation",
	KindArrayInitializer:    "array_initializer",
	KindMessageSend:         "message_send",
	KindClassLiteral:        "class_literal",
	KindCharLiteral:         "char_literal",
	KindStringLiteral:       "string_literal",
	KindIntLiteral:          "int_literal",
	KindLongLiteral:         "long_literal",
	KindFloatLiteral:        "float_literal",
	KindDoubleLiteral:       "double_literal",
	KindTrueLiteral:         "true_literal",
	KindFalseLiteral:        "false_literal",
	KindNullLiteral:         "null_literal",
	KindExpression:          "expression",
	KindLineComment:         "line_comment",
	KindBlockComment:        "block_comment",
	KindJavadoc:             "javadoc",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind whose String form is name.
func ParseKind(name string) (Kind, bool) {
	for k := KindInvalid + 1; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds-1)
	for k := KindInvalid + 1; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsExpression reports whether k is an expression kind. Expressions are
// always flattened to a single leaf.
func (k Kind) IsExpression() bool {
	return k >= KindAssignment && k <= KindExpression
}

// IsComment reports whether k is a comment kind.
func (k Kind) IsComment() bool {
	return k == KindLineComment || k == KindBlockComment || k == KindJavadoc
}
