package tree

// Label classifies a node. The structural labels below are fixed by the tree
// builder; every other label is chosen by a classification oracle.
type Label string

// Structural labels.
const (
	Method        Label = "METHOD"
	IfStatement   Label = "IF_STATEMENT"
	ThenStatement Label = "THEN_STATEMENT"
	ElseStatement Label = "ELSE_STATEMENT"
	Body          Label = "BODY"
	CatchClauses  Label = "CATCH_CLAUSES"
	CatchClause   Label = "CATCH_CLAUSE"
	Finally       Label = "FINALLY"
)

// Statement labels.
const (
	AssertStatement              Label = "ASSERT_STATEMENT"
	BreakStatement               Label = "BREAK_STATEMENT"
	ContinueStatement            Label = "CONTINUE_STATEMENT"
	ConstructorInvocation        Label = "CONSTRUCTOR_INVOCATION"
	DoStatement                  Label = "DO_STATEMENT"
	EmptyStatement               Label = "EMPTY_STATEMENT"
	ForStatement                 Label = "FOR_STATEMENT"
	ForeachStatement             Label = "FOREACH_STATEMENT"
	LabeledStatement             Label = "LABELED_STATEMENT"
	ReturnStatement              Label = "RETURN_STATEMENT"
	SwitchCase                   Label = "SWITCH_CASE"
	SwitchStatement              Label = "SWITCH_STATEMENT"
	SynchronizedStatement        Label = "SYNCHRONIZED_STATEMENT"
	ThrowStatement               Label = "THROW_STATEMENT"
	TryStatement                 Label = "TRY_STATEMENT"
	TypeDeclarationStatement     Label = "TYPE_DECLARATION_STATEMENT"
	VariableDeclarationStatement Label = "VARIABLE_DECLARATION_STATEMENT"
	WhileStatement               Label = "WHILE_STATEMENT"
	YieldStatement               Label = "YIELD_STATEMENT"
)

// Expression labels.
const (
	ArrayCreation         Label = "ARRAY_CREATION"
	ArrayInitializer      Label = "ARRAY_INITIALIZER"
	Assignment            Label = "ASSIGNMENT"
	BooleanLiteral        Label = "BOOLEAN_LITERAL"
	CastExpression        Label = "CAST_EXPRESSION"
	CharacterLiteral      Label = "CHARACTER_LITERAL"
	ClassInstanceCreation Label = "CLASS_INSTANCE_CREATION"
	ConditionalExpression Label = "CONDITIONAL_EXPRESSION"
	Expression            Label = "EXPRESSION"
	InfixExpression       Label = "INFIX_EXPRESSION"
	InstanceofExpression  Label = "INSTANCEOF_EXPRESSION"
	MethodInvocation      Label = "METHOD_INVOCATION"
	NullLiteral           Label = "NULL_LITERAL"
	NumberLiteral         Label = "NUMBER_LITERAL"
	PostfixExpression     Label = "POSTFIX_EXPRESSION"
	PrefixExpression      Label = "PREFIX_EXPRESSION"
	StringLiteral         Label = "STRING_LITERAL"
	TypeLiteral           Label = "TYPE_LITERAL"
)

// Comment labels.
const (
	LineComment  Label = "LINE_COMMENT"
	BlockComment Label = "BLOCK_COMMENT"
	Javadoc      Label = "JAVADOC"
)

// Unknown is returned by oracles for constructs they cannot classify.
const Unknown Label = "UNKNOWN"

// IsComment reports whether l labels a comment node.
func (l Label) IsComment() bool {
	return l == LineComment || l == BlockComment || l == Javadoc
}
