package body

import (
	"rill/internal/source"
)

// ExprKind enumerates expression shapes the validators dispatch on. Shapes
// the validation pass does not inspect are still representable so bodies can
// round-trip through snapshots.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLiteral
	ExprVarRef
	ExprCall
	ExprMethodCall
	ExprRecordLit
	ExprMatch
	ExprBlock
	ExprFieldAccess
	ExprUnary
	ExprBinary
	ExprIf
	ExprReturn
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprRecordLit:
		return "RecordLit"
	case ExprMatch:
		return "Match"
	case ExprBlock:
		return "Block"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprIf:
		return "If"
	case ExprReturn:
		return "Return"
	default:
		return "Invalid"
	}
}

// Expr is the arena header for one expression node.
type Expr struct {
	Kind    ExprKind
	Payload PayloadID
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralUnit
)

// ExprLiteralData holds data for ExprLiteral.
type ExprLiteralData struct {
	Kind      LiteralKind
	Text      source.StringID // raw text for numeric/string literals
	IntValue  int64
	BoolValue bool
}

// ExprVarRefData holds data for ExprVarRef.
type ExprVarRefData struct {
	Name source.StringID
}

// ExprCallData holds data for ExprCall.
type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprMethodCallData holds data for ExprMethodCall. The receiver is implicit
// in user-facing call syntax and not part of Args.
type ExprMethodCallData struct {
	Receiver ExprID
	Method   source.StringID
	Args     []ExprID
}

// RecordLitField is one explicit field initializer in a record literal.
type RecordLitField struct {
	Name  source.StringID
	Value ExprID
}

// ExprRecordLitData holds data for ExprRecordLit. A valid Spread expression
// means the literal is not exhaustive over the record's fields.
type ExprRecordLitData struct {
	Fields []RecordLitField
	Spread ExprID
}

// MatchArm is one arm of a match expression. Guards do not participate in
// exhaustiveness reasoning.
type MatchArm struct {
	Pat   PatID
	Guard ExprID
	Value ExprID
}

// ExprMatchData holds data for ExprMatch. ArmsSpan covers the arm-list
// syntax and may be empty for synthesized matches.
type ExprMatchData struct {
	Subject  ExprID
	Arms     []MatchArm
	ArmsSpan source.Span
}

// ExprBlockData holds data for ExprBlock. Tail is the block's trailing value
// expression, NoExprID when the block ends with a statement.
type ExprBlockData struct {
	Stmts []ExprID
	Tail  ExprID
}

// ExprFieldAccessData holds data for ExprFieldAccess.
type ExprFieldAccessData struct {
	Object ExprID
	Field  source.StringID
}

// ExprUnaryData holds data for ExprUnary.
type ExprUnaryData struct {
	Op      uint8
	Operand ExprID
}

// ExprBinaryData holds data for ExprBinary.
type ExprBinaryData struct {
	Op    uint8
	Left  ExprID
	Right ExprID
}

// ExprIfData holds data for ExprIf. Else is NoExprID when absent.
type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// ExprReturnData holds data for ExprReturn. Value is NoExprID for bare return.
type ExprReturnData struct {
	Value ExprID
}
