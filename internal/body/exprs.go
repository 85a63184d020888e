package body

import (
	"rill/internal/source"
)

// Exprs manages allocation of expression nodes and their payloads.
type Exprs struct {
	Arena       *Arena[Expr]
	Literals    *Arena[ExprLiteralData]
	VarRefs     *Arena[ExprVarRefData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	RecordLits  *Arena[ExprRecordLitData]
	Matches     *Arena[ExprMatchData]
	Blocks      *Arena[ExprBlockData]
	Fields      *Arena[ExprFieldAccessData]
	Unaries     *Arena[ExprUnaryData]
	Binaries    *Arena[ExprBinaryData]
	Ifs         *Arena[ExprIfData]
	Returns     *Arena[ExprReturnData]
}

// NewExprs creates per-kind arenas preallocated with capHint.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Literals:    NewArena[ExprLiteralData](capHint),
		VarRefs:     NewArena[ExprVarRefData](capHint),
		Calls:       NewArena[ExprCallData](capHint),
		MethodCalls: NewArena[ExprMethodCallData](capHint),
		RecordLits:  NewArena[ExprRecordLitData](capHint),
		Matches:     NewArena[ExprMatchData](capHint),
		Blocks:      NewArena[ExprBlockData](capHint),
		Fields:      NewArena[ExprFieldAccessData](capHint),
		Unaries:     NewArena[ExprUnaryData](capHint),
		Binaries:    NewArena[ExprBinaryData](capHint),
		Ifs:         NewArena[ExprIfData](capHint),
		Returns:     NewArena[ExprReturnData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Payload: payload}))
}

// Get returns the expression header with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len returns the number of allocated expressions.
func (e *Exprs) Len() uint32 {
	return e.Arena.Len()
}

// NewLiteral allocates a literal expression.
func (e *Exprs) NewLiteral(data ExprLiteralData) ExprID {
	payload := e.Literals.Allocate(data)
	return e.new(ExprLiteral, PayloadID(payload))
}

// Literal returns literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLiteral {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

// NewVarRef allocates a variable reference expression.
func (e *Exprs) NewVarRef(name source.StringID) ExprID {
	payload := e.VarRefs.Allocate(ExprVarRefData{Name: name})
	return e.new(ExprVarRef, PayloadID(payload))
}

// NewCall allocates a call expression.
func (e *Exprs) NewCall(callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, PayloadID(payload))
}

// Call returns call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewMethodCall allocates a method call expression.
func (e *Exprs) NewMethodCall(receiver ExprID, method source.StringID, args []ExprID) ExprID {
	payload := e.MethodCalls.Allocate(ExprMethodCallData{Receiver: receiver, Method: method, Args: args})
	return e.new(ExprMethodCall, PayloadID(payload))
}

// MethodCall returns method call data for the given expression ID.
func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMethodCall {
		return nil, false
	}
	return e.MethodCalls.Get(uint32(expr.Payload)), true
}

// NewRecordLit allocates a record literal expression.
func (e *Exprs) NewRecordLit(fields []RecordLitField, spread ExprID) ExprID {
	payload := e.RecordLits.Allocate(ExprRecordLitData{Fields: fields, Spread: spread})
	return e.new(ExprRecordLit, PayloadID(payload))
}

// RecordLit returns record literal data for the given expression ID.
func (e *Exprs) RecordLit(id ExprID) (*ExprRecordLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRecordLit {
		return nil, false
	}
	return e.RecordLits.Get(uint32(expr.Payload)), true
}

// NewMatch allocates a match expression.
func (e *Exprs) NewMatch(subject ExprID, arms []MatchArm, armsSpan source.Span) ExprID {
	payload := e.Matches.Allocate(ExprMatchData{Subject: subject, Arms: arms, ArmsSpan: armsSpan})
	return e.new(ExprMatch, PayloadID(payload))
}

// Match returns match data for the given expression ID.
func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMatch {
		return nil, false
	}
	return e.Matches.Get(uint32(expr.Payload)), true
}

// NewBlock allocates a block expression.
func (e *Exprs) NewBlock(stmts []ExprID, tail ExprID) ExprID {
	payload := e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Tail: tail})
	return e.new(ExprBlock, PayloadID(payload))
}

// Block returns block data for the given expression ID.
func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

// NewFieldAccess allocates a field access expression.
func (e *Exprs) NewFieldAccess(object ExprID, field source.StringID) ExprID {
	payload := e.Fields.Allocate(ExprFieldAccessData{Object: object, Field: field})
	return e.new(ExprFieldAccess, PayloadID(payload))
}

// NewUnary allocates a unary operator expression.
func (e *Exprs) NewUnary(op uint8, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, PayloadID(payload))
}

// NewBinary allocates a binary operator expression.
func (e *Exprs) NewBinary(op uint8, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, PayloadID(payload))
}

// NewIf allocates a conditional expression.
func (e *Exprs) NewIf(cond, then, els ExprID) ExprID {
	payload := e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els})
	return e.new(ExprIf, PayloadID(payload))
}

// NewReturn allocates a return expression.
func (e *Exprs) NewReturn(value ExprID) ExprID {
	payload := e.Returns.Allocate(ExprReturnData{Value: value})
	return e.new(ExprReturn, PayloadID(payload))
}
