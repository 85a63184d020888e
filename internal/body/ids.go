// Package body holds already-lowered function bodies: expression and pattern
// trees with stable per-function ids, plus the source map that anchors them
// back to syntax.
//
// Bodies are built once by an earlier stage (or decoded from an analysis
// snapshot) and are immutable afterwards. Expression and pattern ids live in
// distinct namespaces; both use zero as the "no node" sentinel.
package body

type (
	// FuncID identifies a function within a Module.
	FuncID uint32
	// ExprID identifies an expression within one function body.
	ExprID uint32
	// PatID identifies a pattern within one function body.
	PatID uint32
	// PayloadID indexes a kind-specific payload arena.
	PayloadID uint32
)

const (
	NoFuncID    FuncID    = 0
	NoExprID    ExprID    = 0
	NoPatID     PatID     = 0
	NoPayloadID PayloadID = 0
)

func (id FuncID) IsValid() bool    { return id != NoFuncID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PatID) IsValid() bool     { return id != NoPatID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
