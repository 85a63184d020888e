// Package infer defines the immutable per-function inference result the
// validation pass reads. The inference engine itself lives outside this
// module; tests and the snapshot decoder populate these tables.
package infer

import (
	"rill/internal/body"
	"rill/internal/types"
)

// TypeMismatch records one inference failure: the expression whose actual
// type did not meet its expectation.
type TypeMismatch struct {
	Expr     body.ExprID
	Expected types.TypeID
	Actual   types.TypeID
}

// Result is the already-computed inference output for one function body.
// It is read-only for every consumer; sharing by reference across
// goroutines is safe.
type Result struct {
	ExprTypes     map[body.ExprID]types.TypeID
	PatTypes      map[body.PatID]types.TypeID
	MethodTargets map[body.ExprID]types.TypeID // method call expr -> resolved fn type
	ExprVariants  map[body.ExprID]types.VariantID
	PatVariants   map[body.PatID]types.VariantID
	Mismatches    []TypeMismatch
}

// NewResult allocates an empty inference result.
func NewResult() *Result {
	return &Result{
		ExprTypes:     make(map[body.ExprID]types.TypeID),
		PatTypes:      make(map[body.PatID]types.TypeID),
		MethodTargets: make(map[body.ExprID]types.TypeID),
		ExprVariants:  make(map[body.ExprID]types.VariantID),
		PatVariants:   make(map[body.PatID]types.VariantID),
	}
}

// TypeOfExpr returns the resolved type of an expression, or NoTypeID.
func (r *Result) TypeOfExpr(id body.ExprID) types.TypeID {
	if r == nil {
		return types.NoTypeID
	}
	return r.ExprTypes[id]
}

// TypeOfPat returns the resolved type of a pattern, or NoTypeID.
func (r *Result) TypeOfPat(id body.PatID) types.TypeID {
	if r == nil {
		return types.NoTypeID
	}
	return r.PatTypes[id]
}

// MethodTarget returns the resolved callable type of a method call
// expression, or NoTypeID when resolution failed.
func (r *Result) MethodTarget(id body.ExprID) types.TypeID {
	if r == nil {
		return types.NoTypeID
	}
	return r.MethodTargets[id]
}

// VariantForExpr returns the record/variant resolution for a record literal.
func (r *Result) VariantForExpr(id body.ExprID) types.VariantID {
	if r == nil {
		return types.NoVariantID
	}
	return r.ExprVariants[id]
}

// VariantForPat returns the record/variant resolution for a record pattern.
func (r *Result) VariantForPat(id body.PatID) types.VariantID {
	if r == nil {
		return types.NoVariantID
	}
	return r.PatVariants[id]
}

// HasMismatches reports whether any type mismatch was recorded for the body.
func (r *Result) HasMismatches() bool {
	return r != nil && len(r.Mismatches) > 0
}

// MismatchForExpr returns the mismatch recorded at the given expression.
func (r *Result) MismatchForExpr(id body.ExprID) (TypeMismatch, bool) {
	if r == nil {
		return TypeMismatch{}, false
	}
	for _, m := range r.Mismatches {
		if m.Expr == id {
			return m, true
		}
	}
	return TypeMismatch{}, false
}
