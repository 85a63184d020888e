// Package sema implements the semantic-validation pass over inferred
// function bodies. Given a body, its inference result and the type interner,
// it reports four classes of well-formedness defects: missing record fields
// (literals and patterns), mismatched call argument counts, non-exhaustive
// match expressions, and a missing success wrap at a function's tail
// expression.
//
// Every checker abstains on unresolved input: an unknown type, an unmapped
// source position or a partial inference state yields silence for that node,
// never a pass failure. The worst outcome of any indeterminacy is a missed
// finding.
package sema

import (
	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/infer"
	"rill/internal/source"
	"rill/internal/types"
)

// ResultPath is the well-known prelude path of the two-variant success/error
// wrapper used by the tail-result check.
const ResultPath = "std::result::Result"

// Resolver looks up well-known prelude types in a function's resolution
// scope. Environments without the standard prelude return NoTypeID.
type Resolver interface {
	ResolveKnownEnum(path string) types.TypeID
}

// Context carries the shared read-only collaborators of a validation pass.
type Context struct {
	Module   *body.Module
	Interner *types.Interner
	Strings  *source.Interner
	Resolver Resolver
	Reporter diag.Reporter
}

// ValidateFunc runs the full validation pass over one function body. The
// inference result must be fully computed and is never mutated.
func ValidateFunc(ctx *Context, id body.FuncID, inf *infer.Result) {
	if ctx == nil || ctx.Module == nil || ctx.Interner == nil {
		return
	}
	fn := ctx.Module.Func(id)
	if fn == nil || fn.Body == nil {
		return
	}
	v := &validator{
		ctx:   ctx,
		fn:    fn,
		body:  fn.Body,
		infer: inf,
	}
	v.run()
}

type validator struct {
	ctx   *Context
	fn    *body.Func
	body  *body.Body
	infer *infer.Result
}

// exprSpan resolves an expression's syntax range; a miss means the node was
// synthesized and must not be reported.
func (v *validator) exprSpan(id body.ExprID) (source.Span, bool) {
	return v.fn.SrcMap.ExprSpan(id)
}

func (v *validator) patSpan(id body.PatID) (source.Span, bool) {
	return v.fn.SrcMap.PatSpan(id)
}

func (v *validator) lookupName(id source.StringID) string {
	if v.ctx.Strings == nil {
		return ""
	}
	name, _ := v.ctx.Strings.Lookup(id)
	return name
}
