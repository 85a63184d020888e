package sema

import (
	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/source"
)

// validateTailResult inspects the type mismatch recorded at the function's
// outermost block. When the expected type is the prelude's two-parameter
// Result wrapper and its success parameter equals the actual type, the tail
// value only needs an Ok wrap, which is a much better report than a generic
// type mismatch.
//
// Environments without the standard prelude skip silently.
func (v *validator) validateTailResult(root, tail body.ExprID) {
	mismatch, ok := v.infer.MismatchForExpr(root)
	if !ok {
		return
	}
	if v.ctx.Resolver == nil {
		return
	}
	resultDecl := v.ctx.Resolver.ResolveKnownEnum(ResultPath)
	declInfo, ok := v.ctx.Interner.EnumInfo(resultDecl)
	if !ok {
		return
	}
	// Identity is the declaration site, not the name: a user enum that
	// happens to be called Result must not trigger the wrap hint.
	expInfo, ok := v.ctx.Interner.EnumInfo(mismatch.Expected)
	if !ok || expInfo.Decl != declInfo.Decl {
		return
	}
	if len(expInfo.TypeArgs) != 2 || expInfo.TypeArgs[0] != mismatch.Actual {
		return
	}

	span, ok := v.exprSpan(tail)
	if !ok {
		return
	}
	diag.ReportError(v.ctx.Reporter, diag.ValMissingOkWrap, span,
		"tail expression carries the success type; wrap it in Ok").
		WithFix("wrap tail expression in Ok",
			diag.FixEdit{Span: source.Span{File: span.File, Start: span.Start, End: span.Start}, NewText: "Ok("},
			diag.FixEdit{Span: source.Span{File: span.File, Start: span.End, End: span.End}, NewText: ")"},
		).
		Emit()
}
