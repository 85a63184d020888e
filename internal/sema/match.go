package sema

import (
	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/types"
)

// validateMatch builds the arm matrix for one match expression and asks
// whether an extra wildcard row would still be useful; if so the arm set
// does not cover every value of the subject type.
//
// Arm patterns whose type is unresolved, or differs from the subject type
// after one reference strip, abandon the entire check: a partial matrix
// risks a false positive, which is strictly worse than silence here.
func (v *validator) validateMatch(id body.ExprID) {
	data, ok := v.body.Exprs.Match(id)
	if !ok {
		return
	}
	subjectTy := v.infer.TypeOfExpr(data.Subject)
	if subjectTy == types.NoTypeID {
		return
	}
	stripped := v.ctx.Interner.StripReference(subjectTy)

	cx := &matchCtx{body: v.body, infer: v.infer, in: v.ctx.Interner}
	seen := newMatrix()
	queryTy := subjectTy
	for _, arm := range data.Arms {
		patTy := v.infer.TypeOfPat(arm.Pat)
		switch {
		case patTy == types.NoTypeID:
			return
		case patTy == subjectTy:
		case stripped != subjectTy && patTy == stripped:
			// By-value arm against a by-reference subject.
			queryTy = stripped
		default:
			return
		}
		seen.push([]patNode{{id: arm.Pat}})
	}

	useful, err := cx.isUseful(seen, &patStack{
		pats: []patNode{wildNode},
		tys:  []types.TypeID{queryTy},
	})
	if err != nil || !useful {
		// Indeterminate verdicts collapse to silence.
		return
	}

	span, ok := v.exprSpan(id)
	if !ok {
		return
	}
	b := diag.ReportError(v.ctx.Reporter, diag.ValMissingMatchArms, span,
		"match expression is not exhaustive")
	if !data.ArmsSpan.Empty() {
		b = b.WithNote(data.ArmsSpan, "these arms do not cover every possible value")
	}
	b.Emit()
}
