package sema

import (
	"rill/internal/body"
)

// run walks the function body once: every expression in id order, then every
// pattern, then the tail of the outermost block. The passes share no mutable
// state besides the reporter, so their relative order is not observable.
func (v *validator) run() {
	exprs := v.body.Exprs
	for i, expr := range exprs.Arena.Slice() {
		id := body.ExprID(i + 1) // #nosec G115 -- node counts fit uint32
		if expr.Kind == body.ExprRecordLit {
			v.checkRecordLitFields(id)
		}
		switch expr.Kind {
		case body.ExprMatch:
			v.validateMatch(id)
		case body.ExprCall, body.ExprMethodCall:
			v.validateCall(id, expr.Kind)
		}
	}

	for i, pat := range v.body.Pats.Arena.Slice() {
		id := body.PatID(i + 1) // #nosec G115 -- node counts fit uint32
		if pat.Kind == body.PatRecord {
			v.checkRecordPatFields(id)
		}
	}

	if blk, ok := exprs.Block(v.body.Root); ok && blk.Tail.IsValid() {
		v.validateTailResult(v.body.Root, blk.Tail)
	}
}
