package sema

import (
	"fmt"

	"rill/internal/body"
	"rill/internal/diag"
)

// validateCall compares supplied argument counts against the resolved
// callable's parameter count. For method calls the receiver counts as the
// first parameter, then both numbers are decremented so the report matches
// what is visible in source.
//
// The check is skipped wholesale when the function carries any type
// mismatch: the signature resolution behind the parameter count is not
// trustworthy then, and a false arity diagnostic is worse than a missed one.
func (v *validator) validateCall(id body.ExprID, kind body.ExprKind) {
	if v.infer.HasMismatches() {
		return
	}

	var (
		paramCount int
		argCount   int
		isMethod   bool
	)
	switch kind {
	case body.ExprCall:
		data, ok := v.body.Exprs.Call(id)
		if !ok {
			return
		}
		calleeTy := v.infer.TypeOfExpr(data.Callee)
		sig, ok := v.ctx.Interner.FnInfo(calleeTy)
		if !ok {
			// Callability is adjudicated elsewhere.
			return
		}
		paramCount = len(sig.Params)
		argCount = len(data.Args)
	case body.ExprMethodCall:
		data, ok := v.body.Exprs.MethodCall(id)
		if !ok {
			return
		}
		sig, ok := v.ctx.Interner.FnInfo(v.infer.MethodTarget(id))
		if !ok {
			return
		}
		paramCount = len(sig.Params)
		argCount = len(data.Args) + 1 // receiver
		isMethod = true
	default:
		return
	}

	if argCount == paramCount {
		return
	}
	span, ok := v.exprSpan(id)
	if !ok {
		return
	}
	if isMethod {
		paramCount--
		argCount--
	}
	diag.ReportError(v.ctx.Reporter, diag.ValMismatchedArgCount, span,
		fmt.Sprintf("expected %s, found %d", pluralArgs(paramCount), argCount)).
		Emit()
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}
