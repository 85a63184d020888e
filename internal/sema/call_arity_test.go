package sema

import (
	"strings"
	"testing"

	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/infer"
	"rill/internal/types"
)

func TestCallArityZeroParamsOneArg(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	fnTy := f.in.RegisterFn(nil, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("zero")), fnTy)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(builtins.Int)}), builtins.Unit)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	bag := f.run(t, id)
	expectCodes(t, bag, diag.ValMismatchedArgCount)
	if msg := bag.Items()[0].Message; msg != "expected 0 arguments, found 1" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCallArityOneParamNoArgs(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	u8 := f.in.Intern(types.MakeUint(types.Width8))
	fnTy := f.in.RegisterFn([]types.TypeID{u8}, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("one")), fnTy)
	call := f.expr(f.b.Exprs.NewCall(callee, nil), builtins.Unit)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	bag := f.run(t, id)
	expectCodes(t, bag, diag.ValMismatchedArgCount)
	if msg := bag.Items()[0].Message; msg != "expected 1 argument, found 0" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCallArityExactCountSilent(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	u8 := f.in.Intern(types.MakeUint(types.Width8))
	fnTy := f.in.RegisterFn([]types.TypeID{u8}, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("one")), fnTy)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(u8)}), builtins.Unit)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	if bag := f.run(t, id); bag.Len() != 0 {
		t.Fatalf("expected silence, got %v", bag.Items())
	}
}

// Tuple-struct constructors surface as plain callables, so a short
// construction is an arity finding like any other call.
func TestCallArityTupleStructCtor(t *testing.T) {
	f := newFixture()

	u8 := f.in.Intern(types.MakeUint(types.Width8))
	u16 := f.in.Intern(types.MakeUint(types.Width16))
	pair := f.in.RegisterStruct(f.intern("Pair"), f.span())
	ctorTy := f.in.RegisterFn([]types.TypeID{u8, u16}, pair)

	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("Pair")), ctorTy)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(u8)}), pair)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	bag := f.run(t, id)
	expectCodes(t, bag, diag.ValMismatchedArgCount)
	if msg := bag.Items()[0].Message; msg != "expected 2 arguments, found 1" {
		t.Fatalf("unexpected message %q", msg)
	}
}

// The receiver fills the first parameter slot; the report counts only
// what is written between the parentheses.
func TestMethodCallArityCountsReceiver(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	u8 := f.in.Intern(types.MakeUint(types.Width8))
	recv := f.in.RegisterStruct(f.intern("S"), f.span())
	methodTy := f.in.RegisterFn([]types.TypeID{recv, u8}, builtins.Unit)

	self := f.expr(f.b.Exprs.NewVarRef(f.intern("s")), recv)
	call := f.expr(f.b.Exprs.NewMethodCall(self, f.intern("set"), nil), builtins.Unit)
	f.inf.MethodTargets[call] = methodTy
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	bag := f.run(t, id)
	expectCodes(t, bag, diag.ValMismatchedArgCount)
	if msg := bag.Items()[0].Message; msg != "expected 1 argument, found 0" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestMethodCallArityExactCountSilent(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	u8 := f.in.Intern(types.MakeUint(types.Width8))
	recv := f.in.RegisterStruct(f.intern("S"), f.span())
	methodTy := f.in.RegisterFn([]types.TypeID{recv, u8}, builtins.Unit)

	self := f.expr(f.b.Exprs.NewVarRef(f.intern("s")), recv)
	call := f.expr(f.b.Exprs.NewMethodCall(self, f.intern("set"), []body.ExprID{f.lit(u8)}), builtins.Unit)
	f.inf.MethodTargets[call] = methodTy
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	if bag := f.run(t, id); bag.Len() != 0 {
		t.Fatalf("expected silence, got %v", bag.Items())
	}
}

func TestCallArityNonCallableSilent(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("x")), builtins.Int)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(builtins.Int)}), builtins.Unit)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	if bag := f.run(t, id); bag.Len() != 0 {
		t.Fatalf("expected silence, got %v", bag.Items())
	}
}

// A function body with any type mismatch suppresses arity reports; the
// resolved signatures cannot be trusted there.
func TestCallAritySkippedOnTypeMismatch(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	fnTy := f.in.RegisterFn(nil, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("zero")), fnTy)
	bad := f.lit(builtins.Int)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{bad}), builtins.Unit)
	f.inf.Mismatches = append(f.inf.Mismatches, infer.TypeMismatch{
		Expr:     bad,
		Expected: builtins.String,
		Actual:   builtins.Int,
	})
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	if bag := f.run(t, id); bag.Len() != 0 {
		t.Fatalf("expected silence, got %v", bag.Items())
	}
}

func TestCallArityUnmappedSpanSilent(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	fnTy := f.in.RegisterFn(nil, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("zero")), fnTy)
	call := f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(builtins.Int)})
	f.inf.ExprTypes[call] = builtins.Unit // no span on purpose
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	if bag := f.run(t, id); bag.Len() != 0 {
		t.Fatalf("expected silence, got %v", bag.Items())
	}
}

func TestPluralArgs(t *testing.T) {
	if got := pluralArgs(1); got != "1 argument" {
		t.Fatalf("pluralArgs(1) = %q", got)
	}
	if got := pluralArgs(0); !strings.HasSuffix(got, "arguments") {
		t.Fatalf("pluralArgs(0) = %q", got)
	}
}
