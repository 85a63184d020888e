package sema

import (
	"testing"

	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/infer"
	"rill/internal/source"
	"rill/internal/types"
)

// fixture builds one function body with hand-assigned types, the way the
// inference engine would have left it.
type fixture struct {
	module  *body.Module
	in      *types.Interner
	strings *source.Interner
	b       *body.Body
	sm      *body.SourceMap
	inf     *infer.Result

	resolver Resolver
	nextOff  uint32
}

func newFixture() *fixture {
	return &fixture{
		module:  body.NewModule(),
		in:      types.NewInterner(),
		strings: source.NewInterner(),
		b:       body.NewBody(),
		sm:      body.NewSourceMap(),
		inf:     infer.NewResult(),
	}
}

func (f *fixture) intern(s string) source.StringID {
	return f.strings.Intern(s)
}

func (f *fixture) span() source.Span {
	f.nextOff += 4
	return source.Span{File: 1, Start: f.nextOff, End: f.nextOff + 2}
}

// expr assigns a type and a fresh span to an already-allocated expression.
func (f *fixture) expr(id body.ExprID, ty types.TypeID) body.ExprID {
	f.inf.ExprTypes[id] = ty
	f.sm.SetExprSpan(id, f.span())
	return id
}

// pat assigns a type and a fresh span to an already-allocated pattern.
func (f *fixture) pat(id body.PatID, ty types.TypeID) body.PatID {
	f.inf.PatTypes[id] = ty
	f.sm.SetPatSpan(id, f.span())
	return id
}

// lit allocates a typed integer literal expression.
func (f *fixture) lit(ty types.TypeID) body.ExprID {
	id := f.b.Exprs.NewLiteral(body.ExprLiteralData{Kind: body.LiteralInt, IntValue: 1})
	return f.expr(id, ty)
}

// finish wraps stmts into the root block and registers the function.
func (f *fixture) finish(stmts []body.ExprID, tail body.ExprID) body.FuncID {
	root := f.b.Exprs.NewBlock(stmts, tail)
	f.sm.SetExprSpan(root, f.span())
	f.b.Root = root
	return f.module.AddFunc(body.Func{
		Name:   f.intern("f"),
		File:   1,
		Body:   f.b,
		SrcMap: f.sm,
	})
}

// run validates the function and returns the collected diagnostics.
func (f *fixture) run(t *testing.T, id body.FuncID) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(16)
	ctx := &Context{
		Module:   f.module,
		Interner: f.in,
		Strings:  f.strings,
		Resolver: f.resolver,
		Reporter: diag.BagReporter{Bag: bag},
	}
	ValidateFunc(ctx, id, f.inf)
	return bag
}

func diagCodes(bag *diag.Bag) []diag.Code {
	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

func expectCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	got := diagCodes(bag)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

type stubResolver map[string]types.TypeID

func (r stubResolver) ResolveKnownEnum(path string) types.TypeID {
	return r[path]
}

func TestValidateFuncNilInputsAbstain(t *testing.T) {
	bag := diag.NewBag(4)
	ValidateFunc(nil, 1, nil)
	ValidateFunc(&Context{}, 1, nil)

	f := newFixture()
	ctx := &Context{
		Module:   f.module,
		Interner: f.in,
		Strings:  f.strings,
		Reporter: diag.BagReporter{Bag: bag},
	}
	ValidateFunc(ctx, body.FuncID(42), f.inf)
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	f := newFixture()
	builtins := f.in.Builtins()

	// zero() called with one argument: a stable finding across runs.
	fnTy := f.in.RegisterFn(nil, builtins.Unit)
	callee := f.expr(f.b.Exprs.NewVarRef(f.intern("zero")), fnTy)
	call := f.expr(f.b.Exprs.NewCall(callee, []body.ExprID{f.lit(builtins.Int)}), builtins.Unit)
	id := f.finish([]body.ExprID{call}, body.NoExprID)

	first := f.run(t, id)
	second := f.run(t, id)
	if first.Len() != 1 || second.Len() != 1 {
		t.Fatalf("expected one diagnostic per run, got %d and %d", first.Len(), second.Len())
	}
	a, b := first.Items()[0], second.Items()[0]
	if a.Code != b.Code || a.Message != b.Message || a.Primary != b.Primary {
		t.Fatalf("runs diverged: %+v vs %+v", a, b)
	}
}
