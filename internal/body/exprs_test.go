package body

import (
	"testing"

	"rill/internal/source"
)

func TestExprIDsStartAtOne(t *testing.T) {
	b := NewBody()
	first := b.Exprs.NewLiteral(ExprLiteralData{Kind: LiteralInt})
	if first != 1 {
		t.Fatalf("first ExprID = %d, want 1", first)
	}
	if NoExprID.IsValid() {
		t.Fatal("the zero ExprID must be invalid")
	}
	if b.Exprs.Get(NoExprID) != nil {
		t.Fatal("Get(NoExprID) should be nil")
	}
	// Slice is 0-indexed storage under the 1-based ids.
	if s := b.Exprs.Arena.Slice(); len(s) != 1 || s[0].Kind != ExprLiteral {
		t.Fatalf("Slice = %+v", s)
	}
}

func TestExprPayloadRoundTrip(t *testing.T) {
	b := NewBody()
	callee := b.Exprs.NewVarRef(1)
	arg := b.Exprs.NewLiteral(ExprLiteralData{Kind: LiteralInt})
	call := b.Exprs.NewCall(callee, []ExprID{arg})

	data, ok := b.Exprs.Call(call)
	if !ok {
		t.Fatal("Call payload missing")
	}
	if data.Callee != callee || len(data.Args) != 1 || data.Args[0] != arg {
		t.Fatalf("call data = %+v", data)
	}
	// Accessors are kind-checked: a call is not a block.
	if _, ok := b.Exprs.Block(call); ok {
		t.Fatal("Block on a call expr should fail")
	}
}

func TestMatchArmsSpanSurvives(t *testing.T) {
	b := NewBody()
	subject := b.Exprs.NewVarRef(1)
	pat := b.Pats.NewWild()
	val := b.Exprs.NewLiteral(ExprLiteralData{Kind: LiteralInt})
	arms := source.Span{File: 1, Start: 12, End: 40}
	m := b.Exprs.NewMatch(subject, []MatchArm{{Pat: pat, Value: val}}, arms)

	data, ok := b.Exprs.Match(m)
	if !ok || data.ArmsSpan != arms {
		t.Fatalf("match data = %+v ok=%v", data, ok)
	}
	if len(data.Arms) != 1 || data.Arms[0].Pat != pat {
		t.Fatalf("arms = %+v", data.Arms)
	}
}

func TestPatConstructors(t *testing.T) {
	b := NewBody()

	bind := b.Pats.NewBind(7, NoPatID)
	if data, ok := b.Pats.Bind(bind); !ok || data.Name != 7 {
		t.Fatalf("bind data = %+v ok=%v", data, ok)
	}

	tup := b.Pats.NewTuple([]PatID{b.Pats.NewWild(), b.Pats.NewWild()}, true)
	if data, ok := b.Pats.Tuple(tup); !ok || !data.HasRest || len(data.Elems) != 2 {
		t.Fatalf("tuple data = %+v ok=%v", data, ok)
	}

	rec := b.Pats.NewRecord([]RecordFieldPat{{Name: 3, Pat: b.Pats.NewWild()}}, false)
	if data, ok := b.Pats.Record(rec); !ok || data.HasRest || len(data.Fields) != 1 {
		t.Fatalf("record data = %+v ok=%v", data, ok)
	}

	ref := b.Pats.NewRef(bind)
	if data, ok := b.Pats.Ref(ref); !ok || data.Sub != bind {
		t.Fatalf("ref data = %+v ok=%v", data, ok)
	}

	wild := b.Pats.NewWild()
	if got := b.Pats.Get(wild); got == nil || got.Kind != PatWild {
		t.Fatalf("wild pat = %+v", got)
	}
}

func TestSourceMapMissingSpans(t *testing.T) {
	sm := NewSourceMap()
	sm.SetExprSpan(2, source.Span{File: 1, Start: 5, End: 9})

	if sp, ok := sm.ExprSpan(2); !ok || sp.Start != 5 {
		t.Fatalf("ExprSpan(2) = %+v ok=%v", sp, ok)
	}
	if _, ok := sm.ExprSpan(9); ok {
		t.Fatal("unmapped expr should have no span")
	}
	if _, ok := sm.PatSpan(1); ok {
		t.Fatal("unmapped pat should have no span")
	}
}

func TestModuleFuncIDsAreOrdered(t *testing.T) {
	m := NewModule()
	a := m.AddFunc(Func{Name: 1})
	b := m.AddFunc(Func{Name: 2})
	if a != 1 || b != 2 {
		t.Fatalf("func ids = %d, %d, want 1, 2", a, b)
	}

	ids := m.FuncIDs()
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("FuncIDs = %v", ids)
	}
	if m.Func(NoFuncID) != nil {
		t.Fatal("Func(NoFuncID) should be nil")
	}
	if got := m.Func(b); got == nil || got.Name != 2 {
		t.Fatalf("Func(%d) = %+v", b, got)
	}
}
