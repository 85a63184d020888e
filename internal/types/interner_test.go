package types

import (
	"testing"

	"rill/internal/source"
)

func TestInternDeduplicatesStructural(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeInt(Width32))
	b := in.Intern(MakeInt(Width32))
	if a != b {
		t.Fatalf("same descriptor interned twice: %d vs %d", a, b)
	}
	c := in.Intern(MakeInt(Width64))
	if c == a {
		t.Fatal("different widths must not share a TypeID")
	}
}

func TestInternInvalidIsNoTypeID(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(Type{Kind: KindInvalid}); got != NoTypeID {
		t.Fatalf("Intern(invalid) = %d, want NoTypeID", got)
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatal("Lookup(NoTypeID) must fail")
	}
}

func TestNominalTypesKeepIdentity(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	name := strs.Intern("Point")

	a := in.RegisterStruct(name, source.Span{})
	b := in.RegisterStruct(name, source.Span{})
	if a == b {
		t.Fatal("two struct declarations with the same name must get fresh TypeIDs")
	}
}

func TestRegisterTupleDeduplicates(t *testing.T) {
	in := NewInterner()
	bi := in.Builtins()
	a := in.RegisterTuple([]TypeID{bi.Bool, bi.Int})
	b := in.RegisterTuple([]TypeID{bi.Bool, bi.Int})
	if a != b {
		t.Fatalf("identical tuples interned twice: %d vs %d", a, b)
	}
	info, ok := in.TupleInfo(a)
	if !ok || len(info.Elems) != 2 || info.Elems[0] != bi.Bool {
		t.Fatalf("TupleInfo = %+v ok=%v", info, ok)
	}
}

func TestRegisterFnDeduplicates(t *testing.T) {
	in := NewInterner()
	bi := in.Builtins()
	a := in.RegisterFn([]TypeID{bi.Int}, bi.Bool)
	b := in.RegisterFn([]TypeID{bi.Int}, bi.Bool)
	if a != b {
		t.Fatalf("identical fn types interned twice: %d vs %d", a, b)
	}
	info, ok := in.FnInfo(a)
	if !ok || len(info.Params) != 1 || info.Result != bi.Bool {
		t.Fatalf("FnInfo = %+v ok=%v", info, ok)
	}
}

func TestStripReference(t *testing.T) {
	in := NewInterner()
	bi := in.Builtins()
	ref := in.Intern(MakeReference(bi.Bool, false))
	if got := in.StripReference(ref); got != bi.Bool {
		t.Fatalf("StripReference(&bool) = %d, want %d", got, bi.Bool)
	}
	// Only one layer comes off.
	refRef := in.Intern(MakeReference(ref, true))
	if got := in.StripReference(refRef); got != ref {
		t.Fatalf("StripReference(&&bool) = %d, want %d", got, ref)
	}
	if got := in.StripReference(bi.Int); got != bi.Int {
		t.Fatalf("StripReference on non-reference changed the id: %d", got)
	}
}

func TestVariantFieldsPerKind(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	bi := in.Builtins()

	structID := in.RegisterStruct(strs.Intern("Point"), source.Span{})
	in.SetStructFields(structID, []StructField{
		{Name: strs.Intern("x"), Type: bi.Int},
		{Name: strs.Intern("y"), Type: bi.Int},
	})
	fields := in.VariantFields(StructVariant(structID))
	if len(fields) != 2 || fields[0].Name != strs.Intern("x") {
		t.Fatalf("struct variant fields = %+v", fields)
	}

	enumID := in.RegisterEnum(strs.Intern("Shape"), source.Span{})
	in.SetEnumVariants(enumID, []EnumVariantInfo{
		{Name: strs.Intern("Dot")},
		{Name: strs.Intern("Rect"), Fields: []StructField{
			{Name: strs.Intern("w"), Type: bi.Int},
			{Name: strs.Intern("h"), Type: bi.Int},
		}},
	})
	fields = in.VariantFields(EnumVariant(enumID, 1))
	if len(fields) != 2 || fields[1].Name != strs.Intern("h") {
		t.Fatalf("enum variant fields = %+v", fields)
	}
	if got := in.VariantFields(EnumVariant(enumID, 5)); got != nil {
		t.Fatalf("out-of-range enum variant should resolve to nil, got %+v", got)
	}

	unionID := in.RegisterUnion(strs.Intern("Raw"), source.Span{})
	in.SetUnionFields(unionID, []StructField{{Name: strs.Intern("bits"), Type: bi.Uint}})
	fields = in.VariantFields(UnionVariant(unionID))
	if len(fields) != 1 {
		t.Fatalf("union variant fields = %+v", fields)
	}

	if got := in.VariantFields(NoVariantID); got != nil {
		t.Fatalf("VariantFields(NoVariantID) = %+v, want nil", got)
	}
}

func TestVariantName(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()

	enumID := in.RegisterEnum(strs.Intern("Light"), source.Span{})
	red := strs.Intern("Red")
	in.SetEnumVariants(enumID, []EnumVariantInfo{{Name: red}})

	if got := in.VariantName(EnumVariant(enumID, 0)); got != red {
		t.Fatalf("VariantName = %d, want %d", got, red)
	}
	if got := in.VariantName(NoVariantID); got != source.NoStringID {
		t.Fatalf("VariantName(NoVariantID) = %d, want NoStringID", got)
	}
}

func TestEnumInstanceArgs(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	bi := in.Builtins()

	inst := in.RegisterEnumInstance(strs.Intern("Result"), source.Span{}, []TypeID{bi.Bool, bi.String})
	args := in.EnumArgs(inst)
	if len(args) != 2 || args[0] != bi.Bool || args[1] != bi.String {
		t.Fatalf("EnumArgs = %v", args)
	}
	if got := in.EnumArgs(bi.Int); got != nil {
		t.Fatalf("EnumArgs on a primitive = %v, want nil", got)
	}
}
