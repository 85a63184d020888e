package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	Float   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types (structs, enums, unions) are never deduplicated; each
// registration allocates a fresh identity.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	structs  []StructInfo
	enums    []EnumInfo
	unions   []UnionInfo
	tuples   []TupleInfo
	fns      []FnInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.Uint = in.Intern(MakeUint(WidthAny))
	in.builtins.Float = in.Intern(MakeFloat(WidthAny))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided structural descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len returns the number of interned types, counting NoTypeID.
func (in *Interner) Len() int {
	return len(in.types)
}

// StripReference removes exactly one reference layer, if present.
func (in *Interner) StripReference(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindReference {
		return id
	}
	return tt.Elem
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Width   Width
	Mutable bool
	Payload uint32
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	result := make([]TypeID, len(args))
	copy(result, args)
	return result
}
