package types

import (
	"rill/internal/source"
)

// VariantKind discriminates what a VariantID points at.
type VariantKind uint8

const (
	// VariantInvalid is the zero value of a VariantID.
	VariantInvalid VariantKind = iota
	// VariantStruct references a struct type.
	VariantStruct
	// VariantEnum references one arm of an enum type.
	VariantEnum
	// VariantUnion references a union type. Unions are excluded from
	// field-completeness and exhaustiveness reasoning.
	VariantUnion
)

// VariantID is a discriminated reference to a record-shaped declaration:
// a struct, a single enum variant, or a union.
type VariantID struct {
	Kind  VariantKind
	Type  TypeID
	Index uint32 // enum variant index, unused otherwise
}

// NoVariantID marks the absence of a variant resolution.
var NoVariantID = VariantID{}

func (v VariantID) IsValid() bool {
	return v.Kind != VariantInvalid
}

// StructVariant builds a VariantID for a struct type.
func StructVariant(ty TypeID) VariantID {
	return VariantID{Kind: VariantStruct, Type: ty}
}

// EnumVariant builds a VariantID for one arm of an enum type.
func EnumVariant(ty TypeID, index uint32) VariantID {
	return VariantID{Kind: VariantEnum, Type: ty, Index: index}
}

// UnionVariant builds a VariantID for a union type.
func UnionVariant(ty TypeID) VariantID {
	return VariantID{Kind: VariantUnion, Type: ty}
}

// VariantFields returns the declared fields of the variant in declaration
// order, or nil when the variant cannot be resolved. The returned slice
// aliases interner storage and must not be modified.
func (in *Interner) VariantFields(v VariantID) []StructField {
	switch v.Kind {
	case VariantStruct:
		info := in.structInfo(v.Type)
		if info == nil {
			return nil
		}
		return info.Fields
	case VariantEnum:
		info := in.enumInfo(v.Type)
		if info == nil || int(v.Index) >= len(info.Variants) {
			return nil
		}
		return info.Variants[v.Index].Fields
	case VariantUnion:
		info := in.unionInfo(v.Type)
		if info == nil {
			return nil
		}
		return info.Fields
	}
	return nil
}

// VariantName returns the declared name of the referenced variant.
func (in *Interner) VariantName(v VariantID) source.StringID {
	switch v.Kind {
	case VariantStruct:
		if info := in.structInfo(v.Type); info != nil {
			return info.Name
		}
	case VariantEnum:
		if info := in.enumInfo(v.Type); info != nil && int(v.Index) < len(info.Variants) {
			return info.Variants[v.Index].Name
		}
	case VariantUnion:
		if info := in.unionInfo(v.Type); info != nil {
			return info.Name
		}
	}
	return source.NoStringID
}
