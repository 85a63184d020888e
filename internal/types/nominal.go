package types

import (
	"fmt"

	"fortio.org/safecast"

	"rill/internal/source"
)

// StructField describes a single field inside a record-shaped type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   source.StringID
	Decl   source.Span
	Fields []StructField
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot := in.appendStructInfo(StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []StructField) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = cloneStructFields(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	if in.structs == nil {
		in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	}
	in.structs = append(in.structs, StructInfo{
		Name:   info.Name,
		Decl:   info.Decl,
		Fields: cloneStructFields(info.Fields),
	})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}

func cloneStructFields(fields []StructField) []StructField {
	if len(fields) == 0 {
		return nil
	}
	result := make([]StructField, len(fields))
	copy(result, fields)
	return result
}
