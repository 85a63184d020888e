package types

import (
	"fmt"

	"fortio.org/safecast"

	"rill/internal/source"
)

// UnionInfo stores metadata for a union type. Unions carry unchecked field
// layouts; the validators never reason about their coverage.
type UnionInfo struct {
	Name   source.StringID
	Decl   source.Span
	Fields []StructField
}

// RegisterUnion allocates a nominal union type slot and returns its TypeID.
func (in *Interner) RegisterUnion(name source.StringID, decl source.Span) TypeID {
	slot := in.appendUnionInfo(UnionInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindUnion, Payload: slot})
}

// SetUnionFields stores the declared fields for the union type.
func (in *Interner) SetUnionFields(typeID TypeID, fields []StructField) {
	info := in.unionInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = cloneStructFields(fields)
}

// UnionInfo returns metadata for the provided union TypeID.
func (in *Interner) UnionInfo(typeID TypeID) (*UnionInfo, bool) {
	info := in.unionInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) unionInfo(typeID TypeID) *UnionInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindUnion {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.unions) {
		return nil
	}
	return &in.unions[tt.Payload]
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	if in.unions == nil {
		in.unions = append(in.unions, UnionInfo{})
	}
	in.unions = append(in.unions, UnionInfo{
		Name:   info.Name,
		Decl:   info.Decl,
		Fields: cloneStructFields(info.Fields),
	})
	slot, err := safecast.Conv[uint32](len(in.unions) - 1)
	if err != nil {
		panic(fmt.Errorf("union info overflow: %w", err))
	}
	return slot
}
