package body

import (
	"rill/internal/source"
)

// PatKind enumerates pattern shapes. The usefulness engine handles every
// shape listed here; adding a kind requires touching its specialization step.
type PatKind uint8

const (
	PatInvalid PatKind = iota
	// PatWild is `_`.
	PatWild
	// PatBind is a name binding, optionally over a sub-pattern.
	PatBind
	// PatLit is a literal pattern.
	PatLit
	// PatTuple deconstructs a tuple with positional sub-patterns.
	PatTuple
	// PatRecord deconstructs a struct or enum variant by field name.
	PatRecord
	// PatTupleStruct deconstructs a variant-qualified constructor with
	// positional sub-patterns, e.g. Shape::Circle(r).
	PatTupleStruct
	// PatPath names a fieldless variant, e.g. Shape::Empty.
	PatPath
	// PatRef matches through one reference layer.
	PatRef
)

func (k PatKind) String() string {
	switch k {
	case PatWild:
		return "Wild"
	case PatBind:
		return "Bind"
	case PatLit:
		return "Lit"
	case PatTuple:
		return "Tuple"
	case PatRecord:
		return "Record"
	case PatTupleStruct:
		return "TupleStruct"
	case PatPath:
		return "Path"
	case PatRef:
		return "Ref"
	default:
		return "Invalid"
	}
}

// Pat is the arena header for one pattern node.
type Pat struct {
	Kind    PatKind
	Payload PayloadID
}

// PatBindData holds data for PatBind. Sub is NoPatID for a plain binding.
type PatBindData struct {
	Name source.StringID
	Sub  PatID
}

// PatLitData holds data for PatLit.
type PatLitData struct {
	Kind      LiteralKind
	Text      source.StringID
	IntValue  int64
	BoolValue bool
}

// PatTupleData holds data for PatTuple. HasRest marks a `..` in the element
// list; elided positions match anything.
type PatTupleData struct {
	Elems   []PatID
	HasRest bool
}

// RecordFieldPat is one named sub-pattern in a record pattern.
type RecordFieldPat struct {
	Name source.StringID
	Pat  PatID
}

// PatRecordData holds data for PatRecord. HasRest marks a `..` marker that
// makes the pattern non-exhaustive over fields.
type PatRecordData struct {
	Fields  []RecordFieldPat
	HasRest bool
}

// PatTupleStructData holds data for PatTupleStruct.
type PatTupleStructData struct {
	Args []PatID
}

// PatRefData holds data for PatRef.
type PatRefData struct {
	Sub PatID
}

// Pats manages allocation of pattern nodes and their payloads.
type Pats struct {
	Arena        *Arena[Pat]
	Binds        *Arena[PatBindData]
	Lits         *Arena[PatLitData]
	Tuples       *Arena[PatTupleData]
	Records      *Arena[PatRecordData]
	TupleStructs *Arena[PatTupleStructData]
	Refs         *Arena[PatRefData]
}

// NewPats creates per-kind arenas preallocated with capHint.
func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Pats{
		Arena:        NewArena[Pat](capHint),
		Binds:        NewArena[PatBindData](capHint),
		Lits:         NewArena[PatLitData](capHint),
		Tuples:       NewArena[PatTupleData](capHint),
		Records:      NewArena[PatRecordData](capHint),
		TupleStructs: NewArena[PatTupleStructData](capHint),
		Refs:         NewArena[PatRefData](capHint),
	}
}

func (p *Pats) new(kind PatKind, payload PayloadID) PatID {
	return PatID(p.Arena.Allocate(Pat{Kind: kind, Payload: payload}))
}

// Get returns the pattern header with the given ID.
func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

// Len returns the number of allocated patterns.
func (p *Pats) Len() uint32 {
	return p.Arena.Len()
}

// NewWild allocates a wildcard pattern.
func (p *Pats) NewWild() PatID {
	return p.new(PatWild, NoPayloadID)
}

// NewBind allocates a binding pattern.
func (p *Pats) NewBind(name source.StringID, sub PatID) PatID {
	payload := p.Binds.Allocate(PatBindData{Name: name, Sub: sub})
	return p.new(PatBind, PayloadID(payload))
}

// Bind returns binding data for the given pattern ID.
func (p *Pats) Bind(id PatID) (*PatBindData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatBind {
		return nil, false
	}
	return p.Binds.Get(uint32(pat.Payload)), true
}

// NewLit allocates a literal pattern.
func (p *Pats) NewLit(data PatLitData) PatID {
	payload := p.Lits.Allocate(data)
	return p.new(PatLit, PayloadID(payload))
}

// Lit returns literal data for the given pattern ID.
func (p *Pats) Lit(id PatID) (*PatLitData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatLit {
		return nil, false
	}
	return p.Lits.Get(uint32(pat.Payload)), true
}

// NewTuple allocates a tuple pattern.
func (p *Pats) NewTuple(elems []PatID, hasRest bool) PatID {
	payload := p.Tuples.Allocate(PatTupleData{Elems: elems, HasRest: hasRest})
	return p.new(PatTuple, PayloadID(payload))
}

// Tuple returns tuple data for the given pattern ID.
func (p *Pats) Tuple(id PatID) (*PatTupleData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTuple {
		return nil, false
	}
	return p.Tuples.Get(uint32(pat.Payload)), true
}

// NewRecord allocates a record pattern.
func (p *Pats) NewRecord(fields []RecordFieldPat, hasRest bool) PatID {
	payload := p.Records.Allocate(PatRecordData{Fields: fields, HasRest: hasRest})
	return p.new(PatRecord, PayloadID(payload))
}

// Record returns record data for the given pattern ID.
func (p *Pats) Record(id PatID) (*PatRecordData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatRecord {
		return nil, false
	}
	return p.Records.Get(uint32(pat.Payload)), true
}

// NewTupleStruct allocates a variant-qualified positional pattern.
func (p *Pats) NewTupleStruct(args []PatID) PatID {
	payload := p.TupleStructs.Allocate(PatTupleStructData{Args: args})
	return p.new(PatTupleStruct, PayloadID(payload))
}

// TupleStruct returns positional variant data for the given pattern ID.
func (p *Pats) TupleStruct(id PatID) (*PatTupleStructData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTupleStruct {
		return nil, false
	}
	return p.TupleStructs.Get(uint32(pat.Payload)), true
}

// NewPath allocates a fieldless variant pattern.
func (p *Pats) NewPath() PatID {
	return p.new(PatPath, NoPayloadID)
}

// NewRef allocates a reference pattern.
func (p *Pats) NewRef(sub PatID) PatID {
	payload := p.Refs.Allocate(PatRefData{Sub: sub})
	return p.new(PatRef, PayloadID(payload))
}

// Ref returns reference data for the given pattern ID.
func (p *Pats) Ref(id PatID) (*PatRefData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatRef {
		return nil, false
	}
	return p.Refs.Get(uint32(pat.Payload)), true
}
