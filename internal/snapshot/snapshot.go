// Package snapshot defines the msgpack analysis snapshot the inference
// engine writes and the validator consumes: source files, interned strings,
// the type table and every function body with its inference tables.
//
// Node tables are order-significant. Expressions, patterns, strings and
// types are listed in id order, and the decoder replays them through the
// regular allocators, so the ids coming out of a decode equal the ids that
// went in. A table that violates this ordering fails decoding.
package snapshot

// SchemaVersion is bumped whenever the payload layout changes; decoders
// reject every other version.
const SchemaVersion uint16 = 1

// Snapshot is the top-level payload.
type Snapshot struct {
	Schema  uint16
	Files   []File
	Strings []string // StringID 1..len; id 0 is the empty string
	Types   []Type   // TypeID 0..len-1; the prefix mirrors the builtin table
	Prelude map[string]uint32
	Funcs   []Func
}

// File is one source file; FileID is its index in Snapshot.Files.
type File struct {
	Path    string
	Content []byte
}

// Span mirrors source.Span.
type Span struct {
	File  uint32
	Start uint32
	End   uint32
}

// Field is one declared field of a struct, union or enum variant.
type Field struct {
	Name uint32
	Type uint32
}

// Variant is one declared enum variant.
type Variant struct {
	Name   uint32
	Fields []Field
	Span   Span
}

// Type is one row of the type table. Which fields are meaningful depends on
// Kind; the rest stay zero.
type Type struct {
	Kind    uint8
	Elem    uint32 // reference pointee
	Width   uint8  // numeric width
	Mutable bool   // reference mutability

	Name     uint32 // nominal declaration name
	Decl     Span
	Elems    []uint32 // tuple element types
	Params   []uint32 // fn parameter types
	Result   uint32   // fn result type
	TypeArgs []uint32 // enum instantiation arguments
	Fields   []Field  // struct / union fields
	Variants []Variant
}

// Func is one function body plus its inference tables.
type Func struct {
	Name uint32
	File uint32
	Span Span

	Exprs []Expr // ExprID 1..len
	Pats  []Pat  // PatID 1..len
	Root  uint32

	ExprSpans []NodeSpan
	PatSpans  []NodeSpan

	ExprTypes     []NodeType
	PatTypes      []NodeType
	MethodTargets []NodeType
	ExprVariants  []NodeVariant
	PatVariants   []NodeVariant
	Mismatches    []Mismatch
}

// Expr is one expression row; exactly the payload matching Kind is set.
type Expr struct {
	Kind    uint8
	Literal *LiteralData     `msgpack:",omitempty"`
	VarRef  *VarRefData      `msgpack:",omitempty"`
	Call    *CallData        `msgpack:",omitempty"`
	Method  *MethodCallData  `msgpack:",omitempty"`
	Record  *RecordLitData   `msgpack:",omitempty"`
	Match   *MatchData       `msgpack:",omitempty"`
	Block   *BlockData       `msgpack:",omitempty"`
	Field   *FieldAccessData `msgpack:",omitempty"`
	Unary   *UnaryData       `msgpack:",omitempty"`
	Binary  *BinaryData      `msgpack:",omitempty"`
	If      *IfData          `msgpack:",omitempty"`
	Return  *ReturnData      `msgpack:",omitempty"`
}

type LiteralData struct {
	Kind      uint8
	Text      uint32
	IntValue  int64
	BoolValue bool
}

type VarRefData struct {
	Name uint32
}

type CallData struct {
	Callee uint32
	Args   []uint32
}

type MethodCallData struct {
	Receiver uint32
	Method   uint32
	Args     []uint32
}

type RecordLitField struct {
	Name  uint32
	Value uint32
}

type RecordLitData struct {
	Fields []RecordLitField
	Spread uint32
}

type MatchArm struct {
	Pat   uint32
	Guard uint32
	Value uint32
}

type MatchData struct {
	Subject  uint32
	Arms     []MatchArm
	ArmsSpan Span
}

type BlockData struct {
	Stmts []uint32
	Tail  uint32
}

type FieldAccessData struct {
	Object uint32
	Field  uint32
}

type UnaryData struct {
	Op      uint8
	Operand uint32
}

type BinaryData struct {
	Op    uint8
	Left  uint32
	Right uint32
}

type IfData struct {
	Cond uint32
	Then uint32
	Else uint32
}

type ReturnData struct {
	Value uint32
}

// Pat is one pattern row; exactly the payload matching Kind is set.
type Pat struct {
	Kind        uint8
	Bind        *BindData        `msgpack:",omitempty"`
	Lit         *LiteralData     `msgpack:",omitempty"`
	Tuple       *TuplePatData    `msgpack:",omitempty"`
	Record      *RecordPatData   `msgpack:",omitempty"`
	TupleStruct *TupleStructData `msgpack:",omitempty"`
	Ref         *RefPatData      `msgpack:",omitempty"`
}

type BindData struct {
	Name uint32
	Sub  uint32
}

type TuplePatData struct {
	Elems   []uint32
	HasRest bool
}

type RecordPatField struct {
	Name uint32
	Pat  uint32
}

type RecordPatData struct {
	Fields  []RecordPatField
	HasRest bool
}

type TupleStructData struct {
	Args []uint32
}

type RefPatData struct {
	Sub uint32
}

// NodeSpan anchors a node id to its syntax range.
type NodeSpan struct {
	ID   uint32
	Span Span
}

// NodeType records the inferred type of a node.
type NodeType struct {
	ID   uint32
	Type uint32
}

// NodeVariant records a record/variant resolution for a node.
type NodeVariant struct {
	ID    uint32
	Kind  uint8
	Type  uint32
	Index uint32
}

// Mismatch records one inference failure.
type Mismatch struct {
	Expr     uint32
	Expected uint32
	Actual   uint32
}
