package body

import (
	"rill/internal/source"
)

// Body owns one function's expression and pattern trees.
type Body struct {
	Exprs *Exprs
	Pats  *Pats
	Root  ExprID // outermost expression, usually a block
}

// NewBody allocates an empty body.
func NewBody() *Body {
	return &Body{
		Exprs: NewExprs(0),
		Pats:  NewPats(0),
	}
}

// SourceMap anchors body nodes back to syntax. Synthesized nodes have no
// entry; consumers must treat a missing span as "do not report here".
type SourceMap struct {
	exprSpans map[ExprID]source.Span
	patSpans  map[PatID]source.Span
}

// NewSourceMap allocates an empty source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		exprSpans: make(map[ExprID]source.Span),
		patSpans:  make(map[PatID]source.Span),
	}
}

// SetExprSpan records the syntax range of an expression node.
func (m *SourceMap) SetExprSpan(id ExprID, span source.Span) {
	if id == NoExprID {
		return
	}
	m.exprSpans[id] = span
}

// SetPatSpan records the syntax range of a pattern node.
func (m *SourceMap) SetPatSpan(id PatID, span source.Span) {
	if id == NoPatID {
		return
	}
	m.patSpans[id] = span
}

// ExprSpan returns the recorded span for an expression node.
func (m *SourceMap) ExprSpan(id ExprID) (source.Span, bool) {
	if m == nil {
		return source.Span{}, false
	}
	span, ok := m.exprSpans[id]
	return span, ok
}

// PatSpan returns the recorded span for a pattern node.
func (m *SourceMap) PatSpan(id PatID) (source.Span, bool) {
	if m == nil {
		return source.Span{}, false
	}
	span, ok := m.patSpans[id]
	return span, ok
}

// Func bundles one function's identity, body and source map.
type Func struct {
	Name   source.StringID
	File   source.FileID
	Span   source.Span
	Body   *Body
	SrcMap *SourceMap
}

// Module is an ordered collection of functions.
type Module struct {
	funcs []Func
}

// NewModule allocates an empty module.
func NewModule() *Module {
	return &Module{}
}

// AddFunc appends a function and returns its 1-based FuncID.
func (m *Module) AddFunc(fn Func) FuncID {
	m.funcs = append(m.funcs, fn)
	return FuncID(len(m.funcs)) // #nosec G115 -- function counts fit uint32
}

// Func returns the function for the given ID, or nil.
func (m *Module) Func(id FuncID) *Func {
	if id == NoFuncID || int(id) > len(m.funcs) {
		return nil
	}
	return &m.funcs[id-1]
}

// Len returns the number of functions.
func (m *Module) Len() int {
	return len(m.funcs)
}

// FuncIDs returns all function ids in declaration order.
func (m *Module) FuncIDs() []FuncID {
	ids := make([]FuncID, len(m.funcs))
	for i := range m.funcs {
		ids[i] = FuncID(i + 1) // #nosec G115 -- function counts fit uint32
	}
	return ids
}
