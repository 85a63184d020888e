package sema

import (
	"errors"

	"rill/internal/body"
	"rill/internal/infer"
	"rill/internal/types"
)

// errUnhandled marks an indeterminate usefulness verdict: a pattern shape or
// resolution the engine cannot reason about. Callers treat it as "not
// useful" so the worst outcome is a missed diagnostic, never a false one.
var errUnhandled = errors.New("sema: unhandled pattern in usefulness check")

// patNode is one cell of a pattern row: a real pattern node or a synthetic
// wildcard introduced by specialization.
type patNode struct {
	id body.PatID
}

var wildNode = patNode{}

func (n patNode) synthetic() bool {
	return !n.id.IsValid()
}

func wildNodes(n int) []patNode {
	return make([]patNode, n)
}

// patStack is an ordered pattern row. The query row additionally tracks the
// resolved type of every column; matrix rows share the query's column types
// by construction and carry none.
type patStack struct {
	pats []patNode
	tys  []types.TypeID
}

func (s *patStack) empty() bool {
	return len(s.pats) == 0
}

// matrix is the per-match collection of equal-arity pattern rows. It grows
// by appending arm rows and is discarded once the verdict is produced.
type matrix struct {
	rows [][]patNode
}

func newMatrix() *matrix {
	return &matrix{}
}

func (m *matrix) push(row []patNode) {
	m.rows = append(m.rows, row)
}

// matchCtx carries the read-only inputs of one exhaustiveness check.
type matchCtx struct {
	body  *body.Body
	infer *infer.Result
	in    *types.Interner
}

// underlying skips binding layers (name@pattern) and unwraps a reference
// pattern when the column type is not itself a reference, so patterns
// written by value line up with an already-stripped subject type.
func (cx *matchCtx) underlying(id body.PatID, colTy types.TypeID) body.PatID {
	for id.IsValid() {
		pat := cx.body.Pats.Get(id)
		if pat == nil {
			return body.NoPatID
		}
		switch pat.Kind {
		case body.PatBind:
			data, ok := cx.body.Pats.Bind(id)
			if !ok || !data.Sub.IsValid() {
				return id
			}
			id = data.Sub
		case body.PatRef:
			tt, ok := cx.in.Lookup(colTy)
			if ok && tt.Kind == types.KindReference {
				return id
			}
			data, ok := cx.body.Pats.Ref(id)
			if !ok {
				return id
			}
			id = data.Sub
			if !id.IsValid() {
				return body.NoPatID
			}
		default:
			return id
		}
	}
	return body.NoPatID
}
