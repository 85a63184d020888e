package sema

import (
	"rill/internal/body"
	"rill/internal/source"
	"rill/internal/types"
)

// ctorKind labels the head constructor of a pattern.
type ctorKind uint8

const (
	ctorBool ctorKind = iota
	ctorUnit
	ctorIntLit
	ctorFloatLit
	ctorStrLit
	ctorTuple
	ctorRecord
	ctorEnumVariant
	ctorRef
)

// constructor identifies one way a value of the column type can be built.
// Literal constructors compare by value; compound constructors compare by
// owning type (plus variant index for enums).
type constructor struct {
	kind    ctorKind
	ty      types.TypeID // owning column type for compound constructors
	variant uint32       // enum variant index
	boolVal bool
	intVal  int64
	text    source.StringID
}

func ctorEq(a, b constructor) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case ctorBool:
		return a.boolVal == b.boolVal
	case ctorIntLit:
		return a.intVal == b.intVal
	case ctorFloatLit, ctorStrLit:
		return a.text == b.text
	case ctorEnumVariant:
		return a.ty == b.ty && a.variant == b.variant
	case ctorTuple, ctorRecord, ctorRef:
		return a.ty == b.ty
	default:
		return true
	}
}

// arity returns the number of sub-pattern columns the constructor expands to.
func (cx *matchCtx) arity(c constructor) int {
	return len(cx.fieldTypes(c))
}

// fieldTypes returns the column types introduced by specializing against c.
func (cx *matchCtx) fieldTypes(c constructor) []types.TypeID {
	switch c.kind {
	case ctorTuple:
		if info, ok := cx.in.TupleInfo(c.ty); ok {
			return append([]types.TypeID(nil), info.Elems...)
		}
	case ctorRecord:
		if info, ok := cx.in.StructInfo(c.ty); ok {
			out := make([]types.TypeID, len(info.Fields))
			for i, f := range info.Fields {
				out[i] = f.Type
			}
			return out
		}
	case ctorEnumVariant:
		if info, ok := cx.in.EnumInfo(c.ty); ok && int(c.variant) < len(info.Variants) {
			fields := info.Variants[c.variant].Fields
			out := make([]types.TypeID, len(fields))
			for i, f := range fields {
				out[i] = f.Type
			}
			return out
		}
	case ctorRef:
		if tt, ok := cx.in.Lookup(c.ty); ok && tt.Kind == types.KindReference {
			return []types.TypeID{tt.Elem}
		}
	}
	return nil
}

// namedFields returns the declared fields for record-shaped constructors, in
// declaration order.
func (cx *matchCtx) namedFields(c constructor) []types.StructField {
	switch c.kind {
	case ctorRecord:
		if info, ok := cx.in.StructInfo(c.ty); ok {
			return info.Fields
		}
	case ctorEnumVariant:
		if info, ok := cx.in.EnumInfo(c.ty); ok && int(c.variant) < len(info.Variants) {
			return info.Variants[c.variant].Fields
		}
	}
	return nil
}

// classify maps a row cell to its head constructor. The second result is
// false for wildcards and bindings, which match any constructor.
func (cx *matchCtx) classify(n patNode, colTy types.TypeID) (constructor, bool, error) {
	if n.synthetic() {
		return constructor{}, false, nil
	}
	id := cx.underlying(n.id, colTy)
	if !id.IsValid() {
		return constructor{}, false, nil
	}
	pat := cx.body.Pats.Get(id)
	if pat == nil {
		return constructor{}, false, errUnhandled
	}
	switch pat.Kind {
	case body.PatWild, body.PatBind:
		return constructor{}, false, nil
	case body.PatLit:
		data, ok := cx.body.Pats.Lit(id)
		if !ok {
			return constructor{}, false, errUnhandled
		}
		switch data.Kind {
		case body.LiteralBool:
			return constructor{kind: ctorBool, boolVal: data.BoolValue}, true, nil
		case body.LiteralUnit:
			return constructor{kind: ctorUnit}, true, nil
		case body.LiteralInt:
			return constructor{kind: ctorIntLit, intVal: data.IntValue}, true, nil
		case body.LiteralFloat:
			return constructor{kind: ctorFloatLit, text: data.Text}, true, nil
		case body.LiteralString:
			return constructor{kind: ctorStrLit, text: data.Text}, true, nil
		}
		return constructor{}, false, errUnhandled
	case body.PatTuple:
		if _, ok := cx.in.TupleInfo(colTy); !ok {
			return constructor{}, false, errUnhandled
		}
		return constructor{kind: ctorTuple, ty: colTy}, true, nil
	case body.PatRecord, body.PatTupleStruct, body.PatPath:
		variant := cx.infer.VariantForPat(id)
		switch variant.Kind {
		case types.VariantStruct:
			return constructor{kind: ctorRecord, ty: variant.Type}, true, nil
		case types.VariantEnum:
			return constructor{kind: ctorEnumVariant, ty: variant.Type, variant: variant.Index}, true, nil
		}
		// Unions and unresolved variants have no covered set.
		return constructor{}, false, errUnhandled
	case body.PatRef:
		if tt, ok := cx.in.Lookup(colTy); !ok || tt.Kind != types.KindReference {
			return constructor{}, false, errUnhandled
		}
		return constructor{kind: ctorRef, ty: colTy}, true, nil
	}
	return constructor{}, false, errUnhandled
}

// allConstructors enumerates every constructor the column type admits, or
// reports that the type has no enumerable constructor set. Numeric and
// textual domains are always treated as open.
func (cx *matchCtx) allConstructors(colTy types.TypeID) ([]constructor, bool) {
	tt, ok := cx.in.Lookup(colTy)
	if !ok {
		return nil, false
	}
	switch tt.Kind {
	case types.KindBool:
		return []constructor{
			{kind: ctorBool, boolVal: false},
			{kind: ctorBool, boolVal: true},
		}, true
	case types.KindUnit:
		return []constructor{{kind: ctorUnit}}, true
	case types.KindTuple:
		return []constructor{{kind: ctorTuple, ty: colTy}}, true
	case types.KindStruct:
		return []constructor{{kind: ctorRecord, ty: colTy}}, true
	case types.KindReference:
		return []constructor{{kind: ctorRef, ty: colTy}}, true
	case types.KindEnum:
		info, ok := cx.in.EnumInfo(colTy)
		if !ok {
			return nil, false
		}
		out := make([]constructor, len(info.Variants))
		for i := range info.Variants {
			out[i] = constructor{kind: ctorEnumVariant, ty: colTy, variant: uint32(i)} // #nosec G115 -- variant counts fit uint32
		}
		return out, true
	}
	return nil, false
}

// usedConstructors collects the distinct head constructors appearing in the
// matrix's first column.
func (cx *matchCtx) usedConstructors(m *matrix, colTy types.TypeID) ([]constructor, error) {
	var used []constructor
	for _, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		c, isCtor, err := cx.classify(row[0], colTy)
		if err != nil {
			return nil, err
		}
		if !isCtor {
			continue
		}
		dup := false
		for _, u := range used {
			if ctorEq(u, c) {
				dup = true
				break
			}
		}
		if !dup {
			used = append(used, c)
		}
	}
	return used, nil
}

func coversAll(all, used []constructor) bool {
	for _, c := range all {
		found := false
		for _, u := range used {
			if ctorEq(c, u) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// expandHead flattens a cell known to match constructor c into c's
// sub-pattern cells. Wildcards expand to all-wildcard columns; elided
// positions (tuple rest markers, omitted record fields) do too.
func (cx *matchCtx) expandHead(n patNode, c constructor, colTy types.TypeID) ([]patNode, error) {
	arity := cx.arity(c)
	out := wildNodes(arity)
	if n.synthetic() {
		return out, nil
	}
	id := cx.underlying(n.id, colTy)
	if !id.IsValid() {
		return out, nil
	}
	pat := cx.body.Pats.Get(id)
	if pat == nil {
		return nil, errUnhandled
	}
	switch pat.Kind {
	case body.PatWild, body.PatBind, body.PatPath:
		return out, nil
	case body.PatLit:
		return nil, nil
	case body.PatTuple:
		data, ok := cx.body.Pats.Tuple(id)
		if !ok {
			return nil, errUnhandled
		}
		for i, elem := range data.Elems {
			if i >= arity {
				break
			}
			out[i] = patNode{id: elem}
		}
		return out, nil
	case body.PatTupleStruct:
		data, ok := cx.body.Pats.TupleStruct(id)
		if !ok {
			return nil, errUnhandled
		}
		for i, arg := range data.Args {
			if i >= arity {
				break
			}
			out[i] = patNode{id: arg}
		}
		return out, nil
	case body.PatRecord:
		data, ok := cx.body.Pats.Record(id)
		if !ok {
			return nil, errUnhandled
		}
		fields := cx.namedFields(c)
		for i, f := range fields {
			if i >= arity {
				break
			}
			for _, fp := range data.Fields {
				if fp.Name == f.Name {
					out[i] = patNode{id: fp.Pat}
					break
				}
			}
		}
		return out, nil
	case body.PatRef:
		data, ok := cx.body.Pats.Ref(id)
		if !ok {
			return nil, errUnhandled
		}
		if arity == 1 && data.Sub.IsValid() {
			out[0] = patNode{id: data.Sub}
		}
		return out, nil
	}
	return nil, errUnhandled
}

// specialize builds the matrix restricted to rows compatible with c: rows
// headed by c contribute their sub-patterns, wildcard-headed rows contribute
// wildcard columns, rows with a different head are dropped.
func (cx *matchCtx) specialize(m *matrix, c constructor, colTy types.TypeID) (*matrix, error) {
	out := newMatrix()
	for _, row := range m.rows {
		head := row[0]
		rc, isCtor, err := cx.classify(head, colTy)
		if err != nil {
			return nil, err
		}
		switch {
		case !isCtor:
			out.push(append(wildNodes(cx.arity(c)), row[1:]...))
		case ctorEq(rc, c):
			subs, err := cx.expandHead(head, c, colTy)
			if err != nil {
				return nil, err
			}
			out.push(append(subs, row[1:]...))
		}
	}
	return out, nil
}

// defaultMatrix keeps only wildcard-headed rows, dropping the head column.
func (cx *matchCtx) defaultMatrix(m *matrix, colTy types.TypeID) (*matrix, error) {
	out := newMatrix()
	for _, row := range m.rows {
		_, isCtor, err := cx.classify(row[0], colTy)
		if err != nil {
			return nil, err
		}
		if !isCtor {
			out.push(row[1:])
		}
	}
	return out, nil
}

// isUseful decides whether the query row matches some value no matrix row
// matches. With a single-wildcard query this is exactly "the matrix is not
// exhaustive". The recursion follows the classic constructor-matrix
// procedure: specialize on a concrete head, otherwise split on whether the
// observed head constructors cover the column type.
func (cx *matchCtx) isUseful(m *matrix, q *patStack) (bool, error) {
	if q.empty() {
		return len(m.rows) == 0, nil
	}
	head := q.pats[0]
	colTy := q.tys[0]

	c, isCtor, err := cx.classify(head, colTy)
	if err != nil {
		return false, err
	}
	if isCtor {
		sm, err := cx.specialize(m, c, colTy)
		if err != nil {
			return false, err
		}
		subs, err := cx.expandHead(head, c, colTy)
		if err != nil {
			return false, err
		}
		sq := &patStack{
			pats: append(subs, q.pats[1:]...),
			tys:  append(cx.fieldTypes(c), q.tys[1:]...),
		}
		return cx.isUseful(sm, sq)
	}

	used, err := cx.usedConstructors(m, colTy)
	if err != nil {
		return false, err
	}
	all, enumerable := cx.allConstructors(colTy)
	if enumerable && coversAll(all, used) {
		for _, c := range all {
			sm, err := cx.specialize(m, c, colTy)
			if err != nil {
				return false, err
			}
			sq := &patStack{
				pats: append(wildNodes(cx.arity(c)), q.pats[1:]...),
				tys:  append(cx.fieldTypes(c), q.tys[1:]...),
			}
			useful, err := cx.isUseful(sm, sq)
			if err != nil {
				return false, err
			}
			if useful {
				return true, nil
			}
		}
		return false, nil
	}

	dm, err := cx.defaultMatrix(m, colTy)
	if err != nil {
		return false, err
	}
	dq := &patStack{pats: q.pats[1:], tys: q.tys[1:]}
	return cx.isUseful(dm, dq)
}
