package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"rill/internal/body"
	"rill/internal/infer"
	"rill/internal/source"
	"rill/internal/types"
)

var (
	// ErrSchemaVersion indicates a snapshot written by a different toolchain
	// revision.
	ErrSchemaVersion = errors.New("unsupported snapshot schema")
	// ErrMalformed indicates an internally inconsistent snapshot.
	ErrMalformed = errors.New("malformed snapshot")
)

// Program is a fully rebuilt analysis snapshot, ready for validation.
type Program struct {
	Files   *source.FileSet
	Strings *source.Interner
	Types   *types.Interner
	Module  *body.Module
	Infer   map[body.FuncID]*infer.Result

	prelude map[string]types.TypeID
}

// ResolveKnownEnum implements the validator's resolution context from the
// snapshot's prelude table.
func (p *Program) ResolveKnownEnum(path string) types.TypeID {
	return p.prelude[path]
}

// Decode reads one msgpack snapshot and rebuilds it.
func Decode(r io.Reader) (*Program, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Rebuild(&snap)
}

// Encode writes the snapshot as msgpack.
func Encode(w io.Writer, snap *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snap)
}

// Rebuild converts the decoded payload into live structures. Every table is
// replayed through the regular allocators so node and type ids are preserved
// exactly; inconsistent tables return ErrMalformed.
func Rebuild(snap *Snapshot) (*Program, error) {
	if snap.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, snap.Schema, SchemaVersion)
	}

	p := &Program{
		Files:   source.NewFileSet(),
		Strings: source.NewInterner(),
		Module:  body.NewModule(),
		Infer:   make(map[body.FuncID]*infer.Result, len(snap.Funcs)),
		prelude: make(map[string]types.TypeID, len(snap.Prelude)),
	}

	for _, f := range snap.Files {
		p.Files.AddVirtual(f.Path, f.Content)
	}
	for i, s := range snap.Strings {
		if id := p.Strings.Intern(s); int(id) != i+1 {
			return nil, fmt.Errorf("%w: string table entry %d duplicates %q", ErrMalformed, i, s)
		}
	}

	in, err := rebuildTypes(snap.Types, len(snap.Strings))
	if err != nil {
		return nil, err
	}
	p.Types = in

	for path, raw := range snap.Prelude {
		if int(raw) >= in.Len() {
			return nil, fmt.Errorf("%w: prelude entry %q references unknown type %d", ErrMalformed, path, raw)
		}
		p.prelude[path] = types.TypeID(raw)
	}

	for i := range snap.Funcs {
		fn, res, err := rebuildFunc(&snap.Funcs[i], in, len(snap.Strings))
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		id := p.Module.AddFunc(fn)
		p.Infer[id] = res
	}
	return p, nil
}

func spanOf(s Span) source.Span {
	return source.Span{File: source.FileID(s.File), Start: s.Start, End: s.End}
}

// stringID validates a raw string reference against the table size.
func stringID(raw uint32, max int) (source.StringID, error) {
	if int(raw) > max {
		return 0, fmt.Errorf("%w: string reference %d out of range", ErrMalformed, raw)
	}
	return source.StringID(raw), nil
}

// backRefs validates that every referenced type precedes the row being
// replayed; composite types are always built from existing parts.
func backRefs(raw []uint32, limit types.TypeID) ([]types.TypeID, error) {
	out := make([]types.TypeID, len(raw))
	for i, r := range raw {
		id := types.TypeID(r)
		if id == types.NoTypeID || id >= limit {
			return nil, fmt.Errorf("%w: type row %d references %d out of order", ErrMalformed, limit, r)
		}
		out[i] = id
	}
	return out, nil
}

func rebuildTypes(rows []Type, maxString int) (*types.Interner, error) {
	in := types.NewInterner()
	base := in.Len()
	if len(rows) < base {
		return nil, fmt.Errorf("%w: type table shorter than the builtin prefix", ErrMalformed)
	}
	if rows[0].Kind != uint8(types.KindInvalid) {
		return nil, fmt.Errorf("%w: type row 0 must be the invalid slot", ErrMalformed)
	}
	for i := 1; i < base; i++ {
		tt, ok := in.Lookup(types.TypeID(i)) // #nosec G115 -- bounded by Len
		if !ok || rows[i].Kind != uint8(tt.Kind) || types.Width(rows[i].Width) != tt.Width {
			return nil, fmt.Errorf("%w: type row %d does not match the builtin table", ErrMalformed, i)
		}
	}

	type fixup struct {
		id  types.TypeID
		row *Type
	}
	var structs, enums, unions []fixup

	for i := base; i < len(rows); i++ {
		row := &rows[i]
		want := types.TypeID(i) // #nosec G115 -- table sizes fit uint32
		kind := types.Kind(row.Kind)

		var got types.TypeID
		switch kind {
		case types.KindInt:
			got = in.Intern(types.MakeInt(types.Width(row.Width)))
		case types.KindUint:
			got = in.Intern(types.MakeUint(types.Width(row.Width)))
		case types.KindFloat:
			got = in.Intern(types.MakeFloat(types.Width(row.Width)))
		case types.KindReference:
			elems, err := backRefs([]uint32{row.Elem}, want)
			if err != nil {
				return nil, err
			}
			got = in.Intern(types.MakeReference(elems[0], row.Mutable))
		case types.KindTuple:
			elems, err := backRefs(row.Elems, want)
			if err != nil {
				return nil, err
			}
			got = in.RegisterTuple(elems)
		case types.KindFn:
			params, err := backRefs(row.Params, want)
			if err != nil {
				return nil, err
			}
			results, err := backRefs([]uint32{row.Result}, want)
			if err != nil {
				return nil, err
			}
			got = in.RegisterFn(params, results[0])
		case types.KindStruct:
			name, err := stringID(row.Name, maxString)
			if err != nil {
				return nil, err
			}
			got = in.RegisterStruct(name, spanOf(row.Decl))
			structs = append(structs, fixup{id: want, row: row})
		case types.KindEnum:
			name, err := stringID(row.Name, maxString)
			if err != nil {
				return nil, err
			}
			if len(row.TypeArgs) > 0 {
				args, err := backRefs(row.TypeArgs, want)
				if err != nil {
					return nil, err
				}
				got = in.RegisterEnumInstance(name, spanOf(row.Decl), args)
			} else {
				got = in.RegisterEnum(name, spanOf(row.Decl))
			}
			enums = append(enums, fixup{id: want, row: row})
		case types.KindUnion:
			name, err := stringID(row.Name, maxString)
			if err != nil {
				return nil, err
			}
			got = in.RegisterUnion(name, spanOf(row.Decl))
			unions = append(unions, fixup{id: want, row: row})
		default:
			return nil, fmt.Errorf("%w: type row %d has kind %d", ErrMalformed, i, row.Kind)
		}
		if got != want {
			return nil, fmt.Errorf("%w: type row %d replayed as %d", ErrMalformed, i, got)
		}
	}

	// Fields and variants may reference any type, including later rows, so
	// they are attached after the whole table exists.
	limit := types.TypeID(in.Len()) // #nosec G115 -- table sizes fit uint32
	for _, f := range structs {
		fields, err := rebuildFields(f.row.Fields, limit, maxString)
		if err != nil {
			return nil, err
		}
		in.SetStructFields(f.id, fields)
	}
	for _, f := range unions {
		fields, err := rebuildFields(f.row.Fields, limit, maxString)
		if err != nil {
			return nil, err
		}
		in.SetUnionFields(f.id, fields)
	}
	for _, f := range enums {
		variants := make([]types.EnumVariantInfo, len(f.row.Variants))
		for vi, v := range f.row.Variants {
			name, err := stringID(v.Name, maxString)
			if err != nil {
				return nil, err
			}
			fields, err := rebuildFields(v.Fields, limit, maxString)
			if err != nil {
				return nil, err
			}
			variants[vi] = types.EnumVariantInfo{Name: name, Fields: fields, Span: spanOf(v.Span)}
		}
		in.SetEnumVariants(f.id, variants)
	}
	return in, nil
}

func rebuildFields(rows []Field, limit types.TypeID, maxString int) ([]types.StructField, error) {
	out := make([]types.StructField, len(rows))
	for i, f := range rows {
		name, err := stringID(f.Name, maxString)
		if err != nil {
			return nil, err
		}
		if types.TypeID(f.Type) >= limit {
			return nil, fmt.Errorf("%w: field type %d out of range", ErrMalformed, f.Type)
		}
		out[i] = types.StructField{Name: name, Type: types.TypeID(f.Type)}
	}
	return out, nil
}

func rebuildFunc(row *Func, in *types.Interner, maxString int) (body.Func, *infer.Result, error) {
	b := body.NewBody()

	exprID := func(raw uint32) (body.ExprID, error) {
		if int(raw) > len(row.Exprs) {
			return body.NoExprID, fmt.Errorf("%w: expression reference %d out of range", ErrMalformed, raw)
		}
		return body.ExprID(raw), nil
	}
	patID := func(raw uint32) (body.PatID, error) {
		if int(raw) > len(row.Pats) {
			return body.NoPatID, fmt.Errorf("%w: pattern reference %d out of range", ErrMalformed, raw)
		}
		return body.PatID(raw), nil
	}
	exprIDs := func(raw []uint32) ([]body.ExprID, error) {
		out := make([]body.ExprID, len(raw))
		for i, r := range raw {
			id, err := exprID(r)
			if err != nil {
				return nil, err
			}
			out[i] = id
		}
		return out, nil
	}
	patIDs := func(raw []uint32) ([]body.PatID, error) {
		out := make([]body.PatID, len(raw))
		for i, r := range raw {
			id, err := patID(r)
			if err != nil {
				return nil, err
			}
			out[i] = id
		}
		return out, nil
	}

	for i := range row.Exprs {
		if err := replayExpr(b.Exprs, &row.Exprs[i], exprID, exprIDs, patID, maxString); err != nil {
			return body.Func{}, nil, fmt.Errorf("expression %d: %w", i+1, err)
		}
	}
	for i := range row.Pats {
		if err := replayPat(b.Pats, &row.Pats[i], patID, patIDs, maxString); err != nil {
			return body.Func{}, nil, fmt.Errorf("pattern %d: %w", i+1, err)
		}
	}

	root, err := exprID(row.Root)
	if err != nil {
		return body.Func{}, nil, err
	}
	b.Root = root

	sm := body.NewSourceMap()
	for _, ns := range row.ExprSpans {
		id, err := exprID(ns.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		sm.SetExprSpan(id, spanOf(ns.Span))
	}
	for _, ns := range row.PatSpans {
		id, err := patID(ns.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		sm.SetPatSpan(id, spanOf(ns.Span))
	}

	res := infer.NewResult()
	limit := types.TypeID(in.Len()) // #nosec G115 -- table sizes fit uint32
	typeID := func(raw uint32) (types.TypeID, error) {
		if types.TypeID(raw) >= limit {
			return types.NoTypeID, fmt.Errorf("%w: type reference %d out of range", ErrMalformed, raw)
		}
		return types.TypeID(raw), nil
	}
	for _, nt := range row.ExprTypes {
		id, err := exprID(nt.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		ty, err := typeID(nt.Type)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.ExprTypes[id] = ty
	}
	for _, nt := range row.PatTypes {
		id, err := patID(nt.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		ty, err := typeID(nt.Type)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.PatTypes[id] = ty
	}
	for _, nt := range row.MethodTargets {
		id, err := exprID(nt.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		ty, err := typeID(nt.Type)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.MethodTargets[id] = ty
	}
	for _, nv := range row.ExprVariants {
		id, err := exprID(nv.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		variant, err := rebuildVariant(nv, limit)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.ExprVariants[id] = variant
	}
	for _, nv := range row.PatVariants {
		id, err := patID(nv.ID)
		if err != nil {
			return body.Func{}, nil, err
		}
		variant, err := rebuildVariant(nv, limit)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.PatVariants[id] = variant
	}
	for _, m := range row.Mismatches {
		id, err := exprID(m.Expr)
		if err != nil {
			return body.Func{}, nil, err
		}
		expected, err := typeID(m.Expected)
		if err != nil {
			return body.Func{}, nil, err
		}
		actual, err := typeID(m.Actual)
		if err != nil {
			return body.Func{}, nil, err
		}
		res.Mismatches = append(res.Mismatches, infer.TypeMismatch{Expr: id, Expected: expected, Actual: actual})
	}

	name, err := stringID(row.Name, maxString)
	if err != nil {
		return body.Func{}, nil, err
	}
	fn := body.Func{
		Name:   name,
		File:   source.FileID(row.File),
		Span:   spanOf(row.Span),
		Body:   b,
		SrcMap: sm,
	}
	return fn, res, nil
}

func rebuildVariant(nv NodeVariant, limit types.TypeID) (types.VariantID, error) {
	if types.TypeID(nv.Type) >= limit {
		return types.NoVariantID, fmt.Errorf("%w: variant type %d out of range", ErrMalformed, nv.Type)
	}
	switch types.VariantKind(nv.Kind) {
	case types.VariantStruct:
		return types.StructVariant(types.TypeID(nv.Type)), nil
	case types.VariantEnum:
		return types.EnumVariant(types.TypeID(nv.Type), nv.Index), nil
	case types.VariantUnion:
		return types.UnionVariant(types.TypeID(nv.Type)), nil
	}
	return types.NoVariantID, fmt.Errorf("%w: variant kind %d", ErrMalformed, nv.Kind)
}

func replayExpr(
	exprs *body.Exprs,
	row *Expr,
	exprID func(uint32) (body.ExprID, error),
	exprIDs func([]uint32) ([]body.ExprID, error),
	patID func(uint32) (body.PatID, error),
	maxString int,
) error {
	switch body.ExprKind(row.Kind) {
	case body.ExprLiteral:
		if row.Literal == nil {
			return fmt.Errorf("%w: literal payload missing", ErrMalformed)
		}
		text, err := stringID(row.Literal.Text, maxString)
		if err != nil {
			return err
		}
		exprs.NewLiteral(body.ExprLiteralData{
			Kind:      body.LiteralKind(row.Literal.Kind),
			Text:      text,
			IntValue:  row.Literal.IntValue,
			BoolValue: row.Literal.BoolValue,
		})
	case body.ExprVarRef:
		if row.VarRef == nil {
			return fmt.Errorf("%w: varref payload missing", ErrMalformed)
		}
		name, err := stringID(row.VarRef.Name, maxString)
		if err != nil {
			return err
		}
		exprs.NewVarRef(name)
	case body.ExprCall:
		if row.Call == nil {
			return fmt.Errorf("%w: call payload missing", ErrMalformed)
		}
		callee, err := exprID(row.Call.Callee)
		if err != nil {
			return err
		}
		args, err := exprIDs(row.Call.Args)
		if err != nil {
			return err
		}
		exprs.NewCall(callee, args)
	case body.ExprMethodCall:
		if row.Method == nil {
			return fmt.Errorf("%w: method call payload missing", ErrMalformed)
		}
		receiver, err := exprID(row.Method.Receiver)
		if err != nil {
			return err
		}
		method, err := stringID(row.Method.Method, maxString)
		if err != nil {
			return err
		}
		args, err := exprIDs(row.Method.Args)
		if err != nil {
			return err
		}
		exprs.NewMethodCall(receiver, method, args)
	case body.ExprRecordLit:
		if row.Record == nil {
			return fmt.Errorf("%w: record literal payload missing", ErrMalformed)
		}
		fields := make([]body.RecordLitField, len(row.Record.Fields))
		for i, f := range row.Record.Fields {
			name, err := stringID(f.Name, maxString)
			if err != nil {
				return err
			}
			value, err := exprID(f.Value)
			if err != nil {
				return err
			}
			fields[i] = body.RecordLitField{Name: name, Value: value}
		}
		spread, err := exprID(row.Record.Spread)
		if err != nil {
			return err
		}
		exprs.NewRecordLit(fields, spread)
	case body.ExprMatch:
		if row.Match == nil {
			return fmt.Errorf("%w: match payload missing", ErrMalformed)
		}
		subject, err := exprID(row.Match.Subject)
		if err != nil {
			return err
		}
		arms := make([]body.MatchArm, len(row.Match.Arms))
		for i, a := range row.Match.Arms {
			pat, err := patID(a.Pat)
			if err != nil {
				return err
			}
			guard, err := exprID(a.Guard)
			if err != nil {
				return err
			}
			value, err := exprID(a.Value)
			if err != nil {
				return err
			}
			arms[i] = body.MatchArm{Pat: pat, Guard: guard, Value: value}
		}
		exprs.NewMatch(subject, arms, spanOf(row.Match.ArmsSpan))
	case body.ExprBlock:
		if row.Block == nil {
			return fmt.Errorf("%w: block payload missing", ErrMalformed)
		}
		stmts, err := exprIDs(row.Block.Stmts)
		if err != nil {
			return err
		}
		tail, err := exprID(row.Block.Tail)
		if err != nil {
			return err
		}
		exprs.NewBlock(stmts, tail)
	case body.ExprFieldAccess:
		if row.Field == nil {
			return fmt.Errorf("%w: field access payload missing", ErrMalformed)
		}
		object, err := exprID(row.Field.Object)
		if err != nil {
			return err
		}
		field, err := stringID(row.Field.Field, maxString)
		if err != nil {
			return err
		}
		exprs.NewFieldAccess(object, field)
	case body.ExprUnary:
		if row.Unary == nil {
			return fmt.Errorf("%w: unary payload missing", ErrMalformed)
		}
		operand, err := exprID(row.Unary.Operand)
		if err != nil {
			return err
		}
		exprs.NewUnary(row.Unary.Op, operand)
	case body.ExprBinary:
		if row.Binary == nil {
			return fmt.Errorf("%w: binary payload missing", ErrMalformed)
		}
		left, err := exprID(row.Binary.Left)
		if err != nil {
			return err
		}
		right, err := exprID(row.Binary.Right)
		if err != nil {
			return err
		}
		exprs.NewBinary(row.Binary.Op, left, right)
	case body.ExprIf:
		if row.If == nil {
			return fmt.Errorf("%w: if payload missing", ErrMalformed)
		}
		cond, err := exprID(row.If.Cond)
		if err != nil {
			return err
		}
		then, err := exprID(row.If.Then)
		if err != nil {
			return err
		}
		els, err := exprID(row.If.Else)
		if err != nil {
			return err
		}
		exprs.NewIf(cond, then, els)
	case body.ExprReturn:
		if row.Return == nil {
			return fmt.Errorf("%w: return payload missing", ErrMalformed)
		}
		value, err := exprID(row.Return.Value)
		if err != nil {
			return err
		}
		exprs.NewReturn(value)
	default:
		return fmt.Errorf("%w: expression kind %d", ErrMalformed, row.Kind)
	}
	return nil
}

func replayPat(
	pats *body.Pats,
	row *Pat,
	patID func(uint32) (body.PatID, error),
	patIDs func([]uint32) ([]body.PatID, error),
	maxString int,
) error {
	switch body.PatKind(row.Kind) {
	case body.PatWild:
		pats.NewWild()
	case body.PatBind:
		if row.Bind == nil {
			return fmt.Errorf("%w: bind payload missing", ErrMalformed)
		}
		name, err := stringID(row.Bind.Name, maxString)
		if err != nil {
			return err
		}
		sub, err := patID(row.Bind.Sub)
		if err != nil {
			return err
		}
		pats.NewBind(name, sub)
	case body.PatLit:
		if row.Lit == nil {
			return fmt.Errorf("%w: literal payload missing", ErrMalformed)
		}
		text, err := stringID(row.Lit.Text, maxString)
		if err != nil {
			return err
		}
		pats.NewLit(body.PatLitData{
			Kind:      body.LiteralKind(row.Lit.Kind),
			Text:      text,
			IntValue:  row.Lit.IntValue,
			BoolValue: row.Lit.BoolValue,
		})
	case body.PatTuple:
		if row.Tuple == nil {
			return fmt.Errorf("%w: tuple payload missing", ErrMalformed)
		}
		elems, err := patIDs(row.Tuple.Elems)
		if err != nil {
			return err
		}
		pats.NewTuple(elems, row.Tuple.HasRest)
	case body.PatRecord:
		if row.Record == nil {
			return fmt.Errorf("%w: record payload missing", ErrMalformed)
		}
		fields := make([]body.RecordFieldPat, len(row.Record.Fields))
		for i, f := range row.Record.Fields {
			name, err := stringID(f.Name, maxString)
			if err != nil {
				return err
			}
			sub, err := patID(f.Pat)
			if err != nil {
				return err
			}
			fields[i] = body.RecordFieldPat{Name: name, Pat: sub}
		}
		pats.NewRecord(fields, row.Record.HasRest)
	case body.PatTupleStruct:
		if row.TupleStruct == nil {
			return fmt.Errorf("%w: tuple struct payload missing", ErrMalformed)
		}
		args, err := patIDs(row.TupleStruct.Args)
		if err != nil {
			return err
		}
		pats.NewTupleStruct(args)
	case body.PatPath:
		pats.NewPath()
	case body.PatRef:
		if row.Ref == nil {
			return fmt.Errorf("%w: ref payload missing", ErrMalformed)
		}
		sub, err := patID(row.Ref.Sub)
		if err != nil {
			return err
		}
		pats.NewRef(sub)
	default:
		return fmt.Errorf("%w: pattern kind %d", ErrMalformed, row.Kind)
	}
	return nil
}
