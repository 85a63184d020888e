package sema

import (
	"fmt"
	"strings"

	"rill/internal/body"
	"rill/internal/diag"
	"rill/internal/infer"
	"rill/internal/source"
	"rill/internal/types"
)

// recordLiteralMissingFields compares the fields written in a record literal
// against the declared field set of the resolved variant. It returns the
// variant, the declaration-order indices of absent fields, and whether the
// literal claims to be exhaustive (no spread operand). Union variants are
// never reported; their layout has no fixed covered set.
func recordLiteralMissingFields(in *types.Interner, inf *infer.Result, id body.ExprID, data *body.ExprRecordLitData) (types.VariantID, []int, bool) {
	exhaustive := !data.Spread.IsValid()

	variant := inf.VariantForExpr(id)
	if !variant.IsValid() || variant.Kind == types.VariantUnion {
		return types.NoVariantID, nil, false
	}

	present := make(map[source.StringID]struct{}, len(data.Fields))
	for _, f := range data.Fields {
		present[f.Name] = struct{}{}
	}
	missed := missingFieldIndices(in.VariantFields(variant), present)
	if len(missed) == 0 {
		return types.NoVariantID, nil, false
	}
	return variant, missed, exhaustive
}

// recordPatternMissingFields is the pattern-side twin of
// recordLiteralMissingFields; an explicit rest marker suppresses reporting.
func recordPatternMissingFields(in *types.Interner, inf *infer.Result, id body.PatID, data *body.PatRecordData) (types.VariantID, []int, bool) {
	exhaustive := !data.HasRest

	variant := inf.VariantForPat(id)
	if !variant.IsValid() || variant.Kind == types.VariantUnion {
		return types.NoVariantID, nil, false
	}

	present := make(map[source.StringID]struct{}, len(data.Fields))
	for _, f := range data.Fields {
		present[f.Name] = struct{}{}
	}
	missed := missingFieldIndices(in.VariantFields(variant), present)
	if len(missed) == 0 {
		return types.NoVariantID, nil, false
	}
	return variant, missed, exhaustive
}

// missingFieldIndices preserves declaration order so output is deterministic.
func missingFieldIndices(fields []types.StructField, present map[source.StringID]struct{}) []int {
	var missed []int
	for i, f := range fields {
		if _, ok := present[f.Name]; !ok {
			missed = append(missed, i)
		}
	}
	return missed
}

func (v *validator) checkRecordLitFields(id body.ExprID) {
	data, ok := v.body.Exprs.RecordLit(id)
	if !ok {
		return
	}
	variant, missed, exhaustive := recordLiteralMissingFields(v.ctx.Interner, v.infer, id, data)
	if !exhaustive || len(missed) == 0 {
		return
	}
	span, ok := v.exprSpan(id)
	if !ok {
		return
	}
	diag.ReportError(v.ctx.Reporter, diag.ValMissingStructFields, span,
		fmt.Sprintf("record literal for %s is missing fields: %s",
			v.lookupName(v.ctx.Interner.VariantName(variant)),
			v.fieldNameList(variant, missed))).
		Emit()
}

func (v *validator) checkRecordPatFields(id body.PatID) {
	data, ok := v.body.Pats.Record(id)
	if !ok {
		return
	}
	variant, missed, exhaustive := recordPatternMissingFields(v.ctx.Interner, v.infer, id, data)
	if !exhaustive || len(missed) == 0 {
		return
	}
	span, ok := v.patSpan(id)
	if !ok {
		return
	}
	diag.ReportError(v.ctx.Reporter, diag.ValMissingPatternFields, span,
		fmt.Sprintf("record pattern for %s is missing fields: %s",
			v.lookupName(v.ctx.Interner.VariantName(variant)),
			v.fieldNameList(variant, missed))).
		Emit()
}

// fieldNameList renders missing field names in declaration order.
func (v *validator) fieldNameList(variant types.VariantID, missed []int) string {
	fields := v.ctx.Interner.VariantFields(variant)
	names := make([]string, 0, len(missed))
	for _, idx := range missed {
		if idx < len(fields) {
			names = append(names, v.lookupName(fields[idx].Name))
		}
	}
	return strings.Join(names, ", ")
}
