package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"rill/internal/diag"
	"rill/internal/source"
)

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := demoBag()
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, listed = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "VAL3001" || d.Severity != "error" {
		t.Fatalf("diag = %+v", d)
	}
	if d.Location.File != "demo.rl" || d.Location.StartLine != 1 || d.Location.StartCol != 10 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared in Point" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "add the missing fields" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
}

func TestJSONMaxTruncatesListingOnly(t *testing.T) {
	bag, fs, span := demoBag()
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.ValInfo, Message: "w", Primary: span})

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, listed = %d", out.Count, len(out.Diagnostics))
	}
}

func TestJSONOmitsNotesWhenDisabled(t *testing.T) {
	bag, fs, _ := demoBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Diagnostics[0].Notes) != 0 || len(out.Diagnostics[0].Fixes) != 0 {
		t.Fatalf("notes/fixes present: %+v", out.Diagnostics[0])
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatal("positions must be omitted")
	}
}

func TestJSONUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(2)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOSnapshotInvalid,
		Message:  "m",
		Primary:  source.Span{File: 42, Start: 1, End: 2},
	})
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Diagnostics[0].Location.File != "" {
		t.Fatalf("file = %q", out.Diagnostics[0].Location.File)
	}
}
