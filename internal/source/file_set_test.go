package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("demo.rl", []byte("fn f() {\n    1\n}\n"))

	f := fs.Get(id)
	if f == nil || f.Path != "demo.rl" {
		t.Fatalf("Get(%d) = %+v", id, f)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatal("virtual file should carry FileVirtual")
	}

	// "1" on the second line: offsets 13..14.
	start, end := fs.Resolve(Span{File: id, Start: 13, End: 14})
	if start.Line != 2 || start.Col != 5 {
		t.Fatalf("start = %+v, want line 2 col 5", start)
	}
	if end.Line != 2 || end.Col != 6 {
		t.Fatalf("end = %+v, want line 2 col 6", end)
	}
}

func TestResolveUnknownFile(t *testing.T) {
	fs := NewFileSet()
	start, end := fs.Resolve(Span{File: 42, Start: 10, End: 20})
	if start.Line != 1 || start.Col != 1 || end.Line != 1 || end.Col != 1 {
		t.Fatalf("unknown file should resolve to 1:1, got %+v %+v", start, end)
	}
	if fs.Get(42) != nil {
		t.Fatal("Get on unknown id should be nil")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.rl", []byte("alpha\nbeta\ngamma"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "alpha"},
		{2, "beta"},
		{3, "gamma"}, // no trailing newline
		{4, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.rl")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q, want normalized %q", f.Content, "a\nb\n")
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestGetByPathTracksLatest(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("x.rl", []byte("old"))
	second := fs.AddVirtual("x.rl", []byte("new"))

	f, ok := fs.GetByPath("x.rl")
	if !ok || f.ID != second {
		t.Fatalf("GetByPath = %+v ok=%v, want id %d", f, ok, second)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len = %d, want both versions retained", fs.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 15}
	b := Span{File: 1, Start: 4, End: 12}
	got := a.Cover(b)
	if got.Start != 4 || got.End != 15 {
		t.Fatalf("Cover = %+v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files should be a no-op, got %+v", got)
	}
}

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("x")
	b := in.Intern("x")
	if a != b {
		t.Fatalf("same string interned twice: %d vs %d", a, b)
	}
	if s := in.MustLookup(a); s != "x" {
		t.Fatalf("MustLookup = %q", s)
	}
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID should resolve to the empty string, got %q ok=%v", s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatal("unknown id should not resolve")
	}
}
