// Package diagfmt renders diagnostic bags for people (pretty) and for
// tools (json). Callers are expected to Sort the bag first.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rill/internal/diag"
	"rill/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
	helpColor    = color.New(color.FgGreen)
)

// Pretty renders every diagnostic in the bag as
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by the offending source line with a ^~~~ underline, then notes
// and fix titles when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		formatPos(fs, d.Primary, opts.PathMode), sev, d.Code.ID(), d.Message)
	writeContext(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			fmt.Fprintf(w, "%s: %s: %s\n", formatPos(fs, n.Span, opts.PathMode), label, n.Msg)
			writeContext(w, fs, n.Span, opts)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			label := "help"
			if opts.Color {
				label = helpColor.Sprint(label)
			}
			fmt.Fprintf(w, "%s: %s\n", label, fx.Title)
		}
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func formatPos(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	path := f.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeContext prints the first source line the span touches with a gutter
// and an underline sized by display width, not byte count.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	f := fs.Get(span.File)
	if f == nil || span.Empty() {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "%5d | %s\n", start.Line, line)

	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	pad := runewidth.StringWidth(line[:col])

	sliceEnd := len(line)
	if end.Line == start.Line && int(end.Col)-1 < sliceEnd {
		sliceEnd = int(end.Col) - 1
	}
	width := runewidth.StringWidth(line[col:sliceEnd])
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = errorColor.Sprint(marker)
	}
	fmt.Fprintf(w, "      | %s%s\n", strings.Repeat(" ", pad), marker)
}

// Summary renders a one-line closing count.
func Summary(w io.Writer, bag *diag.Bag) {
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns)
}
