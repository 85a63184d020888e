package diag

import (
	"rill/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement inside a fix suggestion.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix describes an automated correction the consumer may apply.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding produced by a pass.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
