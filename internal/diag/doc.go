// Package diag defines the diagnostic model shared by the validation pass
// and its consumers.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// short human message, a primary source.Span, plus optional Notes (secondary
// spans with context) and Fixes (structured edit suggestions).
//
// Producers emit through the Reporter interface so they stay decoupled from
// storage and formatting. BagReporter aggregates into a Bag, which supports
// deterministic sorting, deduplication and merging; internal/diagfmt renders
// bags into pretty or JSON output.
//
// The package performs no IO and holds no global state. Keep the data model
// deterministic: the driver serialises diagnostics for its verdict cache and
// tests compare bags structurally.
package diag
