package diag

// Severity orders diagnostics by importance; comparisons rely on the
// declaration order below.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the lowercase label used in rendered output.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	}
	return "unknown"
}
