package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if !strings.Contains(Version, "-dev") {
		t.Errorf("default Version %q should carry the -dev suffix", Version)
	}
}

func TestVersionOverride(t *testing.T) {
	origVersion := Version
	origGitCommit := GitCommit
	origBuildDate := BuildDate
	defer func() {
		Version = origVersion
		GitCommit = origGitCommit
		BuildDate = origBuildDate
	}()

	// Simulate build-time -ldflags overrides.
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2026-08-29T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2026-08-29T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2026-08-29T10:30:00Z")
	}
}

func TestVersionOptionalFieldsEmptyByDefault(t *testing.T) {
	// GitCommit, GitMessage and BuildDate are only populated by release
	// builds; a plain `go build` leaves them empty.
	if GitCommit != "" {
		t.Errorf("GitCommit = %q, want empty", GitCommit)
	}
	if GitMessage != "" {
		t.Errorf("GitMessage = %q, want empty", GitMessage)
	}
	if BuildDate != "" {
		t.Errorf("BuildDate = %q, want empty", BuildDate)
	}
}
