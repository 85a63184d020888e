package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Check names accepted in [validator].disabled.
const (
	CheckRecordFields = "record-fields"
	CheckCallArity    = "call-arity"
	CheckMatchArms    = "match-arms"
	CheckTailResult   = "tail-result"
)

var knownChecks = map[string]struct{}{
	CheckRecordFields: {},
	CheckCallArity:    {},
	CheckMatchArms:    {},
	CheckTailResult:   {},
}

// ErrPackageSectionMissing indicates that [package] is missing in rill.toml.
var ErrPackageSectionMissing = errors.New("missing [package]")

// Config is the parsed rill.toml.
type Config struct {
	Package   PackageConfig   `toml:"package"`
	Validator ValidatorConfig `toml:"validator"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// ValidatorConfig is the [validator] section. Zero Jobs means one worker
// per CPU; zero MaxDiagnostics falls back to the default cap.
type ValidatorConfig struct {
	MaxDiagnostics int      `toml:"max-diagnostics"`
	Disabled       []string `toml:"disabled"`
	Jobs           int      `toml:"jobs"`
	Cache          bool     `toml:"cache"`
	CacheDir       string   `toml:"cache-dir"`
}

// DefaultMaxDiagnostics caps the per-run diagnostic bag when rill.toml does
// not say otherwise.
const DefaultMaxDiagnostics = 256

// DefaultConfig returns the configuration used without a manifest.
func DefaultConfig() Config {
	return Config{
		Validator: ValidatorConfig{
			MaxDiagnostics: DefaultMaxDiagnostics,
			Cache:          true,
			CacheDir:       ".rill-cache",
		},
	}
}

// LoadConfig parses rill.toml at path. Absent [validator] keys keep their
// defaults; unknown check names in disabled are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	for _, name := range cfg.Validator.Disabled {
		if _, ok := knownChecks[name]; !ok {
			return Config{}, fmt.Errorf("%s: unknown check %q in [validator].disabled", path, name)
		}
	}
	if cfg.Validator.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [validator].max-diagnostics must not be negative", path)
	}
	if cfg.Validator.MaxDiagnostics == 0 {
		cfg.Validator.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if cfg.Validator.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [validator].jobs must not be negative", path)
	}
	return cfg, nil
}

// LoadProjectConfig finds and parses the nearest rill.toml above startDir.
// The second result is false when no manifest exists.
func LoadProjectConfig(startDir string) (Config, string, bool, error) {
	manifestPath, ok, err := FindRillToml(startDir)
	if err != nil || !ok {
		return DefaultConfig(), "", ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return Config{}, manifestPath, true, err
	}
	return cfg, manifestPath, true, nil
}

// Enabled reports whether the named check is not disabled.
func (v ValidatorConfig) Enabled(check string) bool {
	for _, d := range v.Disabled {
		if d == check {
			return false
		}
	}
	return true
}
