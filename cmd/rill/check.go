package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rill/internal/diag"
	"rill/internal/diagfmt"
	"rill/internal/driver"
	"rill/internal/project"
	"rill/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <snapshot.rsnap>",
	Short: "Validate the function bodies recorded in an analysis snapshot",
	Long:  `Validate every function body in an analysis snapshot: match exhaustiveness, record field completeness, call arity and Result tail expressions`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("basenames", false, "print file basenames instead of full paths")
	checkCmd.Flags().Bool("no-cache", false, "skip the verdict cache for this run")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto, overrides rill.toml)")
	checkCmd.Flags().Int("max-diagnostics", 0, "diagnostic cap (0=rill.toml or default)")
}

var (
	checkOkStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	checkFailStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	checkDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runCheck(cmd *cobra.Command, args []string) error {
	snapPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	basenames, err := cmd.Flags().GetBool("basenames")
	if err != nil {
		return fmt.Errorf("failed to get basenames flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeFull
	if basenames {
		pathMode = diagfmt.PathModeBasename
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:     color,
		PathMode:  pathMode,
		ShowNotes: withNotes,
		ShowFixes: suggest,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     suggest,
	}

	startDir := filepath.Dir(snapPath)
	cfg, manifestPath, haveManifest, err := project.LoadProjectConfig(startDir)
	if err != nil {
		return fmt.Errorf("failed to load rill.toml: %w", err)
	}
	if jobs > 0 {
		cfg.Validator.Jobs = jobs
	}
	if maxDiagnostics > 0 {
		cfg.Validator.MaxDiagnostics = maxDiagnostics
	}

	prog, digest, err := driver.LoadSnapshot(snapPath)
	if err != nil {
		// A broken snapshot is a diagnostic, not a usage error: render it in
		// the requested format so editor integrations see a uniform stream.
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.IOSnapshotInvalid, source.Span{},
			fmt.Sprintf("cannot load snapshot %s: %v", snapPath, err)))
		renderBag(bag, source.NewFileSet(), format, prettyOpts, jsonOpts)
		return silentFailure(cmd)
	}

	var cache *driver.VerdictCache
	if cfg.Validator.Cache && !noCache {
		cacheRoot := startDir
		if haveManifest {
			cacheRoot = filepath.Dir(manifestPath)
		}
		cacheDir := cfg.Validator.CacheDir
		if !filepath.IsAbs(cacheDir) {
			cacheDir = filepath.Join(cacheRoot, cacheDir)
		}
		cache, err = driver.OpenVerdictCache(cacheDir)
		if err != nil {
			// The cache is an accelerator; a run without it is still correct.
			fmt.Fprintf(os.Stderr, "warning: verdict cache unavailable: %v\n", err)
			cache = nil
		}
	}

	res, err := driver.ValidateProgram(cmd.Context(), prog, driver.Options{
		Config: cfg.Validator,
		Cache:  cache,
		Digest: digest,
	})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	renderBag(res.Bag, prog.Files, format, prettyOpts, jsonOpts)
	if format == "pretty" {
		printCheckSummary(res, color)
	}

	if res.Bag.HasErrors() {
		return silentFailure(cmd)
	}
	return nil
}

func renderBag(bag *diag.Bag, fs *source.FileSet, format string, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts) {
	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, jsonOpts); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to encode diagnostics: %v\n", err)
		}
	default:
		diagfmt.Pretty(os.Stdout, bag, fs, prettyOpts)
	}
}

func printCheckSummary(res *driver.Result, color bool) {
	verdict := "check passed"
	style := checkOkStyle
	if res.Bag.HasErrors() {
		verdict = "check failed"
		style = checkFailStyle
	}
	detail := fmt.Sprintf("%d function(s) validated, %d verdict(s) from cache", res.Funcs, res.CacheHits)
	if color {
		fmt.Fprintf(os.Stdout, "%s %s\n", style.Render(verdict), checkDimStyle.Render("("+detail+")"))
	} else {
		fmt.Fprintf(os.Stdout, "%s (%s)\n", verdict, detail)
	}
	diagfmt.Summary(os.Stdout, res.Bag)
}

// silentFailure makes the process exit non-zero without cobra re-printing
// anything: the diagnostics above are the whole story.
func silentFailure(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
