package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rill/internal/driver"
	"rill/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the verdict cache",
	Long:  "Remove the persistent verdict cache of the nearest rill project.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(_ *cobra.Command, args []string) error {
	startDir := "."
	if len(args) > 0 && args[0] != "" {
		startDir = args[0]
	}
	if info, err := os.Stat(startDir); err != nil {
		return fmt.Errorf("failed to stat %q: %w", startDir, err)
	} else if !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	cfg, manifestPath, haveManifest, err := project.LoadProjectConfig(startDir)
	if err != nil {
		return fmt.Errorf("failed to load rill.toml: %w", err)
	}
	root := startDir
	if haveManifest {
		root = filepath.Dir(manifestPath)
	}
	cacheDir := cfg.Validator.CacheDir
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(root, cacheDir)
	}

	if _, err := os.Stat(cacheDir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stdout, "verdict cache not found")
		return nil
	}
	cache, err := driver.OpenVerdictCache(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to open verdict cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove verdict cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", cacheDir)
	return nil
}
