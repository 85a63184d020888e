package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rill/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rill",
	Short: "Rill body validator",
	Long:  `Rill validates inferred function bodies: match exhaustiveness, record completeness, call arity and tail results`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a tty.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the persistent --color flag against the output stream.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	return mode == "on" || (mode == "auto" && isTerminal(os.Stdout)), nil
}
