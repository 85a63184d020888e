// Package version carries build fingerprints for the rill CLI.
package version

import "github.com/fatih/color"

const (
	major = "0"
	minor = "1"
	patch = "0"
)

// Version is the semantic version of the CLI, with each segment colored
// for terminal banners. Overridable at build time via -ldflags.
var Version = color.New(color.FgYellow, color.Bold).Sprint(major) + "." +
	color.New(color.FgGreen, color.Bold).Sprint(minor) + "." +
	color.New(color.FgBlue, color.Bold).Sprint(patch) + "-dev"

// Release builds stamp these via -ldflags; a plain go build leaves them
// empty.
var (
	// GitCommit is the git commit hash of the build.
	GitCommit = ""

	// GitMessage is the subject line of that commit.
	GitMessage = ""

	// BuildDate is the build timestamp in ISO-8601.
	BuildDate = ""
)
