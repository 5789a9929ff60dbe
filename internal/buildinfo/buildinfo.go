// Package buildinfo holds build-time version information.
// Values are injected at build time via -ldflags.
package buildinfo

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = "unknown"
)
