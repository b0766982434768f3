// Package version holds build metadata injected at link time.
package version

// These are set via -ldflags at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
