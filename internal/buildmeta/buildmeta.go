// Package buildmeta exposes build-time metadata injected via -ldflags.
package buildmeta

// These variables are overridden at build time:
//
//	go build -ldflags "-X github.com/homelab-dev/homelab/internal/buildmeta.Version=v1.0.0 ..."
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the Git SHA the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
