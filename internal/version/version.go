// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/hanlinyan-dev/option-pricing/internal/version.Version=0.3.0 \
//	                   -X github.com/hanlinyan-dev/option-pricing/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "runtime"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "version (commit) built time".
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}

// Full appends the Go toolchain and platform to String.
func Full() string {
	return String() + " " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
}
