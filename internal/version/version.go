// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is set with
// go build -ldflags "-X git.home.luguber.info/inful/madeup/internal/version.Version=v1.0.0".
var Version = "unknown"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the metadata for `madeup --version`.
func String() string {
	return fmt.Sprintf("madeup %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
