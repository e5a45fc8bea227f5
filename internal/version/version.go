// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/artifactpages/internal/version.Version=v1.0.0"
package version

import "fmt"

var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("artifactpages %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
