// Package version holds build information set by the linker:
//
//	go build -ldflags "-X github.com/dkoosis/quiet/internal/version.Version=v1.2.3"
package version

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("quiet %s (%s, built %s)", Version, CommitHash, BuildDate)
}
