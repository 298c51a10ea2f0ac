package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/rlfeatures/internal/version.Version=v0.1.0 ..."
var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-10-19T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String summarizes the build for startup logs.
func String() string {
	return fmt.Sprintf("%s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
