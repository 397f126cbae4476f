package version

import "fmt"

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String renders the version line printed by `pagekit --version`.
func String() string {
	return fmt.Sprintf("pagekit %s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}
