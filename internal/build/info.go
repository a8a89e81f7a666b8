package build

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("frontbundle %s (commit %s, built %s, %s/%s)",
		Version, CommitSHA, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// IsRelease reports whether the binary was built from a tagged release.
// Self-update refuses to run on anything else.
func IsRelease() bool {
	return Version != "dev" && Version != "unknown" && Version != ""
}
