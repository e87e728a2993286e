// Package version exposes build metadata injected via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

const Name = "gungnir"

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Version returns the bare version string
func Version() string {
	return version
}

// Info returns the full build description printed by the -version flag
func Info() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		Name, version, commit, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
