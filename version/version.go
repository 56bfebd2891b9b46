package version

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags, e.g. -X github.com/philipparndt/yardplan/version.Version=v1.2.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string. Development builds fall back to
// the module version recorded by the Go toolchain.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// GetFullVersion returns the version with commit and build date when known
func GetFullVersion() string {
	v := GetVersion()
	if GitCommit == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s, %s)", v, GitCommit, BuildDate)
}
