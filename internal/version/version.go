// Package version holds the build stamp of the syntaxcheck binary.
//
// Release builds set the variables with
//
//	-ldflags "-X github.com/ludo-technologies/syntaxcheck/internal/version.Version=v1.2.3"
//
// Binaries built with `go install module@version` fall back to the module
// version recorded by the toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version, the module version from the build
// info, or "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetFullVersion returns the version with commit, date and builder.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		GetVersion(), commit(), Date, BuiltBy)
}

func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}
