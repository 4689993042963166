// Package version reports the build version.
package version

import "runtime/debug"

// Version is set at build time with
// -ldflags "-X github.com/jonesrussell/north-cloud/field-usage/internal/version.Version=1.2.3".
var Version = "dev"

// String returns Version, or the module version recorded in the build info
// when Version was not set.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
