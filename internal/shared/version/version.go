// Package version holds the build version and semantic version comparison.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Build is the server build version, set at link time with
// -ldflags "-X github.com/Tatu1984/hrms-sub001/internal/shared/version.Build=v1.2.3".
var Build = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Older reports whether current is below minimum. An unparseable current
// version counts as older; an unparseable minimum disables the check.
func Older(current, minimum string) bool {
	minimum = Normalize(minimum)
	if !semver.IsValid(minimum) {
		return false
	}

	current = Normalize(current)
	if !semver.IsValid(current) {
		return true
	}

	return semver.Compare(current, minimum) < 0
}
