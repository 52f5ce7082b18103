// Package version holds the build identity of the traitres CLI. The
// variables can be overridden at build time via -ldflags.
package version

import "github.com/fatih/color"

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component in its own color.
// Anything after the patch number (a pre-release or build suffix) is left
// plain. color.NoColor turns it into Version.
func Colored() string {
	major, rest, ok := cutNumber(Version)
	if !ok {
		return Version
	}
	minor, rest, ok := cutNumber(rest)
	if !ok {
		return Version
	}
	patch, suffix := rest, ""
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			patch, suffix = rest[:i], rest[i:]
			break
		}
	}
	return majorColor.Sprint(major) + "." + minorColor.Sprint(minor) + "." + patchColor.Sprint(patch) + suffix
}

func cutNumber(s string) (num, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], i > 0
		}
		if s[i] < '0' || s[i] > '9' {
			return "", "", false
		}
	}
	return "", "", false
}
