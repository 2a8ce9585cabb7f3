// Package devtools provides the version information for the DevTools utility suite.
package devtools

// Name is the display name of the suite.
const Name = "DevTools Utility Suite"

// Version is the current version of the suite.
const Version = "1.0.0"

// Author is credited on built-in tools that do not name their own author.
const Author = "DevTools Project"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
