// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/mandalnilabja/chatrelay/internal/version.Version=...".
package version

// Version is the running build's version string.
var Version = "dev"
