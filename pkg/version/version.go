// Package version holds the gv release version, overridden at build time
// with -ldflags "-X github.com/Dicklesworthstone/gallery_viewer/pkg/version.Version=v1.2.3".
package version

// Version is the current release tag.
var Version = "v0.1.0"
