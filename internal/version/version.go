// Package version carries the build version, set with
// -ldflags "-X alnmodel/internal/version.Version=...".
package version

var Version = "dev"
