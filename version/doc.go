// Package version reports build version information.
//
// Version, git commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/transcribekit/version.Version=1.0.0" ./cmd/transcribe
package version
