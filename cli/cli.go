// Package cli holds version values set by release scripts, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/p4tag/cli.Version=0.3.0' -X 'github.com/flarebyte/p4tag/cli.Date=2026-10-19'"
package cli

var (
	Version string
	Date    string
)
