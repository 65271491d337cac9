// Package buildinfo exposes version metadata for the CLI. Values can be
// overridden at build time via -ldflags; cli.Version and cli.Date are honored
// as fallbacks, then the VCS stamp embedded by the Go toolchain.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/flarebyte/p4tag/cli"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

// Info is the structured form printed by `p4tag version --json`.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	BuiltBy string `json:"built_by,omitempty"`
	Go      string `json:"go"`
	GoOS    string `json:"go_os"`
	GoArch  string `json:"go_arch"`
}

func version() string {
	v := Version
	if v == "" {
		v = cli.Version
	}
	if v == "" {
		v = "dev"
	}
	return v
}

func date() string {
	if Date != "" {
		return Date
	}
	return cli.Date
}

func commit() string {
	if Commit != "" {
		return Commit
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Current collects the build metadata of the running binary.
func Current() Info {
	return Info{
		Version: version(),
		Commit:  commit(),
		Date:    date(),
		BuiltBy: BuiltBy,
		Go:      runtime.Version(),
		GoOS:    runtime.GOOS,
		GoArch:  runtime.GOARCH,
	}
}

// Summary returns a concise single-line version string. Only an explicitly
// set commit is shown, so the line is stable across local builds.
func Summary() string {
	v := version()
	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if d := date(); d != "" {
		parts = append(parts, "date="+d)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}
