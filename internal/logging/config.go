// Package logging configures the zerolog logger shared by the CLI and the
// p4 runner.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "P4TAG_LOG_LEVEL"
	EnvLogTimestamp = "P4TAG_LOG_TIMESTAMP"
	EnvLogNoColor   = "P4TAG_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger configuration.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

var (
	configureOnce sync.Once
	logger        = zerolog.Nop()
)

func ConfigureRuntime() zerolog.Logger {
	return Configure(ProfileRuntime)
}

func ConfigureTests() zerolog.Logger {
	return Configure(ProfileTest)
}

// Configure builds the process logger on first use and returns it. Later
// calls return the same logger whatever the profile.
func Configure(profile Profile) zerolog.Logger {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile, isTerminal(os.Stderr))
		ApplyEnvOverrides(&cfg, os.Getenv)
		logger = New(os.Stderr, cfg)
	})
	return logger
}

// Logger returns the configured logger, or a no-op logger before Configure.
func Logger() zerolog.Logger { return logger }

func DefaultConfig(profile Profile, tty bool) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.WarnLevel, Timestamp: true, NoColor: !tty}
	}
}

// New writes human-readable lines to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		out.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Str("app", "p4tag").Logger()
}

func ApplyEnvOverrides(cfg *Config, getenv func(string) string) {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.WarnLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.WarnLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
