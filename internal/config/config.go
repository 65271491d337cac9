// Package config loads p4tag settings from a CUE or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output formats accepted in output.format.
const (
	FormatJSON  = "json"
	FormatLines = "lines"
	FormatYAML  = "yaml"
)

// Config is the full set of settings. Sections that are absent keep their
// zero value, except output.format which defaults to json.
type Config struct {
	ConfigVersion string
	P4            P4
	Output        Output
	Filter        Filter
}

// P4 holds connection settings passed to the p4 client as global flags.
type P4 struct {
	Cmd      string
	Port     string
	User     string
	Password string
	Client   string
	Charset  string
	Retries  int
}

// Output selects how decoded streams are written.
type Output struct {
	Format string
	Pretty bool
	Out    string
}

// Filter holds the optional record filters.
type Filter struct {
	Lua        string
	IgnoreFile string
}

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Load reads path, validates it and fills unset connection fields from the
// P4PORT, P4USER, P4CLIENT and P4PASSWD environment variables.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, env LookupEnv) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		cfg, err = parseCUE(path)
	case ".toml":
		cfg, err = parseTOML(path)
	default:
		return Config{}, errors.New("unsupported config format: expected .cue or .toml")
	}
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return ApplyEnv(cfg, env), nil
}

// Default returns the settings used when no config file is given.
func Default(env LookupEnv) Config {
	cfg := Config{ConfigVersion: CurrentConfigVersion, Output: Output{Format: FormatJSON}}
	return ApplyEnv(cfg, env)
}

// Validate checks the version policy and value ranges.
func Validate(cfg Config) error {
	if err := CheckConfigVersion(cfg.ConfigVersion); err != nil {
		return err
	}
	if cfg.P4.Retries < 0 {
		return fmt.Errorf("invalid p4.retries: %d (must be >= 0)", cfg.P4.Retries)
	}
	if !IsSupportedFormat(cfg.Output.Format) {
		return fmt.Errorf("invalid output.format: %q (expected %s, %s or %s)", cfg.Output.Format, FormatJSON, FormatLines, FormatYAML)
	}
	return nil
}

// IsSupportedFormat reports whether f names an output format.
func IsSupportedFormat(f string) bool {
	switch f {
	case FormatJSON, FormatLines, FormatYAML:
		return true
	}
	return false
}

// ApplyEnv fills empty connection fields from the environment.
func ApplyEnv(cfg Config, env LookupEnv) Config {
	if env == nil {
		return cfg
	}
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	fill(&cfg.P4.Port, "P4PORT")
	fill(&cfg.P4.User, "P4USER")
	fill(&cfg.P4.Client, "P4CLIENT")
	fill(&cfg.P4.Password, "P4PASSWD")
	return cfg
}
