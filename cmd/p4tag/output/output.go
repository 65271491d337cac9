// Package output holds the flags and the write path shared by every command
// that produces an envelope.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/internal/config"
	"github.com/flarebyte/p4tag/internal/filter"
	"github.com/flarebyte/p4tag/internal/logging"
	"github.com/flarebyte/p4tag/internal/report"
)

// Flags are the shared command-line settings. They override the config file.
type Flags struct {
	ConfigPath string
	Format     string
	Pretty     bool
	Out        string
	Filter     string
	IgnoreFile string
	Workers    int
}

// Register adds the shared flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (.cue or .toml)")
	fs.StringVar(&f.Format, "format", "", "Output format: json, lines or yaml")
	fs.BoolVar(&f.Pretty, "pretty", false, "Indent JSON output")
	fs.StringVar(&f.Out, "out", "", "Write output to this file instead of stdout")
	fs.StringVar(&f.Filter, "filter", "", "Lua predicate over kind and data; only matching data records are kept")
	fs.StringVar(&f.IgnoreFile, "ignore-file", "", "Drop data records whose paths match patterns in this file")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent Lua filter evaluations (0 = GOMAXPROCS)")
}

// Resolve loads the config file when given, or defaults plus environment,
// then applies flags that were set on cmd.
func (f *Flags) Resolve(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if f.ConfigPath != "" {
		loaded, err := config.Load(f.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	} else {
		cfg = config.Default(os.LookupEnv)
	}
	fs := cmd.Flags()
	if fs.Changed("format") {
		cfg.Output.Format = f.Format
	}
	if fs.Changed("pretty") {
		cfg.Output.Pretty = f.Pretty
	}
	if fs.Changed("out") {
		cfg.Output.Out = f.Out
	}
	if fs.Changed("filter") {
		cfg.Filter.Lua = f.Filter
	}
	if fs.Changed("ignore-file") {
		cfg.Filter.IgnoreFile = f.IgnoreFile
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Emit filters env, writes it and returns the error that sets the process
// exit status.
func (f *Flags) Emit(ctx context.Context, cfg config.Config, env report.Envelope, stdout io.Writer) error {
	log := logging.Logger()
	opts := filter.Options{Lua: cfg.Filter.Lua, Workers: f.Workers}
	if cfg.Filter.IgnoreFile != "" {
		ig, err := filter.LoadIgnoreFile(cfg.Filter.IgnoreFile)
		if err != nil {
			return err
		}
		opts.Ignore = ig
	}
	before := len(env.Records)
	env, err := filter.Apply(ctx, env, opts)
	if err != nil {
		return err
	}
	if dropped := before - len(env.Records); dropped > 0 {
		log.Debug().Int("dropped", dropped).Str("command", env.Command).Msg("records filtered")
	}
	data, err := report.Encode(env, cfg.Output.Format, cfg.Output.Pretty)
	if err != nil {
		return err
	}
	if err := report.WriteTo(cfg.Output.Out, stdout, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return evaluateExit(env)
}
