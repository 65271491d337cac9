// Package query holds the commands that run p4 and decode its output.
package query

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/cmd/p4tag/output"
	"github.com/flarebyte/p4tag/internal/config"
	"github.com/flarebyte/p4tag/internal/logging"
	"github.com/flarebyte/p4tag/internal/p4"
	"github.com/flarebyte/p4tag/internal/report"
	"github.com/flarebyte/p4tag/internal/tagged"
)

// connFlags override the p4 section of the config.
type connFlags struct {
	cmd     string
	port    string
	user    string
	client  string
	charset string
	retries int
}

func (c *connFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.cmd, "p4", "", "p4 executable (default \"p4\")")
	fs.StringVarP(&c.port, "port", "p", "", "Server address (P4PORT)")
	fs.StringVarP(&c.user, "user", "u", "", "User name (P4USER)")
	fs.StringVar(&c.client, "client", "", "Client workspace (P4CLIENT)")
	fs.StringVar(&c.charset, "charset", "", "Character set passed as -C")
	fs.IntVar(&c.retries, "retries", 0, "Connection retries passed as -r")
}

func (c *connFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("p4") {
		cfg.P4.Cmd = c.cmd
	}
	if fs.Changed("port") {
		cfg.P4.Port = c.port
	}
	if fs.Changed("user") {
		cfg.P4.User = c.user
	}
	if fs.Changed("client") {
		cfg.P4.Client = c.client
	}
	if fs.Changed("charset") {
		cfg.P4.Charset = c.charset
	}
	if fs.Changed("retries") {
		cfg.P4.Retries = c.retries
	}
}

// RunnerFactory builds the process runner for a client. Tests replace it.
var RunnerFactory = func(cfg config.Config) p4.Runner {
	return p4.ExecRunner{Logger: logging.Logger()}
}

func newClient(cfg config.Config) *p4.Client {
	return &p4.Client{
		Cmd:        cfg.P4.Cmd,
		Port:       cfg.P4.Port,
		User:       cfg.P4.User,
		Password:   cfg.P4.Password,
		ClientName: cfg.P4.Client,
		Charset:    cfg.P4.Charset,
		Retries:    cfg.P4.Retries,
		Runner:     RunnerFactory(cfg),
		Logger:     logging.Logger(),
	}
}

// runFunc runs one p4 command and converts its stream into an envelope.
type runFunc func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error)

func envelope[T report.Fielder](c *p4.Client, command string, opts, paths []string, s *tagged.Stream[T], err error) (report.Envelope, error) {
	if err != nil {
		return report.Envelope{}, err
	}
	return report.FromStream(command, c.Invocation(c.Args(command, opts, paths)), s), nil
}

func newQueryCmd(use, short string, minArgs int, register func(*cobra.Command), run runFunc) *cobra.Command {
	var (
		flags output.Flags
		conn  connFlags
	)
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.MinimumNArgs(minArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve(cmd)
			if err != nil {
				return err
			}
			conn.apply(cmd, &cfg)
			if err := config.Validate(cfg); err != nil {
				return err
			}
			env, err := run(cmd.Context(), newClient(cfg), args)
			if err != nil {
				return err
			}
			return flags.Emit(cmd.Context(), cfg, env, cmd.OutOrStdout())
		},
	}
	flags.Register(cmd)
	conn.register(cmd)
	if register != nil {
		register(cmd)
	}
	return cmd
}
