package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/cmd/p4tag/decode"
	"github.com/flarebyte/p4tag/cmd/p4tag/query"
	"github.com/flarebyte/p4tag/cmd/p4tag/version"
)

// NewRootCmd creates the root command for p4tag.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "p4tag",
		Short: "Run p4 in tagged mode and emit its records as JSON, NDJSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(decode.NewCmd())
	cmd.AddCommand(query.Commands()...)

	return cmd
}

// Execute runs the root command with provided args. SIGINT and SIGTERM
// cancel the running p4 process.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
