package decode

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/cmd/p4tag/output"
	"github.com/flarebyte/p4tag/internal/logging"
	"github.com/flarebyte/p4tag/internal/report"
)

// NewCmd creates `p4tag decode <kind>`, which decodes output captured from
// `p4 -ztag -s <kind>` without running p4.
func NewCmd() *cobra.Command {
	var (
		flags  output.Flags
		inPath string
	)
	cmd := &cobra.Command{
		Use:           "decode <" + strings.Join(report.Kinds, "|") + ">",
		Short:         "Decode captured tagged p4 output",
		Args:          cobra.ExactArgs(1),
		ValidArgs:     report.Kinds,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve(cmd)
			if err != nil {
				return err
			}
			data, source, err := readInput(cmd.InOrStdin(), inPath)
			if err != nil {
				return err
			}
			log := logging.Logger()
			log.Debug().Str("source", source).Int("bytes", len(data)).Msg("decoding captured output")
			env, err := report.Decode(args[0], data, source)
			if err != nil {
				return err
			}
			return flags.Emit(cmd.Context(), cfg, env, cmd.OutOrStdout())
		},
	}
	flags.Register(cmd)
	cmd.Flags().StringVar(&inPath, "in", "-", "Captured output file, or - for stdin")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, path, nil
}
