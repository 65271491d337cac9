package version

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/internal/buildinfo"
)

var (
	flagShort bool
	flagJSON  bool
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagShort || !flagJSON {
			_, err := fmt.Fprintf(os.Stdout, "p4tag %s\n", buildinfo.Summary())
			return err
		}
		// JSON goes to stdout, the human line to stderr.
		_, _ = fmt.Fprintf(os.Stderr, "p4tag version: %s\n", buildinfo.Summary())
		return encodeJSON(os.Stdout, buildinfo.Current())
	},
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	VersionCmd.Flags().BoolVar(&flagShort, "short", false, "Print only the version string")
	VersionCmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
}
