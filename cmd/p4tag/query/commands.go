package query

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/p4tag/internal/p4"
	"github.com/flarebyte/p4tag/internal/report"
)

// Commands returns the dirs, files, print, sync and where commands.
func Commands() []*cobra.Command {
	return []*cobra.Command{DirsCmd(), FilesCmd(), PrintCmd(), SyncCmd(), WhereCmd()}
}

func DirsCmd() *cobra.Command {
	var o p4.DirsOptions
	return newQueryCmd("dirs [flags] <dir>...", "List depot subdirectories", 1,
		func(cmd *cobra.Command) {
			fs := cmd.Flags()
			fs.BoolVarP(&o.ClientOnly, "client-only", "C", false, "Only directories in the client view")
			fs.StringVarP(&o.Stream, "stream", "S", "", "Only directories mapped by this stream")
			fs.BoolVarP(&o.IncludeDeleted, "deleted", "D", false, "Include directories with only deleted files")
			fs.BoolVarP(&o.IncludeSynced, "have", "H", false, "Only directories with synced files")
			fs.BoolVarP(&o.IgnoreCase, "ignore-case", "i", false, "Match case-insensitively")
		},
		func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error) {
			s, err := c.Dirs(ctx, o, paths...)
			return envelope(c, "dirs", o.Args(), paths, s, err)
		})
}

func FilesCmd() *cobra.Command {
	var o p4.FilesOptions
	return newQueryCmd("files [flags] <file>...", "List depot files", 1,
		func(cmd *cobra.Command) {
			fs := cmd.Flags()
			fs.BoolVarP(&o.AllRevisions, "all", "a", false, "All revisions in the range")
			fs.BoolVarP(&o.SyncableOnly, "exclude-deleted", "e", false, "Exclude deleted, purged and archived revisions")
			fs.BoolVarP(&o.IgnoreCase, "ignore-case", "i", false, "Match case-insensitively")
			fs.IntVarP(&o.Max, "max", "m", 0, "Limit to the first N files")
		},
		func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error) {
			s, err := c.Files(ctx, o, paths...)
			return envelope(c, "files", o.Args(), paths, s, err)
		})
}

func PrintCmd() *cobra.Command {
	var o p4.PrintOptions
	return newQueryCmd("print [flags] <file>...", "Print depot file contents", 1,
		func(cmd *cobra.Command) {
			fs := cmd.Flags()
			fs.BoolVarP(&o.AllRevisions, "all", "a", false, "All revisions in the range")
			fs.BoolVarP(&o.NoKeywordExpansion, "no-keywords", "k", false, "Suppress keyword expansion")
			fs.IntVarP(&o.Max, "max", "m", 0, "Limit to the first N files")
		},
		func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error) {
			s, err := c.Print(ctx, o, paths...)
			return envelope(c, "print", o.Args(), paths, s, err)
		})
}

func SyncCmd() *cobra.Command {
	var o p4.SyncOptions
	return newQueryCmd("sync [flags] [file]...", "Sync workspace files", 0,
		func(cmd *cobra.Command) {
			fs := cmd.Flags()
			fs.BoolVarP(&o.Force, "force", "f", false, "Resync files already in the workspace")
			fs.BoolVarP(&o.Preview, "preview", "n", false, "Show what would be synced")
			fs.BoolVarP(&o.ServerOnly, "server-only", "k", false, "Update the have list without transferring files")
			fs.BoolVar(&o.ClientOnly, "client-only", false, "Transfer files without updating the have list (-p)")
			fs.BoolVarP(&o.Verify, "safe", "s", false, "Refuse to overwrite modified workspace files")
			fs.IntVarP(&o.Max, "max", "m", 0, "Limit to the first N files")
			fs.IntVar(&o.Parallel, "parallel", 0, "Transfer threads")
		},
		func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error) {
			s, err := c.Sync(ctx, o, paths...)
			return envelope(c, "sync", o.Args(), paths, s, err)
		})
}

func WhereCmd() *cobra.Command {
	var o p4.WhereOptions
	return newQueryCmd("where <file>...", "Show depot, client and local paths", 1, nil,
		func(ctx context.Context, c *p4.Client, paths []string) (report.Envelope, error) {
			s, err := c.Where(ctx, o, paths...)
			return envelope(c, "where", o.Args(), paths, s, err)
		})
}
