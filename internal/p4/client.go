// Package p4 runs p4 commands in tagged scripting mode and hands the output
// to the tagged decoders.
package p4

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/flarebyte/p4tag/internal/tagged"
)

const (
	defaultCmd     = "p4"
	maskedPassword = "********"
)

// Client holds the connection settings shared by every command. Empty
// fields are left to the p4 client's own environment and config files.
type Client struct {
	Cmd        string
	Port       string
	User       string
	Password   string
	ClientName string
	Charset    string
	// Retries is passed as -r when positive.
	Retries int
	Runner  Runner
	Logger  zerolog.Logger
}

func (c *Client) program() string {
	if c.Cmd == "" {
		return defaultCmd
	}
	return c.Cmd
}

func (c *Client) runner() Runner {
	if c.Runner == nil {
		return ExecRunner{Logger: c.Logger}
	}
	return c.Runner
}

// globalArgs returns the flags that precede the command name.
func (c *Client) globalArgs() []string {
	a := []string{"-ztag", "-s"}
	if c.Charset != "" {
		a = append(a, "-C", c.Charset)
	}
	if c.Port != "" {
		a = append(a, "-p", c.Port)
	}
	if c.User != "" {
		a = append(a, "-u", c.User)
	}
	if c.Password != "" {
		a = append(a, "-P", c.Password)
	}
	if c.ClientName != "" {
		a = append(a, "-c", c.ClientName)
	}
	if c.Retries > 0 {
		a = append(a, "-r", strconv.Itoa(c.Retries))
	}
	return a
}

// Args returns the full argument list for command, without the program name.
func (c *Client) Args(command string, opts []string, paths []string) []string {
	args := c.globalArgs()
	args = append(args, command)
	args = append(args, opts...)
	return append(args, paths...)
}

// Invocation renders a command line for logs and error context, with the
// password masked.
func (c *Client) Invocation(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, c.program())
	for i, a := range args {
		if i > 0 && args[i-1] == "-P" {
			a = maskedPassword
		}
		parts = append(parts, a)
	}
	return "Command: " + strings.Join(parts, " ")
}

type decodeFunc[T any] func(data []byte, invocation string) (*tagged.Stream[T], error)

func run[T any](ctx context.Context, c *Client, command string, opts, paths []string, decode decodeFunc[T]) (*tagged.Stream[T], error) {
	args := c.Args(command, opts, paths)
	inv := c.Invocation(args)
	c.Logger.Debug().Str("invocation", inv).Msg("running p4")
	out, err := c.runner().Run(ctx, c.program(), args...)
	if err != nil {
		return nil, tagged.NewError(tagged.LaunchFailed, inv, err)
	}
	c.Logger.Debug().Int("bytes", len(out)).Str("command", command).Msg("decoding output")
	return decode(out, inv)
}

// Dirs runs `p4 dirs` over the given directory patterns.
func (c *Client) Dirs(ctx context.Context, opts DirsOptions, dirs ...string) (*tagged.Stream[tagged.Dir], error) {
	return run(ctx, c, "dirs", opts.Args(), dirs, tagged.DecodeDirs)
}

// Files runs `p4 files` over the given file specs.
func (c *Client) Files(ctx context.Context, opts FilesOptions, files ...string) (*tagged.Stream[tagged.File], error) {
	return run(ctx, c, "files", opts.Args(), files, tagged.DecodeFiles)
}

// Print runs `p4 print` and decodes the file contents.
func (c *Client) Print(ctx context.Context, opts PrintOptions, files ...string) (*tagged.Stream[tagged.PrintedFile], error) {
	return run(ctx, c, "print", opts.Args(), files, tagged.DecodePrint)
}

// Sync runs `p4 sync`.
func (c *Client) Sync(ctx context.Context, opts SyncOptions, files ...string) (*tagged.Stream[tagged.SyncedFile], error) {
	return run(ctx, c, "sync", opts.Args(), files, tagged.DecodeSync)
}

// Where runs `p4 where`.
func (c *Client) Where(ctx context.Context, opts WhereOptions, files ...string) (*tagged.Stream[tagged.MappedFile], error) {
	return run(ctx, c, "where", opts.Args(), files, tagged.DecodeWhere)
}
