package p4

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Runner starts a program and returns everything it wrote to stdout.
// A program that ran and exited with a non-zero status is not an error:
// the status is part of the tagged output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec. Stdout is buffered whole; stderr is
// logged line by line at warn level.
type ExecRunner struct {
	Dir    string
	Env    []string
	Logger zerolog.Logger
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.logStderr(name, stderr.String())
	if err == nil {
		return stdout.Bytes(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.Logger.Debug().Str("program", name).Int("status", exitErr.ExitCode()).Msg("process exited with non-zero status")
		return stdout.Bytes(), nil
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return nil, fmt.Errorf("program %s not found: %w", name, err)
	}
	return nil, fmt.Errorf("program %s start failed: %w", name, err)
}

func (r ExecRunner) logStderr(name, s string) {
	for _, line := range strings.Split(strings.TrimRight(s, "\r\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		r.Logger.Warn().Str("program", name).Msg(line)
	}
}
