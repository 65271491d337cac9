package output

import (
	"fmt"

	"github.com/flarebyte/p4tag/internal/report"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	maxExitCode     = 255
)

type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }
func (e exitError) ExitCode() int { return e.code }

// evaluateExit maps the exit status reported by p4 onto the process exit
// code. Output has already been written when this runs.
func evaluateExit(env report.Envelope) error {
	if env.Exit == exitCodeSuccess {
		return nil
	}
	code := int(env.Exit)
	if code < 0 || code > maxExitCode {
		code = exitCodeFailure
	}
	msg := fmt.Sprintf("p4 %s exited with status %d", env.Command, env.Exit)
	if env.Summary.Errors > 0 {
		msg += fmt.Sprintf(" (%d error message(s))", env.Summary.Errors)
	}
	return exitError{code: code, msg: msg}
}
