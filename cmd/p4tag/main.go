package main

import (
	"os"
	"strings"

	"github.com/flarebyte/p4tag/cmd/p4tag/root"
	"github.com/flarebyte/p4tag/internal/logging"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	logging.ConfigureRuntime()
	if err := root.Execute(os.Args[1:]); err != nil {
		// Single line on stderr, no usage.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		_, _ = os.Stderr.WriteString(msg + "\n")
		code := 1
		if ec, ok := err.(exitCoder); ok {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
