// Package testutil holds helpers shared by tests that run a real process.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FakeP4 writes an executable shell script into dir that records its
// arguments one per line in args.txt, prints the fixture file to stdout and
// exits with code. It returns the script path.
func FakeP4(dir, fixture string, code int) (string, error) {
	abs, err := filepath.Abs(fixture)
	if err != nil {
		return "", err
	}
	argsPath := filepath.Join(dir, "args.txt")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %s\ncat %s\nexit %d\n",
		shellQuote(argsPath), shellQuote(abs), code)
	path := filepath.Join(dir, "p4")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// RecordedArgs reads the arguments captured by the last FakeP4 run in dir.
func RecordedArgs(dir string) ([]string, error) {
	b, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n"), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
