package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/flarebyte/p4tag/internal/testutil"
)

type runResult struct {
	code   int
	stdout []byte
	stderr []byte
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	if runtime.GOOS == "windows" {
		t.Skip("fake p4 is a shell script")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func buildP4tag(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "p4tag")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/p4tag")
	cmd.Dir = repoRoot(t)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, string(out))
	}
	return bin
}

func runCmd(t *testing.T, bin string, args ...string) runResult {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "P4PORT=", "P4USER=", "P4CLIENT=", "P4PASSWD=", "P4TAG_LOG_NOCOLOR=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	return runResult{code: code, stdout: stdout.Bytes(), stderr: stderr.Bytes()}
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "internal", "p4", "testdata", name)
}

func fakeP4(t *testing.T, dir, name string, code int) string {
	t.Helper()
	p, err := testutil.FakeP4(dir, fixture(t, name), code)
	if err != nil {
		t.Fatalf("fake p4: %v", err)
	}
	return p
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "p4tag.cue")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestFiles_StableAcrossRuns(t *testing.T) {
	requireShell(t)
	bin := buildP4tag(t)
	dir := t.TempDir()
	p4 := fakeP4(t, dir, "files.txt", 0)
	cfg := writeConfig(t, dir, "{\n  configVersion: \"1\"\n  p4: { cmd: \""+filepath.ToSlash(p4)+"\", port: \"ssl:p4:1666\", retries: 2 }\n}\n")

	var runs []runResult
	for i := 0; i < 3; i++ {
		runs = append(runs, runCmd(t, bin, "files", "--config", cfg, "-m", "1", "//depot/dir/..."))
	}
	for i, r := range runs {
		if r.code != 0 {
			t.Fatalf("run %d: exit %d: %s", i, r.code, r.stderr)
		}
		if !bytes.Equal(r.stdout, runs[0].stdout) {
			t.Fatalf("stdout drift at run %d", i)
		}
	}

	args, err := testutil.RecordedArgs(dir)
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	want := "-ztag -s -p ssl:p4:1666 -r 2 files -m 1 //depot/dir/..."
	if strings.Join(args, " ") != want {
		t.Fatalf("unexpected args: %v", args)
	}

	var env struct {
		Command string `json:"command"`
		Records []struct {
			Kind string         `json:"kind"`
			Data map[string]any `json:"data"`
		} `json:"records"`
		Exit int `json:"exit"`
	}
	if err := json.Unmarshal(runs[0].stdout, &env); err != nil {
		t.Fatalf("decode: %v\n%s", err, runs[0].stdout)
	}
	if env.Command != "files" || len(env.Records) != 2 || env.Records[0].Data["rev"] != float64(3) {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestPrint_BinaryAsYAML(t *testing.T) {
	requireShell(t)
	bin := buildP4tag(t)
	dir := t.TempDir()
	p4 := fakeP4(t, dir, "print_binary.txt", 0)

	r := runCmd(t, bin, "print", "--p4", p4, "--format", "yaml", "//depot/dir/bin")
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	// "1\x002\n3"
	if !strings.Contains(string(r.stdout), "base64: MQAyCjM=") {
		t.Fatalf("unexpected yaml:\n%s", r.stdout)
	}
}

func TestFiles_NonZeroExit(t *testing.T) {
	requireShell(t)
	bin := buildP4tag(t)
	dir := t.TempDir()
	p4 := fakeP4(t, dir, "files_error.txt", 1)

	r := runCmd(t, bin, "files", "--p4", p4, "--format", "lines", "//depot/nope/...")
	if r.code != 1 {
		t.Fatalf("expected exit 1, got %d", r.code)
	}
	if got := strings.TrimSpace(string(r.stderr)); got != "p4 files exited with status 1 (1 error message(s))" {
		t.Fatalf("unexpected stderr: %q", got)
	}
	if n := bytes.Count(r.stdout, []byte("\n")); n != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d:\n%s", n, r.stdout)
	}
}

func TestWhere_MissingProgram(t *testing.T) {
	requireShell(t)
	bin := buildP4tag(t)

	r := runCmd(t, bin, "where", "--p4", "p4tag-no-such-p4", "//depot/a")
	if r.code != 1 {
		t.Fatalf("expected exit 1, got %d", r.code)
	}
	msg := string(r.stderr)
	if !strings.Contains(msg, "not found") || strings.Count(msg, "\n") != 1 {
		t.Fatalf("unexpected stderr: %q", msg)
	}
	if len(r.stdout) != 0 {
		t.Fatalf("expected empty stdout, got %q", r.stdout)
	}
}
