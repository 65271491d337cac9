package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	return p
}

func envOf(m map[string]string) LookupEnv {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_CUE(t *testing.T) {
	p := writeConfig(t, "p4tag.cue", `{
  configVersion: "1"
  p4: {
    port: "ssl:perforce:1666"
    user: "build"
    charset: "utf8"
    retries: 3
  }
  output: {
    format: "yaml"
    pretty: true
  }
  filter: {
    lua: "data.rev > 1"
    ignoreFile: ".p4ignore"
  }
}
`)
	cfg, err := LoadWithEnv(p, envOf(map[string]string{"P4CLIENT": "ws", "P4USER": "ignored"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.P4.Port != "ssl:perforce:1666" || cfg.P4.User != "build" || cfg.P4.Retries != 3 || cfg.P4.Charset != "utf8" {
		t.Fatalf("unexpected p4 section: %+v", cfg.P4)
	}
	if cfg.P4.Client != "ws" {
		t.Fatalf("expected client from env, got %q", cfg.P4.Client)
	}
	if cfg.Output.Format != FormatYAML || !cfg.Output.Pretty {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
	if cfg.Filter.Lua != "data.rev > 1" || cfg.Filter.IgnoreFile != ".p4ignore" {
		t.Fatalf("unexpected filter: %+v", cfg.Filter)
	}
}

func TestLoad_CUEDefaultsFormat(t *testing.T) {
	p := writeConfig(t, "min.cue", "configVersion: \"1\"\n")
	cfg, err := LoadWithEnv(p, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != FormatJSON {
		t.Fatalf("expected json default, got %q", cfg.Output.Format)
	}
}

func TestLoad_CUEMissingVersion(t *testing.T) {
	p := writeConfig(t, "nover.cue", "p4: { port: \"1666\" }\n")
	_, err := LoadWithEnv(p, nil)
	if err == nil || err.Error() != "missing required field: configVersion" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_CUEWrongType(t *testing.T) {
	p := writeConfig(t, "bad.cue", "configVersion: \"1\"\np4: { retries: \"three\" }\n")
	_, err := LoadWithEnv(p, nil)
	if err == nil || !strings.Contains(err.Error(), "p4.retries") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	p := writeConfig(t, "p4tag.toml", `configVersion = "1"

[p4]
cmd = "/usr/local/bin/p4"
port = "perforce:1666"
password = "s3cret"

[output]
format = "lines"
out = "out.ndjson"
`)
	cfg, err := LoadWithEnv(p, envOf(map[string]string{"P4PASSWD": "ignored", "P4USER": "alice"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.P4.Cmd != "/usr/local/bin/p4" || cfg.P4.Password != "s3cret" || cfg.P4.User != "alice" {
		t.Fatalf("unexpected p4 section: %+v", cfg.P4)
	}
	if cfg.Output.Format != FormatLines || cfg.Output.Out != "out.ndjson" {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
}

func TestLoad_TOMLUnknownKey(t *testing.T) {
	p := writeConfig(t, "typo.toml", "configVersion = \"1\"\n[p4]\nprot = \"1666\"\n")
	_, err := LoadWithEnv(p, nil)
	if err == nil || !strings.Contains(err.Error(), "p4.prot") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_CUEUnknownKey(t *testing.T) {
	p := writeConfig(t, "typo.cue", "{\n  configVersion: \"1\"\n  p4: { prot: \"1666\" }\n}\n")
	_, err := LoadWithEnv(p, nil)
	if err == nil || err.Error() != "unknown config key: p4.prot" {
		t.Fatalf("unexpected error: %v", err)
	}

	p = writeConfig(t, "top.cue", "{\n  configVersion: \"1\"\n  ouput: { format: \"yaml\" }\n}\n")
	_, err = LoadWithEnv(p, nil)
	if err == nil || err.Error() != "unknown config key: ouput" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	p := writeConfig(t, "fmt.toml", "configVersion = \"1\"\n[output]\nformat = \"xml\"\n")
	if _, err := LoadWithEnv(p, nil); err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Fatalf("unexpected error: %v", err)
	}
	p = writeConfig(t, "retries.toml", "configVersion = \"1\"\n[p4]\nretries = -1\n")
	if _, err := LoadWithEnv(p, nil); err == nil || !strings.Contains(err.Error(), "p4.retries") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	p := writeConfig(t, "p4tag.json", "{}")
	if _, err := LoadWithEnv(p, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default(envOf(map[string]string{"P4PORT": "localhost:1666"}))
	if cfg.ConfigVersion != CurrentConfigVersion || cfg.Output.Format != FormatJSON || cfg.P4.Port != "localhost:1666" {
		t.Fatalf("unexpected default: %+v", cfg)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("default must validate: %v", err)
	}
}
