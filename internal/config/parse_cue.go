package config

import (
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func compileCUE(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func parseCUE(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}
	if err := checkKnownFields(v); err != nil {
		return Config{}, err
	}
	cfg := Config{Output: Output{Format: FormatJSON}}
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&cfg.ConfigVersion); err != nil {
		return Config{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if err := parseP4Section(v, &cfg.P4); err != nil {
		return Config{}, err
	}
	if err := parseOutputSection(v, &cfg.Output); err != nil {
		return Config{}, err
	}
	if err := parseFilterSection(v, &cfg.Filter); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// knownFields lists the accepted keys per section; "" is the top level.
var knownFields = map[string][]string{
	"":       {"configVersion", "p4", "output", "filter"},
	"p4":     {"cmd", "port", "user", "password", "client", "charset", "retries"},
	"output": {"format", "pretty", "out"},
	"filter": {"lua", "ignoreFile"},
}

// checkKnownFields rejects keys the loader would otherwise ignore, matching
// the TOML loader.
func checkKnownFields(v cue.Value) error {
	if err := checkSectionFields(v, ""); err != nil {
		return err
	}
	for _, section := range []string{"p4", "output", "filter"} {
		sv := v.LookupPath(cue.ParsePath(section))
		if !sv.Exists() {
			continue
		}
		if sv.Kind() != cue.StructKind {
			return fmt.Errorf("invalid type for field: %s (expected struct)", section)
		}
		if err := checkSectionFields(sv, section); err != nil {
			return err
		}
	}
	return nil
}

func checkSectionFields(v cue.Value, section string) error {
	it, err := v.Fields()
	if err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	for it.Next() {
		name := it.Selector().String()
		if slices.Contains(knownFields[section], name) {
			continue
		}
		if section != "" {
			name = section + "." + name
		}
		return fmt.Errorf("unknown config key: %s", name)
	}
	return nil
}

// stringField decodes section.name into dst when present. A value of the
// wrong kind is an error.
func stringField(section cue.Value, prefix, name string, dst *string) error {
	f := section.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected string)", prefix, name)
	}
	return f.Decode(dst)
}

func boolField(section cue.Value, prefix, name string, dst *bool) error {
	f := section.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.BoolKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected bool)", prefix, name)
	}
	return f.Decode(dst)
}

func intField(section cue.Value, prefix, name string, dst *int) error {
	f := section.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.IntKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected int)", prefix, name)
	}
	return f.Decode(dst)
}

func parseP4Section(v cue.Value, p *P4) error {
	sv := v.LookupPath(cue.ParsePath("p4"))
	if !sv.Exists() {
		return nil
	}
	fields := []struct {
		name string
		dst  *string
	}{
		{"cmd", &p.Cmd},
		{"port", &p.Port},
		{"user", &p.User},
		{"password", &p.Password},
		{"client", &p.Client},
		{"charset", &p.Charset},
	}
	for _, f := range fields {
		if err := stringField(sv, "p4", f.name, f.dst); err != nil {
			return err
		}
	}
	return intField(sv, "p4", "retries", &p.Retries)
}

func parseOutputSection(v cue.Value, o *Output) error {
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return nil
	}
	if err := stringField(ov, "output", "format", &o.Format); err != nil {
		return err
	}
	if err := boolField(ov, "output", "pretty", &o.Pretty); err != nil {
		return err
	}
	return stringField(ov, "output", "out", &o.Out)
}

func parseFilterSection(v cue.Value, f *Filter) error {
	fv := v.LookupPath(cue.ParsePath("filter"))
	if !fv.Exists() {
		return nil
	}
	if err := stringField(fv, "filter", "lua", &f.Lua); err != nil {
		return err
	}
	return stringField(fv, "filter", "ignoreFile", &f.IgnoreFile)
}
