package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type tomlFile struct {
	ConfigVersion string `toml:"configVersion"`
	P4            struct {
		Cmd      string `toml:"cmd"`
		Port     string `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		Client   string `toml:"client"`
		Charset  string `toml:"charset"`
		Retries  int    `toml:"retries"`
	} `toml:"p4"`
	Output struct {
		Format string `toml:"format"`
		Pretty bool   `toml:"pretty"`
		Out    string `toml:"out"`
	} `toml:"output"`
	Filter struct {
		Lua        string `toml:"lua"`
		IgnoreFile string `toml:"ignoreFile"`
	} `toml:"filter"`
}

func parseTOML(path string) (Config, error) {
	var raw tomlFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if !meta.IsDefined("configVersion") {
		return Config{}, fmt.Errorf("missing required field: configVersion")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key: %s", undecoded[0].String())
	}
	cfg := Config{
		ConfigVersion: raw.ConfigVersion,
		P4: P4{
			Cmd:      raw.P4.Cmd,
			Port:     raw.P4.Port,
			User:     raw.P4.User,
			Password: raw.P4.Password,
			Client:   raw.P4.Client,
			Charset:  raw.P4.Charset,
			Retries:  raw.P4.Retries,
		},
		Output: Output{Format: FormatJSON, Pretty: raw.Output.Pretty, Out: raw.Output.Out},
		Filter: Filter{Lua: raw.Filter.Lua, IgnoreFile: raw.Filter.IgnoreFile},
	}
	if meta.IsDefined("output", "format") {
		cfg.Output.Format = raw.Output.Format
	}
	return cfg, nil
}
