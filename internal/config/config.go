// Package config reads build profiles.
//
// A profile is a TOML file fixing the settings and options used by default:
//
//	workspace = "/var/cache/llar"
//	remote = "https://github.com/mosra/corrade.git"
//	toolchain = "/opt/cross/aarch64.cmake"
//
//	[settings]
//	compiler = "gcc"
//	compiler_version = "13"
//	build_type = "Debug"
//
//	[options]
//	shared = true
//	with_testsuite = false
//
// Settings left empty keep the host defaults. Flags given on the command line
// are applied after the profile and win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/goplus/llar-corrade/formula"
	"github.com/goplus/llar-corrade/internal/env"
)

// Config is a parsed profile.
type Config struct {
	Workspace string           `toml:"workspace"`
	Remote    string           `toml:"remote"`
	Toolchain string           `toml:"toolchain"`
	Settings  formula.Settings `toml:"settings"`
	Options   map[string]bool  `toml:"options"`
}

// Load parses the profile at path. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, data)
}

// LoadDefault parses the profile at env.ProfilePath. A missing profile is
// not an error and yields an empty Config.
func LoadDefault() (*Config, error) {
	path, err := env.ProfilePath()
	if err != nil {
		return nil, fmt.Errorf("profile path: %w", err)
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Apply overrides the settings, options and source remote of r with the
// ones set in the profile.
func (c *Config) Apply(r *formula.Recipe) error {
	s := c.Settings
	for _, kv := range [...]struct{ key, value string }{
		{"os", s.OS},
		{"arch", s.Arch},
		{"compiler", s.Compiler},
		{"compiler_version", s.CompilerVersion},
		{"build_type", s.BuildType},
	} {
		if kv.value == "" {
			continue
		}
		if err := r.SetSetting(kv.key, kv.value); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := r.Options.SetBool(name, c.Options[name]); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}

	if c.Remote != "" {
		r.Source.URL = c.Remote
	}
	return nil
}
