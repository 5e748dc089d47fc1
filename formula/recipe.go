// Package formula describes how Corrade is configured, built and exported.
package formula

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/goplus/llar-corrade/mod/module"
	"github.com/goplus/llar-corrade/x/gnu"
)

// ErrCompilerTooOld is returned by Validate for toolchains Corrade does not
// support.
var ErrCompilerTooOld = errors.New("compiler too old")

// minMSVC is the oldest msvc compiler version accepted.
const minMSVC = "141"

// Settings are the host/target properties a package is built for.
type Settings struct {
	OS              string `toml:"os"`
	Arch            string `toml:"arch"`
	Compiler        string `toml:"compiler"`
	CompilerVersion string `toml:"compiler_version"`
	BuildType       string `toml:"build_type"`
}

// DefaultSettings describes a release build for the running host.
func DefaultSettings() Settings {
	compiler := "gcc"
	switch runtime.GOOS {
	case "windows":
		compiler = "msvc"
	case "darwin":
		compiler = "apple-clang"
	}
	return Settings{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Compiler:  compiler,
		BuildType: "Release",
	}
}

// Source tells where the sources of a version come from.
type Source struct {
	URL    string `yaml:"url" json:"url"`
	Commit string `yaml:"commit" json:"commit"`
}

// Recipe is the build formula of Corrade at one version.
type Recipe struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string
	Topics      []string

	Settings Settings
	Options  Options
	Source   Source
}

// Module returns the module this recipe produces.
func (r *Recipe) Module() module.Version {
	return module.Version{Path: ModulePath, Version: r.Version}
}

// ModulePath is the upstream repository of Corrade.
const ModulePath = "mosra/corrade"

// New returns the Corrade recipe for version with default settings and
// options. version is the upstream tag without its "v" prefix.
func New(version string) *Recipe {
	return &Recipe{
		Name:    "corrade",
		Version: version,
		Description: "Corrade is a multiplatform utility library written in C++11/C++14. " +
			"It's used as a base for the Magnum graphics engine, among other things.",
		Homepage: "https://magnum.graphics/corrade",
		License:  "MIT",
		Topics:   []string{"corrade", "magnum", "filesystem", "console", "environment", "os"},
		Settings: DefaultSettings(),
		Options:  DefaultOptions(),
		Source: Source{
			URL:    "https://github.com/" + ModulePath + ".git",
			Commit: "v" + version,
		},
	}
}

// Configure applies "key=value" settings and options on top of the current
// ones.
func (r *Recipe) Configure(settings, options []string) error {
	for _, kv := range settings {
		key, value, err := parseKeyValue(kv)
		if err != nil {
			return fmt.Errorf("setting: %w", err)
		}
		if err := r.SetSetting(key, value); err != nil {
			return err
		}
	}
	for _, kv := range options {
		key, value, err := parseKeyValue(kv)
		if err != nil {
			return fmt.Errorf("option: %w", err)
		}
		if err := r.Options.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetSetting assigns one setting by its name.
func (r *Recipe) SetSetting(key, value string) error {
	switch key {
	case "os":
		r.Settings.OS = value
	case "arch":
		r.Settings.Arch = value
	case "compiler":
		r.Settings.Compiler = value
	case "compiler.version", "compiler_version":
		r.Settings.CompilerVersion = value
	case "build_type":
		r.Settings.BuildType = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

// ConfigOptions drops options that do not apply to the target platform.
func (r *Recipe) ConfigOptions() {
	if r.Settings.OS == "windows" {
		r.Options.Delete("fPIC")
	}
}

// Validate rejects settings Corrade cannot be built with.
func (r *Recipe) Validate() error {
	s := r.Settings
	if s.OS == "windows" && r.isMSVC() && s.CompilerVersion != "" && !r.msvcAtLeast(minMSVC) {
		return fmt.Errorf("%w: %s %s, corrade requires at least msvc %s", ErrCompilerTooOld, s.Compiler, s.CompilerVersion, minMSVC)
	}
	return nil
}

// Variable is a CMake cache entry. Values "ON" and "OFF" are booleans.
type Variable struct {
	Name  string
	Value string
}

// IsBool reports whether v is a boolean switch.
func (v Variable) IsBool() bool {
	return v.Value == "ON" || v.Value == "OFF"
}

// CMakeVariables translates the recipe options and settings into the CMake
// cache entries understood by Corrade's build, sorted by name.
func (r *Recipe) CMakeVariables() []Variable {
	vars := map[string]string{}
	for _, opt := range r.Options.opts {
		vars[strings.ToUpper(opt.Name)] = onOff(opt.Value)
	}

	// Corrade appends LIB_SUFFIX (e.g. "64") to the install lib dir unless it
	// is set explicitly.
	vars["LIB_SUFFIX"] = ""
	vars["BUILD_STATIC"] = onOff(!r.Options.Get("shared"))

	if r.isMSVC() && r.Settings.CompilerVersion != "" {
		switch {
		case r.msvcAtLeast("193"):
			vars["MSVC2019_COMPATIBILITY"] = "ON"
		case r.msvcAtLeast("192"):
			vars["MSVC2017_COMPATIBILITY"] = "ON"
		case r.msvcAtLeast("191"):
			vars["MSVC2015_COMPATIBILITY"] = "ON"
		}
	}
	if r.Settings.Compiler == "gcc" && r.Settings.CompilerVersion != "" {
		vars["GCC47_COMPATIBILITY"] = onOff(gnu.Compare(r.Settings.CompilerVersion, "4.8") < 0)
	}

	result := make([]Variable, 0, len(vars))
	for name, value := range vars {
		result = append(result, Variable{Name: name, Value: value})
	}
	slices.SortFunc(result, func(a, b Variable) int { return strings.Compare(a.Name, b.Name) })
	return result
}

// Matrix returns the single configuration this recipe builds. Its String
// form keys the build cache.
func (r *Recipe) Matrix() Matrix {
	s := r.Settings
	require := map[string][]string{
		"os":         {s.OS},
		"arch":       {s.Arch},
		"build_type": {s.BuildType},
	}
	if s.Compiler != "" {
		compiler := s.Compiler
		if s.CompilerVersion != "" {
			compiler += s.CompilerVersion
		}
		require["compiler"] = []string{compiler}
	}
	options := make(map[string][]string, len(r.Options.opts))
	for _, opt := range r.Options.opts {
		options[opt.Name] = []string{opt.Name + onOff(opt.Value)}
	}
	return Matrix{Require: require, Options: options}
}

// LibSuffix is appended by Corrade's build to every library name.
func (r *Recipe) LibSuffix() string {
	if r.Settings.BuildType == "Debug" {
		return "-d"
	}
	return ""
}

func (r *Recipe) isMSVC() bool {
	return r.Settings.Compiler == "msvc" || r.Settings.Compiler == "Visual Studio"
}

// vsToMSVC maps "Visual Studio" compiler versions to msvc ones.
var vsToMSVC = map[string]string{
	"8":  "140",
	"9":  "150",
	"10": "160",
	"11": "170",
	"12": "180",
	"14": "190",
	"15": "191",
	"16": "192",
	"17": "193",
}

// msvcVersion returns the compiler version on the msvc scale.
func (r *Recipe) msvcVersion() string {
	v := r.Settings.CompilerVersion
	if r.Settings.Compiler == "Visual Studio" {
		if m, ok := vsToMSVC[v]; ok {
			return m
		}
	}
	return v
}

func (r *Recipe) msvcAtLeast(version string) bool {
	return gnu.Compare(r.msvcVersion(), version) >= 0
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
