// Package build runs the fetch, configure, build, install and package steps
// for a recipe and caches their result in a workspace.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goplus/llar-corrade/formula"
	"github.com/goplus/llar-corrade/internal/env"
	"github.com/goplus/llar-corrade/internal/lockedfile"
	"github.com/goplus/llar-corrade/internal/vcs"
	"github.com/goplus/llar-corrade/x/cmake"
)

// ManifestFile is written at the root of every installed package.
const ManifestFile = "corrade.json"

// Options configures a Builder.
type Options struct {
	// WorkspaceDir holds sources, caches and installed packages.
	// Defaults to env.WorkspaceDir.
	WorkspaceDir string

	// VCS fetches upstream sources. Defaults to git.
	VCS vcs.VCS

	Logger *log.Logger

	// Stdout and Stderr receive the output of cmake. Both default to
	// io.Discard.
	Stdout io.Writer
	Stderr io.Writer

	// Runner replaces the process executing cmake.
	Runner cmake.RunFunc

	// Generator is the CMake generator, empty for the platform default.
	Generator string

	// Toolchain is a CMake toolchain file for cross builds.
	Toolchain string

	// Force ignores cached builds.
	Force bool
}

// Builder builds recipes into its workspace.
type Builder struct {
	workspaceDir string
	vcs          vcs.VCS
	logger       *log.Logger
	stdout       io.Writer
	stderr       io.Writer
	runner       cmake.RunFunc
	generator    string
	toolchain    string
	force        bool
}

// Result describes an installed package.
type Result struct {
	Version   string
	OutputDir string
	Metadata  string
	Libs      []string
	Cached    bool
}

// NewBuilder returns a Builder with the defaults of opts filled in.
func NewBuilder(opts Options) (*Builder, error) {
	b := &Builder{
		workspaceDir: opts.WorkspaceDir,
		vcs:          opts.VCS,
		logger:       opts.Logger,
		stdout:       opts.Stdout,
		stderr:       opts.Stderr,
		runner:       opts.Runner,
		generator:    opts.Generator,
		toolchain:    opts.Toolchain,
		force:        opts.Force,
	}
	if b.workspaceDir == "" {
		dir, err := env.WorkspaceDir()
		if err != nil {
			return nil, fmt.Errorf("workspace dir: %w", err)
		}
		b.workspaceDir = dir
	}
	if b.vcs == nil {
		b.vcs = vcs.NewGitVCS()
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if b.stdout == nil {
		b.stdout = io.Discard
	}
	if b.stderr == nil {
		b.stderr = io.Discard
	}
	return b, nil
}

// Build installs r into the workspace, or returns the previous installation
// of the same version and matrix.
func (b *Builder) Build(ctx context.Context, r *formula.Recipe) (*Result, error) {
	r.ConfigOptions()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	mod := r.Module()
	matrix := r.Matrix().String()
	logger := b.logger.With("module", mod.String())

	installDir, err := b.moduleDir(mod, matrix)
	if err != nil {
		return nil, err
	}
	if res, ok := b.cached(mod.Path, mod.Version, matrix, installDir); ok {
		logger.Debug("cache hit", "dir", installDir)
		return res, nil
	}

	cacheDir, err := b.cacheDir(mod.Path)
	if err != nil {
		return nil, err
	}
	unlock, err := lockedfile.MutexAt(filepath.Join(cacheDir, ".lock")).Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Double-check cache after acquiring lock (another process may have built it)
	if res, ok := b.cached(mod.Path, mod.Version, matrix, installDir); ok {
		logger.Debug("built by another process", "dir", installDir)
		return res, nil
	}

	srcDir, err := b.moduleDir(mod, "src")
	if err != nil {
		return nil, err
	}
	logger.Info("fetching source", "url", r.Source.URL, "ref", r.Source.Commit)
	if err := b.vcs.Sync(ctx, r.Source.URL, r.Source.Commit, srcDir); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", mod, err)
	}
	commit, err := b.vcs.Head(ctx, srcDir)
	if err != nil {
		logger.Warn("cannot read checked out commit", "err", err)
	}

	buildDir := installDir + ".build"
	for _, dir := range []string{installDir, buildDir} {
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	logger.Info("building", "matrix", matrix)
	packageDir, err := b.cmake(ctx, r, srcDir, buildDir, installDir)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", mod, err)
	}
	if err := copyLicense(srcDir, packageDir); err != nil {
		return nil, err
	}

	info, err := r.PackageInfo(packageDir)
	if err != nil {
		return nil, err
	}
	if err := info.WritePkgConfig(packageDir); err != nil {
		return nil, err
	}
	if err := writeManifest(packageDir, info); err != nil {
		return nil, err
	}
	if len(info.Libs) == 0 {
		logger.Warn("no libraries installed", "dir", filepath.Join(packageDir, "lib"))
	}
	if err := os.RemoveAll(buildDir); err != nil {
		logger.Debug("cannot remove build tree", "dir", buildDir, "err", err)
	}

	entry := &buildEntry{
		Metadata:  info.Metadata(packageDir),
		Libs:      info.Libs,
		Commit:    commit,
		BuildTime: time.Now(),
	}
	cache, err := b.loadCache(mod.Path)
	if err != nil {
		logger.Warn("discarding unreadable build cache", "err", err)
		cache = &buildCache{}
	}
	cache.set(mod.Version, matrix, entry)
	if err := b.saveCache(mod.Path, cache); err != nil {
		return nil, fmt.Errorf("save build cache: %w", err)
	}
	logger.Info("built", "libs", info.Libs, "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Version:   mod.Version,
		OutputDir: packageDir,
		Metadata:  entry.Metadata,
		Libs:      entry.Libs,
	}, nil
}

func (b *Builder) cached(modPath, version, matrix, installDir string) (*Result, bool) {
	if b.force {
		return nil, false
	}
	cache, err := b.loadCache(modPath)
	if err != nil {
		b.logger.Debug("ignoring build cache", "err", err)
		return nil, false
	}
	entry, ok := cache.get(version, matrix)
	if !ok {
		return nil, false
	}
	if _, err := os.Stat(installDir); err != nil {
		return nil, false
	}
	return &Result{
		Version:   version,
		OutputDir: installDir,
		Metadata:  entry.Metadata,
		Libs:      entry.Libs,
		Cached:    true,
	}, true
}

// cmake configures, builds and installs r and returns the directory holding
// the installed package.
func (b *Builder) cmake(ctx context.Context, r *formula.Recipe, srcDir, buildDir, installDir string) (string, error) {
	c := cmake.New(srcDir, buildDir, installDir)
	c.Output(b.stdout, b.stderr)
	if b.runner != nil {
		c.Runner(b.runner)
	}
	if b.generator != "" {
		c.Generator(b.generator)
	}
	if b.toolchain != "" {
		c.Toolchain(b.toolchain)
	}
	c.BuildType(r.Settings.BuildType)
	for _, v := range r.CMakeVariables() {
		if v.IsBool() {
			c.DefineBool(v.Name, v.Value == "ON")
		} else {
			c.Define(v.Name, v.Value)
		}
	}
	if err := c.Configure(ctx); err != nil {
		return "", fmt.Errorf("configure: %w", err)
	}
	if err := c.Build(ctx); err != nil {
		return "", err
	}
	if err := c.Install(ctx); err != nil {
		return "", fmt.Errorf("install: %w", err)
	}
	return c.OutputDir(), nil
}

// copyLicense copies the upstream LICENSE into licenses/. Sources without one
// are accepted.
func copyLicense(srcDir, installDir string) error {
	data, err := os.ReadFile(filepath.Join(srcDir, "LICENSE"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	dir := filepath.Join(installDir, "licenses")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "LICENSE"), data, 0o644)
}

func writeManifest(installDir string, info *formula.CppInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(installDir, ManifestFile), data, 0o644)
}
