package build

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goplus/llar-corrade/formula"
)

var linuxGCC = formula.Settings{
	OS:              "linux",
	Arch:            "amd64",
	Compiler:        "gcc",
	CompilerVersion: "13",
	BuildType:       "Release",
}

func newRecipe(settings formula.Settings) *formula.Recipe {
	r := formula.New("2020.06")
	r.Settings = settings
	return r
}

func sourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"LICENSE":        "Copyright © 2007-2020 Vladimír Vondruš\n",
		"CMakeLists.txt": "project(Corrade CXX)\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type fixture struct {
	vcs    *mockVCS
	runner *mockRunner
	ws     string
}

func newFixture(t *testing.T, libs ...string) *fixture {
	return &fixture{
		vcs:    &mockVCS{srcDir: sourceTree(t)},
		runner: &mockRunner{libs: libs},
		ws:     t.TempDir(),
	}
}

func (f *fixture) builder(t *testing.T, force bool) *Builder {
	t.Helper()
	b, err := NewBuilder(Options{
		WorkspaceDir: f.ws,
		VCS:          f.vcs,
		Logger:       log.New(io.Discard),
		Runner:       f.runner.run,
		Force:        force,
	})
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return b
}

func TestBuild(t *testing.T) {
	f := newFixture(t, "libCorradeUtility.a", "libCorradeInterconnect.a", "libCorradeTestSuite.a")
	res, err := f.builder(t, false).Build(context.Background(), newRecipe(linuxGCC))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantLibs := []string{"CorradeTestSuite", "CorradeInterconnect", "CorradeUtility"}
	if !slices.Equal(res.Libs, wantLibs) {
		t.Errorf("Libs = %v, want %v", res.Libs, wantLibs)
	}
	if res.Cached {
		t.Error("first build reported as cached")
	}
	if res.Version != "2020.06" {
		t.Errorf("Version = %q", res.Version)
	}
	if !strings.HasPrefix(res.OutputDir, filepath.Join(f.ws, "mosra", "corrade@2020.06-")) {
		t.Errorf("OutputDir = %q", res.OutputDir)
	}
	wantMeta := "-I" + filepath.Join(res.OutputDir, "include") +
		" -L" + filepath.Join(res.OutputDir, "lib") +
		" -lCorradeTestSuite -lCorradeInterconnect -lCorradeUtility"
	if res.Metadata != wantMeta {
		t.Errorf("Metadata = %q, want %q", res.Metadata, wantMeta)
	}

	if want := []string{"https://github.com/mosra/corrade.git@v2020.06"}; !slices.Equal(f.vcs.syncs, want) {
		t.Errorf("syncs = %v, want %v", f.vcs.syncs, want)
	}

	if len(f.runner.calls) != 3 {
		t.Fatalf("cmake ran %d times, want 3: %v", len(f.runner.calls), f.runner.calls)
	}
	configure := f.runner.calls[0]
	for _, arg := range []string{
		"-DBUILD_STATIC:BOOL=ON",
		"-DWITH_TESTSUITE:BOOL=ON",
		"-DLIB_SUFFIX:STRING=",
		"-DGCC47_COMPATIBILITY:BOOL=OFF",
		"-DCMAKE_BUILD_TYPE:STRING=Release",
		"-DCMAKE_INSTALL_PREFIX:STRING=" + res.OutputDir,
	} {
		if !slices.Contains(configure, arg) {
			t.Errorf("configure args %v missing %q", configure, arg)
		}
	}
	for _, arg := range configure {
		if strings.HasPrefix(arg, "-DCMAKE_TOOLCHAIN_FILE") {
			t.Errorf("unexpected %q without a toolchain", arg)
		}
	}
	if f.runner.calls[1][1] != "--build" || f.runner.calls[2][1] != "--install" {
		t.Errorf("unexpected cmake steps: %v", f.runner.calls)
	}

	if _, err := os.Stat(filepath.Join(res.OutputDir, "licenses", "LICENSE")); err != nil {
		t.Errorf("license not copied: %v", err)
	}
	for name, want := range map[string]bool{
		"Utility.pc":       true,
		"Containers.pc":    true,
		"TestSuite.pc":     true,
		"PluginManager.pc": false,
	} {
		_, err := os.Stat(filepath.Join(res.OutputDir, "lib", "pkgconfig", name))
		if got := err == nil; got != want {
			t.Errorf("%s exists = %v, want %v", name, got, want)
		}
	}
	if _, err := os.Stat(res.OutputDir + ".build"); !os.IsNotExist(err) {
		t.Errorf("build tree not removed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(res.OutputDir, ManifestFile))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var info formula.CppInfo
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	if !slices.Equal(info.Libs, wantLibs) || len(info.Components) != 5 {
		t.Errorf("manifest = %+v", info)
	}
}

func TestBuildCached(t *testing.T) {
	f := newFixture(t, "libCorradeUtility.a")
	ctx := context.Background()

	first, err := f.builder(t, false).Build(ctx, newRecipe(linuxGCC))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	calls := f.runner.count()

	second, err := f.builder(t, false).Build(ctx, newRecipe(linuxGCC))
	if err != nil {
		t.Fatalf("cached Build failed: %v", err)
	}
	if !second.Cached {
		t.Error("second build not served from cache")
	}
	if f.runner.count() != calls || len(f.vcs.syncs) != 1 {
		t.Errorf("cached build ran cmake or fetched sources again")
	}
	if second.OutputDir != first.OutputDir || second.Metadata != first.Metadata {
		t.Errorf("cached result %+v differs from %+v", second, first)
	}

	t.Run("force", func(t *testing.T) {
		res, err := f.builder(t, true).Build(ctx, newRecipe(linuxGCC))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if res.Cached || f.runner.count() != calls*2 {
			t.Errorf("forced build did not rebuild")
		}
	})

	t.Run("other matrix", func(t *testing.T) {
		r := newRecipe(linuxGCC)
		if err := r.Options.Set("shared", "True"); err != nil {
			t.Fatal(err)
		}
		before := f.runner.count()
		res, err := f.builder(t, false).Build(ctx, r)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if res.Cached || f.runner.count() == before {
			t.Error("different options reused the cached build")
		}
		if res.OutputDir == first.OutputDir {
			t.Errorf("different options share output dir %q", res.OutputDir)
		}
	})

	t.Run("output removed", func(t *testing.T) {
		if err := os.RemoveAll(first.OutputDir); err != nil {
			t.Fatal(err)
		}
		res, err := f.builder(t, false).Build(ctx, newRecipe(linuxGCC))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if res.Cached {
			t.Error("cache hit for a removed output dir")
		}
	})
}

func TestBuildToolchain(t *testing.T) {
	f := newFixture(t, "libCorradeUtility.a")
	toolchain := filepath.Join(t.TempDir(), "aarch64.cmake")
	b, err := NewBuilder(Options{
		WorkspaceDir: f.ws,
		VCS:          f.vcs,
		Logger:       log.New(io.Discard),
		Runner:       f.runner.run,
		Toolchain:    toolchain,
	})
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	if _, err := b.Build(context.Background(), newRecipe(linuxGCC)); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if arg := "-DCMAKE_TOOLCHAIN_FILE:STRING=" + toolchain; !slices.Contains(f.runner.calls[0], arg) {
		t.Errorf("configure args %v missing %q", f.runner.calls[0], arg)
	}
}

func TestBuildConcurrent(t *testing.T) {
	f := newFixture(t, "libCorradeUtility.a")
	ctx := context.Background()

	const n = 4
	var wg sync.WaitGroup
	results := make([]*Result, n)
	errs := make([]error, n)
	for i := range n {
		b := f.builder(t, false)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = b.Build(ctx, newRecipe(linuxGCC))
		}()
	}
	wg.Wait()

	built := 0
	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Build %d failed: %v", i, errs[i])
		}
		if !results[i].Cached {
			built++
		}
	}
	if built != 1 || f.runner.count() != 3 {
		t.Errorf("built %d times with %d cmake calls, want 1 build", built, f.runner.count())
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("old msvc", func(t *testing.T) {
		f := newFixture(t)
		r := newRecipe(formula.Settings{OS: "windows", Arch: "amd64", Compiler: "msvc", CompilerVersion: "140", BuildType: "Release"})
		_, err := f.builder(t, false).Build(ctx, r)
		if !errors.Is(err, formula.ErrCompilerTooOld) {
			t.Errorf("Build error = %v, want ErrCompilerTooOld", err)
		}
		if len(f.vcs.syncs) != 0 {
			t.Error("sources fetched for an invalid configuration")
		}
	})

	t.Run("fetch", func(t *testing.T) {
		f := newFixture(t)
		f.vcs.err = errors.New("repository not found")
		_, err := f.builder(t, false).Build(ctx, newRecipe(linuxGCC))
		if err == nil || !strings.Contains(err.Error(), "repository not found") {
			t.Errorf("Build error = %v", err)
		}
	})

	for _, step := range []string{"-S", "--build", "--install"} {
		t.Run("cmake "+step, func(t *testing.T) {
			f := newFixture(t, "libCorradeUtility.a")
			f.runner.fail = step
			b := f.builder(t, false)
			if _, err := b.Build(ctx, newRecipe(linuxGCC)); err == nil {
				t.Fatal("Build expected error")
			}
			cache, err := b.loadCache(formula.ModulePath)
			if err != nil {
				t.Fatal(err)
			}
			if len(cache.Cache) != 0 {
				t.Errorf("failed build was cached: %v", cache.Cache)
			}
		})
	}
}
