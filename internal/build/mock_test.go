package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// mockVCS implements vcs.VCS by copying a local directory.
type mockVCS struct {
	srcDir string
	err    error

	mu    sync.Mutex
	syncs []string // "remote@ref"
}

func (m *mockVCS) Sync(ctx context.Context, remote, ref, dir string) error {
	m.mu.Lock()
	m.syncs = append(m.syncs, remote+"@"+ref)
	m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.CopyFS(dir, os.DirFS(m.srcDir))
}

func (m *mockVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	return []string{"v2019.10", "v2020.06"}, nil
}

func (m *mockVCS) Latest(ctx context.Context, remote string) (string, error) {
	return "abc123", nil
}

func (m *mockVCS) Head(ctx context.Context, dir string) (string, error) {
	return "abc123", nil
}

// mockRunner records cmake invocations and installs the given libraries on
// "cmake --install".
type mockRunner struct {
	libs []string
	fail string // fail the step whose first argument matches

	mu    sync.Mutex
	calls [][]string
}

func (m *mockRunner) run(ctx context.Context, name string, args ...string) error {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{name}, args...))
	m.mu.Unlock()

	if len(args) > 0 && args[0] == m.fail {
		return errors.New("exit status 1")
	}
	if len(args) == 0 || args[0] != "--install" {
		return nil
	}
	i := slices.Index(args, "--prefix")
	if i < 0 || i+1 >= len(args) {
		return errors.New("install without --prefix")
	}
	prefix := args[i+1]
	for _, dir := range []string{"lib", filepath.Join("include", "Corrade")} {
		if err := os.MkdirAll(filepath.Join(prefix, dir), 0o755); err != nil {
			return err
		}
	}
	for _, lib := range m.libs {
		if err := os.WriteFile(filepath.Join(prefix, "lib", lib), nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockRunner) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
