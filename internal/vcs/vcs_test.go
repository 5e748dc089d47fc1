package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// newUpstream creates a local git repository with two tagged commits and
// returns its file:// URL and directory.
func newUpstream(t *testing.T) (url, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dir = t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{
			"-c", "user.name=llar", "-c", "user.email=llar@example.com",
			"-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false",
		}, args...)...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	git("init", "--quiet")
	write("CMakeLists.txt", "project(corrade)\n")
	git("add", ".")
	git("commit", "--quiet", "-m", "initial")
	git("tag", "v2019.10")
	write("LICENSE", "MIT\n")
	git("add", ".")
	git("commit", "--quiet", "-m", "license")
	git("tag", "v2020.06")

	return "file://" + filepath.ToSlash(dir), dir
}

func headOf(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git rev-parse HEAD failed: %v", err)
	}
	return strings.TrimSpace(string(out))
}

func TestGitVCS_Tags(t *testing.T) {
	url, _ := newUpstream(t)

	tags, err := NewGitVCS().Tags(context.Background(), url)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	slices.Sort(tags)
	if want := []string{"v2019.10", "v2020.06"}; !slices.Equal(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}
}

func TestGitVCS_Latest(t *testing.T) {
	url, dir := newUpstream(t)

	hash, err := NewGitVCS().Latest(context.Background(), url)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if want := headOf(t, dir); hash != want {
		t.Errorf("Latest() = %s, want %s", hash, want)
	}
}

func TestGitVCS_Sync(t *testing.T) {
	url, _ := newUpstream(t)
	g := NewGitVCS()
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "src", "corrade")

	if err := g.Sync(ctx, url, "v2019.10", dir); err != nil {
		t.Fatalf("Sync (clone) failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "LICENSE")); !os.IsNotExist(err) {
		t.Errorf("LICENSE should not exist at v2019.10, stat err = %v", err)
	}
	hash1, err := g.Head(ctx, dir)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}

	if err := g.Sync(ctx, url, "v2020.06", dir); err != nil {
		t.Fatalf("Sync (update) failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "LICENSE")); err != nil {
		t.Errorf("LICENSE missing at v2020.06: %v", err)
	}
	hash2 := headOf(t, dir)
	if hash1 == hash2 {
		t.Errorf("HEAD should have changed after switching tags, got %s both times", hash1)
	}
}

func TestGitVCS_SyncUnknownRef(t *testing.T) {
	url, _ := newUpstream(t)
	err := NewGitVCS().Sync(context.Background(), url, "v1999.01", filepath.Join(t.TempDir(), "src"))
	if err == nil {
		t.Fatal("expected error for unknown ref")
	}
	if !strings.Contains(err.Error(), "fetch") {
		t.Errorf("error %q should mention fetch", err)
	}
}

func TestWithGitPath(t *testing.T) {
	g := NewGitVCS(WithGitPath("/nonexistent/git")).(*gitVCS)
	if g.git != "/nonexistent/git" {
		t.Errorf("git = %q", g.git)
	}
	if _, err := g.Tags(context.Background(), "file:///nowhere"); err == nil {
		t.Error("expected error with a missing git binary")
	}
}
