package sourcedata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/llar-corrade/formula"
)

func TestLoadMissing(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", d.Sources)
	}
	if _, ok := d.Lookup("2020.06"); ok {
		t.Error("Lookup found a version in empty data")
	}
}

func TestUpdateAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins", FileName)

	first := formula.Source{URL: "https://github.com/mosra/corrade.git", Commit: "v2019.10"}
	second := formula.Source{URL: "https://github.com/mosra/corrade.git", Commit: "v2020.06"}
	if err := Update(path, "2019.10", first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := Update(path, "2020.06", second); err != nil {
		t.Fatalf("Update: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := d.Lookup("2019.10"); !ok || got != first {
		t.Errorf("Lookup(2019.10) = %+v, %v", got, ok)
	}
	if got, ok := d.Lookup("2020.06"); !ok || got != second {
		t.Errorf("Lookup(2020.06) = %+v, %v", got, ok)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sources:", "commit: v2020.06", "url: https://github.com/mosra/corrade.git"} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("file missing %q:\n%s", want, raw)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("sources: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "sources:\n  \"2020.06\":\n    url: https://example.com/corrade.git\n    commit: abc123\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := formula.Source{URL: "https://example.com/corrade.git", Commit: "abc123"}
	if got, _ := d.Lookup("2020.06"); got != want {
		t.Errorf("Lookup = %+v, want %+v", got, want)
	}
}
