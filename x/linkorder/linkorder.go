// Package linkorder orders built library archives for the linker.
package linkorder

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Resolve returns the entries of canonical, each with suffix appended, that
// are present in discovered. The result follows canonical order, or its
// reverse if reverse is set, which is the order static archives must be
// passed to the linker when canonical lists dependencies first.
//
// Discovered names that have no canonical position are dropped. Duplicate
// canonical entries are kept. canonical is never modified.
func Resolve(canonical, discovered []string, suffix string, reverse bool) []string {
	found := make(map[string]struct{}, len(discovered))
	for _, lib := range discovered {
		found[lib] = struct{}{}
	}

	result := make([]string, 0, len(canonical))
	for _, name := range canonical {
		want := name + suffix
		if _, ok := found[want]; ok {
			result = append(result, want)
		}
	}
	if reverse {
		slices.Reverse(result)
	}
	return result
}

// Collect lists the library artifacts directly inside dir and returns their
// link names, e.g. "libCorradeUtility-d.a" and "CorradeUtility-d.lib" both
// yield "CorradeUtility-d". A missing dir yields no libraries.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	libs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := linkName(entry.Name()); ok {
			libs = append(libs, name)
		}
	}
	slices.Sort(libs)
	return slices.Compact(libs), nil
}

// Flags turns link names into linker flags.
func Flags(libs []string) []string {
	flags := make([]string, len(libs))
	for i, lib := range libs {
		flags[i] = "-l" + lib
	}
	return flags
}

// linkName strips the platform prefix and extension from a library file name.
func linkName(file string) (string, bool) {
	switch ext := filepath.Ext(file); ext {
	case ".a", ".so", ".dylib":
		base := strings.TrimSuffix(strings.TrimSuffix(file, ext), ".dll")
		return strings.TrimPrefix(base, "lib"), true
	case ".lib":
		return strings.TrimSuffix(file, ext), true
	}
	// versioned shared objects: libfoo.so.1.2.3
	if base, _, ok := strings.Cut(file, ".so."); ok && strings.HasPrefix(base, "lib") {
		return strings.TrimPrefix(base, "lib"), true
	}
	return "", false
}
