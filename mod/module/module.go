// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// A Version identifies a specific version of a packaged module.
type Version struct {
	Path    string // Module path in the form "owner/repo"
	Version string // Version string (e.g., "2020.06")
}

func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "@" + v.Version
}

// Parse splits "owner/repo@version" into a Version. The version part is
// optional.
func Parse(arg string) Version {
	if i := strings.LastIndexByte(arg, '@'); i >= 0 {
		return Version{Path: arg[:i], Version: arg[i+1:]}
	}
	return Version{Path: arg}
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	if path == "" {
		return "", fmt.Errorf("empty module path")
	}
	return filepath.Localize(path)
}

// VersionComparator orders two versions of the same module, returning a
// negative value, zero or a positive value like strings.Compare.
type VersionComparator func(v1, v2 string) int
