// Package env locates the directories llar-corrade works in.
package env

import (
	"os"
	"path/filepath"
)

// WorkDirEnv overrides the default work directory.
const WorkDirEnv = "LLAR_WORKDIR"

// WorkDir returns the root of all llar state: $LLAR_WORKDIR if set,
// otherwise <UserCacheDir>/.llar.
func WorkDir() (string, error) {
	if dir := os.Getenv(WorkDirEnv); dir != "" {
		return filepath.Abs(dir)
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".llar"), nil
}

// WorkspaceDir returns where sources are fetched and packages are built.
func WorkspaceDir() (string, error) {
	dir, err := WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspace"), nil
}

// ProfilePath returns the default profile: <UserConfigDir>/llar/corrade.toml.
func ProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "llar", "corrade.toml"), nil
}
