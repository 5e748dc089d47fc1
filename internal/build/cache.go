package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goplus/llar-corrade/mod/module"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  <escaped>/                        # module-level dir (cacheDir)
//	    .cache.json                     # build cache: maps "version-matrix" to buildEntry
//	    .lock
//	  <escaped>@<version>-src/          # upstream checkout
//	  <escaped>@<version>-<matrix>/     # install dir
//	    include/
//	    lib/
//	    licenses/
//	    corrade.json
//	  <escaped>@<version>-<matrix>.build/  # cmake build tree, removed on success
const cacheFile = ".cache.json"

// buildEntry contains metadata about a single successful build.
type buildEntry struct {
	Metadata  string    `json:"metadata"`
	Libs      []string  `json:"libs"`
	Commit    string    `json:"commit,omitempty"`
	BuildTime time.Time `json:"build_time"`
}

// buildCache maps "version-matrixString" keys to their build entries.
type buildCache struct {
	Cache map[string]*buildEntry `json:"cache"`
}

func cacheKey(version, matrix string) string {
	return version + "-" + matrix
}

func (c *buildCache) get(version, matrix string) (*buildEntry, bool) {
	entry, ok := c.Cache[cacheKey(version, matrix)]
	return entry, ok
}

func (c *buildCache) set(version, matrix string, entry *buildEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*buildEntry)
	}
	c.Cache[cacheKey(version, matrix)] = entry
}

// cacheDir returns the module-level directory for cache storage: workspaceDir/<escapedPath>.
func (b *Builder) cacheDir(modPath string) (string, error) {
	escaped, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.workspaceDir, escaped), nil
}

// moduleDir returns workspaceDir/<escapedPath>@<version>-<suffix>.
func (b *Builder) moduleDir(mod module.Version, suffix string) (string, error) {
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	// "|" separates settings from options in matrix strings and is not
	// allowed in Windows file names.
	suffix = strings.ReplaceAll(suffix, "|", "_")
	return filepath.Join(b.workspaceDir, fmt.Sprintf("%s@%s-%s", escaped, mod.Version, suffix)), nil
}

// loadCache reads the cache file for a module from the workspace directory.
// A module that was never built has an empty cache.
func (b *Builder) loadCache(modPath string) (*buildCache, error) {
	dir, err := b.cacheDir(modPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &buildCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cache buildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("%s: %w", cacheFile, err)
	}
	return &cache, nil
}

// saveCache writes the cache file for a module to the workspace directory.
func (b *Builder) saveCache(modPath string, cache *buildCache) error {
	dir, err := b.cacheDir(modPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
