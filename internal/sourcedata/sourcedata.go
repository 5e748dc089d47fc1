// Package sourcedata pins where the sources of each packaged version come
// from.
//
// The file is YAML and keyed by version:
//
//	sources:
//	  "2020.06":
//	    url: https://github.com/mosra/corrade.git
//	    commit: v2020.06
package sourcedata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goplus/llar-corrade/formula"
)

// FileName is the default name of the source data file.
const FileName = "sources.yml"

// Data is the content of a source data file.
type Data struct {
	Sources map[string]formula.Source `yaml:"sources"`
}

// Load reads the file at path. A missing file yields empty data.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Data{Sources: map[string]formula.Source{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sourcedata: reading %s: %w", path, err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("sourcedata: parsing %s: %w", path, err)
	}
	if d.Sources == nil {
		d.Sources = map[string]formula.Source{}
	}
	return &d, nil
}

// Lookup returns the pinned source of version.
func (d *Data) Lookup(version string) (formula.Source, bool) {
	src, ok := d.Sources[version]
	return src, ok
}

// Update records src for version in the file at path, keeping the other
// entries.
func Update(path, version string, src formula.Source) error {
	d, err := Load(path)
	if err != nil {
		return err
	}
	d.Sources[version] = src

	out, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("sourcedata: encoding: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, out, 0o644)
}
