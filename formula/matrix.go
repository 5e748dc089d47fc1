package formula

import (
	"slices"
	"strings"
)

// Matrix describes the build configurations a package is produced for.
// Require holds settings every consumer must match (os, arch, ...);
// Options holds recipe options.
type Matrix struct {
	Require map[string][]string
	Options map[string][]string
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically, and combinations are built layer by layer.
// Require fields are joined with "-", then combined with options using "|".
func (m *Matrix) Combinations() []string {
	requires := cartesian(m.Require)
	options := cartesian(m.Options)
	switch {
	case len(requires) == 0:
		return options
	case len(options) == 0:
		return requires
	}
	result := make([]string, 0, len(requires)*len(options))
	for _, req := range requires {
		for _, opt := range options {
			result = append(result, req+"|"+opt)
		}
	}
	return result
}

// String returns the key of a single-configuration matrix. A matrix with
// several combinations yields them all, separated by ",".
func (m Matrix) String() string {
	return strings.Join(m.Combinations(), ",")
}

func cartesian(kvs map[string][]string) []string {
	if len(kvs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := slices.Clone(kvs[keys[0]])
	for _, k := range keys[1:] {
		values := kvs[k]
		next := make([]string, 0, len(result)*len(values))
		for _, prev := range result {
			for _, v := range values {
				next = append(next, prev+"-"+v)
			}
		}
		result = next
	}
	return result
}
