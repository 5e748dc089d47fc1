package formula

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidValue  = errors.New("invalid option value")
)

// Option is a boolean recipe option.
type Option struct {
	Name  string
	Value bool
}

// Options is an ordered set of recipe options. The zero value is empty and
// accepts no option.
type Options struct {
	opts []Option
}

// DefaultOptions returns the Corrade options with their default values.
func DefaultOptions() Options {
	return Options{opts: []Option{
		{"shared", false},
		{"fPIC", true},
		{"build_deprecated", true},
		{"build_multithreaded", true},
		{"with_interconnect", true},
		{"with_pluginmanager", true},
		{"with_rc", true},
		{"with_testsuite", true},
		{"with_utility", true},
	}}
}

// Items returns the options in declaration order.
func (o Options) Items() []Option {
	return slices.Clone(o.opts)
}

// Has reports whether the option exists.
func (o Options) Has(name string) bool {
	return o.index(name) >= 0
}

// Get returns the value of an option. Missing options are false.
func (o Options) Get(name string) bool {
	if i := o.index(name); i >= 0 {
		return o.opts[i].Value
	}
	return false
}

// SetBool assigns an existing option.
func (o *Options) SetBool(name string, value bool) error {
	i := o.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	o.opts[i].Value = value
	return nil
}

// Set assigns an existing option from its textual form. Accepted values are
// those of strconv.ParseBool plus ON/OFF and yes/no in any case.
func (o *Options) Set(name, value string) error {
	v, err := parseBool(value)
	if err != nil {
		return fmt.Errorf("option %s: %w", name, err)
	}
	return o.SetBool(name, v)
}

// Delete removes an option so that it is neither passed to the build nor
// part of the package id.
func (o *Options) Delete(name string) {
	if i := o.index(name); i >= 0 {
		o.opts = slices.Delete(o.opts, i, i+1)
	}
}

func (o Options) index(name string) int {
	return slices.IndexFunc(o.opts, func(opt Option) bool { return opt.Name == name })
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return v, nil
}

// parseKeyValue splits "key=value".
func parseKeyValue(kv string) (key, value string, err error) {
	key, value, ok := strings.Cut(kv, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", kv)
	}
	return key, strings.TrimSpace(value), nil
}
