// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package comparator decides how the upstream tags of a module are ordered.
package comparator

import (
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unsafe"

	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"
	"golang.org/x/mod/semver"

	llarixgo "github.com/goplus/llar-corrade/internal/ixgo"
	"github.com/goplus/llar-corrade/mod/module"
	"github.com/goplus/llar-corrade/x/gnu"
)

// loadMu serializes ixgo interpreter loading, which is not safe for
// concurrent use.
var loadMu sync.Mutex

// Default compares two versions as semantic versions when both are valid,
// and as GNU versions otherwise.
func Default(v1, v2 string) int {
	if semver.IsValid(v1) && semver.IsValid(v2) {
		return semver.Compare(v1, v2)
	}
	return gnu.Compare(v1, v2)
}

// Load searches fsys for a *_cmp.gox comparator. If found, it is loaded and
// returned. Otherwise Default is returned. A comparator file that fails to
// load is an error.
func Load(fsys fs.FS) (module.VersionComparator, error) {
	matches, _ := fs.Glob(fsys, "*"+llarixgo.ComparatorExt)
	if len(matches) == 0 {
		return Default, nil
	}
	content, err := fs.ReadFile(fsys, matches[0])
	if err != nil {
		return nil, err
	}
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadFile(matches[0], content)
}

func loadFile(file string, content []byte) (cmp module.VersionComparator, err error) {
	ctx := ixgo.NewContext(0)

	source, err := xgobuild.BuildFile(ctx, file, content)
	if err != nil {
		return nil, err
	}
	pkgs, err := ctx.LoadFile("main.go", source)
	if err != nil {
		return nil, err
	}
	interp, err := ctx.NewInterp(pkgs)
	if err != nil {
		return nil, err
	}
	if err = interp.RunInit(); err != nil {
		return nil, err
	}
	structName, _, ok := strings.Cut(path.Base(file), "_")
	if !ok {
		return nil, fmt.Errorf("failed to load comparator: file name is not valid: %s", file)
	}
	typ, ok := interp.GetType(structName)
	if !ok {
		return nil, fmt.Errorf("failed to load comparator: struct name not found: %s", structName)
	}
	val := reflect.New(typ)
	val.Interface().(interface{ Main() }).Main()

	fn, _ := valueOf(val.Elem(), "fCompareVer").(module.VersionComparator)
	if fn == nil {
		return nil, fmt.Errorf("failed to load comparator: %s does not call compareVer", file)
	}
	return fn, nil
}

// valueOf reads a possibly unexported field of elem.
func valueOf(elem reflect.Value, name string) any {
	field := elem.FieldByName(name)
	if !field.IsValid() {
		return nil
	}
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem().Interface()
}

// Sort orders tags from the newest to the oldest.
func Sort(tags []string, cmp module.VersionComparator) {
	slices.SortStableFunc(tags, func(a, b string) int { return cmp(b, a) })
}

// Latest returns the newest tag, or "" if there is none.
func Latest(tags []string, cmp module.VersionComparator) string {
	if len(tags) == 0 {
		return ""
	}
	return slices.MaxFunc(tags, func(a, b string) int { return cmp(a, b) })
}
