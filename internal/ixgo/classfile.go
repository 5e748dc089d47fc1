// Copyright 2024 The llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ixgo registers the classfiles and packages available to
// interpreted recipe files.
package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/goplus/llar-corrade/internal/ixgo/pkg/github.com/goplus/llar-corrade/cmp"
	_ "github.com/goplus/llar-corrade/internal/ixgo/pkg/github.com/goplus/llar-corrade/mod/module"
	_ "github.com/goplus/llar-corrade/internal/ixgo/pkg/github.com/goplus/llar-corrade/x/gnu"
	_ "github.com/goplus/llar-corrade/internal/ixgo/pkg/golang.org/x/mod/semver"
)

// ComparatorExt is the file suffix of version comparators.
const ComparatorExt = "_cmp.gox"

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   ComparatorExt,
		Class: "CmpApp",
		PkgPaths: []string{
			"github.com/goplus/llar-corrade/cmp",
		},
		Import: []*modfile.Import{
			{
				Name: "semver",
				Path: "golang.org/x/mod/semver",
			},
			{
				Name: "gnu",
				Path: "github.com/goplus/llar-corrade/x/gnu",
			},
		},
	})
}
