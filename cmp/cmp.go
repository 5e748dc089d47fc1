// Package cmp is the classfile framework of *_cmp.gox version comparators.
//
// A recipe directory may ship a comparator when upstream tags do not sort
// correctly as GNU or semantic versions:
//
//	compareVer (a, b) => {
//		return gnu.Compare(a, b)
//	}
package cmp

import "github.com/goplus/llar-corrade/mod/module"

const GopPackage = true

// CmpApp is the class of a comparator file.
type CmpApp struct {
	fCompareVer module.VersionComparator
}

// CompareVer registers the comparison function.
func (f *CmpApp) CompareVer(fn module.VersionComparator) {
	f.fCompareVer = fn
}

// Gopt_CmpApp_Main is main entry of this classfile.
func Gopt_CmpApp_Main(this interface{ MainEntry() }) {
	this.MainEntry()
}
