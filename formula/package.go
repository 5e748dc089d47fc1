package formula

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/llar-corrade/x/linkorder"
)

// CanonicalOrder lists Corrade's libraries in dependency order, see
// https://doc.magnum.graphics/magnum/custom-buildsystems.html
var CanonicalOrder = []string{
	"CorradeUtility",
	"CorradeContainers",
	"CorradeInterconnect",
	"CorradePluginManager",
	"CorradeTestSuite",
}

// Component is a consumable part of the package. Lib is empty for
// header-only components.
type Component struct {
	Name     string
	Lib      string
	Requires []string
}

// Components returns Corrade's components for the configured build type.
func (r *Recipe) Components() []Component {
	suffix := r.LibSuffix()
	return []Component{
		{Name: "Utility", Lib: "CorradeUtility" + suffix},
		{Name: "Containers", Requires: []string{"Utility"}},
		{Name: "Interconnect", Lib: "CorradeInterconnect" + suffix, Requires: []string{"Utility"}},
		{Name: "PluginManager", Lib: "CorradePluginManager" + suffix, Requires: []string{"Utility"}},
		{Name: "TestSuite", Lib: "CorradeTestSuite" + suffix, Requires: []string{"Utility"}},
	}
}

var (
	cmakeFolder         = filepath.Join("share", "cmake", "Corrade")
	cmakeEntryPointFile = filepath.Join(cmakeFolder, "conan_corrade_entry_point.cmake")
)

// ComponentInfo is what consumers need to know about a component.
type ComponentInfo struct {
	Name            string   `json:"name"`
	CMakeTargetName string   `json:"cmake_target_name"`
	PkgConfigName   string   `json:"pkg_config_name"`
	BuildDirs       []string `json:"builddirs"`
	Libs            []string `json:"libs"`
	Requires        []string `json:"requires"`
}

// CppInfo is the consumer-facing description of an installed package.
type CppInfo struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Properties  map[string]any  `json:"properties"`
	IncludeDirs []string        `json:"includedirs"`
	LibDirs     []string        `json:"libdirs"`
	Libs        []string        `json:"libs"` // link order
	Components  []ComponentInfo `json:"components"`
}

// LinkOrder returns the libraries installed in libDir in the order they must
// be passed to the linker: dependents before their dependencies.
func (r *Recipe) LinkOrder(libDir string) ([]string, error) {
	libs, err := linkorder.Collect(libDir)
	if err != nil {
		return nil, err
	}
	return linkorder.Resolve(CanonicalOrder, libs, r.LibSuffix(), true), nil
}

// PackageInfo writes the CMake entry point into packageDir and describes
// the installed package.
func (r *Recipe) PackageInfo(packageDir string) (*CppInfo, error) {
	entryPoint := filepath.Join(packageDir, cmakeEntryPointFile)
	if err := os.MkdirAll(filepath.Dir(entryPoint), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(entryPoint, []byte(entryPointContents), 0o644); err != nil {
		return nil, fmt.Errorf("write cmake entry point: %w", err)
	}

	libs, err := r.LinkOrder(filepath.Join(packageDir, "lib"))
	if err != nil {
		return nil, fmt.Errorf("collect libs: %w", err)
	}

	info := &CppInfo{
		Name:    r.Name,
		Version: r.Version,
		Properties: map[string]any{
			"cmake_file_name":     "Corrade",
			"cmake_build_modules": []string{entryPoint, filepath.Join(cmakeFolder, "UseCorrade.cmake")},
		},
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		Libs:        libs,
	}
	for _, c := range r.Components() {
		info.Components = append(info.Components, registerComponent(c))
	}
	return info, nil
}

func registerComponent(c Component) ComponentInfo {
	libs := []string{}
	if c.Lib != "" {
		libs = append(libs, c.Lib)
	}
	requires := slices.Clone(c.Requires)
	if requires == nil {
		requires = []string{}
	}
	return ComponentInfo{
		Name:            c.Name,
		CMakeTargetName: "Corrade::" + c.Name,
		PkgConfigName:   c.Name,
		BuildDirs:       []string{cmakeFolder},
		Libs:            libs,
		Requires:        requires,
	}
}

// Metadata renders the compiler and linker flags needed to consume the
// package installed at packageDir.
func (info *CppInfo) Metadata(packageDir string) string {
	flags := make([]string, 0, len(info.IncludeDirs)+len(info.LibDirs)+len(info.Libs))
	for _, dir := range info.IncludeDirs {
		flags = append(flags, "-I"+filepath.Join(packageDir, dir))
	}
	for _, dir := range info.LibDirs {
		flags = append(flags, "-L"+filepath.Join(packageDir, dir))
	}
	flags = append(flags, linkorder.Flags(info.Libs)...)
	return strings.Join(flags, " ")
}

// WritePkgConfig writes one <pkg_config_name>.pc file per component into
// packageDir/lib/pkgconfig. Components whose library was not built are
// skipped.
func (info *CppInfo) WritePkgConfig(packageDir string) error {
	dir := filepath.Join(packageDir, "lib", "pkgconfig")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, c := range info.Components {
		if len(c.Libs) > 0 && !slices.Contains(info.Libs, c.Libs[0]) {
			continue
		}
		pc := info.pkgConfig(packageDir, c)
		if err := os.WriteFile(filepath.Join(dir, c.PkgConfigName+".pc"), []byte(pc), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (info *CppInfo) pkgConfig(packageDir string, c ComponentInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "prefix=%s\n", filepath.ToSlash(packageDir))
	b.WriteString("libdir=${prefix}/lib\n")
	b.WriteString("includedir=${prefix}/include\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.PkgConfigName)
	fmt.Fprintf(&b, "Description: Corrade %s component\n", c.Name)
	fmt.Fprintf(&b, "Version: %s\n", info.Version)
	if len(c.Requires) > 0 {
		fmt.Fprintf(&b, "Requires: %s\n", strings.Join(c.Requires, " "))
	}
	b.WriteString("Libs: -L${libdir}")
	for _, flag := range linkorder.Flags(c.Libs) {
		b.WriteString(" " + flag)
	}
	b.WriteString("\nCflags: -I${includedir}\n")
	return b.String()
}
