package internal

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/internal/build"
)

var (
	makeOutput    string
	makeToolchain string
	makeForce     bool
	makePkgConfig bool
	makeFlags     recipeFlags
)

var makeCmd = &cobra.Command{
	Use:   "make [version]",
	Short: "Build Corrade into the workspace",
	Long: `Make fetches, builds and packages a Corrade release (the latest one when
no version is given) and prints the flags needed to link against it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMake,
}

func init() {
	makeCmd.Flags().StringVarP(&makeOutput, "output", "o", "", "Output path (directory or .zip file)")
	makeCmd.Flags().StringVar(&makeToolchain, "toolchain", "", "CMake toolchain file for cross builds (overrides the profile)")
	makeCmd.Flags().BoolVar(&makeForce, "force", false, "Rebuild even if a cached build exists")
	makeCmd.Flags().BoolVar(&makePkgConfig, "pkg-config", false, "Also print pkg-config flags of every component")
	makeFlags.register(makeCmd)
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	r, cfg, err := loadRecipe(ctx, versionArg(args), &makeFlags)
	if err != nil {
		return err
	}

	opts := build.Options{
		WorkspaceDir: cfg.Workspace,
		VCS:          newVCS(),
		Logger:       logger,
		Runner:       cmakeRunner,
		Toolchain:    cfg.Toolchain,
		Force:        makeForce,
	}
	if makeToolchain != "" {
		if opts.Toolchain, err = filepath.Abs(makeToolchain); err != nil {
			return fmt.Errorf("failed to resolve toolchain path: %w", err)
		}
	}
	if rootVerbose {
		opts.Stdout = cmd.ErrOrStderr()
		opts.Stderr = cmd.ErrOrStderr()
	}

	// When -o is specified, use a temp workspace so we don't pollute the cache
	output := makeOutput
	if output != "" {
		if output, err = filepath.Abs(output); err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		tmpDir, err := os.MkdirTemp("", "llar-corrade-make-*")
		if err != nil {
			return fmt.Errorf("failed to create temp workspace: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		opts.WorkspaceDir = tmpDir
	}

	builder, err := build.NewBuilder(opts)
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}
	result, err := builder.Build(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", r.Module(), err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Metadata)
	if makePkgConfig {
		if err := printPkgConfigInfo(out, result.OutputDir); err != nil {
			logger.Warn("pkg-config", "err", err)
		}
	}

	if output != "" {
		if err := outputResult(result.OutputDir, output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("wrote package", "path", output)
	}
	return nil
}

// printPkgConfigInfo uses pkg-config to print the flags of every component
// installed in dir.
func printPkgConfigInfo(w io.Writer, dir string) error {
	pkgconfigDir := filepath.Join(dir, "lib", "pkgconfig")
	entries, err := os.ReadDir(pkgconfigDir)
	if err != nil {
		return err
	}

	var pkgNames []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".pc") {
			pkgNames = append(pkgNames, strings.TrimSuffix(entry.Name(), ".pc"))
		}
	}
	if len(pkgNames) == 0 {
		return nil
	}

	pkgConfigPath := pkgconfigDir
	if env := os.Getenv("PKG_CONFIG_PATH"); env != "" {
		pkgConfigPath += string(os.PathListSeparator) + env
	}

	for _, pkgName := range pkgNames {
		cmd := exec.Command("pkg-config", "--libs", "--cflags", pkgName)
		cmd.Env = append(os.Environ(), "PKG_CONFIG_PATH="+pkgConfigPath)
		out, err := cmd.Output()
		if err != nil {
			return fmt.Errorf("%s: %w", pkgName, err)
		}
		if result := strings.TrimSpace(string(out)); result != "" {
			fmt.Fprintf(w, "%s: %s\n", pkgName, result)
		}
	}
	return nil
}

// outputResult writes the build output to dest.
// If dest ends with ".zip", creates a zip archive; otherwise copies the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := writeZip(f, srcDir); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeZip archives srcDir into out. The central directory is only complete
// once the writer is closed, so its error is returned too.
func writeZip(out io.Writer, srcDir string) error {
	w := zip.NewWriter(out)
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
