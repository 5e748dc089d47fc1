package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/formula"
	"github.com/goplus/llar-corrade/x/linkorder"
)

var (
	libsSuffix  string
	libsReverse bool
	libsOrder   []string
	libsFlags   bool
)

var libsCmd = &cobra.Command{
	Use:   "libs [dir]",
	Short: "Print the link order of the libraries in a directory",
	Long: `Libs scans dir (the current directory by default) for Corrade libraries
and prints them in the order they must be passed to the linker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibs,
}

func init() {
	libsCmd.Flags().StringVar(&libsSuffix, "suffix", "", `Library name suffix, e.g. "-d" for debug builds`)
	libsCmd.Flags().BoolVar(&libsReverse, "reverse", true, "Print dependents before their dependencies")
	libsCmd.Flags().StringSliceVar(&libsOrder, "order", nil, "Dependency order of the libraries (default "+strings.Join(formula.CanonicalOrder, ",")+")")
	libsCmd.Flags().BoolVar(&libsFlags, "flags", false, "Print -l linker flags on one line")
	rootCmd.AddCommand(libsCmd)
}

func runLibs(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	order := libsOrder
	if len(order) == 0 {
		order = formula.CanonicalOrder
	}

	found, err := linkorder.Collect(dir)
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Debug("collected libraries", "dir", dir, "libs", found)

	libs := linkorder.Resolve(order, found, libsSuffix, libsReverse)
	out := cmd.OutOrStdout()
	if libsFlags {
		fmt.Fprintln(out, strings.Join(linkorder.Flags(libs), " "))
		return nil
	}
	for _, lib := range libs {
		fmt.Fprintln(out, lib)
	}
	return nil
}
