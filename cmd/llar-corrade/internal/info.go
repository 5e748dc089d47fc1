package internal

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoFlags recipeFlags

var infoCmd = &cobra.Command{
	Use:   "info [version]",
	Short: "Show the recipe of a version",
	Long: `Info prints the metadata, source, components and CMake variables of the
recipe as configured by the profile and flags, without building anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoFlags.register(infoCmd)
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, _, err := loadRecipe(cmd.Context(), versionArg(args), &infoFlags)
	if err != nil {
		return err
	}
	r.ConfigOptions()
	if err := r.Validate(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s %s\n", r.Name, r.Version)
	fmt.Fprintf(w, "%s\n\n", r.Description)
	fmt.Fprintf(w, "homepage:\t%s\n", r.Homepage)
	fmt.Fprintf(w, "license:\t%s\n", r.License)
	fmt.Fprintf(w, "topics:\t%s\n", strings.Join(r.Topics, ", "))
	fmt.Fprintf(w, "source:\t%s@%s\n", r.Source.URL, r.Source.Commit)
	fmt.Fprintf(w, "matrix:\t%s\n", r.Matrix())

	fmt.Fprintln(w, "\ncomponents:")
	for _, c := range r.Components() {
		lib := c.Lib
		if lib == "" {
			lib = "(header-only)"
		}
		requires := ""
		if len(c.Requires) > 0 {
			requires = "requires " + strings.Join(c.Requires, ", ")
		}
		fmt.Fprintf(w, "  Corrade::%s\t%s\t%s\n", c.Name, lib, requires)
	}

	fmt.Fprintln(w, "\noptions:")
	for _, opt := range r.Options.Items() {
		fmt.Fprintf(w, "  %s\t%t\n", opt.Name, opt.Value)
	}

	fmt.Fprintln(w, "\ncmake variables:")
	for _, v := range r.CMakeVariables() {
		fmt.Fprintf(w, "  %s\t%s\n", v.Name, v.Value)
	}
	return w.Flush()
}
