package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/internal/vcs"
	"github.com/goplus/llar-corrade/x/cmake"
)

var (
	rootVerbose   bool
	rootProfile   string
	rootRecipeDir string
)

// Seams replaced by tests.
var (
	newVCS      = func() vcs.VCS { return vcs.NewGitVCS() }
	cmakeRunner cmake.RunFunc // nil runs cmake
)

var rootCmd = &cobra.Command{
	Use:   "llar-corrade",
	Short: "llar-corrade builds and packages the Corrade C++ library",
	Long: `llar-corrade fetches Corrade from git, builds it with CMake for the
requested settings and options, and publishes pkg-config files, a CMake
entry point and the linker flags needed to consume it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if rootVerbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootProfile, "profile", "", "Profile to load (default <UserConfigDir>/llar/corrade.toml)")
	rootCmd.PersistentFlags().StringVar(&rootRecipeDir, "recipe-dir", ".", "Directory holding sources.yml and *_cmp.gox")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "llar-corrade:", err)
		os.Exit(1)
	}
}
