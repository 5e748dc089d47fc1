package internal

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/formula"
	"github.com/goplus/llar-corrade/internal/sourcedata"
)

var (
	pinCommit string
	pinHead   bool
)

var pinCmd = &cobra.Command{
	Use:   "pin [version]",
	Short: "Record where the sources of a version come from",
	Long: `Pin writes the source url and commit of a version into sources.yml in the
recipe directory. Later builds of that version fetch the pinned commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPin,
}

func init() {
	pinCmd.Flags().StringVar(&pinCommit, "commit", "", `Commit or tag to pin (default "v<version>")`)
	pinCmd.Flags().BoolVar(&pinHead, "head", false, "Pin the current HEAD commit of the remote")
	pinCmd.MarkFlagsMutuallyExclusive("commit", "head")
	rootCmd.AddCommand(pinCmd)
}

func runPin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadProfile()
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	version, err := resolveVersion(ctx, versionArg(args), remoteOf(cfg))
	if err != nil {
		return err
	}

	src := formula.New(version).Source
	src.URL = remoteOf(cfg)
	switch {
	case pinCommit != "":
		src.Commit = pinCommit
	case pinHead:
		if src.Commit, err = newVCS().Latest(ctx, src.URL); err != nil {
			return fmt.Errorf("resolve HEAD of %s: %w", src.URL, err)
		}
	}

	path := filepath.Join(rootRecipeDir, sourcedata.FileName)
	if err := sourcedata.Update(path, version, src); err != nil {
		return err
	}
	loggerFromContext(ctx).Info("pinned", "version", version, "url", src.URL, "commit", src.Commit, "file", path)
	return nil
}
