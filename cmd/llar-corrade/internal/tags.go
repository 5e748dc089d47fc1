package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/internal/comparator"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List upstream release tags, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg, err := loadProfile()
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	tags, cmp, err := releaseTags(cmd.Context(), remoteOf(cfg))
	if err != nil {
		return err
	}
	comparator.Sort(tags, cmp)
	for _, tag := range tags {
		fmt.Fprintln(cmd.OutOrStdout(), tag)
	}
	return nil
}
