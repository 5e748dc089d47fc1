package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-corrade/formula"
	"github.com/goplus/llar-corrade/internal/comparator"
	"github.com/goplus/llar-corrade/internal/config"
	"github.com/goplus/llar-corrade/internal/sourcedata"
	"github.com/goplus/llar-corrade/mod/module"
)

// recipeFlags select the configuration of a recipe on the command line.
type recipeFlags struct {
	settings  []string
	options   []string
	buildType string
}

func (f *recipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.settings, "setting", "s", nil, "Set a setting, e.g. -s compiler=gcc (repeatable)")
	cmd.Flags().StringArrayVarP(&f.options, "option", "O", nil, "Set an option, e.g. -O shared=True (repeatable)")
	cmd.Flags().StringVar(&f.buildType, "build-type", "", "Shorthand for -s build_type=<type>")
}

func loadProfile() (*config.Config, error) {
	if rootProfile != "" {
		return config.Load(rootProfile)
	}
	return config.LoadDefault()
}

// loadRecipe returns the recipe of version configured by, in increasing
// precedence, the profile, sources.yml and the command line flags. An empty
// version or "latest" selects the newest release tag upstream.
func loadRecipe(ctx context.Context, version string, flags *recipeFlags) (*formula.Recipe, *config.Config, error) {
	cfg, err := loadProfile()
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	if version, err = resolveVersion(ctx, version, remoteOf(cfg)); err != nil {
		return nil, nil, err
	}

	r := formula.New(version)
	if err := cfg.Apply(r); err != nil {
		return nil, nil, err
	}
	data, err := sourcedata.Load(filepath.Join(rootRecipeDir, sourcedata.FileName))
	if err != nil {
		return nil, nil, err
	}
	if src, ok := data.Lookup(version); ok {
		loggerFromContext(ctx).Debug("using pinned source", "url", src.URL, "commit", src.Commit)
		r.Source = src
	}

	if flags != nil {
		if err := r.Configure(flags.settings, flags.options); err != nil {
			return nil, nil, err
		}
		if flags.buildType != "" {
			r.Settings.BuildType = flags.buildType
		}
	}
	return r, cfg, nil
}

func remoteOf(cfg *config.Config) string {
	if cfg.Remote != "" {
		return cfg.Remote
	}
	return formula.New("").Source.URL
}

func resolveVersion(ctx context.Context, version, remote string) (string, error) {
	if version != "" && version != "latest" {
		return strings.TrimPrefix(version, "v"), nil
	}
	tags, cmp, err := releaseTags(ctx, remote)
	if err != nil {
		return "", err
	}
	latest := comparator.Latest(tags, cmp)
	if latest == "" {
		return "", errors.New("no release tags found at " + remote)
	}
	loggerFromContext(ctx).Debug("resolved latest version", "tag", latest)
	return strings.TrimPrefix(latest, "v"), nil
}

// releaseTags lists the upstream release tags ("v" followed by a digit) and
// the comparator ordering them.
func releaseTags(ctx context.Context, remote string) ([]string, module.VersionComparator, error) {
	cmp, err := comparator.Load(os.DirFS(rootRecipeDir))
	if err != nil {
		return nil, nil, err
	}
	all, err := newVCS().Tags(ctx, remote)
	if err != nil {
		return nil, nil, err
	}
	var tags []string
	for _, tag := range all {
		if len(tag) > 1 && tag[0] == 'v' && '0' <= tag[1] && tag[1] <= '9' {
			tags = append(tags, tag)
		}
	}
	return tags, cmp, nil
}

func versionArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
