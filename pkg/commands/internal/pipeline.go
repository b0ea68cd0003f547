// Package internal holds the plumbing shared by the command packages:
// environment resolution and the source-tree-to-mappings pipeline.
package internal

import (
	"os"

	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/mapping"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Env is the resolved execution environment for one command run.
type Env struct {
	Paths  paths.Paths
	Config *config.Config
}

// ResolveEnv builds paths from the source and target overrides and
// loads the merged configuration from the resolved source root.
func ResolveEnv(sourceRoot, target string) (*Env, error) {
	p, err := paths.NewWithRoots(sourceRoot, target, "")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.SourceRoot())
	if err != nil {
		return nil, err
	}

	return &Env{Paths: p, Config: cfg}, nil
}

// MappingOptions carries the per-run overrides for BuildMappings.
type MappingOptions struct {
	// Ignore patterns appended to the configured ones
	Ignore []string

	// Variant overrides the configured or hostname-derived variant
	Variant string
}

// BuildMappings enumerates the source tree and computes its mappings.
// Ignore patterns merge the built-in defaults, the config, the
// linkignore file and the flags; the active variant comes from the
// flag, the config, or the hostname, in that order.
func BuildMappings(env *Env, opts MappingOptions) ([]types.Mapping, []mapping.Skip, error) {
	logger := logging.GetLogger("commands.pipeline")

	files, err := mapping.Enumerate(env.Paths.SourceRoot())
	if err != nil {
		return nil, nil, err
	}

	fileIgnores, err := mapping.LoadIgnoreFile(env.Paths.IgnoreFilePath())
	if err != nil {
		return nil, nil, err
	}

	ignore := make([]string, 0,
		len(mapping.DefaultIgnores)+len(env.Config.Link.Ignore)+len(fileIgnores)+len(opts.Ignore))
	ignore = append(ignore, mapping.DefaultIgnores...)
	ignore = append(ignore, env.Config.Link.Ignore...)
	ignore = append(ignore, fileIgnores...)
	ignore = append(ignore, opts.Ignore...)

	variant := ResolveVariant(env, opts.Variant)

	mappings, skips := mapping.Compute(files, mapping.Options{
		Paths:    env.Paths,
		Ignore:   ignore,
		Variant:  variant,
		Variants: env.Config.Link.Variants,
	})

	logger.Debug().
		Int("files", len(files)).
		Int("mappings", len(mappings)).
		Int("skips", len(skips)).
		Str("variant", variant).
		Msg("Computed mappings")

	return mappings, skips, nil
}

// ResolveVariant picks the active variant: explicit flag, then config,
// then the first configured variant the hostname contains.
func ResolveVariant(env *Env, override string) string {
	if override != "" {
		return override
	}
	if env.Config.Link.Variant != "" {
		return env.Config.Link.Variant
	}

	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}
	return mapping.DeriveVariant(hostname, env.Config.Link.Variants)
}

// ResolvePalettePath picks the palette document: explicit flag, then
// config, then the generator's default cache path.
func ResolvePalettePath(env *Env, override string) string {
	if override != "" {
		return paths.ExpandHome(override)
	}
	if env.Config.Theme.Palette != "" {
		return paths.ExpandHome(env.Config.Theme.Palette)
	}
	return env.Paths.DefaultPalettePath()
}
