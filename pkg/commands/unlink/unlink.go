// Package unlink implements the unlink command, removing the symlinks a
// link run created while leaving everything else in place.
package unlink

import (
	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/linker"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/mapping"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the options for the Unlink command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target unlinks from an alternate home directory
	Target string

	// Ignore adds substring patterns to the configured ones
	Ignore []string

	// Variant overrides the configured or hostname-derived variant
	Variant string

	// DryRun reports what would be removed without removing anything
	DryRun bool

	// FileSystem allows injecting a filesystem for testing
	FileSystem types.FS
}

// Result carries the removal report and the skipped files.
type Result struct {
	Report *linker.Report
	Skips  []mapping.Skip
}

// Execute removes every destination that is a symlink into the source
// tree. Regular files and links pointing elsewhere are kept.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.unlink")

	env, err := internal.ResolveEnv(opts.SourceRoot, opts.Target)
	if err != nil {
		return nil, err
	}

	mappings, skips, err := internal.BuildMappings(env, internal.MappingOptions{
		Ignore:  opts.Ignore,
		Variant: opts.Variant,
	})
	if err != nil {
		return nil, err
	}

	ln := linker.New(linker.Options{
		FileSystem: opts.FileSystem,
		Paths:      env.Paths,
		DryRun:     opts.DryRun,
	})
	report := ln.Unlink(mappings)

	logger.Info().
		Int("mappings", len(mappings)).
		Int("removed", report.Changed()).
		Bool("dryRun", opts.DryRun).
		Msg("Unlink finished")

	return &Result{Report: report, Skips: skips}, nil
}
