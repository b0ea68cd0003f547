// Package link implements the link command: every mapped file in the
// source tree becomes a symlink at its destination.
package link

import (
	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/linker"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/mapping"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the options for the Link command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target deploys into an alternate home directory
	Target string

	// Ignore adds substring patterns to the configured ones
	Ignore []string

	// Variant overrides the configured or hostname-derived variant
	Variant string

	// Force replaces occupied destinations
	Force bool

	// Backup overrides the configured backup behavior, nil keeps it
	Backup *bool

	// DryRun reports decisions without touching the filesystem
	DryRun bool

	// FileSystem allows injecting a filesystem for testing
	FileSystem types.FS
}

// Result carries the run report and the files that produced no mapping.
type Result struct {
	Report *linker.Report
	Skips  []mapping.Skip
}

// Execute links the source tree into the target directories.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.link")

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

	backup := env.Config.Link.Backup
	if opts.Backup != nil {
		backup = *opts.Backup
	}

	ln := linker.New(linker.Options{
		FileSystem: opts.FileSystem,
		Paths:      env.Paths,
		Force:      opts.Force,
		DryRun:     opts.DryRun,
		Backup:     backup,
	})
	report := ln.Apply(mappings)

	logger.Info().
		Int("mappings", len(mappings)).
		Int("changed", report.Changed()).
		Int("conflicts", len(report.Conflicts())).
		Bool("dryRun", opts.DryRun).
		Msg("Link finished")

	return &Result{Report: report, Skips: skips}, nil
}
