// Package status implements the status command: a read-only pass that
// reports the state of every mapping's destination.
package status

import (
	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/linker"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/mapping"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the options for the Status command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target inspects an alternate home directory
	Target string

	// Ignore adds substring patterns to the configured ones
	Ignore []string

	// Variant overrides the configured or hostname-derived variant
	Variant string

	// FileSystem allows injecting a filesystem for testing
	FileSystem types.FS
}

// Result carries the inspection report and the skipped files.
type Result struct {
	Report *linker.Report
	Skips  []mapping.Skip
}

// Execute inspects every mapping without changing anything.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.status")

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
	})
	report := ln.Plan(mappings)

	logger.Debug().
		Int("mappings", len(mappings)).
		Int("conflicts", len(report.Conflicts())).
		Msg("Status finished")

	return &Result{Report: report, Skips: skips}, nil
}
