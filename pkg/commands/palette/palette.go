// Package palette implements the palette command, a one-shot load of
// the palette document for inspection.
package palette

import (
	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/logging"
	pal "github.com/arthur-debert/dotlink/pkg/palette"
	"github.com/arthur-debert/dotlink/pkg/theme"
)

// Options defines the options for the Palette command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target resolves config against an alternate home directory
	Target string

	// Palette overrides the configured palette document path
	Palette string
}

// Result carries the loaded palette and where it came from.
type Result struct {
	// Path is the palette document that was read
	Path string

	// State reports whether the document applied or the fallback is active
	State theme.State

	// Palette holds the active colors
	Palette pal.Palette
}

// Execute loads the palette document once, falling back to the built-in
// palette exactly as the watch loop would.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.palette")

	env, err := internal.ResolveEnv(opts.SourceRoot, opts.Target)
	if err != nil {
		return nil, err
	}

	palettePath := internal.ResolvePalettePath(env, opts.Palette)

	mgr := theme.NewManager(theme.Options{PalettePath: palettePath})
	state := mgr.Load()

	logger.Debug().
		Str("palette", palettePath).
		Str("state", string(state)).
		Msg("Palette loaded")

	return &Result{
		Path:    palettePath,
		State:   state,
		Palette: mgr.Current(),
	}, nil
}
