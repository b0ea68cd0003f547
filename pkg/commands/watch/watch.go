// Package watch implements the watch command: a long-running loop that
// reloads the palette whenever the generator rewrites it.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/reload"
	"github.com/arthur-debert/dotlink/pkg/theme"
)

// Options defines the options for the Watch command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target resolves config against an alternate home directory
	Target string

	// Palette overrides the configured palette document path
	Palette string

	// NoNotify suppresses desktop notifications regardless of config
	NoNotify bool

	// DryRun loads and watches but logs hooks instead of running them
	DryRun bool
}

// Info describes what a watch run with the same options would observe.
type Info struct {
	// PalettePath is the resolved palette document path
	PalettePath string

	// Debounce is the effective debounce window
	Debounce time.Duration
}

// Inspect resolves the palette document and debounce without starting
// a watch. Callers use it to announce what Execute is about to do.
func Inspect(opts Options) (*Info, error) {
	env, err := internal.ResolveEnv(opts.SourceRoot, opts.Target)
	if err != nil {
		return nil, err
	}

	return &Info{
		PalettePath: internal.ResolvePalettePath(env, opts.Palette),
		Debounce:    env.Config.Theme.Debounce,
	}, nil
}

// Execute watches the palette document until ctx is cancelled. The
// palette is loaded once up front so the first consumers see colors
// immediately; hooks and notifications only fire on later reloads.
func Execute(ctx context.Context, opts Options) error {
	logger := logging.GetLogger("commands.watch")

	env, err := internal.ResolveEnv(opts.SourceRoot, opts.Target)
	if err != nil {
		return err
	}

	palettePath := internal.ResolvePalettePath(env, opts.Palette)

	// fsnotify cannot watch a directory that does not exist yet, and the
	// generator may not have run before us
	if err := os.MkdirAll(filepath.Dir(palettePath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrWatchSetup,
			"failed to create %s", filepath.Dir(palettePath))
	}

	hooks := make([]theme.Hook, 0, len(env.Config.Theme.Hooks))
	for _, h := range env.Config.Theme.Hooks {
		hooks = append(hooks, theme.Hook{Command: h.Command, Args: h.Args})
	}

	var notifier theme.Notifier
	if env.Config.Theme.Notify && !opts.NoNotify && !opts.DryRun {
		notifier = theme.NewDesktopNotifier()
	}

	mgr := theme.NewManager(theme.Options{
		PalettePath: palettePath,
		Hooks:       hooks,
		Notifier:    notifier,
		DryRun:      opts.DryRun,
	})
	state := mgr.Load()

	w, err := reload.NewWatcher(reload.Options{Debounce: env.Config.Theme.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if _, err := w.Subscribe(palettePath, func(reload.Event) {
		mgr.Reload(ctx)
	}); err != nil {
		return err
	}

	logger.Info().
		Str("palette", palettePath).
		Str("state", string(state)).
		Dur("debounce", env.Config.Theme.Debounce).
		Int("hooks", len(hooks)).
		Msg("Watching palette document")

	<-ctx.Done()

	logger.Debug().
		Uint64("reloads", mgr.Reloads()).
		Msg("Watch loop stopping")

	return nil
}
