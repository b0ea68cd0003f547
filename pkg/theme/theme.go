// Package theme applies palette documents to the running environment.
//
// A Manager owns the active palette. Reload reads the watched document
// into a fresh Palette and swaps it in only when parsing succeeds, so
// consumers always see either the last good palette or the built-in
// fallback. Each successful swap fans out to the configured hook
// commands and an optional desktop notification.
package theme

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/palette"
)

// State says where the active palette came from.
type State string

const (
	// StateApplied means the watched document is live
	StateApplied State = "applied"

	// StateFallback means loading failed and the built-in palette is live
	StateFallback State = "fallback"
)

// Options configures a Manager.
type Options struct {
	// PalettePath is the document to load and reload
	PalettePath string

	// Hooks run after each successful reload
	Hooks []Hook

	// Notifier posts desktop notifications after reloads,
	// nil disables them
	Notifier Notifier

	// DryRun logs hooks instead of executing them
	DryRun bool
}

// Manager tracks the active palette and the styles derived from it.
type Manager struct {
	path     string
	hooks    *HookRunner
	notifier Notifier
	logger   zerolog.Logger

	mu      sync.RWMutex
	current palette.Palette
	styles  Styles
	state   State

	reloads atomic.Uint64
}

// NewManager returns a Manager seeded with the fallback palette.
// Call Load to bring the watched document in.
func NewManager(opts Options) *Manager {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	fallback := palette.Default()
	return &Manager{
		path:     opts.PalettePath,
		hooks:    NewHookRunner(opts.Hooks, opts.PalettePath, opts.DryRun),
		notifier: notifier,
		logger:   logging.GetLogger("theme"),
		current:  fallback,
		styles:   NewStyles(fallback),
		state:    StateFallback,
	}
}

// Path returns the watched palette document.
func (m *Manager) Path() string {
	return m.path
}

// Current returns the active palette.
func (m *Manager) Current() palette.Palette {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Styles returns the style set derived from the active palette.
func (m *Manager) Styles() Styles {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.styles
}

// State reports whether the watched document or the fallback is live.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Reloads returns the number of successful Reload calls.
func (m *Manager) Reloads() uint64 {
	return m.reloads.Load()
}

// Load performs the startup load. A missing or malformed document keeps
// the fallback live; startup never fails over palette problems.
func (m *Manager) Load() State {
	p, err := palette.Load(m.path)
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("path", m.path).
			Msg("Palette unavailable, using fallback")
		return m.State()
	}

	m.apply(p)
	m.logger.Info().Str("path", m.path).Msg("Palette applied")
	return StateApplied
}

// Reload loads the document fresh and swaps it in, then runs hooks and
// posts the notification. On failure the prior palette stays live and
// nothing else runs.
func (m *Manager) Reload(ctx context.Context) State {
	p, err := palette.Load(m.path)
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("path", m.path).
			Msg("Palette reload failed, keeping previous palette")
		return m.State()
	}

	m.apply(p)
	count := m.reloads.Add(1)
	m.logger.Info().
		Str("path", m.path).
		Uint64("reloads", count).
		Msg("Palette reloaded")

	m.hooks.RunAll(ctx)
	m.notifier.Notify("Palette updated", m.path)
	return StateApplied
}

// apply swaps in a fully built palette and its styles
func (m *Manager) apply(p palette.Palette) {
	styles := NewStyles(p)

	m.mu.Lock()
	m.current = p
	m.styles = styles
	m.state = StateApplied
	m.mu.Unlock()
}
