package theme

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/logging"
)

// hookTimeout bounds each hook command
const hookTimeout = 30 * time.Second

// Hook is one external command run after a palette reload, typically a
// daemon reload such as "makoctl reload".
type Hook struct {
	Command string
	Args    []string
}

// HookRunner executes reload hooks. Hook failures are logged and never
// fail the reload that triggered them.
type HookRunner struct {
	hooks       []Hook
	palettePath string
	dryRun      bool
	logger      zerolog.Logger
}

// NewHookRunner creates a runner for the given hooks. The palette path
// is exported to each hook as DOTLINK_PALETTE.
func NewHookRunner(hooks []Hook, palettePath string, dryRun bool) *HookRunner {
	return &HookRunner{
		hooks:       hooks,
		palettePath: palettePath,
		dryRun:      dryRun,
		logger:      logging.GetLogger("theme.hooks"),
	}
}

// RunAll runs every configured hook in order.
func (r *HookRunner) RunAll(ctx context.Context) {
	for _, h := range r.hooks {
		r.run(ctx, h)
	}
}

func (r *HookRunner) run(ctx context.Context, h Hook) {
	if h.Command == "" {
		r.logger.Debug().Msg("Skipping hook with empty command")
		return
	}

	if r.dryRun {
		r.logger.Info().
			Str("command", h.Command).
			Strs("args", h.Args).
			Msg("Dry run mode - hook would be executed")
		return
	}

	hctx, cancel := context.WithTimeout(ctx, hookTimeout)
	defer cancel()

	cmd := exec.CommandContext(hctx, h.Command, h.Args...)
	cmd.Env = append(os.Environ(), "DOTLINK_PALETTE="+r.palettePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Warn().
			Err(err).
			Str("command", h.Command).
			Strs("args", h.Args).
			Str("stdout", stdout.String()).
			Str("stderr", stderr.String()).
			Msg("Hook failed")
		return
	}

	r.logger.Debug().
		Str("command", h.Command).
		Msg("Hook completed")
}
