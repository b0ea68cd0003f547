// Package genconfig implements the genconfig command: it produces the
// default configuration file, either as text or written to the source
// root.
package genconfig

import (
	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the options for the Genconfig command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Write stores the config at the source root instead of returning it
	Write bool

	// Force overwrites an existing config file
	Force bool

	// FileSystem allows injecting a filesystem for testing
	FileSystem types.FS
}

// Result carries the generated config and where it ended up.
type Result struct {
	// Content is the default configuration text
	Content string

	// Path is where the config was written, empty without Write
	Path string

	// Written reports whether a file was created
	Written bool
}

// Execute produces the default configuration. With Write it lands at
// the source root as dotlink.toml, refusing to clobber an existing
// file unless Force is set.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.genconfig")

	content := config.DefaultConfigContent()
	if !opts.Write {
		return &Result{Content: content}, nil
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	env, err := internal.ResolveEnv(opts.SourceRoot, "")
	if err != nil {
		return nil, err
	}

	path := env.Paths.ConfigFilePath()
	if _, err := fs.Stat(path); err == nil && !opts.Force {
		return nil, errors.Newf(errors.ErrConflict,
			"%s already exists, use --force to overwrite it", path)
	}

	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to write %s", path)
	}

	logger.Info().Str("path", path).Msg("Config file written")

	return &Result{Content: content, Path: path, Written: true}, nil
}
