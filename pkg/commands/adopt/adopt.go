// Package adopt implements the adopt command, moving files that live on
// the system into the source tree and linking them back in place.
package adopt

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/commands/internal"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the options for the Adopt command.
type Options struct {
	// SourceRoot overrides source root discovery
	SourceRoot string

	// Target adopts from an alternate home directory
	Target string

	// Paths are the system files to move into the source tree
	Paths []string

	// Force replaces an existing repo file with the adopted one
	Force bool

	// DryRun reports what would be moved without moving anything
	DryRun bool

	// FileSystem allows injecting a filesystem for testing
	FileSystem types.FS
}

// AdoptedFile records one file moved into the source tree.
type AdoptedFile struct {
	// SystemPath is where the file lived, now a symlink
	SystemPath string

	// RepoPath is the source-relative location the file moved to
	RepoPath string

	// Source is the absolute location inside the source tree
	Source string
}

// Result carries the files adopted before any failure.
type Result struct {
	Adopted []AdoptedFile
}

// Execute moves each path into the source tree and links it back in
// place. Files already linked into the tree are skipped. The first
// failure stops the run; adoptions made before it stay in place and
// are returned alongside the error.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.adopt")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	env, err := internal.ResolveEnv(opts.SourceRoot, opts.Target)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, path := range opts.Paths {
		adopted, err := adoptOne(fs, env, path, opts.Force, opts.DryRun, logger)
		if err != nil {
			return result, err
		}
		if adopted != nil {
			result.Adopted = append(result.Adopted, *adopted)
		}
	}

	logger.Info().
		Int("requested", len(opts.Paths)).
		Int("adopted", len(result.Adopted)).
		Bool("dryRun", opts.DryRun).
		Msg("Adopt finished")

	return result, nil
}

// adoptOne moves a single file into the tree. A nil AdoptedFile with a
// nil error means the file is already adopted.
func adoptOne(fs types.FS, env *internal.Env, path string, force, dryRun bool, logger zerolog.Logger) (*AdoptedFile, error) {
	systemPath, err := env.Paths.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	info, err := fs.Lstat(systemPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound,
			"%s does not exist", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := fs.Readlink(systemPath)
		if err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(systemPath), target)
			}
			if inTree, _ := env.Paths.IsInSourceTree(target); inTree {
				logger.Debug().Str("path", systemPath).Msg("Already adopted, skipping")
				return nil, nil
			}
		}
		return nil, errors.Newf(errors.ErrInvalidInput,
			"%s is a symlink pointing outside the source tree, adopt its target instead", path)
	}

	if info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"%s is a directory, only files can be adopted", path)
	}

	repoPath, err := env.Paths.MapSystemFileToRepo(systemPath)
	if err != nil {
		return nil, err
	}
	source := filepath.Join(env.Paths.SourceRoot(), filepath.FromSlash(repoPath))

	if _, err := fs.Lstat(source); err == nil && !force {
		return nil, errors.Newf(errors.ErrConflict,
			"%s already exists in the source tree, use --force to replace it", repoPath)
	}

	adopted := &AdoptedFile{SystemPath: systemPath, RepoPath: repoPath, Source: source}

	if dryRun {
		logger.Info().
			Str("from", systemPath).
			Str("to", source).
			Msg("Dry run mode - file would be adopted")
		return adopted, nil
	}

	if err := fs.MkdirAll(filepath.Dir(source), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create %s", filepath.Dir(source))
	}

	// Rename is atomic on POSIX and overwrites the repo file when force
	// allowed us this far
	if err := fs.Rename(systemPath, source); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileMove,
			"failed to move %s into the source tree", systemPath)
	}

	if err := fs.Symlink(source, systemPath); err != nil {
		// Put the file back so a failed adopt leaves the system untouched
		if rbErr := fs.Rename(source, systemPath); rbErr != nil {
			return nil, errors.Wrapf(err, errors.ErrSymlinkCreate,
				"failed to link %s back and rollback failed, file is at %s", systemPath, source)
		}
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to link %s back", systemPath)
	}

	logger.Info().
		Str("from", systemPath).
		Str("to", source).
		Msg("Adopted file")

	return adopted, nil
}
