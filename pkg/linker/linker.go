// Package linker plans and applies symlink changes for link mappings.
//
// A pass inspects every destination, decides an action per its state,
// and optionally executes the decisions. Occupied destinations are never
// replaced without force, directories never at all, and one failing
// mapping does not stop the rest of the run.
package linker

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// backupStampLayout names the per-run backup directory
const backupStampLayout = "20060102-150405"

// Options configures a Linker.
type Options struct {
	// FileSystem allows injecting a filesystem for testing; nil uses the OS
	FileSystem types.FS

	// Paths supplies the backup location
	Paths paths.Paths

	// Force replaces occupied destinations instead of reporting conflicts
	Force bool

	// DryRun computes decisions without mutating anything
	DryRun bool

	// Backup saves replaced files under the state dir before removal
	Backup bool
}

// Linker plans and applies symlink changes for a set of mappings.
type Linker struct {
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
	force  bool
	dryRun bool
	backup bool
}

// New creates a Linker.
func New(opts Options) *Linker {
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Linker{
		fs:     fs,
		paths:  opts.Paths,
		logger: logging.GetLogger("linker"),
		force:  opts.Force,
		dryRun: opts.DryRun,
		backup: opts.Backup,
	}
}

// Plan inspects every mapping and reports the action a link run would
// take, without touching the filesystem.
func (l *Linker) Plan(mappings []types.Mapping) *Report {
	report := &Report{DryRun: true, Results: make([]Result, 0, len(mappings))}

	for _, m := range mappings {
		report.Results = append(report.Results, l.decide(m))
	}

	return report
}

// Apply links every mapping according to its destination state. With
// DryRun set the decisions are computed identically but nothing mutates.
func (l *Linker) Apply(mappings []types.Mapping) *Report {
	report := &Report{DryRun: l.dryRun, Results: make([]Result, 0, len(mappings))}

	// One timestamped backup directory per run
	stamp := time.Now().Format(backupStampLayout)

	for _, m := range mappings {
		res := l.decide(m)
		if !l.dryRun {
			l.execute(&res, stamp)
		}
		l.logResult(res)
		report.Results = append(report.Results, res)
	}

	l.logger.Info().
		Int("mappings", len(mappings)).
		Int("changed", report.Changed()).
		Int("conflicts", len(report.Conflicts())).
		Bool("dryRun", l.dryRun).
		Msg("Link pass complete")

	return report
}

// Unlink removes destinations currently linked into the source tree.
// Regular files and links pointing elsewhere are never touched.
func (l *Linker) Unlink(mappings []types.Mapping) *Report {
	report := &Report{DryRun: l.dryRun, Results: make([]Result, 0, len(mappings))}

	for _, m := range mappings {
		ins := inspect(l.fs, m)
		res := Result{Mapping: m, State: ins.state, IsDir: ins.isDir}

		switch ins.state {
		case types.StateLinked:
			res.Decision = DecisionUnlink
			if !l.dryRun {
				if err := l.fs.Remove(m.Dest); err != nil {
					res.Decision = DecisionError
					res.Err = errors.Wrapf(err, errors.ErrSymlinkRemove,
						"failed to remove link %s", m.Dest)
					break
				}
				res.Applied = true
			}
		case types.StateUnknown:
			res.Decision = DecisionError
			res.Err = errors.Wrapf(ins.err, errors.ErrFileAccess,
				"cannot inspect %s", m.Dest)
		default:
			res.Decision = DecisionKeep
		}

		l.logResult(res)
		report.Results = append(report.Results, res)
	}

	l.logger.Info().
		Int("mappings", len(mappings)).
		Int("removed", report.Changed()).
		Bool("dryRun", l.dryRun).
		Msg("Unlink pass complete")

	return report
}

// decide maps a destination state onto the action a link run takes
func (l *Linker) decide(m types.Mapping) Result {
	if _, err := l.fs.Lstat(m.Source); err != nil {
		return Result{
			Mapping:  m,
			State:    types.StateUnknown,
			Decision: DecisionError,
			Err: errors.Wrapf(err, errors.ErrFileNotFound,
				"source %s is missing", m.Source),
		}
	}

	ins := inspect(l.fs, m)
	res := Result{Mapping: m, State: ins.state, IsDir: ins.isDir}

	switch ins.state {
	case types.StateAbsent:
		res.Decision = DecisionLink
	case types.StateLinked:
		res.Decision = DecisionNoop
	case types.StateWrongLink, types.StateRegularFile:
		switch {
		case ins.isDir:
			// Replacing a directory would discard a whole tree, so force
			// does not apply here
			res.Decision = DecisionConflict
			res.Err = errors.Newf(errors.ErrConflict,
				"%s is a directory, refusing to replace it", m.Dest)
		case l.force:
			res.Decision = DecisionReplace
		default:
			res.Decision = DecisionConflict
			res.Err = errors.Newf(errors.ErrConflict,
				"%s already exists, use --force to replace it", m.Dest)
		}
	default:
		res.Decision = DecisionError
		res.Err = errors.Wrapf(ins.err, errors.ErrFileAccess,
			"cannot inspect %s", m.Dest)
	}

	return res
}

// execute carries out a single decision in place
func (l *Linker) execute(res *Result, stamp string) {
	switch res.Decision {
	case DecisionLink:
		if err := l.createLink(res.Mapping); err != nil {
			res.Decision = DecisionError
			res.Err = err
			return
		}
		res.Applied = true
	case DecisionReplace:
		if err := l.replace(res, stamp); err != nil {
			res.Decision = DecisionError
			res.Err = err
			return
		}
		res.Applied = true
	}
}

// createLink makes the destination's parent directories and the symlink
func (l *Linker) createLink(m types.Mapping) error {
	parent := filepath.Dir(m.Dest)
	if err := l.fs.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create %s", parent)
	}

	if err := l.fs.Symlink(m.Source, m.Dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to link %s", m.Dest)
	}

	return nil
}

// replace moves the occupant out of the way and links over it
func (l *Linker) replace(res *Result, stamp string) error {
	m := res.Mapping

	// Only regular files carry data worth saving; a wrong link is
	// just dropped
	if l.backup && res.State == types.StateRegularFile {
		backupPath, err := l.backupFile(m, stamp)
		if err != nil {
			return err
		}
		res.BackupPath = backupPath
	}

	if err := l.fs.Remove(m.Dest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess,
			"failed to remove %s", m.Dest)
	}

	return l.createLink(m)
}

// backupFile moves the occupant into this run's backup directory.
// Rename is atomic on POSIX when the state dir shares a filesystem
// with the destination; a cross-device setup would need copy+delete.
func (l *Linker) backupFile(m types.Mapping, stamp string) (string, error) {
	backupPath := filepath.Join(l.paths.BackupsDir(), stamp, filepath.FromSlash(m.RepoPath))

	if err := l.fs.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup,
			"failed to create backup directory for %s", m.Dest)
	}

	if err := l.fs.Rename(m.Dest, backupPath); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup,
			"failed to back up %s", m.Dest)
	}

	l.logger.Info().
		Str("dest", m.Dest).
		Str("backup", backupPath).
		Msg("Backed up replaced file")

	return backupPath, nil
}

// logResult logs one mapping's outcome
func (l *Linker) logResult(res Result) {
	event := l.logger.Debug()
	if res.Err != nil {
		event = l.logger.Warn().Err(res.Err)
	}

	event.
		Str("dest", res.Mapping.Dest).
		Str("state", res.State.String()).
		Str("decision", string(res.Decision)).
		Bool("applied", res.Applied).
		Msg("Processed mapping")
}
