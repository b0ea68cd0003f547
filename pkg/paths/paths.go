// Package paths provides centralized path handling for dotlink.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotlink/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesHome is the primary environment variable for the dotfiles location
	EnvDotfilesHome = "DOTFILES_HOME"

	// EnvStateDir overrides the XDG state directory for dotlink
	EnvStateDir = "DOTLINK_STATE_DIR"

	// EnvCacheDir overrides the XDG cache directory for dotlink
	EnvCacheDir = "DOTLINK_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DotlinkDirName is the directory name for dotlink-specific files
	DotlinkDirName = "dotlink"

	// ConfigFileName is the name of the repo configuration file
	ConfigFileName = "dotlink.toml"

	// IgnoreFileName is the name of the ignore pattern file at the source root
	IgnoreFileName = "linkignore"

	// BackupsDirName is the subdirectory for backed up files
	BackupsDirName = "backups"

	// LogFileName is the name of the log file
	LogFileName = "dotlink.log"

	// ConfigPrefix is the source subdirectory mapped into XDG_CONFIG_HOME
	ConfigPrefix = "config/"

	// PaletteDirName is the cache subdirectory the palette generator writes to
	PaletteDirName = "wallust"

	// PaletteFileName is the default palette document name
	PaletteFileName = "colors.toml"
)

// Paths provides centralized path management for dotlink
type Paths interface {
	SourceRoot() string
	UsedFallback() bool
	Home() string
	ConfigHome() string
	StateDir() string
	CacheDir() string
	BackupsDir() string
	LogFilePath() string
	ConfigFilePath() string
	IgnoreFilePath() string
	DefaultPalettePath() string
	MapRepoFileToSystem(relPath string) (string, bool)
	MapSystemFileToRepo(systemPath string) (string, error)
	NormalizePath(path string) (string, error)
	IsInSourceTree(path string) (bool, error)
}

// paths provides centralized path management for dotlink
type paths struct {
	// sourceRoot is the root directory of the dotfiles source tree
	sourceRoot string

	// home is the user's home directory
	home string

	// configHome is XDG_CONFIG_HOME, the destination for config/ files
	configHome string

	// stateDir is dotlink's state directory
	stateDir string

	// cacheDir is dotlink's cache directory
	cacheDir string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given source root.
// If sourceRoot is empty, it will be determined from environment variables
// or defaults.
func New(sourceRoot string) (Paths, error) {
	return NewWithRoots(sourceRoot, "", "")
}

// NewWithRoots creates a Paths instance with explicit destination roots.
// Empty home falls back to the user's home directory, empty configHome to
// $XDG_CONFIG_HOME under that home. The link command's --target flag uses
// this to deploy into an arbitrary directory.
func NewWithRoots(sourceRoot, home, configHome string) (Paths, error) {
	p := &paths{}

	// Set up the source root
	if sourceRoot == "" {
		root, usedFallback, err := findSourceRoot()
		if err != nil {
			return nil, err
		}
		p.sourceRoot = root
		p.usedFallback = usedFallback
	} else {
		p.sourceRoot = expandHome(sourceRoot)
		p.usedFallback = false
	}

	// Ensure the source root is absolute
	absRoot, err := filepath.Abs(p.sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for source root")
	}
	p.sourceRoot = absRoot

	if home == "" {
		resolved, err := GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		p.home = resolved
	} else {
		abs, err := filepath.Abs(expandHome(home))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for target home")
		}
		p.home = abs
	}

	p.setupXDGDirs(home != "", configHome)

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs(homeOverridden bool, configHomeOverride string) {
	// Config home is the destination for config/ files, so it follows the
	// raw environment rather than dotlink-specific overrides
	switch {
	case configHomeOverride != "":
		p.configHome = expandHome(configHomeOverride)
	case homeOverridden:
		// An explicit target home gets its own .config rather than the
		// invoking user's XDG_CONFIG_HOME
		p.configHome = filepath.Join(p.home, ".config")
	case os.Getenv("XDG_CONFIG_HOME") != "":
		p.configHome = expandHome(os.Getenv("XDG_CONFIG_HOME"))
	default:
		p.configHome = filepath.Join(p.home, ".config")
	}

	// State directory
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.stateDir = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.stateDir = filepath.Join(stateHome, DotlinkDirName)
	} else {
		p.stateDir = filepath.Join(p.home, ".local", "state", DotlinkDirName)
	}

	// Cache directory
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.cacheDir = expandHome(cacheDir)
	} else {
		p.cacheDir = filepath.Join(xdg.CacheHome, DotlinkDirName)
	}
}

// findSourceRoot determines the source root using the following priority:
// 1. DOTFILES_HOME environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The function returns:
// - string: The resolved source root path
// - bool: Whether the current working directory was used as fallback
// - error: Any error that occurred during resolution
//
// This allows dotlink to work in three common scenarios:
// - Explicit configuration via DOTFILES_HOME
// - Automatic detection when run from within a git-managed dotfiles repo
// - Fallback to current directory for quick testing or non-git setups
func findSourceRoot() (string, bool, error) {
	// Check DOTFILES_HOME first (highest priority)
	if root := os.Getenv(EnvDotfilesHome); root != "" {
		return expandHome(root), false, nil
	}

	// Try to find git repository root
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	// Fallback to current working directory with warning
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		// Git command failed - not in a git repo or git not installed
		if os.Getenv("DOTLINK_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "Debug: git command failed: %v\n", err)
		}
		return "", err
	}

	// Trim whitespace and return the path
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// SourceRoot returns the root directory of the dotfiles source tree
func (p *paths) SourceRoot() string {
	return p.sourceRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// Home returns the user's home directory
func (p *paths) Home() string {
	return p.home
}

// ConfigHome returns XDG_CONFIG_HOME, where config/ files are linked to
func (p *paths) ConfigHome() string {
	return p.configHome
}

// StateDir returns dotlink's state directory
func (p *paths) StateDir() string {
	return p.stateDir
}

// CacheDir returns dotlink's cache directory
func (p *paths) CacheDir() string {
	return p.cacheDir
}

// BackupsDir returns the directory replaced files are backed up into
func (p *paths) BackupsDir() string {
	return filepath.Join(p.stateDir, BackupsDirName)
}

// LogFilePath returns the path to the dotlink log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// ConfigFilePath returns the path of the repo configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.sourceRoot, ConfigFileName)
}

// IgnoreFilePath returns the path of the linkignore file
func (p *paths) IgnoreFilePath() string {
	return filepath.Join(p.sourceRoot, IgnoreFileName)
}

// DefaultPalettePath returns the palette document the generator writes,
// used when no explicit palette path is configured
func (p *paths) DefaultPalettePath() string {
	return filepath.Join(xdg.CacheHome, PaletteDirName, PaletteFileName)
}

// isTopLevel checks if a file is at the source root (no directory separators)
func isTopLevel(relPath string) bool {
	return !strings.Contains(relPath, "/")
}

// stripDotPrefix removes a leading dot from a filename if present
func stripDotPrefix(filename string) string {
	if strings.HasPrefix(filename, ".") && len(filename) > 1 {
		return filename[1:]
	}
	return filename
}

// MapRepoFileToSystem maps a file in the source tree to its link destination.
// Two layouts are recognized:
//   - config/<rest> deploys to $XDG_CONFIG_HOME/<rest>
//   - top-level files deploy to $HOME with a dot prefix
//
// Any other nested path has no destination and returns false.
func (p *paths) MapRepoFileToSystem(relPath string) (string, bool) {
	if relPath == "" {
		return "", false
	}

	if strings.HasPrefix(relPath, ConfigPrefix) {
		rest := strings.TrimPrefix(relPath, ConfigPrefix)
		if rest == "" {
			return "", false
		}
		return filepath.Join(p.configHome, rest), true
	}

	if isTopLevel(relPath) {
		filename := relPath
		// Add dot prefix if not already present
		if !strings.HasPrefix(filename, ".") {
			filename = "." + filename
		}
		return filepath.Join(p.home, filename), true
	}

	return "", false
}

// MapSystemFileToRepo determines where a deployed file belongs in the
// source tree. It is the reverse of MapRepoFileToSystem and is used when
// adopting files that currently live outside the repo.
func (p *paths) MapSystemFileToRepo(systemPath string) (string, error) {
	normalized, err := p.NormalizePath(systemPath)
	if err != nil {
		return "", err
	}

	// Files under XDG_CONFIG_HOME map into config/
	if rel, err := filepath.Rel(p.configHome, normalized); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
		return ConfigPrefix + filepath.ToSlash(rel), nil
	}

	// Dotfiles directly in $HOME map to the source root without the dot
	if filepath.Dir(normalized) == p.home {
		base := filepath.Base(normalized)
		if strings.HasPrefix(base, ".") && len(base) > 1 {
			return stripDotPrefix(base), nil
		}
		return "", errors.Newf(errors.ErrInvalidInput,
			"%s is not a dotfile, only dot-prefixed files in $HOME can be adopted", systemPath)
	}

	return "", errors.Newf(errors.ErrInvalidInput,
		"%s is outside $HOME and $XDG_CONFIG_HOME, cannot determine a repo location", systemPath)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	// Expand home directory
	expanded := expandHome(path)

	// Make absolute
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	// Clean the path
	return filepath.Clean(abs), nil
}

// IsInSourceTree checks if a path is within the source root
func (p *paths) IsInSourceTree(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(p.sourceRoot, normalized)
	if err != nil {
		return false, nil
	}

	// If the relative path starts with .., it's outside the source tree
	return !strings.HasPrefix(rel, ".."), nil
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}
