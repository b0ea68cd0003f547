package mapping

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
)

// Enumerate lists the files of the source tree as slash-separated paths
// relative to root. When root is a git work tree, tracked files define the
// tree's contents (git ls-files); otherwise the tree is walked directly.
func Enumerate(root string) ([]string, error) {
	logger := logging.GetLogger("mapping.scanner")

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrSourceNotFound, "source root does not exist").
				WithDetail("path", root)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access source root").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "source root is not a directory").
			WithDetail("path", root)
	}

	files, err := gitFiles(root)
	if err == nil {
		logger.Debug().Int("count", len(files)).Str("root", root).Msg("Enumerated tracked files")
		return files, nil
	}

	logger.Debug().Err(err).Str("root", root).Msg("Not a git work tree, walking the source root")
	return walkFiles(root)
}

// gitFiles returns the tracked files of a git work tree
func gitFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files")
	cmd.Dir = root

	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// walkFiles lists every non-directory entry under root, skipping .git
func walkFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceScan, "failed to walk source root").
			WithDetail("path", root)
	}

	// Sort for consistent ordering
	sort.Strings(files)
	return files, nil
}
