package mapping

import (
	"os"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
)

// DefaultIgnores are always excluded from linking: dotlink's own files
// at the source root never deploy anywhere.
var DefaultIgnores = []string{"linkignore", "dotlink.toml"}

// LoadIgnoreFile reads ignore patterns from a linkignore file.
// One pattern per line; blank lines and #-comments are skipped.
// A missing file yields no patterns.
func LoadIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read ignore file %s", path)
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// Ignored reports whether a repo path matches any ignore pattern.
// Patterns match as plain substrings of the slash-separated path, so
// "secrets" excludes both secrets/gpg.conf and config/secrets.yml.
func Ignored(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(relPath, pattern) {
			return true
		}
	}
	return false
}
