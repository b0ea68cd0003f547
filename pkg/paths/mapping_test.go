package paths

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/testutil"
)

func newTestPaths(t *testing.T) (Paths, string, string) {
	t.Helper()

	home := t.TempDir()
	configHome := filepath.Join(home, ".config")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv(EnvStateDir, "")
	t.Setenv(EnvCacheDir, "")

	p, err := New("/test/dotfiles")
	testutil.AssertNoError(t, err)
	return p, home, configHome
}

func TestMapRepoFileToSystem(t *testing.T) {
	p, home, configHome := newTestPaths(t)

	tests := []struct {
		name     string
		relPath  string
		expected string
		ok       bool
	}{
		{
			name:     "top-level file gets dot prefix",
			relPath:  "bashrc",
			expected: filepath.Join(home, ".bashrc"),
			ok:       true,
		},
		{
			name:     "already dotted top-level file",
			relPath:  ".profile",
			expected: filepath.Join(home, ".profile"),
			ok:       true,
		},
		{
			name:     "config file maps into XDG_CONFIG_HOME",
			relPath:  "config/nvim/init.vim",
			expected: filepath.Join(configHome, "nvim", "init.vim"),
			ok:       true,
		},
		{
			name:     "deeply nested config file",
			relPath:  "config/waybar/scripts/battery.sh",
			expected: filepath.Join(configHome, "waybar", "scripts", "battery.sh"),
			ok:       true,
		},
		{
			name:    "other nested path has no destination",
			relPath: "scripts/install.sh",
			ok:      false,
		},
		{
			name:    "empty path has no destination",
			relPath: "",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.MapRepoFileToSystem(tt.relPath)
			testutil.AssertEqual(t, tt.ok, ok)
			if tt.ok {
				testutil.AssertEqual(t, tt.expected, got)
			}
		})
	}
}

func TestMapSystemFileToRepo(t *testing.T) {
	p, home, configHome := newTestPaths(t)

	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{
			name:     "dotfile in home maps to top level",
			path:     filepath.Join(home, ".vimrc"),
			expected: "vimrc",
		},
		{
			name:     "config file maps into config prefix",
			path:     filepath.Join(configHome, "nvim", "init.vim"),
			expected: "config/nvim/init.vim",
		},
		{
			name:    "non-dotfile in home is rejected",
			path:    filepath.Join(home, "notes.txt"),
			wantErr: true,
		},
		{
			name:    "file outside home is rejected",
			path:    "/etc/hosts",
			wantErr: true,
		},
		{
			name:    "file in home subdirectory is rejected",
			path:    filepath.Join(home, "Documents", "file.txt"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.MapSystemFileToRepo(tt.path)
			if tt.wantErr {
				testutil.AssertError(t, err)
				testutil.AssertTrue(t, errors.IsErrorCode(err, errors.ErrInvalidInput),
					"expected INVALID_INPUT, got %v", err)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.expected, got)
		})
	}
}

func TestMappingRoundTrip(t *testing.T) {
	p, _, _ := newTestPaths(t)

	// A repo path mapped to the system and back should be unchanged
	for _, relPath := range []string{"bashrc", "config/nvim/init.vim", "config/mako/config"} {
		dest, ok := p.MapRepoFileToSystem(relPath)
		testutil.AssertTrue(t, ok, "expected %s to map", relPath)

		back, err := p.MapSystemFileToRepo(dest)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, relPath, back)
	}
}
