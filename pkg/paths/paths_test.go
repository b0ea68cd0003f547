package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		sourceRoot string
		envSetup   map[string]string
		validate   func(t *testing.T, p Paths)
		wantErr    bool
	}{
		{
			name:       "explicit source root",
			sourceRoot: "/tmp/dotfiles",
			validate: func(t *testing.T, p Paths) {
				testutil.AssertEqual(t, "/tmp/dotfiles", p.SourceRoot())
				testutil.AssertFalse(t, p.UsedFallback())
			},
		},
		{
			name: "from DOTFILES_HOME env",
			envSetup: map[string]string{
				EnvDotfilesHome: "/env/dotfiles",
			},
			validate: func(t *testing.T, p Paths) {
				testutil.AssertEqual(t, "/env/dotfiles", p.SourceRoot())
				testutil.AssertFalse(t, p.UsedFallback())
			},
		},
		{
			name: "git repository or fallback",
			validate: func(t *testing.T, p Paths) {
				// This test will either find the git root if we're in a git repo,
				// or fall back to the current directory
				testutil.AssertNotEmpty(t, p.SourceRoot())
				testutil.AssertTrue(t, filepath.IsAbs(p.SourceRoot()), "Path should be absolute")
			},
		},
		{
			name:       "expand tilde in explicit path",
			sourceRoot: "~/my-dotfiles",
			validate: func(t *testing.T, p Paths) {
				homeDir, _ := os.UserHomeDir()
				expected := filepath.Join(homeDir, "my-dotfiles")
				testutil.AssertEqual(t, expected, p.SourceRoot())
			},
		},
		{
			name:       "custom state and cache directories",
			sourceRoot: "/tmp/dotfiles",
			envSetup: map[string]string{
				EnvStateDir: "/custom/state",
				EnvCacheDir: "/custom/cache",
			},
			validate: func(t *testing.T, p Paths) {
				testutil.AssertEqual(t, "/custom/state", p.StateDir())
				testutil.AssertEqual(t, "/custom/cache", p.CacheDir())
				testutil.AssertEqual(t, "/custom/state/backups", p.BackupsDir())
				testutil.AssertEqual(t, "/custom/state/dotlink.log", p.LogFilePath())
			},
		},
		{
			name:       "state dir from XDG_STATE_HOME",
			sourceRoot: "/tmp/dotfiles",
			envSetup: map[string]string{
				"XDG_STATE_HOME": "/xdg/state",
			},
			validate: func(t *testing.T, p Paths) {
				testutil.AssertEqual(t, "/xdg/state/dotlink", p.StateDir())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant environment variables first
			t.Setenv(EnvDotfilesHome, "")
			t.Setenv(EnvStateDir, "")
			t.Setenv(EnvCacheDir, "")
			t.Setenv("XDG_STATE_HOME", "")

			// Set up environment
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New(tt.sourceRoot)

			if tt.wantErr {
				testutil.AssertError(t, err)
				return
			}

			testutil.AssertNoError(t, err)
			testutil.AssertNotNil(t, p)

			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestNewWithRoots(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/invoking/user/config")

	p, err := NewWithRoots("/test/dotfiles", "/deploy/home", "")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "/deploy/home", p.Home())
	testutil.AssertEqual(t, "/deploy/home/.config", p.ConfigHome(),
		"explicit target home should not inherit the user's XDG_CONFIG_HOME")

	p2, err := NewWithRoots("/test/dotfiles", "/deploy/home", "/deploy/xdg")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "/deploy/xdg", p2.ConfigHome())
}

func TestRepoFilePaths(t *testing.T) {
	t.Setenv(EnvStateDir, "")
	t.Setenv(EnvCacheDir, "")

	p, err := New("/test/dotfiles")
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, "/test/dotfiles/dotlink.toml", p.ConfigFilePath())
	testutil.AssertEqual(t, "/test/dotfiles/linkignore", p.IgnoreFilePath())
}

func TestDefaultPalettePath(t *testing.T) {
	p, err := New("/test/dotfiles")
	testutil.AssertNoError(t, err)

	got := p.DefaultPalettePath()
	testutil.AssertTrue(t, filepath.IsAbs(got), "palette path should be absolute")
	testutil.AssertContains(t, got, filepath.Join("wallust", "colors.toml"))
}

func TestNormalizePath(t *testing.T) {
	p, err := New("/test/dotfiles")
	testutil.AssertNoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "absolute path unchanged",
			input:    "/etc/hosts",
			expected: "/etc/hosts",
		},
		{
			name:     "cleans redundant segments",
			input:    "/etc//hosts/../hosts",
			expected: "/etc/hosts",
		},
		{
			name:    "empty path is an error",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.NormalizePath(tt.input)
			if tt.wantErr {
				testutil.AssertError(t, err)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.expected, got)
		})
	}
}

func TestIsInSourceTree(t *testing.T) {
	p, err := New("/test/dotfiles")
	testutil.AssertNoError(t, err)

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"file inside", "/test/dotfiles/bashrc", true},
		{"nested file inside", "/test/dotfiles/config/nvim/init.vim", true},
		{"root itself", "/test/dotfiles", true},
		{"sibling outside", "/test/other/bashrc", false},
		{"parent outside", "/test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.IsInSourceTree(tt.path)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.expected, got)
		})
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare tilde", "~", homeDir},
		{"tilde with path", "~/dotfiles", filepath.Join(homeDir, "dotfiles")},
		{"no tilde", "/absolute/path", "/absolute/path"},
		{"tilde mid-path untouched", "/some/~/path", "/some/~/path"},
		{"other user untouched", "~other/dir", "~other/dir"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.expected, ExpandHome(tt.input))
		})
	}
}
