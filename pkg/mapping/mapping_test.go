package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPaths builds a Paths with hermetic destination roots so mapping
// results do not depend on the invoking user's environment.
func newTestPaths(t *testing.T, sourceRoot string) (paths.Paths, string, string) {
	t.Helper()

	home := filepath.Join(t.TempDir(), "home")
	configHome := filepath.Join(home, ".config")

	p, err := paths.NewWithRoots(sourceRoot, home, configHome)
	require.NoError(t, err)

	return p, p.Home(), p.ConfigHome()
}

func TestEnumerate(t *testing.T) {
	sourceRoot := testutil.SetupSourceTree(t, map[string]string{
		"bashrc":                  "export EDITOR=vim\n",
		"config/nvim/init.vim":    "set number\n",
		"config/kitty/kitty.conf": "font_size 12\n",
		"notes/readme.md":         "not linked\n",
		".git/HEAD":               "ref: refs/heads/main\n",
	})

	files, err := Enumerate(sourceRoot)
	require.NoError(t, err)

	// Sorted, slash-separated, .git contents excluded
	assert.Equal(t, []string{
		"bashrc",
		"config/kitty/kitty.conf",
		"config/nvim/init.vim",
		"notes/readme.md",
	}, files)
}

func TestEnumerateMissingRoot(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotFound))
}

func TestEnumerateRootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	testutil.CreateFile(t, dir, "not-a-dir", "contents")

	_, err := Enumerate(file)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLoadIgnoreFile(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		create   bool
		expected []string
	}{
		{
			name:     "missing file yields no patterns",
			create:   false,
			expected: nil,
		},
		{
			name:     "empty file yields no patterns",
			content:  "",
			create:   true,
			expected: nil,
		},
		{
			name:    "comments and blanks are skipped",
			content: "# editors\nnvim\n\n  \n# shells\nzsh\n",
			create:  true,
			expected: []string{
				"nvim",
				"zsh",
			},
		},
		{
			name:    "patterns are trimmed",
			content: "  README.md  \n\ttags\n",
			create:  true,
			expected: []string{
				"README.md",
				"tags",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, paths.IgnoreFileName)
			if tt.create {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}

			patterns, err := LoadIgnoreFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, patterns)
		})
	}
}

func TestIgnored(t *testing.T) {
	tests := []struct {
		name     string
		relPath  string
		patterns []string
		want     bool
	}{
		{
			name:     "exact file name",
			relPath:  "README.md",
			patterns: []string{"README.md"},
			want:     true,
		},
		{
			name:     "substring anywhere in path",
			relPath:  "config/nvim/init.vim",
			patterns: []string{"nvim"},
			want:     true,
		},
		{
			name:     "no match",
			relPath:  "bashrc",
			patterns: []string{"zshrc", "nvim"},
			want:     false,
		},
		{
			name:     "empty patterns match nothing",
			relPath:  "anything",
			patterns: nil,
			want:     false,
		},
		{
			name:     "empty pattern is skipped",
			relPath:  "bashrc",
			patterns: []string{""},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ignored(tt.relPath, tt.patterns))
		})
	}
}

func TestCompute(t *testing.T) {
	sourceRoot := t.TempDir()
	p, home, configHome := newTestPaths(t, sourceRoot)

	tests := []struct {
		name         string
		files        []string
		opts         Options
		wantMappings []types.Mapping
		wantSkips    []Skip
	}{
		{
			name:  "top level file gains dot prefix",
			files: []string{"bashrc"},
			opts:  Options{Paths: p},
			wantMappings: []types.Mapping{
				{
					RepoPath: "bashrc",
					Source:   filepath.Join(sourceRoot, "bashrc"),
					Dest:     filepath.Join(home, ".bashrc"),
				},
			},
		},
		{
			name:  "config file maps under config home",
			files: []string{"config/nvim/init.vim"},
			opts:  Options{Paths: p},
			wantMappings: []types.Mapping{
				{
					RepoPath: "config/nvim/init.vim",
					Source:   filepath.Join(sourceRoot, "config/nvim/init.vim"),
					Dest:     filepath.Join(configHome, "nvim/init.vim"),
				},
			},
		},
		{
			name:  "nested non-config file has no destination",
			files: []string{"notes/readme.md"},
			opts:  Options{Paths: p},
			wantSkips: []Skip{
				{RepoPath: "notes/readme.md", Reason: "no destination"},
			},
		},
		{
			name:  "ignored file is skipped",
			files: []string{"bashrc", "config/nvim/init.vim"},
			opts:  Options{Paths: p, Ignore: []string{"nvim"}},
			wantMappings: []types.Mapping{
				{
					RepoPath: "bashrc",
					Source:   filepath.Join(sourceRoot, "bashrc"),
					Dest:     filepath.Join(home, ".bashrc"),
				},
			},
			wantSkips: []Skip{
				{RepoPath: "config/nvim/init.vim", Reason: "ignored"},
			},
		},
		{
			name:  "active variant collapses to base name",
			files: []string{"gitconfig-work"},
			opts:  Options{Paths: p, Variant: "work", Variants: []string{"work", "home"}},
			wantMappings: []types.Mapping{
				{
					RepoPath: "gitconfig",
					Source:   filepath.Join(sourceRoot, "gitconfig-work"),
					Dest:     filepath.Join(home, ".gitconfig"),
					Variant:  "work",
				},
			},
		},
		{
			name:  "inactive variant is skipped",
			files: []string{"gitconfig-home"},
			opts:  Options{Paths: p, Variant: "work", Variants: []string{"work", "home"}},
			wantSkips: []Skip{
				{RepoPath: "gitconfig-home", Reason: "variant home not active"},
			},
		},
		{
			name:  "variant in directory name",
			files: []string{"config/waybar-laptop/style.css"},
			opts:  Options{Paths: p, Variant: "laptop", Variants: []string{"laptop", "desktop"}},
			wantMappings: []types.Mapping{
				{
					RepoPath: "config/waybar/style.css",
					Source:   filepath.Join(sourceRoot, "config/waybar-laptop/style.css"),
					Dest:     filepath.Join(configHome, "waybar/style.css"),
					Variant:  "laptop",
				},
			},
		},
		{
			name:  "variant file shadows plain file",
			files: []string{"gitconfig", "gitconfig-work"},
			opts:  Options{Paths: p, Variant: "work", Variants: []string{"work"}},
			wantMappings: []types.Mapping{
				{
					RepoPath: "gitconfig",
					Source:   filepath.Join(sourceRoot, "gitconfig-work"),
					Dest:     filepath.Join(home, ".gitconfig"),
					Variant:  "work",
				},
			},
			wantSkips: []Skip{
				{RepoPath: "gitconfig", Reason: "shadowed by gitconfig-work"},
			},
		},
		{
			name:  "plain file yields to earlier variant file",
			files: []string{"gitconfig-work", "gitconfig"},
			opts:  Options{Paths: p, Variant: "work", Variants: []string{"work"}},
			wantMappings: []types.Mapping{
				{
					RepoPath: "gitconfig",
					Source:   filepath.Join(sourceRoot, "gitconfig-work"),
					Dest:     filepath.Join(home, ".gitconfig"),
					Variant:  "work",
				},
			},
			wantSkips: []Skip{
				{RepoPath: "gitconfig", Reason: "shadowed by gitconfig-work"},
			},
		},
		{
			name:  "mappings are sorted by repo path",
			files: []string{"zshrc", "bashrc", "config/kitty/kitty.conf"},
			opts:  Options{Paths: p},
			wantMappings: []types.Mapping{
				{
					RepoPath: "bashrc",
					Source:   filepath.Join(sourceRoot, "bashrc"),
					Dest:     filepath.Join(home, ".bashrc"),
				},
				{
					RepoPath: "config/kitty/kitty.conf",
					Source:   filepath.Join(sourceRoot, "config/kitty/kitty.conf"),
					Dest:     filepath.Join(configHome, "kitty/kitty.conf"),
				},
				{
					RepoPath: "zshrc",
					Source:   filepath.Join(sourceRoot, "zshrc"),
					Dest:     filepath.Join(home, ".zshrc"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mappings, skips := Compute(tt.files, tt.opts)
			assert.Equal(t, tt.wantMappings, mappings)
			assert.Equal(t, tt.wantSkips, skips)
		})
	}
}

func TestResolveVariant(t *testing.T) {
	variants := []string{"desktop", "laptop"}

	tests := []struct {
		name         string
		rel          string
		active       string
		wantResolved string
		wantVariant  string
		wantActive   bool
	}{
		{
			name:         "no suffix is always active",
			rel:          "bashrc",
			active:       "desktop",
			wantResolved: "bashrc",
			wantActive:   true,
		},
		{
			name:         "matching suffix is collapsed",
			rel:          "gitconfig-desktop",
			active:       "desktop",
			wantResolved: "gitconfig",
			wantVariant:  "desktop",
			wantActive:   true,
		},
		{
			name:         "other variant is inactive",
			rel:          "gitconfig-laptop",
			active:       "desktop",
			wantResolved: "gitconfig-laptop",
			wantVariant:  "laptop",
			wantActive:   false,
		},
		{
			name:         "no active variant disables all suffixed files",
			rel:          "gitconfig-desktop",
			active:       "",
			wantResolved: "gitconfig-desktop",
			wantVariant:  "desktop",
			wantActive:   false,
		},
		{
			name:         "only first occurrence is replaced",
			rel:          "config/foot-laptop/foot-laptop.ini",
			active:       "laptop",
			wantResolved: "config/foot/foot-laptop.ini",
			wantVariant:  "laptop",
			wantActive:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, variant, active := resolveVariant(tt.rel, tt.active, variants)
			assert.Equal(t, tt.wantResolved, resolved)
			assert.Equal(t, tt.wantVariant, variant)
			assert.Equal(t, tt.wantActive, active)
		})
	}
}

func TestDeriveVariant(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		variants []string
		want     string
	}{
		{
			name:     "hostname contains variant",
			hostname: "alice-laptop",
			variants: []string{"desktop", "laptop"},
			want:     "laptop",
		},
		{
			name:     "match is case insensitive",
			hostname: "ALICE-DESKTOP",
			variants: []string{"desktop", "laptop"},
			want:     "desktop",
		},
		{
			name:     "first matching variant wins",
			hostname: "desktop-laptop-hybrid",
			variants: []string{"desktop", "laptop"},
			want:     "desktop",
		},
		{
			name:     "no match yields empty",
			hostname: "workstation",
			variants: []string{"desktop", "laptop"},
			want:     "",
		},
		{
			name:     "empty variants yield empty",
			hostname: "alice-laptop",
			variants: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveVariant(tt.hostname, tt.variants))
		})
	}
}
