// Package config loads dotlink's layered configuration.
//
// Three layers are merged, later layers overriding earlier ones:
//  1. embedded defaults
//  2. dotlink.toml at the source root
//  3. DOTLINK_* environment variables
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotlink/pkg/errors"
)

// configFileName is the repo configuration file at the source root
const configFileName = "dotlink.toml"

// envPrefix namespaces dotlink's environment overrides
const envPrefix = "DOTLINK_"

// Config is the fully merged dotlink configuration
type Config struct {
	Link  LinkConfig  `koanf:"link"`
	Theme ThemeConfig `koanf:"theme"`
}

// LinkConfig controls the link, status, unlink and adopt commands
type LinkConfig struct {
	// Ignore holds substring patterns excluded from linking,
	// merged with the linkignore file at the source root
	Ignore []string `koanf:"ignore"`

	// Variants are the known machine variant names
	Variants []string `koanf:"variants"`

	// Variant is the active variant, derived from the hostname when empty
	Variant string `koanf:"variant"`

	// Backup controls whether force replacement preserves the old file
	Backup bool `koanf:"backup"`
}

// ThemeConfig controls the watch and palette commands
type ThemeConfig struct {
	// Palette is the palette document to watch,
	// empty means the wallust cache default
	Palette string `koanf:"palette"`

	// Debounce is the quiet window for coalescing palette rewrites
	Debounce time.Duration `koanf:"debounce"`

	// Notify enables desktop notifications after reloads
	Notify bool `koanf:"notify"`

	// Hooks are commands run after each palette reload
	Hooks []HookConfig `koanf:"hooks"`
}

// HookConfig is one command run after a palette reload
type HookConfig struct {
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`
}

// Load returns the merged configuration for the given source root
func Load(sourceRoot string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default config")
	}

	// 2. Repo config if it exists
	path := filepath.Join(sourceRoot, configFileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	}

	// 3. Environment variables, DOTLINK_THEME_PALETTE -> theme.palette
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if cfg.Theme.Debounce <= 0 {
		cfg.Theme.Debounce = 100 * time.Millisecond
	}

	return &cfg, nil
}
