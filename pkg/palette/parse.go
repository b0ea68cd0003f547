package palette

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
)

// Format identifies a palette document serialization.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks the serialization from the file extension.
// Unknown extensions default to TOML, the format wallust templates use.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Load reads and parses the palette document at path. Files without a
// recognized extension are parsed as TOML, then as JSON.
func Load(path string) (Palette, error) {
	logger := logging.GetLogger("palette")

	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, errors.Wrapf(err, errors.ErrPaletteRead,
			"failed to read palette %s", path)
	}

	format := DetectFormat(path)
	p, err := Parse(data, format)
	if err != nil && format == FormatTOML && strings.ToLower(filepath.Ext(path)) != ".toml" {
		if jp, jerr := Parse(data, FormatJSON); jerr == nil {
			p, err = jp, nil
		}
	}
	if err != nil {
		return Palette{}, err
	}

	logger.Debug().Str("path", path).Msg("Loaded palette")
	return p, nil
}

// Parse decodes a palette document. Unknown keys are ignored; roles the
// document does not set come from the default palette. A document that
// sets no roles at all is malformed.
func Parse(data []byte, format Format) (Palette, error) {
	raw, err := decode(data, format)
	if err != nil {
		return Palette{}, errors.Wrapf(err, errors.ErrPaletteParse,
			"malformed %s palette", format)
	}
	if len(raw) == 0 {
		return Palette{}, errors.Newf(errors.ErrPaletteParse,
			"palette document is empty")
	}

	return fromRaw(raw), nil
}

func decode(data []byte, format Format) (map[string]any, error) {
	raw := map[string]any{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	return raw, nil
}
