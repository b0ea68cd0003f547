// Package palette models the color palette document an external theming
// tool generates. A document is a flat map of role names to color values;
// unrecognized keys are ignored and missing roles fall back to built-in
// defaults, so consumers always hold a complete palette.
package palette

import "fmt"

// TerminalColors is the number of indexed terminal colors a palette carries
const TerminalColors = 16

// Palette holds one complete set of color roles.
type Palette struct {
	// Background is the base surface color
	Background string

	// Foreground is the default text color
	Foreground string

	// Cursor is the caret color
	Cursor string

	// Colors are the 16 indexed terminal colors, color0 through color15
	Colors [TerminalColors]string
}

// Default returns the built-in fallback palette, the classic xterm
// sixteen plus white-on-black. Used whenever no document has loaded.
func Default() Palette {
	return Palette{
		Background: "#000000",
		Foreground: "#ffffff",
		Cursor:     "#ffffff",
		Colors: [TerminalColors]string{
			"#000000", "#cd0000", "#00cd00", "#cdcd00",
			"#0000ee", "#cd00cd", "#00cdcd", "#e5e5e5",
			"#7f7f7f", "#ff0000", "#00ff00", "#ffff00",
			"#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
		},
	}
}

// Color returns the indexed color, or the empty string when out of range.
func (p Palette) Color(i int) string {
	if i < 0 || i >= TerminalColors {
		return ""
	}
	return p.Colors[i]
}

// fromRaw lifts a parsed document onto the default palette. Only
// recognized role keys with string values take effect.
func fromRaw(raw map[string]any) Palette {
	p := Default()

	if v, ok := rawString(raw, "background"); ok {
		p.Background = v
	}
	if v, ok := rawString(raw, "foreground"); ok {
		p.Foreground = v
	}
	if v, ok := rawString(raw, "cursor"); ok {
		p.Cursor = v
	}
	for i := 0; i < TerminalColors; i++ {
		if v, ok := rawString(raw, fmt.Sprintf("color%d", i)); ok {
			p.Colors[i] = v
		}
	}

	return p
}

func rawString(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
