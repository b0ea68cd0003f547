// Package display renders link reports for terminals, pipes and
// machine consumers. The rich renderer colors its output with pterm,
// the plain renderer emits the same columns unstyled, and the JSON
// renderer serializes the whole report for scripting.
package display

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/dotlink/pkg/errors"
)

// Format selects how command results are rendered.
type Format int

const (
	// FormatAuto picks terminal or text based on the output destination
	FormatAuto Format = iota

	// FormatTerminal renders styled terminal output
	FormatTerminal

	// FormatText renders unstyled text
	FormatText

	// FormatJSON renders machine-readable JSON
	FormatJSON
)

// String returns the flag spelling of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
	}
}

// DetectFormat resolves what a FormatAuto run should use, honoring
// NO_COLOR, pipes and redirections, and the terminal's color support.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// NewRenderer returns the renderer for a format. FormatAuto is
// resolved against stdout.
func NewRenderer(f Format) Renderer {
	if f == FormatAuto {
		f = DetectFormat(os.Stdout)
	}

	switch f {
	case FormatJSON:
		return &JSONRenderer{}
	case FormatText:
		return &PlainRenderer{}
	default:
		return &RichRenderer{}
	}
}
