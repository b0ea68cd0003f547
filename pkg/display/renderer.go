package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotlink/pkg/linker"
	"github.com/arthur-debert/dotlink/pkg/mapping"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Result is everything one command run produced.
type Result struct {
	Command string
	Report  *linker.Report
	Skips   []mapping.Skip
}

// Renderer renders command results in one output format.
type Renderer interface {
	// RenderReport renders a link or unlink run
	RenderReport(result Result) string

	// RenderStatus renders a state-oriented listing
	RenderStatus(result Result) string
}

const decisionWidth = 8

var (
	styleLink     = pterm.NewStyle(pterm.FgCyan)
	styleOK       = pterm.NewStyle(pterm.FgGreen)
	styleChange   = pterm.NewStyle(pterm.FgYellow)
	styleConflict = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	styleError    = pterm.NewStyle(pterm.FgRed)
	styleMuted    = pterm.NewStyle(pterm.FgGray)
	styleTitle    = pterm.NewStyle(pterm.Bold)
)

// title renders the command header, marking dry runs
func title(result Result) string {
	text := result.Command
	if len(text) > 0 {
		text = strings.ToUpper(text[:1]) + text[1:]
	}
	if result.Report.DryRun {
		text += " (dry run)"
	}
	return text
}

// message returns the third column for an apply or unlink line
func message(res linker.Result, dryRun bool) string {
	switch res.Decision {
	case linker.DecisionLink:
		if dryRun {
			return "would link"
		}
		return "linked"
	case linker.DecisionNoop:
		return "already linked"
	case linker.DecisionReplace:
		msg := "replaced"
		if dryRun {
			msg = "would replace"
		}
		if res.BackupPath != "" {
			msg += " (backup: " + res.BackupPath + ")"
		}
		return msg
	case linker.DecisionConflict:
		if res.IsDir {
			return "directory in the way"
		}
		if res.State == types.StateWrongLink {
			return "points elsewhere, use --force"
		}
		return "exists, use --force"
	case linker.DecisionUnlink:
		if dryRun {
			return "would unlink"
		}
		return "unlinked"
	case linker.DecisionKeep:
		switch res.State {
		case types.StateAbsent:
			return "not linked"
		case types.StateWrongLink:
			return "points elsewhere, kept"
		default:
			return "not a dotlink symlink, kept"
		}
	case linker.DecisionError:
		if res.Err != nil {
			return res.Err.Error()
		}
		return "failed"
	default:
		return string(res.Decision)
	}
}

// statusWord returns the leading status column and optional detail for
// a status line
func statusWord(res linker.Result) (string, string) {
	switch res.Decision {
	case linker.DecisionNoop:
		return "linked", ""
	case linker.DecisionLink:
		return "missing", ""
	case linker.DecisionReplace, linker.DecisionConflict:
		if res.IsDir {
			return "conflict", "directory in the way"
		}
		if res.State == types.StateWrongLink {
			return "conflict", "points elsewhere"
		}
		return "conflict", "file in the way"
	case linker.DecisionError:
		if res.Err != nil {
			return "error", res.Err.Error()
		}
		return "error", ""
	default:
		return string(res.Decision), ""
	}
}

// summaryLine condenses a report into one counts sentence
func summaryLine(result Result) string {
	counts := make(map[linker.Decision]int)
	for _, res := range result.Report.Results {
		counts[res.Decision]++
	}

	var parts []string
	add := func(n int, word string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, word))
		}
	}
	add(counts[linker.DecisionLink], "linked")
	add(counts[linker.DecisionReplace], "replaced")
	add(counts[linker.DecisionUnlink], "unlinked")
	add(counts[linker.DecisionNoop], "unchanged")
	add(counts[linker.DecisionKeep], "kept")
	add(counts[linker.DecisionConflict], "in conflict")
	add(counts[linker.DecisionError], "failed")
	add(len(result.Skips), "skipped")

	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}

// pathWidth returns the widest repo path so columns line up
func pathWidth(result Result) int {
	w := 0
	for _, res := range result.Report.Results {
		if n := len(res.Mapping.RepoPath); n > w {
			w = n
		}
	}
	for _, s := range result.Skips {
		if n := len(s.RepoPath); n > w {
			w = n
		}
	}
	return w
}

// padRight pads a string to the specified width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// PlainRenderer emits unstyled text, one line per mapping.
type PlainRenderer struct{}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderReport renders a link or unlink run as plain text
func (r *PlainRenderer) RenderReport(result Result) string {
	var out strings.Builder
	out.WriteString(title(result) + "\n\n")

	width := pathWidth(result)
	for _, res := range result.Report.Results {
		out.WriteString(fmt.Sprintf("%s : %s : %s\n",
			padRight(string(res.Decision), decisionWidth),
			padRight(res.Mapping.RepoPath, width),
			message(res, result.Report.DryRun)))
	}
	for _, s := range result.Skips {
		out.WriteString(fmt.Sprintf("%s : %s : %s\n",
			padRight("skip", decisionWidth),
			padRight(s.RepoPath, width),
			s.Reason))
	}

	out.WriteString("\n" + summaryLine(result))
	return out.String()
}

// RenderStatus renders a status listing as plain text
func (r *PlainRenderer) RenderStatus(result Result) string {
	var out strings.Builder
	out.WriteString(title(result) + "\n\n")

	for _, res := range result.Report.Results {
		word, detail := statusWord(res)
		out.WriteString(fmt.Sprintf("%s %s -> %s",
			padRight(word, decisionWidth),
			res.Mapping.RepoPath, res.Mapping.Dest))
		if detail != "" {
			out.WriteString(" (" + detail + ")")
		}
		out.WriteString("\n")
	}
	for _, s := range result.Skips {
		out.WriteString(fmt.Sprintf("%s %s (%s)\n",
			padRight("skip", decisionWidth), s.RepoPath, s.Reason))
	}

	out.WriteString("\n" + summaryLine(result))
	return out.String()
}

// RichRenderer colors the plain layout with pterm styles.
type RichRenderer struct{}

// NewRichRenderer creates a styled terminal renderer.
func NewRichRenderer() *RichRenderer {
	return &RichRenderer{}
}

// RenderReport renders a link or unlink run with colors
func (r *RichRenderer) RenderReport(result Result) string {
	var out strings.Builder
	out.WriteString(styleTitle.Sprint(title(result)) + "\n\n")

	width := pathWidth(result)
	for _, res := range result.Report.Results {
		style := decisionStyle(res.Decision)
		out.WriteString(fmt.Sprintf("%s : %s : %s\n",
			style.Sprint(padRight(string(res.Decision), decisionWidth)),
			padRight(res.Mapping.RepoPath, width),
			message(res, result.Report.DryRun)))
	}
	for _, s := range result.Skips {
		out.WriteString(styleMuted.Sprintf("%s : %s : %s",
			padRight("skip", decisionWidth),
			padRight(s.RepoPath, width),
			s.Reason) + "\n")
	}

	out.WriteString("\n" + styleMuted.Sprint(summaryLine(result)))
	return out.String()
}

// RenderStatus renders a status listing with colors
func (r *RichRenderer) RenderStatus(result Result) string {
	var out strings.Builder
	out.WriteString(styleTitle.Sprint(title(result)) + "\n\n")

	for _, res := range result.Report.Results {
		word, detail := statusWord(res)
		out.WriteString(fmt.Sprintf("%s %s -> %s",
			statusStyle(word).Sprint(padRight(word, decisionWidth)),
			res.Mapping.RepoPath, res.Mapping.Dest))
		if detail != "" {
			out.WriteString(" (" + detail + ")")
		}
		out.WriteString("\n")
	}
	for _, s := range result.Skips {
		out.WriteString(styleMuted.Sprintf("%s %s (%s)",
			padRight("skip", decisionWidth), s.RepoPath, s.Reason) + "\n")
	}

	out.WriteString("\n" + styleMuted.Sprint(summaryLine(result)))
	return out.String()
}

func decisionStyle(d linker.Decision) *pterm.Style {
	switch d {
	case linker.DecisionLink:
		return styleLink
	case linker.DecisionNoop:
		return styleOK
	case linker.DecisionReplace, linker.DecisionUnlink:
		return styleChange
	case linker.DecisionConflict:
		return styleConflict
	case linker.DecisionError:
		return styleError
	default:
		return styleMuted
	}
}

func statusStyle(word string) *pterm.Style {
	switch word {
	case "linked":
		return styleOK
	case "missing":
		return styleLink
	case "conflict":
		return styleConflict
	case "error":
		return styleError
	default:
		return styleMuted
	}
}

// JSONRenderer serializes the full report for scripting.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// jsonResult mirrors linker.Result with the error flattened to text
type jsonResult struct {
	Mapping    types.Mapping   `json:"mapping"`
	State      types.LinkState `json:"state"`
	IsDir      bool            `json:"isDir,omitempty"`
	Decision   linker.Decision `json:"decision"`
	Applied    bool            `json:"applied"`
	BackupPath string          `json:"backupPath,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type jsonReport struct {
	Command string         `json:"command"`
	DryRun  bool           `json:"dryRun"`
	Results []jsonResult   `json:"results"`
	Skips   []mapping.Skip `json:"skips,omitempty"`
}

// RenderReport serializes a link or unlink run
func (r *JSONRenderer) RenderReport(result Result) string {
	return r.marshal(result)
}

// RenderStatus serializes a status listing
func (r *JSONRenderer) RenderStatus(result Result) string {
	return r.marshal(result)
}

func (r *JSONRenderer) marshal(result Result) string {
	rep := jsonReport{
		Command: result.Command,
		DryRun:  result.Report.DryRun,
		Results: make([]jsonResult, 0, len(result.Report.Results)),
		Skips:   result.Skips,
	}
	for _, res := range result.Report.Results {
		jr := jsonResult{
			Mapping:    res.Mapping,
			State:      res.State,
			IsDir:      res.IsDir,
			Decision:   res.Decision,
			Applied:    res.Applied,
			BackupPath: res.BackupPath,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		rep.Results = append(rep.Results, jr)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(data)
}
