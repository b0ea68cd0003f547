package dotlink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Symlink your dotfiles and propagate your palette"
	MsgLinkShort       = "Link dotfiles into place"
	MsgStatusShort     = "Show the state of every mapping"
	MsgUnlinkShort     = "Remove the links dotlink created"
	MsgAdoptShort      = "Move existing files into the source tree"
	MsgWatchShort      = "Watch the palette document and propagate changes"
	MsgPaletteShort    = "Show the active palette"
	MsgGenconfigShort  = "Generate the default configuration file"
	MsgDocsShort       = "Browse the documentation topics"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No changes were made"
	MsgFileAdopted    = "✔ Moved '%s' to '%s'\n"
	MsgWouldAdopt     = "Would move '%s' to '%s'\n"
	MsgAdoptSuccess   = "✨ %d file(s) now live in the source tree.\n"
	MsgNoFilesAdopted = "No files were adopted.\n"
	MsgWatching       = "Watching %s (debounce %s). Press Ctrl-C to stop.\n"
	MsgPaletteHeader  = "Palette %s (%s)\n"
	MsgConfigWritten  = "Wrote %s\n"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagForce    = "Replace occupied destinations instead of reporting conflicts"
	MsgFlagSource   = "Source tree root (default: $DOTFILES_HOME, git toplevel, or cwd)"
	MsgFlagTarget   = "Deploy into this directory instead of $HOME"
	MsgFlagIgnore   = "Skip files matching this pattern (repeatable)"
	MsgFlagVariant  = "Use this machine variant instead of deriving it"
	MsgFlagBackup   = "Do not back up files replaced by --force"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagPalette  = "Palette document to use instead of the configured one"
	MsgFlagNoNotify = "Do not send desktop notifications"
	MsgFlagWrite    = "Write dotlink.toml to the source root instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimSpace(msgLinkExampleRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimSpace(msgStatusExampleRaw)

	//go:embed msgs/unlink-long.txt
	msgUnlinkLongRaw string
	MsgUnlinkLong    = strings.TrimSpace(msgUnlinkLongRaw)

	//go:embed msgs/unlink-example.txt
	msgUnlinkExampleRaw string
	MsgUnlinkExample    = strings.TrimSpace(msgUnlinkExampleRaw)

	//go:embed msgs/adopt-long.txt
	msgAdoptLongRaw string
	MsgAdoptLong    = strings.TrimSpace(msgAdoptLongRaw)

	//go:embed msgs/adopt-example.txt
	msgAdoptExampleRaw string
	MsgAdoptExample    = strings.TrimSpace(msgAdoptExampleRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/watch-example.txt
	msgWatchExampleRaw string
	MsgWatchExample    = strings.TrimSpace(msgWatchExampleRaw)

	//go:embed msgs/palette-long.txt
	msgPaletteLongRaw string
	MsgPaletteLong    = strings.TrimSpace(msgPaletteLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenconfigLongRaw string
	MsgGenconfigLong    = strings.TrimSpace(msgGenconfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenconfigExampleRaw string
	MsgGenconfigExample    = strings.TrimSpace(msgGenconfigExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
