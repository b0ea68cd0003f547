package dotlink

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlink/internal/version"
	"github.com/arthur-debert/dotlink/pkg/commands/adopt"
	"github.com/arthur-debert/dotlink/pkg/commands/genconfig"
	"github.com/arthur-debert/dotlink/pkg/commands/link"
	"github.com/arthur-debert/dotlink/pkg/commands/palette"
	"github.com/arthur-debert/dotlink/pkg/commands/status"
	"github.com/arthur-debert/dotlink/pkg/commands/unlink"
	"github.com/arthur-debert/dotlink/pkg/commands/watch"
	"github.com/arthur-debert/dotlink/pkg/display"
	"github.com/arthur-debert/dotlink/pkg/theme"
)

// rootString reads a persistent string flag from the root command
func rootString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Root().PersistentFlags().GetString(name)
	return v
}

// rootBool reads a persistent bool flag from the root command
func rootBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool(name)
	return v
}

func newLinkCmd() *cobra.Command {
	var (
		ignore   []string
		variant  string
		noBackup bool
		format   string
	)

	cmd := &cobra.Command{
		Use:     "link",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := display.ParseFormat(format)
			if err != nil {
				return err
			}

			source := rootString(cmd, "source")
			dryRun := rootBool(cmd, "dry-run")
			force := rootBool(cmd, "force")
			warnFallback(source)

			log.Info().
				Bool("dry_run", dryRun).
				Bool("force", force).
				Msg("Linking source tree")

			opts := link.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Ignore:     ignore,
				Variant:    variant,
				Force:      force,
				DryRun:     dryRun,
			}
			if noBackup {
				backup := false
				opts.Backup = &backup
			}

			result, err := link.Execute(opts)
			if err != nil {
				return err
			}

			renderer := display.NewRenderer(f)
			fmt.Println(renderer.RenderReport(display.Result{
				Command: "link",
				Report:  result.Report,
				Skips:   result.Skips,
			}))

			if dryRun {
				fmt.Println(MsgDryRunNotice)
			}

			// Conflicts and failures must show in the exit code
			if !result.Report.Success() {
				return result.Report.Err()
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, MsgFlagIgnore)
	cmd.Flags().StringVar(&variant, "variant", "", MsgFlagVariant)
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, MsgFlagBackup)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)

	return cmd
}

func newStatusCmd() *cobra.Command {
	var (
		ignore  []string
		variant string
		format  string
	)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := display.ParseFormat(format)
			if err != nil {
				return err
			}

			source := rootString(cmd, "source")
			warnFallback(source)

			result, err := status.Execute(status.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Ignore:     ignore,
				Variant:    variant,
			})
			if err != nil {
				return err
			}

			renderer := display.NewRenderer(f)
			fmt.Println(renderer.RenderStatus(display.Result{
				Command: "status",
				Report:  result.Report,
				Skips:   result.Skips,
			}))

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, MsgFlagIgnore)
	cmd.Flags().StringVar(&variant, "variant", "", MsgFlagVariant)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)

	return cmd
}

func newUnlinkCmd() *cobra.Command {
	var (
		ignore  []string
		variant string
		format  string
	)

	cmd := &cobra.Command{
		Use:     "unlink",
		Short:   MsgUnlinkShort,
		Long:    MsgUnlinkLong,
		Example: MsgUnlinkExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := display.ParseFormat(format)
			if err != nil {
				return err
			}

			source := rootString(cmd, "source")
			dryRun := rootBool(cmd, "dry-run")
			warnFallback(source)

			log.Info().
				Bool("dry_run", dryRun).
				Msg("Removing managed links")

			result, err := unlink.Execute(unlink.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Ignore:     ignore,
				Variant:    variant,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			renderer := display.NewRenderer(f)
			fmt.Println(renderer.RenderReport(display.Result{
				Command: "unlink",
				Report:  result.Report,
				Skips:   result.Skips,
			}))

			if dryRun {
				fmt.Println(MsgDryRunNotice)
			}

			if !result.Report.Success() {
				return result.Report.Err()
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, MsgFlagIgnore)
	cmd.Flags().StringVar(&variant, "variant", "", MsgFlagVariant)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)

	return cmd
}

func newAdoptCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "adopt <path>...",
		Short:   MsgAdoptShort,
		Long:    MsgAdoptLong,
		Example: MsgAdoptExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := rootString(cmd, "source")
			dryRun := rootBool(cmd, "dry-run")
			force := rootBool(cmd, "force")
			warnFallback(source)

			log.Info().
				Int("files", len(args)).
				Bool("dry_run", dryRun).
				Msg("Adopting files into the source tree")

			result, execErr := adopt.Execute(adopt.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Paths:      args,
				Force:      force,
				DryRun:     dryRun,
			})

			// Adoption is fail-fast but files moved before a failure stay
			// moved, so report them before returning the error
			if result != nil {
				if dryRun {
					for _, f := range result.Adopted {
						fmt.Printf(MsgWouldAdopt, f.SystemPath, f.RepoPath)
					}
					fmt.Println(MsgDryRunNotice)
				} else {
					for _, f := range result.Adopted {
						fmt.Printf(MsgFileAdopted, f.SystemPath, f.RepoPath)
					}
					if len(result.Adopted) > 0 {
						fmt.Printf(MsgAdoptSuccess, len(result.Adopted))
					} else if execErr == nil {
						fmt.Print(MsgNoFilesAdopted)
					}
				}
			}

			return execErr
		},
	}
}

func newWatchCmd() *cobra.Command {
	var (
		paletteDoc string
		noNotify   bool
	)

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Example: MsgWatchExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := rootString(cmd, "source")
			warnFallback(source)

			opts := watch.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Palette:    paletteDoc,
				NoNotify:   noNotify,
				DryRun:     rootBool(cmd, "dry-run"),
			}

			info, err := watch.Inspect(opts)
			if err != nil {
				return err
			}
			fmt.Printf(MsgWatching, info.PalettePath, info.Debounce)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch.Execute(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&paletteDoc, "palette", "", MsgFlagPalette)
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, MsgFlagNoNotify)

	return cmd
}

func newPaletteCmd() *cobra.Command {
	var paletteDoc string

	cmd := &cobra.Command{
		Use:     "palette",
		Short:   MsgPaletteShort,
		Long:    MsgPaletteLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := rootString(cmd, "source")
			warnFallback(source)

			result, err := palette.Execute(palette.Options{
				SourceRoot: source,
				Target:     rootString(cmd, "target"),
				Palette:    paletteDoc,
			})
			if err != nil {
				return err
			}

			fmt.Printf(MsgPaletteHeader, result.Path, result.State)
			fmt.Printf("  background %s\n", result.Palette.Background)
			fmt.Printf("  foreground %s\n", result.Palette.Foreground)
			fmt.Printf("  cursor     %s\n", result.Palette.Cursor)
			fmt.Println(theme.Swatches(result.Palette))

			return nil
		},
	}

	cmd.Flags().StringVar(&paletteDoc, "palette", "", MsgFlagPalette)

	return cmd
}

func newGenconfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenconfigShort,
		Long:    MsgGenconfigLong,
		Example: MsgGenconfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := rootString(cmd, "source")
			if write {
				warnFallback(source)
			}

			result, err := genconfig.Execute(genconfig.Options{
				SourceRoot: source,
				Write:      write,
				Force:      rootBool(cmd, "force"),
			})
			if err != nil {
				return err
			}

			if result.Written {
				fmt.Printf(MsgConfigWritten, result.Path)
			} else {
				fmt.Print(result.Content)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "docs [topic]",
		Short:   MsgDocsShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helpArgs := []string{"topics"}
			if len(args) > 0 {
				helpArgs = args
			}

			// Route through the topic-aware help command
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, helpArgs)
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, helpArgs)
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dotlink %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
