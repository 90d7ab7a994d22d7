package asprules

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arthur-debert/asprules/internal/version"
	"github.com/arthur-debert/asprules/pkg/config"
	"github.com/arthur-debert/asprules/pkg/core"
	"github.com/arthur-debert/asprules/pkg/editor"
	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/ext"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/output"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/arthur-debert/asprules/pkg/store"
	"github.com/arthur-debert/asprules/pkg/watch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newActivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "activate",
		Short:   MsgActivateShort,
		GroupID: "rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			res, err := core.Run(cmd.Context(), a.host(cmd.ErrOrStderr()))
			if err != nil {
				return reportedError{err}
			}
			return a.renderer(cmd).Activation(res)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			rs, report := a.host(cmd.ErrOrStderr()).Store().LoadResult(cmd.Context())

			title := MsgRulesTitle
			if report.Source == store.SourceDefaults {
				title = fmt.Sprintf(MsgDefaultsTitle, report.Reason)
			}
			if report.Dropped > 0 && a.format != output.FormatJSON {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgDroppedStoredFmt+"\n", report.Dropped)
			}
			return a.renderer(cmd).Rules(title, rs)
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		name   string
		plugin string
		method string
		icon   string
		hidden bool
	)

	cmd := &cobra.Command{
		Use:     "add <extensions...>",
		Short:   MsgAddShort,
		Long:    MsgAddLong,
		Example: MsgAddExample,
		GroupID: "rules",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			joined := strings.Join(args, " ")
			if len(ext.Split(joined)) == 0 {
				return errors.Newf(errors.ErrInvalidInput, MsgNoValidExtension, joined)
			}

			row := editor.BlankRow()
			row.Extensions = joined
			row.DisplayName = name
			row.Show = !hidden
			row.Icon = icon
			if cmd.Flags().Changed("plugin") {
				row.Mode = string(rules.ModePlugin)
				row.PluginID = plugin
				row.Method = method
			}

			return a.edit(cmd, func(s *editor.Session) error {
				s.SetRows(append(s.Rows(), row))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&plugin, "plugin", "", MsgFlagPlugin)
	cmd.Flags().StringVar(&method, "method", "", MsgFlagMethod)
	cmd.Flags().StringVar(&icon, "icon", string(rules.IconFile), MsgFlagIcon)
	cmd.Flags().BoolVar(&hidden, "hidden", false, MsgFlagHidden)
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <extensions...>",
		Aliases: []string{"rm"},
		Short:   MsgRemoveShort,
		GroupID: "rules",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drop := ext.Split(strings.Join(args, " "))
			return a.edit(cmd, func(s *editor.Session) error {
				current := s.Rules()
				kept, removed := withoutExtensions(current, drop)
				if removed == 0 {
					return errors.Newf(errors.ErrNotFound, MsgNothingToRemove, strings.Join(drop, ", "))
				}
				s.SetRows(editor.RowsFromRules(kept))
				return nil
			})
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   MsgResetShort,
		GroupID: "rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, func(s *editor.Session) error {
				s.RestoreDefaults()
				return nil
			})
		},
	}
}

// edit opens a settings session, lets change modify its rows and saves. Save
// failures were already shown as a notice.
func (a *app) edit(cmd *cobra.Command, change func(*editor.Session) error) error {
	ctx := cmd.Context()
	if err := a.open(ctx); err != nil {
		return err
	}
	host := a.host(cmd.ErrOrStderr())

	// bring the registry in line with storage before editing
	if _, err := core.Reload(ctx, host); err != nil {
		return err
	}

	session, err := core.OpenSettings(ctx, host)
	if err != nil {
		return reportedError{err}
	}
	if err := change(session); err != nil {
		return err
	}
	if err := session.SaveCurrent(ctx); err != nil {
		return reportedError{err}
	}
	return a.renderer(cmd).Rules(MsgRulesTitle, a.registry.Rules())
}

// withoutExtensions strips the given keys from every rule. Rules left without
// extensions disappear.
func withoutExtensions(rs rules.RuleSet, drop []string) (rules.RuleSet, int) {
	removed := 0
	kept := make(rules.RuleSet, 0, len(rs))
	for _, r := range rs {
		r = r.Clone()
		exts := r.Extensions[:0]
		for _, e := range r.Extensions {
			if contains(drop, e) {
				removed++
				continue
			}
			exts = append(exts, e)
		}
		r.Extensions = exts
		if len(r.Extensions) > 0 {
			kept = append(kept, r)
		}
	}
	return kept, removed
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <files...>",
		Short:   MsgResolveShort,
		GroupID: "rules",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			if _, err := core.Reload(cmd.Context(), a.host(cmd.ErrOrStderr())); err != nil {
				return err
			}

			res := make([]output.Resolution, len(args))
			for i, file := range args {
				res[i] = output.Resolution{File: file, Extension: ext.FromPath(file)}
				if r, ok := a.registry.Resolve(file); ok {
					res[i].Rule = &r
				}
			}
			return a.renderer(cmd).Resolutions(res)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.open(ctx); err != nil {
				return err
			}
			fileStore, ok := a.storage.(*storage.File)
			if !ok {
				return errors.Newf(errors.ErrConfigValid, MsgWatchNeedsFile, a.cfg.Storage.Backend)
			}

			host := a.host(cmd.ErrOrStderr())
			r := a.renderer(cmd)
			res, err := core.Run(ctx, host)
			if err != nil {
				return reportedError{err}
			}
			if err := r.Activation(res); err != nil {
				return err
			}

			path := fileStore.Path(host.Store().Key())
			logger := logging.GetLogger("cmd.watch")
			w := watch.New(path, func(ctx context.Context) {
				res, err := core.Reload(ctx, host)
				if err != nil {
					logger.Warn().Err(err).Msg("Reload failed")
					return
				}
				if err := r.Activation(res); err != nil {
					logger.Warn().Err(err).Msg("Failed to render reload")
				}
			})
			fmt.Fprintf(cmd.ErrOrStderr(), MsgWatching+"\n", path)
			return w.Run(ctx)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := fmt.Fprint(out, config.DefaultContent())
				return err
			}
			if a.format == output.FormatJSON {
				return output.NewRenderer(out, output.FormatJSON).JSON(a.cfg)
			}
			data, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
		},
	}
}
