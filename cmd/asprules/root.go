package asprules

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/arthur-debert/asprules/internal/version"
	"github.com/arthur-debert/asprules/pkg/config"
	"github.com/arthur-debert/asprules/pkg/core"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/notify"
	"github.com/arthur-debert/asprules/pkg/output"
	"github.com/arthur-debert/asprules/pkg/registry"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags.
type globalOptions struct {
	verbosity     int
	configFile    string
	backend       string
	dir           string
	format        string
	json          bool
	output        string
	strictPlugins bool
}

// app is the per-invocation state shared by commands.
type app struct {
	opts     *globalOptions
	format   output.Format
	cfg      *config.Config
	storage  storage.Storage
	closer   io.Closer
	closeLog func() error
	registry *registry.Memory
}

// reportedError marks errors the user has already been told about through a
// notice, so main does not print them twice.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var r reportedError
	return stderrors.As(err, &r)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:     "asprules",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.closeLog = logging.Setup(logging.Options{
				Verbosity: opts.verbosity,
				Console:   cmd.ErrOrStderr(),
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			format, err := output.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			if opts.json {
				format = output.FormatJSON
			}
			a.format = format

			cfg, err := config.Load(config.Options{
				ConfigFile: opts.configFile,
				Overrides:  flagOverrides(cmd, opts),
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", MsgFlagBackend)
	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", MsgFlagDir)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, MsgFlagJSON)
	rootCmd.PersistentFlags().StringVar(&opts.output, "output", "auto", MsgFlagOutput)
	rootCmd.PersistentFlags().BoolVar(&opts.strictPlugins, "strict-plugins", false, MsgFlagStrict)

	rootCmd.AddGroup(&cobra.Group{ID: "rules", Title: "RULES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newActivateCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newResetCmd(a))
	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	installMarkdownHelp(rootCmd)

	return rootCmd
}

// flagOverrides maps the storage flags that were set to config keys.
func flagOverrides(cmd *cobra.Command, opts *globalOptions) map[string]interface{} {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		overrides["storage.backend"] = opts.backend
	}
	if flags.Changed("dir") {
		overrides["storage.dir"] = opts.dir
	}
	if flags.Changed("format") {
		overrides["storage.format"] = opts.format
	}
	return overrides
}

// open connects the configured storage and builds the in-process registry.
func (a *app) open(ctx context.Context) error {
	if a.storage != nil {
		return nil
	}
	st, closer, err := storage.Open(ctx, a.cfg.StorageOptions())
	if err != nil {
		return err
	}
	a.storage, a.closer = st, closer

	var regOpts []registry.MemoryOption
	if a.opts.strictPlugins {
		regOpts = append(regOpts, registry.RequirePlugins(a.cfg.Host.AllowedPlugins...))
	} else {
		regOpts = append(regOpts, registry.AllowPlugins(a.cfg.Host.AllowedPlugins...))
	}
	a.registry = registry.NewMemory(regOpts...)
	return nil
}

func (a *app) close() error {
	var err error
	if a.closer != nil {
		err = a.closer.Close()
		a.closer = nil
	}
	if a.closeLog != nil {
		_ = a.closeLog()
		a.closeLog = nil
	}
	return err
}

// host bundles the capabilities for the core package. Notices go to w.
func (a *app) host(w io.Writer) core.Host {
	return core.Host{
		Storage:     a.storage,
		Registry:    a.registry,
		Sink:        &notify.TerminalSink{Out: w},
		Key:         a.cfg.Storage.Key,
		OKDuration:  a.cfg.OKDuration(),
		ErrDuration: a.cfg.ErrDuration(),
	}
}

// renderer writes to the command's stdout in the selected format.
func (a *app) renderer(cmd *cobra.Command) *output.Renderer {
	w := cmd.OutOrStdout()
	return output.NewRenderer(w, output.Resolve(a.format, w))
}
