package asprules

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Manage per-extension file handling rules"
	MsgActivateShort   = "Load, normalize and apply the stored rules"
	MsgListShort       = "List the effective rules"
	MsgAddShort        = "Add a rule for one or more extensions"
	MsgRemoveShort     = "Remove extensions from the rules"
	MsgResetShort      = "Restore the default rule"
	MsgResolveShort    = "Show which rule handles each file"
	MsgWatchShort      = "Re-apply rules whenever the rules file changes"
	MsgConfigShort     = "Print the resolved configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgRulesTitle       = "Rules"
	MsgDefaultsTitle    = "Rules (built-in default: %s)"
	MsgWatching         = "Watching %s"
	MsgVersionFormat    = "asprules version %s\n  commit: %s\n  built:  %s\n"
	MsgNothingToRemove  = "no rule claims %s"
	MsgNoValidExtension = "no valid extension in %q"
	MsgWatchNeedsFile   = "watch requires the file storage backend, got %q"
	MsgDroppedStoredFmt = "%d invalid stored rule(s) were ignored"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/asprules/config.toml)"
	MsgFlagBackend  = "Storage backend: file, redis or memory"
	MsgFlagDir      = "Directory of the file backend"
	MsgFlagFormat   = "File backend format: json, yaml, toml or cbor"
	MsgFlagJSON     = "Print machine-readable JSON (same as --output json)"
	MsgFlagOutput   = "Output format: auto, term, text or json"
	MsgFlagStrict   = "Refuse plugin rules whose plugin is not in host.allowed_plugins"
	MsgFlagName     = "Display name of the rule"
	MsgFlagPlugin   = "Open matched files with this plugin id"
	MsgFlagMethod   = "Plugin method to call"
	MsgFlagIcon     = "File tree icon: file or pdf"
	MsgFlagHidden   = "Hide matched files from the file tree"
	MsgFlagDefaults = "Print the built-in defaults file instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.md
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/add-long.md
	msgAddLongRaw string
	MsgAddLong    = strings.TrimSpace(msgAddLongRaw)

	//go:embed msgs/add-example.txt
	msgAddExampleRaw string
	MsgAddExample    = strings.TrimRight(msgAddExampleRaw, "\n")

	//go:embed msgs/watch-long.md
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/completion-long.md
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
