package asprules

import (
	"strings"

	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/output"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// helpWrap is the word wrap width for rendered long help.
const helpWrap = 80

// renderMarkdown renders long help for a terminal. style is a glamour style
// name; empty picks one from the terminal background. The input is returned
// unchanged when rendering fails.
func renderMarkdown(md, style string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(helpWrap)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		logger := logging.GetLogger("cmd.help")
		logger.Debug().Err(err).Msg("markdown renderer unavailable")
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		logger := logging.GetLogger("cmd.help")
		logger.Debug().Err(err).Msg("failed to render help")
		return md
	}
	return strings.Trim(out, "\n")
}

// installMarkdownHelp renders each command's Long text as markdown when help
// goes to a terminal. Other writers get the markdown source as is.
func installMarkdownHelp(root *cobra.Command) {
	plain := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Long != "" && output.Resolve(output.FormatAuto, cmd.OutOrStdout()) == output.FormatTerminal {
			long := cmd.Long
			cmd.Long = renderMarkdown(long, "")
			defer func() { cmd.Long = long }()
		}
		plain(cmd, args)
	})
}
