// Package output renders CLI results as styled tables, plain text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/asprules/pkg/core"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// Renderer writes results in one format.
type Renderer struct {
	w      io.Writer
	format Format
	st     styles
}

// NewRenderer creates a renderer. FormatAuto is treated as FormatTerminal;
// resolve it with Resolve first when the writer may not be a terminal.
func NewRenderer(w io.Writer, format Format) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if format == FormatText || format == FormatJSON {
		lr.SetColorProfile(termenv.Ascii)
	}

	logger := logging.GetLogger("output")
	logger.Trace().
		Str("format", format.String()).
		Msg("Creating renderer")

	return &Renderer{w: w, format: format, st: newStyles(lr)}
}

// Format returns the renderer format.
func (r *Renderer) Format() Format {
	return r.format
}

// Resolution is the rule a file name resolves to, if any.
type Resolution struct {
	File      string      `json:"file"`
	Extension string      `json:"extension"`
	Rule      *rules.Rule `json:"rule"`
}

type ruleView struct {
	Index int `json:"index"`
	rules.Rule
}

// Rules renders a rule set.
func (r *Renderer) Rules(title string, rs rules.RuleSet) error {
	if r.format == FormatJSON {
		views := make([]ruleView, len(rs))
		for i, rule := range rs {
			views[i] = ruleView{Index: i + 1, Rule: rule}
		}
		return r.JSON(views)
	}

	if title != "" {
		if _, err := fmt.Fprintln(r.w, r.st.title.Render(title)); err != nil {
			return err
		}
	}
	if len(rs) == 0 {
		_, err := fmt.Fprintln(r.w, r.st.muted.Render("no rules"))
		return err
	}

	rows := make([][]string, len(rs))
	for i, rule := range rs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strings.Join(rule.Extensions, ", "),
			displayName(rule),
			fileTree(rule),
			rule.EffectiveOpenWith().String(),
		}
	}
	return r.table([]string{"#", "EXTENSIONS", "NAME", "TREE", "OPEN WITH"}, rows)
}

// Resolutions renders file name lookups.
func (r *Renderer) Resolutions(res []Resolution) error {
	if r.format == FormatJSON {
		return r.JSON(res)
	}

	rows := make([][]string, len(res))
	for i, rs := range res {
		rows[i] = []string{rs.File, rs.Extension, "-", "-"}
		if rs.Rule != nil {
			rows[i][2] = rs.Rule.Label()
			rows[i][3] = rs.Rule.EffectiveOpenWith().String()
		}
	}
	return r.table([]string{"FILE", "EXT", "RULE", "OPEN WITH"}, rows)
}

type failureView struct {
	Index      int      `json:"index"`
	Extensions []string `json:"extensions"`
	Error      string   `json:"error"`
}

type activationView struct {
	Source     string        `json:"source"`
	Reason     string        `json:"reason,omitempty"`
	Stored     int           `json:"stored"`
	Dropped    int           `json:"dropped"`
	Registered int           `json:"registered"`
	Failed     []failureView `json:"failed"`
	Refreshed  bool          `json:"refreshed"`
	Rules      rules.RuleSet `json:"rules"`
}

// Activation renders what an activation or reload did.
func (r *Renderer) Activation(res core.Result) error {
	view := activationView{
		Source:     string(res.Load.Source),
		Reason:     res.Load.Reason,
		Stored:     res.Load.Stored,
		Dropped:    res.Load.Dropped,
		Registered: res.Apply.Registered,
		Failed:     []failureView{},
		Refreshed:  res.Apply.Refreshed,
		Rules:      res.Rules,
	}
	for _, f := range res.Apply.Failed {
		view.Failed = append(view.Failed, failureView{
			Index:      f.Index,
			Extensions: f.Rule.Extensions,
			Error:      f.Err.Error(),
		})
	}
	if r.format == FormatJSON {
		return r.JSON(view)
	}

	source := view.Source
	if view.Reason != "" {
		source += " (" + view.Reason + ")"
	}
	lines := []string{
		r.st.success.Render("Rules applied"),
		fmt.Sprintf("  source:     %s", source),
		fmt.Sprintf("  registered: %d", view.Registered),
	}
	if view.Dropped > 0 {
		lines = append(lines, r.st.warning.Render(fmt.Sprintf("  dropped:    %d invalid stored rule(s)", view.Dropped)))
	}
	for _, f := range view.Failed {
		lines = append(lines, r.st.errorS.Render(fmt.Sprintf("  refused:    #%d %s: %s",
			f.Index+1, strings.Join(f.Extensions, ", "), f.Error)))
	}
	_, err := fmt.Fprintln(r.w, strings.Join(lines, "\n"))
	return err
}

// Message renders a one-line status message.
func (r *Renderer) Message(msg string) error {
	if r.format == FormatJSON {
		return r.JSON(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, r.st.success.Render(msg))
	return err
}

// Error renders an error.
func (r *Renderer) Error(err error) error {
	if r.format == FormatJSON {
		return r.JSON(map[string]string{"error": err.Error()})
	}
	_, werr := fmt.Fprintln(r.w, r.st.errorS.Render("Error:")+" "+err.Error())
	return werr
}

// JSON writes v as indented JSON regardless of the renderer format.
func (r *Renderer) JSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (r *Renderer) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.st.header
			case col == 1:
				return r.st.cell.Inherit(r.st.ext)
			default:
				return r.st.cell
			}
		})
	_, err := fmt.Fprintln(r.w, t.Render())
	return err
}

func displayName(rule rules.Rule) string {
	if rule.DisplayName == nil {
		return "-"
	}
	return *rule.DisplayName
}

func fileTree(rule rules.Rule) string {
	if rule.FileTree == nil {
		return "default"
	}
	if !rule.FileTree.Show {
		return "hidden"
	}
	return string(rule.FileTree.Icon)
}
