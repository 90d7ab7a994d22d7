// Package editor is the headless side of the rule settings form. Rows carry
// raw form input; Build turns them into a rule set with the validation a user
// expects on save, and Session persists and applies the result.
package editor

import (
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/ext"
	"github.com/arthur-debert/asprules/pkg/rules"
)

// Row is one line of the settings form, holding unvalidated input.
type Row struct {
	Extensions  string `json:"extensions"`
	DisplayName string `json:"displayName"`
	Show        bool   `json:"show"`
	Icon        string `json:"icon"`
	Mode        string `json:"mode"`
	PluginID    string `json:"pluginId"`
	Method      string `json:"method"`
}

// Validation errors returned by Build. Compare with errors.Is.
var (
	ErrPluginIDRequired = errors.New(errors.ErrPluginIDRequired, "plugin mode requires a plugin id")
	ErrNoRules          = errors.New(errors.ErrRulesEmpty, "no rules configured")
	ErrNoValidRules     = errors.New(errors.ErrInvalidInput, "no valid rules parsed")
)

// RowFromRule fills a form row from a rule.
func RowFromRule(r rules.Rule) Row {
	row := Row{
		Extensions: strings.Join(r.Extensions, ", "),
		Show:       r.FileTree == nil || r.FileTree.Show,
		Icon:       string(rules.IconFile),
		Mode:       string(rules.ModeMarkdown),
	}
	if r.DisplayName != nil {
		row.DisplayName = *r.DisplayName
	}
	if r.FileTree != nil && r.FileTree.Icon == rules.IconPDF {
		row.Icon = string(rules.IconPDF)
	}
	if r.OpenWith != nil && r.OpenWith.Mode == rules.ModePlugin {
		row.Mode = string(rules.ModePlugin)
		row.PluginID = r.OpenWith.PluginID
		row.Method = r.OpenWith.Method
	}
	return row
}

// RowsFromRules fills the form from a rule set.
func RowsFromRules(rs rules.RuleSet) []Row {
	rows := make([]Row, len(rs))
	for i, r := range rs {
		rows[i] = RowFromRule(r)
	}
	return rows
}

// DefaultRows is the form content shown after "restore defaults".
func DefaultRows() []Row {
	return RowsFromRules(rules.Default())
}

// BlankRow is the row appended by "add rule".
func BlankRow() Row {
	return Row{
		Show: true,
		Icon: string(rules.IconFile),
		Mode: string(rules.ModeMarkdown),
	}
}

// Build validates the form and returns the rule set to persist.
//
// Rows without a usable extension are skipped. A plugin row without a plugin
// id aborts the whole build. The result always passes through the sanitizer.
func Build(rows []Row) (rules.RuleSet, error) {
	built := make(rules.RuleSet, 0, len(rows))
	for _, row := range rows {
		exts := ext.Split(row.Extensions)
		if len(exts) == 0 {
			continue
		}

		r := rules.Rule{
			Extensions: exts,
			FileTree:   &rules.FileTree{Show: row.Show, Icon: rules.IconFile},
			OpenWith:   rules.Markdown(),
		}
		if name := strings.TrimSpace(row.DisplayName); name != "" {
			r.DisplayName = &name
		}
		if row.Icon == string(rules.IconPDF) {
			r.FileTree.Icon = rules.IconPDF
		}
		if row.Mode == string(rules.ModePlugin) {
			pluginID := strings.TrimSpace(row.PluginID)
			if pluginID == "" {
				return nil, errors.Newf(errors.ErrPluginIDRequired,
					"extensions %s use plugin mode but no plugin id is set", strings.Join(exts, ", ")).
					WithDetail("extensions", exts)
			}
			r.OpenWith = rules.Plugin(pluginID, row.Method)
		}
		built = append(built, r)
	}

	if len(built) == 0 {
		return nil, ErrNoRules
	}

	clean := rules.Resanitize(built)
	if len(clean) == 0 {
		return nil, ErrNoValidRules
	}
	return clean, nil
}
