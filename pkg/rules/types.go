package rules

import "strings"

// Mode selects how a matched file is opened.
type Mode string

const (
	// ModeMarkdown opens the file as plain text / markdown.
	ModeMarkdown Mode = "markdown"
	// ModePlugin delegates opening to another registered plugin.
	ModePlugin Mode = "plugin"
)

// Icon is the file tree icon used for matched files.
type Icon string

const (
	IconFile Icon = "file"
	IconPDF  Icon = "pdf"
)

// FileTree controls how matched files appear in the host navigation tree.
type FileTree struct {
	Show bool `json:"show" yaml:"show" toml:"show" cbor:"show"`
	Icon Icon `json:"icon" yaml:"icon" toml:"icon" cbor:"icon"`
}

// OpenWith describes the open handler for matched files.
// PluginID is non-empty exactly when Mode is ModePlugin.
type OpenWith struct {
	Mode     Mode   `json:"mode" yaml:"mode" toml:"mode" cbor:"mode"`
	PluginID string `json:"pluginId,omitempty" yaml:"pluginId,omitempty" toml:"pluginId,omitempty" cbor:"pluginId,omitempty"`
	Method   string `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty" cbor:"method,omitempty"`
}

// Rule is a canonical suffix rule. Values produced by Sanitize always have at
// least one extension; nil optional fields mean the host default applies.
type Rule struct {
	Extensions  []string  `json:"extensions" yaml:"extensions" toml:"extensions" cbor:"extensions"`
	DisplayName *string   `json:"displayName,omitempty" yaml:"displayName,omitempty" toml:"displayName,omitempty" cbor:"displayName,omitempty"`
	FileTree    *FileTree `json:"fileTree,omitempty" yaml:"fileTree,omitempty" toml:"fileTree,omitempty" cbor:"fileTree,omitempty"`
	OpenWith    *OpenWith `json:"openWith,omitempty" yaml:"openWith,omitempty" toml:"openWith,omitempty" cbor:"openWith,omitempty"`
}

// RuleSet is an ordered list of rules in registration order.
type RuleSet []Rule

// Markdown returns the markdown open handler.
func Markdown() *OpenWith {
	return &OpenWith{Mode: ModeMarkdown}
}

// Plugin returns a plugin open handler. An empty pluginID yields markdown.
func Plugin(pluginID, method string) *OpenWith {
	pluginID = strings.TrimSpace(pluginID)
	if pluginID == "" {
		return Markdown()
	}
	return &OpenWith{Mode: ModePlugin, PluginID: pluginID, Method: strings.TrimSpace(method)}
}

// StringPtr is a small helper for building rules with a display name.
func StringPtr(s string) *string {
	return &s
}

// Matches reports whether the rule claims the given normalized extension.
func (r Rule) Matches(key string) bool {
	for _, e := range r.Extensions {
		if e == key {
			return true
		}
	}
	return false
}

// EffectiveOpenWith returns the open handler, markdown when none is set.
func (r Rule) EffectiveOpenWith() OpenWith {
	if r.OpenWith == nil {
		return OpenWith{Mode: ModeMarkdown}
	}
	return *r.OpenWith
}

// Label is the display name when set, otherwise the joined extensions.
func (r Rule) Label() string {
	if r.DisplayName != nil && *r.DisplayName != "" {
		return *r.DisplayName
	}
	return strings.Join(r.Extensions, ", ")
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := Rule{Extensions: append([]string(nil), r.Extensions...)}
	if r.DisplayName != nil {
		name := *r.DisplayName
		out.DisplayName = &name
	}
	if r.FileTree != nil {
		ft := *r.FileTree
		out.FileTree = &ft
	}
	if r.OpenWith != nil {
		ow := *r.OpenWith
		out.OpenWith = &ow
	}
	return out
}

// Clone returns a deep copy of the rule set.
func (rs RuleSet) Clone() RuleSet {
	out := make(RuleSet, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// String renders the open handler the way it is shown in listings,
// e.g. "markdown" or "plugin:image-viewer#open".
func (o OpenWith) String() string {
	if o.Mode != ModePlugin {
		return string(ModeMarkdown)
	}
	if o.Method == "" {
		return "plugin:" + o.PluginID
	}
	return "plugin:" + o.PluginID + "#" + o.Method
}
