package rules

// Raw returns the generic storage form of the rule: string-keyed maps and
// []any lists only, with absent optionals omitted.
func (r Rule) Raw() map[string]any {
	exts := make([]any, len(r.Extensions))
	for i, e := range r.Extensions {
		exts[i] = e
	}

	out := map[string]any{"extensions": exts}
	if r.DisplayName != nil {
		out["displayName"] = *r.DisplayName
	}
	if r.FileTree != nil {
		out["fileTree"] = map[string]any{
			"show": r.FileTree.Show,
			"icon": string(r.FileTree.Icon),
		}
	}
	if r.OpenWith != nil {
		ow := map[string]any{"mode": string(r.OpenWith.Mode)}
		if r.OpenWith.PluginID != "" {
			ow["pluginId"] = r.OpenWith.PluginID
		}
		if r.OpenWith.Method != "" {
			ow["method"] = r.OpenWith.Method
		}
		out["openWith"] = ow
	}
	return out
}

// Raw returns the generic storage form of the rule set.
func (rs RuleSet) Raw() []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = r.Raw()
	}
	return out
}
