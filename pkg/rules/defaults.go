package rules

// DefaultExtension is the extension claimed by the built-in rule.
const DefaultExtension = "zhixu"

// Default returns the built-in rule set used whenever no valid rules are
// stored. Each call returns a fresh copy.
func Default() RuleSet {
	return RuleSet{
		{
			Extensions:  []string{DefaultExtension},
			DisplayName: StringPtr("知序绘图"),
			FileTree:    &FileTree{Show: true, Icon: IconFile},
			OpenWith:    &OpenWith{Mode: ModePlugin, PluginID: "zhixu-draw", Method: "open"},
		},
	}
}
