// Package rules holds the canonical suffix rule model and the sanitizer that
// turns untyped stored or user-entered data into it.
//
// A Rule maps a set of normalized file extensions to how matching files are
// shown in the host file tree and how they are opened:
//
//	{
//	  "extensions": ["png", "jpg"],
//	  "displayName": "Images",
//	  "fileTree": {"show": true, "icon": "file"},
//	  "openWith": {"mode": "plugin", "pluginId": "image-viewer", "method": "open"}
//	}
//
// # Sanitizing
//
// Sanitize is the only way untyped data becomes a Rule. It is lenient: the one
// hard reject is a rule whose extensions normalize to nothing. Every other field
// is repaired or omitted independently, so partially corrupt stored data
// degrades instead of losing whole rules:
//
//   - a missing extensions list falls back to the legacy "ext" or "extension"
//     scalar
//   - displayName is kept only when it is a string
//   - fileTree.show defaults to true and fileTree.icon to "file"
//   - plugin mode without a plugin id becomes markdown mode
//   - any other mode becomes markdown mode
//
// # Ordering
//
// A RuleSet is ordered. Earlier rules are registered with the host first; the
// host decides how rules claiming the same extension are resolved.
package rules
