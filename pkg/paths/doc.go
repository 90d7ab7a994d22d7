// Package paths resolves the asprules directories under the XDG base
// directories, honoring per-directory environment overrides.
package paths
