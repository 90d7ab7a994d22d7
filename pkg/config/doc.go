// Package config loads asprules settings with koanf.
//
// Layers, lowest precedence first:
//
//  1. embedded/defaults.toml
//  2. the user config file: --config, or config.toml / config.yaml under
//     $XDG_CONFIG_HOME/asprules
//  3. ASPRULES_* environment variables (ASPRULES_STORAGE_BACKEND maps to
//     storage.backend, ASPRULES_NOTICE_OK_MS to notice.ok_ms)
//  4. explicit overrides, normally the command line flags that were set
package config
