package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for asprules
	EnvDataDir = "ASPRULES_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for asprules
	EnvConfigDir = "ASPRULES_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for asprules
	EnvStateDir = "ASPRULES_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "asprules"

	// LogFileName is the name of the log file
	LogFileName = "asprules.log"
)

// DataDir holds the file backend rules when storage.dir is not set.
func DataDir() string {
	return dir(EnvDataDir, xdg.DataHome)
}

// ConfigDir holds the user config file.
func ConfigDir() string {
	return dir(EnvConfigDir, xdg.ConfigHome)
}

// StateDir holds the log file.
func StateDir() string {
	return dir(EnvStateDir, xdg.StateHome)
}

// LogFilePath returns the path to the asprules log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

func dir(env, base string) string {
	if override := os.Getenv(env); override != "" {
		return ExpandHome(override)
	}
	return filepath.Join(base, AppDirName)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv(EnvHome)
	}
	if home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
