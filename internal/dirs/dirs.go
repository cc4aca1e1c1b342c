// Package dirs provides XDG Base Directory Specification compliant paths
// for all rehabai directories.
package dirs

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the rehabai configuration directory.
// Resolution order: XDG_CONFIG_HOME/rehabai > ~/.config/rehabai.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rehabai")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "rehabai")
	}
	return filepath.Join(home, ".config", "rehabai")
}

// StateDir returns the rehabai state directory.
// Resolution order: REHABAI_STATE_DIR > XDG_STATE_HOME/rehabai > ~/.local/state/rehabai.
func StateDir() string {
	if dir := os.Getenv("REHABAI_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "rehabai")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", "rehabai")
	}
	return filepath.Join(home, ".local", "state", "rehabai")
}

// LogsDir returns the rehabai logs directory (StateDir/logs).
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}
