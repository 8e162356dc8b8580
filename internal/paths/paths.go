// Package paths resolves the cfgsync configuration directory and the store
// file location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Names used under the configuration directory and the working directory.
const (
	AppName           = "cfgsync"
	ConfigFileName    = "config.yaml"
	DefaultDBFileName = "db.sqlite"
)

// Environment variable names for overrides.
const (
	EnvConfigDir = "CFGSYNC_CONFIG_DIR"
	EnvDB        = "CFGSYNC_DB"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/cfgsync (fallback ~/.config/cfgsync)
// macOS:   ~/Library/Application Support/cfgsync
// Windows: %APPDATA%/cfgsync
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > CFGSYNC_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDBPath returns the store file:
// flag > config.yaml db > CFGSYNC_DB > ./db.sqlite.
func ResolveDBPath(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDB)} {
		if candidate != "" {
			return filepath.Abs(expandHome(candidate))
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDBFileName), nil
}

// expandHome replaces a leading "~/" with the user's home directory. Paths
// in config.yaml are not shell-expanded.
func expandHome(p string) string {
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func hasHomePrefix(p string) bool {
	return len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)
}
