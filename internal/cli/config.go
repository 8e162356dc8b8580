package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cfgsync/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CFGSYNC"

	cfgKeyDB       = "db"
	cfgKeyLogFile  = "log_file"
	cfgKeyLogLevel = "log_level"

	defaultLogLevel = "warn"
)

// settings holds the values read from config.yaml.
type settings struct {
	DB       string `yaml:"db,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// loadSettings reads config.yaml from configDir. A missing file yields the
// defaults. CFGSYNC_LOG_FILE and CFGSYNC_LOG_LEVEL override the file; the
// db key is resolved separately so that its env var ranks below the file.
func loadSettings(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyLogFile, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return settings{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		DB:       v.GetString(cfgKeyDB),
		LogFile:  v.GetString(cfgKeyLogFile),
		LogLevel: v.GetString(cfgKeyLogLevel),
	}, nil
}

// writeDefaultConfig creates configDir/config.yaml if it does not exist and
// reports whether it wrote one. An existing file is left alone.
func writeDefaultConfig(configDir, db string) (string, bool, error) {
	path := filepath.Join(configDir, paths.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return path, false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&settings{DB: db, LogLevel: defaultLogLevel})
	if err != nil {
		return path, false, fmt.Errorf("marshal config: %w", err)
	}
	data = append([]byte("# cfgsync configuration\n"), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}
