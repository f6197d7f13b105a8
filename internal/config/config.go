// Package config loads the editor-core settings: retention thresholds,
// layout tolerance, and logging. Values come from a config file when
// one exists, overridden by WIREBENCH_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the retention policy and the autosave writer.
const (
	DefaultChangeThreshold = 12
	DefaultAgeThreshold    = time.Hour
	DefaultTolerance       = 200.0
	DefaultBackupDirName   = "backup"
	DefaultAutosaveEvery   = 5 * time.Minute
)

// Config holds every tunable of the core.
type Config struct {
	ChangeThreshold int           `mapstructure:"change_threshold"`
	AgeThreshold    time.Duration `mapstructure:"age_threshold"`
	Tolerance       float64       `mapstructure:"tolerance"`
	BackupDirName   string        `mapstructure:"backup_dir"`
	AutosaveEvery   time.Duration `mapstructure:"autosave_every"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// Load reads wirebench.yaml from the project directory (when given) or
// the user config directory, then applies environment overrides. A
// missing config file is not an error; defaults apply.
func Load(projectDir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("change_threshold", DefaultChangeThreshold)
	v.SetDefault("age_threshold", DefaultAgeThreshold)
	v.SetDefault("tolerance", DefaultTolerance)
	v.SetDefault("backup_dir", DefaultBackupDirName)
	v.SetDefault("autosave_every", DefaultAutosaveEvery)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")

	v.SetConfigName("wirebench")
	v.SetConfigType("yaml")
	if projectDir != "" {
		v.AddConfigPath(projectDir)
	}
	v.AddConfigPath("$XDG_CONFIG_HOME/wirebench")
	v.AddConfigPath("$HOME/.config/wirebench")

	v.SetEnvPrefix("WIREBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
