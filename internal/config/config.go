package config

import (
	"github.com/spf13/viper"
)

// Config holds tool-level generator settings. Project-level settings
// (source/class/output directories) live in the per-project manifest.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	// Javah is the binary invoked to derive JNI headers from compiled
	// classes. It must be on the PATH unless given as an absolute path.
	Javah string `mapstructure:"javah"`
	// JniHeadersDir optionally points at the platform JNI headers to copy
	// into <jni_dir>/jni-headers alongside the generated files.
	JniHeadersDir string `mapstructure:"jni_headers_dir"`
	// WatchDebounceMillis batches rapid file changes in watch mode.
	WatchDebounceMillis int `mapstructure:"watch_debounce_millis"`
}

// Load reads the tool configuration, applying defaults for anything the file
// does not set. An empty path yields pure defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("javah", "javah")
	v.SetDefault("jni_headers_dir", "")
	v.SetDefault("watch_debounce_millis", 500)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
