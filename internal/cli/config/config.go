// Package config loads the terminal client settings from .babywords.yaml and
// BABYWORDS_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultAPIBase    = "http://localhost:8080"
	DefaultCacheDir   = "~/.babywords"
	DefaultSavedFlash = 2 * time.Second
)

// Config holds client settings
type Config struct {
	APIBase    string
	CacheDir   string
	SavedFlash time.Duration
}

// Load reads the config file, if any, then the environment. The file is
// looked up in $BABYWORDS_CONFIG_PATH, the working directory and the home
// directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("api_base", DefaultAPIBase)
	v.SetDefault("cache_dir", DefaultCacheDir)
	v.SetDefault("saved_flash", DefaultSavedFlash.String())
	v.SetConfigName(".babywords") // .yaml is implicit
	v.SetEnvPrefix("BABYWORDS")
	v.AutomaticEnv()

	if override := os.Getenv("BABYWORDS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cacheDir, err := homedir.Expand(v.GetString("cache_dir"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache_dir: %w", err)
	}

	flash, err := time.ParseDuration(v.GetString("saved_flash"))
	if err != nil || flash <= 0 {
		flash = DefaultSavedFlash
	}

	return &Config{
		APIBase:    v.GetString("api_base"),
		CacheDir:   cacheDir,
		SavedFlash: flash,
	}, nil
}
