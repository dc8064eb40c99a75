package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds runtime settings for the dashboard.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"        validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
	DataDir        string        `mapstructure:"data_dir"`
	Log            Log           `mapstructure:"log"`

	// Resources overrides per-kind behavior, keyed by kind name
	// (client, material, project, deliverynote).
	Resources map[string]Resource `mapstructure:"resources" validate:"dive"`
}

type Log struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Resource overrides per-kind behavior: whether a create appends the response
// locally or refetches the collection, and whether the listed collection is
// filtered by the current user id.
type Resource struct {
	CreatePolicy string `mapstructure:"create_policy" validate:"omitempty,oneof=refetch append"`
	FilterByUser bool   `mapstructure:"filter_by_user"`
}

// Load builds the configuration: defaults, then an optional config file,
// then BILDY_* environment variables. cfgFile overrides the default search
// path when non-empty.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("BILDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("base_url", "https://bildy-rpmaya.koyeb.app")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("resources.material.filter_by_user", true)
	v.SetDefault("resources.material.create_policy", "refetch")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file on the default search path is fine.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bildy")
}
