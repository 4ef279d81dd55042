// Package config layers defaults, an optional converter.yaml and CONVERTER_*
// environment variables into one Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CONVERTER_SERVER_PORT.
const EnvPrefix = "CONVERTER"

type Server struct {
	Port        int `mapstructure:"port"`
	MaxUploadMB int `mapstructure:"max_upload_mb"`
}

type PDF struct {
	Margin float64 `mapstructure:"margin"`
}

type History struct {
	Capacity int `mapstructure:"capacity"`
}

type Session struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config is the resolved runtime configuration. Credentials are not part of
// it; providers read those from the process environment.
type Config struct {
	Server      Server  `mapstructure:"server"`
	PDF         PDF     `mapstructure:"pdf"`
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	Language    string  `mapstructure:"language"`
	History     History `mapstructure:"history"`
	Session     Session `mapstructure:"session"`
}

// MaxUploadBytes is the request body cap derived from Server.MaxUploadMB.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// SetDefaults registers every key so AutomaticEnv can override nested values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8888)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("pdf.margin", 15.0)
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("temperature", 0.2)
	v.SetDefault("language", "en")
	v.SetDefault("history.capacity", 500)
	v.SetDefault("session.ttl", 2*time.Hour)
}

// New returns a viper instance wired for defaults and CONVERTER_ env overrides.
// If cfgFile is empty, converter.yaml is looked up in the working directory and
// ~/.config/converter; a missing file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("converter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "converter"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config and checks the values that would otherwise
// fail much later.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	case c.Server.MaxUploadMB <= 0:
		return fmt.Errorf("invalid server.max_upload_mb %d", c.Server.MaxUploadMB)
	case c.PDF.Margin < 0:
		return fmt.Errorf("invalid pdf.margin %g", c.PDF.Margin)
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("invalid temperature %g", c.Temperature)
	}
	switch c.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown provider %q (supported: gemini, openai, ollama)", c.Provider)
	}
	return nil
}
