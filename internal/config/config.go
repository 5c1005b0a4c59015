package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds marquee's runtime settings.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	ImageBaseURL   string        `mapstructure:"image_base_url"`
	PlaceholderURL string        `mapstructure:"placeholder_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	Log            LogConfig     `mapstructure:"log"`

	// Path is the config file that was consulted, whether or not it existed.
	Path string `mapstructure:"-"`
}

// LogConfig controls the rotated log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

const (
	defaultConfigPath     = "~/.config/marquee/config.toml"
	defaultAPIURL         = "http://localhost:3000/api/movies"
	defaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultPlaceholderURL = "https://via.placeholder.com/500x750?text=No+Poster"
	defaultRequestTimeout = 10 * time.Second
	defaultRateLimit      = 8.0
	defaultLogFile        = "~/.local/share/marquee/marquee.log"
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 14

	envPrefix = "MARQUEE"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":   "api_url",
	"log-file":  "log.file",
	"log-level": "log.level",
	"timeout":   "request_timeout",
}

// RegisterFlags adds the flags that Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-url", "", "movie API base URL")
	fs.String("log-file", "", "log file path")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Duration("timeout", 0, "per-request timeout")
}

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		ImageBaseURL:   defaultImageBaseURL,
		PlaceholderURL: defaultPlaceholderURL,
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      defaultRateLimit,
		Log: LogConfig{
			File:       mustExpand(defaultLogFile),
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Path: mustExpand(defaultConfigPath),
	}
}

// Load reads the TOML config at path (or the default location), applies
// MARQUEE_* environment overrides and any changed flags in fs, and falls
// back to defaults for missing or blank values. A missing file is not an
// error. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Path = resolved
	cfg.normalize()
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is ignored.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("image_base_url", defaultImageBaseURL)
	v.SetDefault("placeholder_url", defaultPlaceholderURL)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("rate_limit", defaultRateLimit)
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.max_size_mb", defaultLogMaxSizeMB)
	v.SetDefault("log.max_backups", defaultLogMaxBackups)
	v.SetDefault("log.max_age_days", defaultLogMaxAgeDays)
}

func (c *Config) normalize() {
	c.APIURL = orDefault(c.APIURL, defaultAPIURL)
	c.ImageBaseURL = orDefault(c.ImageBaseURL, defaultImageBaseURL)
	c.PlaceholderURL = orDefault(c.PlaceholderURL, defaultPlaceholderURL)
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}

	c.Log.File = mustExpand(orDefault(c.Log.File, defaultLogFile))
	c.Log.Level = strings.ToLower(orDefault(c.Log.Level, defaultLogLevel))
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = defaultLogMaxBackups
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = defaultLogMaxAgeDays
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
