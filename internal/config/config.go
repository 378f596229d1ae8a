// Package config loads depscan settings from a config file, a .env file and
// DEPSCAN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix: DEPSCAN_LIBRARY_ROOT etc.
const EnvPrefix = "DEPSCAN"

// Config is the full depscan configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Library  LibraryConfig  `mapstructure:"library"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	DB       string         `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig names the application source trees.
type AppConfig struct {
	Roots []string `mapstructure:"roots"`
}

// LibraryConfig describes the external library checkout.
type LibraryConfig struct {
	Root      string `mapstructure:"root"`
	Subdir    string `mapstructure:"subdir"`
	Prefix    string `mapstructure:"prefix"`
	Bootstrap string `mapstructure:"bootstrap"`
}

// ScanConfig controls file discovery and directive matching.
type ScanConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Provide    string   `mapstructure:"provide"`
	Require    string   `mapstructure:"require"`
	Jobs       int      `mapstructure:"jobs"`
	CacheSize  int      `mapstructure:"cache_size"`
}

// ManifestConfig controls manifest rendering.
type ManifestConfig struct {
	Statement   string `mapstructure:"statement"`
	ServePrefix string `mapstructure:"serve_prefix"`
	Base        string `mapstructure:"base"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the Closure Library conventions.
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Subdir:    filepath.Join("closure", "goog"),
			Prefix:    "goog",
			Bootstrap: filepath.Join("closure", "goog", "base.js"),
		},
		Scan: ScanConfig{
			Extensions: []string{".js"},
			Provide:    "goog.provide",
			Require:    "goog.require",
			Jobs:       1,
			CacheSize:  0,
		},
		Manifest: ManifestConfig{
			Statement:   "goog.addDependency",
			ServePrefix: "../../",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configuration. When path is empty, a depscan.{toml,yaml,json}
// in the working directory is used if present; otherwise defaults apply.
// A .env file in the working directory is loaded into the environment first
// and never overrides variables that are already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("depscan")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("app.roots", d.App.Roots)
	v.SetDefault("library.root", d.Library.Root)
	v.SetDefault("library.subdir", d.Library.Subdir)
	v.SetDefault("library.prefix", d.Library.Prefix)
	v.SetDefault("library.bootstrap", d.Library.Bootstrap)
	v.SetDefault("scan.extensions", d.Scan.Extensions)
	v.SetDefault("scan.provide", d.Scan.Provide)
	v.SetDefault("scan.require", d.Scan.Require)
	v.SetDefault("scan.jobs", d.Scan.Jobs)
	v.SetDefault("scan.cache_size", d.Scan.CacheSize)
	v.SetDefault("manifest.statement", d.Manifest.Statement)
	v.SetDefault("manifest.serve_prefix", d.Manifest.ServePrefix)
	v.SetDefault("manifest.base", d.Manifest.Base)
	v.SetDefault("db", d.DB)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	if c.Scan.Provide == "" {
		return &ConfigError{Field: "scan.provide", Message: "must not be empty"}
	}
	if c.Scan.Require == "" {
		return &ConfigError{Field: "scan.require", Message: "must not be empty"}
	}
	if c.Scan.Provide == c.Scan.Require {
		return &ConfigError{Field: "scan.require", Message: "must differ from scan.provide"}
	}
	if len(c.Scan.Extensions) == 0 {
		return &ConfigError{Field: "scan.extensions", Message: "at least one extension is required"}
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{Field: "scan.extensions", Message: fmt.Sprintf("%q must start with a dot", ext)}
		}
	}
	if c.Scan.Jobs < 0 {
		return &ConfigError{Field: "scan.jobs", Message: "must not be negative"}
	}
	if c.Scan.CacheSize < 0 {
		return &ConfigError{Field: "scan.cache_size", Message: "must not be negative"}
	}
	if c.Manifest.Statement == "" {
		return &ConfigError{Field: "manifest.statement", Message: "must not be empty"}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
