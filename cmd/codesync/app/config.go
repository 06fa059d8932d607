package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/codesync/internal/config"
	"github.com/agentstation/codesync/pkg/constants"
	"github.com/agentstation/codesync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	Manifest    string
	Header      string
	Concurrency int
	DryRun      bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (CODESYNC_*, then LOG_*)
// 3. .env files
// 4. Config file (./.codesync.yaml, then ~/.codesync.yaml)
// 5. Defaults
//
// An explicitly named config file must exist.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(config.KeyManifest, constants.DefaultManifest)
	v.SetDefault(config.KeyHeader, constants.DefaultHeader)
	v.SetDefault(config.KeyConcurrency, constants.DefaultConcurrency)
	v.SetDefault(config.KeyLogFormat, getEnvOrDefault("LOG_FORMAT", "auto"))
	v.SetDefault(config.KeyLogOutput, getEnvOrDefault("LOG_OUTPUT", "stderr"))
	v.SetDefault(config.KeyLogLevel, os.Getenv("LOG_LEVEL"))

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapConfig("config", err)
		}
	}

	cfg := &Config{
		Format:     config.GetString(v, config.KeyFormat),
		ConfigFile: v.ConfigFileUsed(),

		Manifest:    config.GetStringOr(v, config.KeyManifest, constants.DefaultManifest),
		Header:      v.GetString(config.KeyHeader),
		Concurrency: config.GetIntOr(v, config.KeyConcurrency, constants.DefaultConcurrency),
		DryRun:      v.GetBool(config.KeyDryRun),

		LogLevel:  v.GetString(config.KeyLogLevel),
		LogFormat: v.GetString(config.KeyLogFormat),
		LogOutput: v.GetString(config.KeyLogOutput),
		NoColor:   os.Getenv("NO_COLOR") != "",
	}

	// A relative manifest from a config file resolves against that file.
	if cfg.ConfigFile != "" && v.InConfig(config.KeyManifest) && !filepath.IsAbs(cfg.Manifest) {
		cfg.Manifest = filepath.Join(filepath.Dir(cfg.ConfigFile), cfg.Manifest)
	}

	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is read first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
