// Package config holds the viper lookups shared by the CLI.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the upper-case form with a
// CODESYNC_ prefix, e.g. CODESYNC_DRY_RUN.
const (
	KeyManifest    = "manifest"
	KeyHeader      = "header"
	KeyConcurrency = "concurrency"
	KeyDryRun      = "dry_run"
	KeyFormat      = "format"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyLogOutput   = "log_output"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "CODESYNC"

// Keys lists every configuration key.
var Keys = []string{
	KeyManifest, KeyHeader, KeyConcurrency, KeyDryRun,
	KeyFormat, KeyLogLevel, KeyLogFormat, KeyLogOutput,
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(v *viper.Viper, key string) string {
	osValue := os.Getenv(key)
	viperValue := v.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetStringOr returns the string value of key, or def when it is unset.
func GetStringOr(v *viper.Viper, key, def string) string {
	if s := GetString(v, key); s != "" {
		return s
	}
	return def
}

// GetIntOr returns the integer value of key, or def when it is unset or not
// positive.
func GetIntOr(v *viper.Viper, key string, def int) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	return def
}
