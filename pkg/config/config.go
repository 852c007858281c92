// Package config provides configuration management for finny.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Messages MessagesConfig
	Report   ReportConfig
	Paths    PathsConfig
	Workers  int
	Debug    bool
}

// MessagesConfig selects which messages are read.
type MessagesConfig struct {
	Contacts       []string
	ExcludeSources []string
}

// ReportConfig controls currency and time handling.
type ReportConfig struct {
	Currency string
	Timezone string
}

// PathsConfig holds file locations before resolution by pathutil.
type PathsConfig struct {
	MatcherConfig string
	ChatDB        string
	MessagesFile  string
	MetricsFile   string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	workers, err := parseIntEnv("FINNY_WORKERS", runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, fmt.Errorf("invalid FINNY_WORKERS: %w", err)
	}
	if workers < 1 {
		return nil, fmt.Errorf("invalid FINNY_WORKERS: must be at least 1, got %d", workers)
	}

	config := &Config{
		Messages: MessagesConfig{
			Contacts:       splitList(getEnvOrDefault("FINNY_CONTACTS", "8012,9355")),
			ExcludeSources: splitList(getEnvOrDefault("FINNY_EXCLUDE_SOURCES", "JS Credit Card Bill Pay From IB")),
		},
		Report: ReportConfig{
			Currency: getEnvOrDefault("FINNY_CURRENCY", "PKR"),
			Timezone: getEnvOrDefault("FINNY_TIMEZONE", "Local"),
		},
		Paths: PathsConfig{
			MatcherConfig: getEnvOrDefault("FINNY_CONFIG", "./config.yml"),
			ChatDB:        os.Getenv("FINNY_CHAT_DB"),
			MessagesFile:  os.Getenv("FINNY_MESSAGES_FILE"),
			MetricsFile:   os.Getenv("FINNY_METRICS_FILE"),
		},
		Workers: workers,
		Debug:   os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var set bool
		switch path[0] {
		case "messages":
			switch path[1] {
			case "contacts":
				set = len(c.Messages.Contacts) > 0
			case "excludeSources":
				set = len(c.Messages.ExcludeSources) > 0
			}
		case "report":
			switch path[1] {
			case "currency":
				set = c.Report.Currency != ""
			case "timezone":
				set = c.Report.Timezone != ""
			}
		case "paths":
			switch path[1] {
			case "matcherConfig":
				set = c.Paths.MatcherConfig != ""
			case "chatDb":
				set = c.Paths.ChatDB != ""
			case "messagesFile":
				set = c.Paths.MessagesFile != ""
			case "metricsFile":
				set = c.Paths.MetricsFile != ""
			}
		}

		if !set {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
