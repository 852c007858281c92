// Package pathutil resolves the files finny reads and writes.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultChatDB is the Messages database, relative to the home directory.
const DefaultChatDB = "Library/Messages/chat.db"

// PathResolver holds the resolved locations of the message database, the
// matcher configuration and the optional metrics file.
type PathResolver struct {
	chatDBPath   string
	configPath   string
	messagesFile string
	metricsFile  string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// ChatDBPath is the Messages database (e.g., ~/Library/Messages/chat.db)
	ChatDBPath string
	// ConfigPath is the matcher YAML file
	ConfigPath string
	// MessagesFile is a YAML message dump used instead of the database
	MessagesFile string
	// MetricsFile is where Prometheus metrics are written, if set
	MetricsFile string
}

// New creates a new PathResolver. A leading "~" is expanded in every path.
// If ChatDBPath is empty, it defaults to ~/Library/Messages/chat.db.
// If ConfigPath is empty, it defaults to ./config.yml.
func New(config Config) (*PathResolver, error) {
	home, err := os.UserHomeDir()
	if err != nil && (config.ChatDBPath == "" || hasTilde(config)) {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	chatDB := config.ChatDBPath
	if chatDB == "" {
		chatDB = filepath.Join(home, DefaultChatDB)
	}

	configPath := config.ConfigPath
	if configPath == "" {
		configPath = "config.yml"
	}

	return &PathResolver{
		chatDBPath:   Expand(chatDB, home),
		configPath:   Expand(configPath, home),
		messagesFile: Expand(config.MessagesFile, home),
		metricsFile:  Expand(config.MetricsFile, home),
	}, nil
}

func hasTilde(c Config) bool {
	for _, p := range []string{c.ChatDBPath, c.ConfigPath, c.MessagesFile, c.MetricsFile} {
		if p == "~" || strings.HasPrefix(p, "~/") {
			return true
		}
	}
	return false
}

// Expand replaces a leading "~" with home.
func Expand(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// GetChatDBPath returns the Messages database path.
func (p *PathResolver) GetChatDBPath() string {
	return p.chatDBPath
}

// GetConfigPath returns the matcher configuration path.
func (p *PathResolver) GetConfigPath() string {
	return p.configPath
}

// GetMessagesFile returns the message dump path, or "" when the database is used.
func (p *PathResolver) GetMessagesFile() string {
	return p.messagesFile
}

// GetMetricsFile returns the metrics file path, or "" when metrics are not written.
func (p *PathResolver) GetMetricsFile() string {
	return p.metricsFile
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}
