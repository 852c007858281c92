package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "tilde alone", path: "~", want: "/home/u"},
		{name: "tilde prefix", path: "~/finny/config.yml", want: "/home/u/finny/config.yml"},
		{name: "absolute", path: "/etc/finny.yml", want: "/etc/finny.yml"},
		{name: "relative", path: "config.yml", want: "config.yml"},
		{name: "tilde user form untouched", path: "~other/x", want: "~other/x"},
		{name: "empty", path: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.path, "/home/u"))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Library", "Messages", "chat.db"), p.GetChatDBPath())
	assert.Equal(t, "config.yml", p.GetConfigPath())
	assert.Empty(t, p.GetMessagesFile())
	assert.Empty(t, p.GetMetricsFile())
}

func TestNewExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := New(Config{
		ChatDBPath:  "/data/chat.db",
		ConfigPath:  "~/finny.yml",
		MetricsFile: "~/metrics/finny.prom",
	})
	require.NoError(t, err)

	assert.Equal(t, "/data/chat.db", p.GetChatDBPath())
	assert.Equal(t, filepath.Join(home, "finny.yml"), p.GetConfigPath())
	assert.Equal(t, filepath.Join(home, "metrics", "finny.prom"), p.GetMetricsFile())
}

func TestEnsureParentDirAndFileExists(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Config{ChatDBPath: "/x", ConfigPath: "/y"})
	require.NoError(t, err)

	file := filepath.Join(dir, "a", "b", "out.prom")
	assert.False(t, p.FileExists(file))

	require.NoError(t, p.EnsureParentDir(file))
	assert.DirExists(t, filepath.Dir(file))
	assert.False(t, p.FileExists(filepath.Dir(file)))

	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.True(t, p.FileExists(file))
}
