package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load must not create the config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "오늘의 꿈풀이", cfg.Site.Name)
	assert.Equal(t, "https://yourdomain.com", cfg.Site.URL)
	assert.Equal(t, "data/dreams.json", cfg.Site.DataPath)
	assert.Equal(t, "templates", cfg.Site.TemplateDir)
	assert.Equal(t, "output", cfg.Site.OutputDir)
	assert.Equal(t, "기타", cfg.Site.DefaultCategory)
	assert.Equal(t, []string{"go", "run", "./cmd/build"}, cfg.Deploy.BuildCommand)
	assert.Equal(t, "origin", cfg.Deploy.Remote)
	assert.Equal(t, "main", cfg.Deploy.Branch)
	assert.Equal(t, ".dreamsite/journal.db", cfg.JournalPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
site:
  url: https://dreams.example.com/
  output_dir: public
deploy:
  branch: gh-pages
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://dreams.example.com/", cfg.Site.URL)
	assert.Equal(t, "public", cfg.Site.OutputDir)
	assert.Equal(t, "gh-pages", cfg.Deploy.Branch)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched settings keep their defaults.
	assert.Equal(t, "오늘의 꿈풀이", cfg.Site.Name)
	assert.Equal(t, "data/dreams.json", cfg.Site.DataPath)
	assert.Equal(t, "origin", cfg.Deploy.Remote)
	assert.Equal(t, []string{"go", "run", "./cmd/build"}, cfg.Deploy.BuildCommand)
	assert.Equal(t, ".dreamsite/journal.db", cfg.JournalPath)
}

func TestLoad_BuildCommand(t *testing.T) {
	path := writeConfig(t, `
deploy:
  build_command: ["./bin/build", "--quiet"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./bin/build", "--quiet"}, cfg.Deploy.BuildCommand)
}

func TestLoad_EmptyJournalPathDisablesJournal(t *testing.T) {
	path := writeConfig(t, `journal_path: ""`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.JournalPath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "site:\n  colour: blue\n"},
		{"malformed", "site: [unterminated\n"},
		{"wrong type", "site:\n  name: [a, b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestSiteBuild(t *testing.T) {
	cfg := Default()
	sc := cfg.SiteBuild()
	assert.Equal(t, cfg.Site.URL, sc.SiteURL)
	assert.Equal(t, cfg.Site.Name, sc.SiteName)
	assert.Equal(t, cfg.Site.OutputDir, sc.OutputDir)
	assert.Equal(t, cfg.Site.DefaultCategory, sc.DefaultCategory)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "path", "output/index.html")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "path=output/index.html")
}
