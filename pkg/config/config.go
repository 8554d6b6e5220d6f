package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/dreamsite/pkg/deploy"
	"github.com/CTAG07/dreamsite/pkg/dreams"
	"github.com/CTAG07/dreamsite/pkg/site"
	"github.com/CTAG07/dreamsite/pkg/templating"
	"github.com/goccy/go-yaml"
)

// DefaultPath is the overlay file looked up in the working directory.
const DefaultPath = "dreamsite.yaml"

// SiteConfig holds the paths and constants of a build.
type SiteConfig struct {
	Name            string `yaml:"name"`
	URL             string `yaml:"url"`
	DataPath        string `yaml:"data_path"`
	TemplateDir     string `yaml:"template_dir"`
	OutputDir       string `yaml:"output_dir"`
	DefaultCategory string `yaml:"default_category"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Site      SiteConfig                `yaml:"site"`
	Templates templating.TemplateConfig `yaml:"templates"`
	Deploy    deploy.Config             `yaml:"deploy"`
	LogLevel  string                    `yaml:"log_level"`
	// JournalPath is the SQLite run history. Empty disables it.
	JournalPath string `yaml:"journal_path"`
}

// DefaultSiteConfig creates a site configuration with default values.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Name:            "오늘의 꿈풀이",
		URL:             "https://yourdomain.com",
		DataPath:        "data/dreams.json",
		TemplateDir:     "templates",
		OutputDir:       "output",
		DefaultCategory: dreams.DefaultCategory,
	}
}

// Default returns the compiled-in configuration. It is what both commands use
// when no overlay file exists.
func Default() *Config {
	return &Config{
		Site:        DefaultSiteConfig(),
		Templates:   templating.DefaultConfig(),
		Deploy:      deploy.DefaultConfig(),
		LogLevel:    "info",
		JournalPath: ".dreamsite/journal.db",
	}
}

// Load reads the YAML overlay at path on top of the defaults.
// A missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.UnmarshalWithOptions(file, config, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.fillDefaults()

	return config, nil
}

// fillDefaults restores defaults for settings the overlay blanked out.
// JournalPath is left alone since an empty value disables the journal.
func (c *Config) fillDefaults() {
	def := Default()
	setIfEmpty(&c.Site.Name, def.Site.Name)
	setIfEmpty(&c.Site.URL, def.Site.URL)
	setIfEmpty(&c.Site.DataPath, def.Site.DataPath)
	setIfEmpty(&c.Site.TemplateDir, def.Site.TemplateDir)
	setIfEmpty(&c.Site.OutputDir, def.Site.OutputDir)
	setIfEmpty(&c.Site.DefaultCategory, def.Site.DefaultCategory)
	setIfEmpty(&c.Templates.MissingKey, def.Templates.MissingKey)
	setIfEmpty(&c.Deploy.Remote, def.Deploy.Remote)
	setIfEmpty(&c.Deploy.Branch, def.Deploy.Branch)
	setIfEmpty(&c.Deploy.CommitPrefix, def.Deploy.CommitPrefix)
	setIfEmpty(&c.LogLevel, def.LogLevel)
	if len(c.Deploy.BuildCommand) == 0 {
		c.Deploy.BuildCommand = def.Deploy.BuildCommand
	}
}

func setIfEmpty(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// SiteBuild converts the site settings into a site.Config.
func (c *Config) SiteBuild() site.Config {
	return site.Config{
		SiteURL:         c.Site.URL,
		SiteName:        c.Site.Name,
		OutputDir:       c.Site.OutputDir,
		DefaultCategory: c.Site.DefaultCategory,
	}
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text logger writing to w at the named level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
