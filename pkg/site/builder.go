package site

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/CTAG07/dreamsite/pkg/dreams"
	"github.com/google/uuid"
)

const (
	// DetailTemplate renders one entry page.
	DetailTemplate = "dream_detail.html"
	// IndexTemplate renders the landing page.
	IndexTemplate = "index.html"

	// PageFile is the file written inside every page directory.
	PageFile = "index.html"
	// SitemapFile is written at the root of the output directory.
	SitemapFile = "sitemap.xml"

	dateLayout = "2006-01-02"
)

// Renderer executes a named template. *templating.TemplateManager implements it.
type Renderer interface {
	Execute(w io.Writer, name string, data any) error
}

// Config holds the site-wide values of a build.
type Config struct {
	SiteURL         string
	SiteName        string
	OutputDir       string
	DefaultCategory string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for the build date and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// Builder renders a catalog into the output directory.
type Builder struct {
	cfg      Config
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewBuilder creates a Builder. The site URL is stored without a trailing slash.
func NewBuilder(cfg Config, renderer Renderer, logger *slog.Logger, opts ...Option) *Builder {
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = dreams.DefaultCategory
	}
	b := &Builder{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Report describes a finished build.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	BuildDate  string
	EntryCount int
	// Files lists every written file in write order: landing page, entry pages, sitemap.
	Files []string
}

// Summary returns a multi-line listing of the written files.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "build complete: %d files written\n", len(r.Files))
	for _, f := range r.Files {
		sb.WriteString("  ")
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Build clears the output directory and writes the landing page, every entry
// page and the sitemap, in that order. The first error aborts the build and is
// returned together with the partial report.
func (b *Builder) Build(c *dreams.Catalog) (*Report, error) {
	start := b.now()
	report := &Report{
		RunID:      uuid.NewString(),
		StartedAt:  start,
		BuildDate:  start.Format(dateLayout),
		EntryCount: c.Len(),
	}

	b.logger.Info("Clearing output directory", "dir", b.cfg.OutputDir)
	if err := b.cleanOutput(); err != nil {
		return report, err
	}

	b.logger.Info("Rendering pages", "entries", c.Len())
	path, err := b.RenderIndex(c)
	if err != nil {
		return report, err
	}
	report.Files = append(report.Files, path)

	paths, err := b.RenderPages(c.Entries)
	report.Files = append(report.Files, paths...)
	if err != nil {
		return report, err
	}

	b.logger.Info("Writing sitemap")
	path, err = b.WriteSitemap(c.Entries, report.BuildDate)
	if err != nil {
		return report, err
	}
	report.Files = append(report.Files, path)

	report.FinishedAt = b.now()
	return report, nil
}
