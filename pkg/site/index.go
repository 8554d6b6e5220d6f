package site

import (
	"bytes"
	"fmt"

	"github.com/CTAG07/dreamsite/pkg/dreams"
)

// IndexVars returns the variables passed to the landing page template.
func (b *Builder) IndexVars(c *dreams.Catalog) map[string]any {
	return map[string]any{
		"dreams":      c.Vars(),
		"categories":  c.GroupByCategory(b.cfg.DefaultCategory),
		"total_count": c.Len(),
		"site_url":    b.cfg.SiteURL,
		"site_name":   b.cfg.SiteName,
	}
}

// RenderIndex writes the landing page and returns its path.
func (b *Builder) RenderIndex(c *dreams.Catalog) (string, error) {
	var buf bytes.Buffer
	if err := b.renderer.Execute(&buf, IndexTemplate, b.IndexVars(c)); err != nil {
		return "", fmt.Errorf("failed to render landing page: %w", err)
	}
	return b.writeFile(PageFile, buf.Bytes())
}
