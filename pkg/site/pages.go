package site

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/CTAG07/dreamsite/pkg/dreams"
)

// PagePath returns the path of an entry's page relative to the output
// directory. It depends on the id only.
func PagePath(id string) string {
	return filepath.Join(id, PageFile)
}

// DetailVars returns the variables passed to the detail template: every field
// of the entry plus site_url, site_name and tags_str.
func (b *Builder) DetailVars(e *dreams.Entry) map[string]any {
	src := e.Vars()
	vars := make(map[string]any, len(src)+3)
	for k, v := range src {
		vars[k] = v
	}
	vars["site_url"] = b.cfg.SiteURL
	vars["site_name"] = b.cfg.SiteName
	vars["tags_str"] = e.TagsString()
	return vars
}

// RenderPages writes one page per entry and returns the written paths. On
// error the paths written so far are returned with it.
func (b *Builder) RenderPages(entries []*dreams.Entry) ([]string, error) {
	paths := make([]string, 0, len(entries))
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Reset()
		if err := b.renderer.Execute(&buf, DetailTemplate, b.DetailVars(e)); err != nil {
			return paths, fmt.Errorf("failed to render page for %q: %w", e.ID, err)
		}
		path, err := b.writeFile(PagePath(e.ID), buf.Bytes())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
