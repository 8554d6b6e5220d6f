package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/CTAG07/dreamsite/pkg/dreams"
)

// SitemapNamespace is the sitemaps.org schema namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// EntryURL returns the public clean URL of an entry.
func EntryURL(siteURL, id string) string {
	return strings.TrimSuffix(siteURL, "/") + "/" + id + "/"
}

// BuildSitemap returns the sitemap document: the landing page first, then one
// URL per entry in order. Entries without an updated_date use buildDate.
func BuildSitemap(siteURL string, entries []*dreams.Entry, buildDate string) ([]byte, error) {
	set := urlSet{
		Xmlns: SitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(entries)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        strings.TrimSuffix(siteURL, "/") + "/",
		LastMod:    buildDate,
		ChangeFreq: "daily",
		Priority:   "1.0",
	})
	for _, e := range entries {
		lastMod := e.UpdatedDate
		if lastMod == "" {
			lastMod = buildDate
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        EntryURL(siteURL, e.ID),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteSitemap writes sitemap.xml into the output directory and returns its path.
func (b *Builder) WriteSitemap(entries []*dreams.Entry, buildDate string) (string, error) {
	data, err := BuildSitemap(b.cfg.SiteURL, entries, buildDate)
	if err != nil {
		return "", err
	}
	return b.writeFile(SitemapFile, data)
}
