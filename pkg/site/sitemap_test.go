package site

import (
	"encoding/xml"
	"testing"
)

func TestBuildSitemap_Document(t *testing.T) {
	c := mustParse(t, `[
		{"id":"snake_bite","updated_date":"2024-11-02"},
		{"id":"falling"}
	]`)

	got, err := BuildSitemap("https://yourdomain.com", c.Entries, "2025-03-14")
	if err != nil {
		t.Fatalf("BuildSitemap() error = %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://yourdomain.com/</loc>
    <lastmod>2025-03-14</lastmod>
    <changefreq>daily</changefreq>
    <priority>1.0</priority>
  </url>
  <url>
    <loc>https://yourdomain.com/snake_bite/</loc>
    <lastmod>2024-11-02</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
  <url>
    <loc>https://yourdomain.com/falling/</loc>
    <lastmod>2025-03-14</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.8</priority>
  </url>
</urlset>
`
	if string(got) != want {
		t.Errorf("sitemap mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildSitemap_URLCount(t *testing.T) {
	c := mustParse(t, `[{"id":"a"},{"id":"b"},{"id":"c"},{"id":"d"}]`)
	data, err := BuildSitemap("https://x.test/", c.Entries, "2025-01-01")
	if err != nil {
		t.Fatalf("BuildSitemap() error = %v", err)
	}

	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if set.XMLName.Space != SitemapNamespace {
		t.Errorf("namespace = %q", set.XMLName.Space)
	}
	if len(set.URLs) != 1+c.Len() {
		t.Fatalf("expected %d URLs, got %d", 1+c.Len(), len(set.URLs))
	}
	if set.URLs[0].Loc != "https://x.test/" {
		t.Errorf("landing loc = %s", set.URLs[0].Loc)
	}
	for i, e := range c.Entries {
		if want := "https://x.test/" + e.ID + "/"; set.URLs[i+1].Loc != want {
			t.Errorf("url %d = %s, want %s", i+1, set.URLs[i+1].Loc, want)
		}
	}
}

func TestBuildSitemap_EscapesURLs(t *testing.T) {
	c := mustParse(t, `[{"id":"a&b"}]`)
	data, err := BuildSitemap("https://x.test", c.Entries, "2025-01-01")
	if err != nil {
		t.Fatalf("BuildSitemap() error = %v", err)
	}
	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap with & in an id must stay well-formed: %v", err)
	}
	if set.URLs[1].Loc != "https://x.test/a&b/" {
		t.Errorf("loc = %s", set.URLs[1].Loc)
	}
}

func TestEntryURL(t *testing.T) {
	for _, base := range []string{"https://x.test", "https://x.test/"} {
		if got := EntryURL(base, "ghost"); got != "https://x.test/ghost/" {
			t.Errorf("EntryURL(%q) = %s", base, got)
		}
	}
}

func TestBuildSitemap_EmptyUpdatedDateUsesBuildDate(t *testing.T) {
	c := mustParse(t, `[{"id":"a","updated_date":""},{"id":"b"},{"id":"c","updated_date":"2024-12-31"}]`)
	data, err := BuildSitemap("https://x.test", c.Entries, "2025-01-01")
	if err != nil {
		t.Fatalf("BuildSitemap() error = %v", err)
	}

	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	want := []string{"2025-01-01", "2025-01-01", "2025-01-01", "2024-12-31"}
	for i, w := range want {
		if set.URLs[i].LastMod != w {
			t.Errorf("url %d lastmod = %q, want %q", i, set.URLs[i].LastMod, w)
		}
	}
}
