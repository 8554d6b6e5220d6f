package dreams

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// ErrInvalidEntry is wrapped by every error caused by a malformed record.
var ErrInvalidEntry = errors.New("invalid dream entry")

// Catalog is the loaded collection: the entries in file order and an id index.
type Catalog struct {
	Entries []*Entry
	byID    map[string]*Entry
}

// Load reads and resolves the collection stored at path. Any failure is fatal
// for the caller; nothing is returned alongside an error.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dream data: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a JSON array of dream records and resolves related entries.
func Parse(data []byte) (*Catalog, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dream data: %w", err)
	}
	records, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("dream data must be a JSON array, got %T", root)
	}

	c := &Catalog{
		Entries: make([]*Entry, 0, len(records)),
		byID:    make(map[string]*Entry, len(records)),
	}

	// First pass: decode and index. A duplicate id replaces the earlier entry
	// in the index while both stay in Entries.
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T, not an object", ErrInvalidEntry, i, rec)
		}
		e, err := decodeEntry(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidEntry, i, err)
		}
		c.Entries = append(c.Entries, e)
		c.byID[e.ID] = e
	}

	// Second pass: resolve related ids, skipping unknown ones.
	for _, e := range c.Entries {
		related := make([]*Entry, 0, len(e.RelatedDreams))
		relatedVars := make([]any, 0, len(e.RelatedDreams))
		for _, id := range e.RelatedDreams {
			r, ok := c.byID[id]
			if !ok {
				continue
			}
			related = append(related, r)
			relatedVars = append(relatedVars, r.vars)
		}
		e.Related = related
		e.vars[FieldRelatedDreamsData] = relatedVars
	}

	return c, nil
}

// Lookup returns the entry indexed under id.
func (c *Catalog) Lookup(id string) (*Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len returns the number of records, duplicates included.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Vars returns the template variables of every entry in file order.
func (c *Catalog) Vars() []map[string]any {
	out := make([]map[string]any, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.vars
	}
	return out
}

func decodeEntry(obj map[string]any) (*Entry, error) {
	id, err := optionalString(obj, FieldID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("missing %q", FieldID)
	}
	if err = validateID(id); err != nil {
		return nil, err
	}
	category, err := optionalString(obj, FieldCategory)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %v", id, err)
	}
	updated, err := optionalString(obj, FieldUpdatedDate)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %v", id, err)
	}
	tags, err := optionalStrings(obj, FieldTags)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %v", id, err)
	}
	relatedIDs, err := optionalStrings(obj, FieldRelatedDreams)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %v", id, err)
	}

	vars := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		vars[k] = v
	}

	return &Entry{
		ID:            id,
		Category:      category,
		Tags:          tags,
		RelatedDreams: relatedIDs,
		UpdatedDate:   updated,
		vars:          vars,
	}, nil
}

// reservedIDs name files written at the root of the output directory.
var reservedIDs = map[string]bool{
	"index.html":  true,
	"sitemap.xml": true,
}

// validateID rejects ids that would not map to a single directory directly
// below the output root.
func validateID(id string) error {
	switch {
	case id == "." || id == "..":
		return fmt.Errorf("id %q is not a valid page name", id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("id %q must not contain a path separator", id)
	case reservedIDs[id]:
		return fmt.Errorf("id %q is reserved", id)
	}
	return nil
}

func optionalString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
	return s, nil
}

func optionalStrings(obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be an array, got %T", key, v)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q[%d] must be a string, got %T", key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
