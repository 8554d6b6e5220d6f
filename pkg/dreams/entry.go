package dreams

import "strings"

// Field names with a fixed meaning. Everything else in a record is opaque.
const (
	FieldID            = "id"
	FieldCategory      = "category"
	FieldTags          = "tags"
	FieldRelatedDreams = "related_dreams"
	FieldUpdatedDate   = "updated_date"

	// FieldRelatedDreamsData is derived at load time and never read from input.
	FieldRelatedDreamsData = "related_dreams_data"
)

// Entry is a single dream-interpretation record.
type Entry struct {
	ID            string
	Category      string
	Tags          []string
	RelatedDreams []string
	UpdatedDate   string

	// Related holds the entries resolved from RelatedDreams, in the same order.
	Related []*Entry

	vars map[string]any
}

// Vars returns the template variables of the entry: every field of the source
// record plus related_dreams_data, a list of the related entries' own Vars.
// The returned map is shared and must be treated as read-only.
func (e *Entry) Vars() map[string]any {
	return e.vars
}

// Field returns a raw field of the source record.
func (e *Entry) Field(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// TagsString joins the tags with ", " in the order given.
func (e *Entry) TagsString() string {
	return strings.Join(e.Tags, ", ")
}

// HasCategory reports whether the record carried a non-empty category.
func (e *Entry) HasCategory() bool {
	return e.Category != ""
}
