package dreams

// DefaultCategory is the label used for entries without a category.
const DefaultCategory = "기타"

// CategoryGroup is one category of the landing page with its entries.
type CategoryGroup struct {
	Name    string
	Entries []*Entry
}

// Dreams returns the template variables of the group's entries.
func (g CategoryGroup) Dreams() []map[string]any {
	out := make([]map[string]any, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.vars
	}
	return out
}

// Count returns the number of entries in the group.
func (g CategoryGroup) Count() int {
	return len(g.Entries)
}

// GroupByCategory groups entries by category. Groups appear in the order their
// label is first seen and keep file order inside. Entries without a category
// fall under defaultLabel, or DefaultCategory when defaultLabel is empty.
func (c *Catalog) GroupByCategory(defaultLabel string) []CategoryGroup {
	if defaultLabel == "" {
		defaultLabel = DefaultCategory
	}
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, e := range c.Entries {
		label := defaultLabel
		if e.HasCategory() {
			label = e.Category
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, CategoryGroup{Name: label})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
