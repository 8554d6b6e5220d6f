/*
Package dreams loads the dream-interpretation collection that drives the site.

A collection is a JSON array of objects. Each object needs a string "id"; the
well-known fields "category", "tags", "related_dreams" and "updated_date" are
decoded into typed fields, and every field (known or not) stays available to
templates through Entry.Vars. Related ids are resolved once at load time into
"related_dreams_data", dropping ids that do not exist in the collection.
*/
package dreams
