/*
Package templating provides a filesystem-based Go template engine for the
dream site.

Templates live in a single directory and are addressed by their base file
name ("index.html", "dream_detail.html"). Files ending in ".part.html" are
partials: they are parsed into the same set so pages can {{template}} them, but
they are not pages on their own.

Rendering uses text/template, so no escaping is applied: entry text that
carries markup is written to the output verbatim. A small library of helper
functions (arithmetic, collections, text) is available to every template.
*/
package templating
