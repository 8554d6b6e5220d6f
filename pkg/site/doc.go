// Package site renders a dream catalog into a static site: a landing page,
// one clean-URL page per entry (<output>/<id>/index.html) and a sitemap.
//
// A Builder always starts from an empty output directory, so two builds of
// the same catalog with the same build date produce byte-identical trees.
package site
