package data

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag and HTML-escapes the remaining text.
// A bluemonday policy is safe for concurrent use once built.
var strictPolicy = bluemonday.StrictPolicy()

// likeEscaper makes a search term match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sanitize returns the storage form of a text field: markup removed, the
// residual text entity-escaped.
func sanitize(s string) string {
	return strictPolicy.Sanitize(s)
}

// unsanitize turns a stored text field back into its readable form.
func unsanitize(s string) string {
	return html.UnescapeString(s)
}

// searchPattern builds the ILIKE pattern for a free-text search term.
func searchPattern(term string) string {
	return "%" + likeEscaper.Replace(sanitize(term)) + "%"
}
