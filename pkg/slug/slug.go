package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// symbolReplacer spells out symbols that carry meaning in category and
// product names before the remaining punctuation is collapsed.
var symbolReplacer = strings.NewReplacer(
	"&", " and ",
	"+", " plus ",
	"'", "",
	"’", "",
	"₹", " rs ",
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Phones & Tablets" → "phones-and-tablets"
//   - "Levi's Jeans" → "levis-jeans"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = symbolReplacer.Replace(slug)

	// Replace any non-alphanumeric run with a single hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
