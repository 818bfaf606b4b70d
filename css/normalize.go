package css

import (
	"regexp"
	"strings"
)

var collapsibleSpace = regexp.MustCompile(`\x20{2,}`)

// NormalizeText prepares raw value text for storage in a declaration block:
// surrounding whitespace is trimmed, line breaks become spaces and space
// runs collapse to a single space.
func NormalizeText(text string) string {
	r := strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
	return collapsibleSpace.ReplaceAllString(r.Replace(strings.TrimSpace(text)), " ")
}

// wideKeywords are accepted by every property and bypass grammar checks.
var wideKeywords = map[string]struct{}{
	"default": {},
	"inherit": {},
	"initial": {},
	"revert":  {},
	"unset":   {},
}

// colorKeywords are the color values stored lowercased.
var colorKeywords = map[string]struct{}{
	"currentcolor": {},
	"transparent":  {},
}

// IsWideKeyword reports whether value (case-insensitive) is a CSS-wide
// keyword such as inherit or initial.
func IsWideKeyword(value string) bool {
	_, ok := wideKeywords[strings.ToLower(value)]
	return ok
}

// IsColorKeyword reports whether value (case-insensitive) is one of the
// special color keywords.
func IsColorKeyword(value string) bool {
	_, ok := colorKeywords[strings.ToLower(value)]
	return ok
}

// IsCustomProperty reports whether the property name is a custom property.
func IsCustomProperty(name string) bool {
	return strings.HasPrefix(name, "--")
}
