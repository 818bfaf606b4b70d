package style

import "strings"

// longhandOwners maps each longhand property to the shorthands that can
// produce it.
var longhandOwners = map[string][]string{
	// font
	"font-style":   {"font", "font-variant"},
	"font-variant": {"font", "font-variant"},
	"font-weight":  {"font", "font-variant"},
	"font-stretch": {"font", "font-variant"},
	"font-size":    {"font", "font-variant"},
	"line-height":  {"font", "font-variant"},
	"font-family":  {"font", "font-variant"},
	// font-synthesis
	"font-synthesis-weight": {"font-synthesis"},
	"font-synthesis-style":  {"font-synthesis"},
	// font-variant
	"font-variant-ligatures":  {"font", "font-variant"},
	"font-variant-caps":       {"font", "font-variant"},
	"font-variant-alternates": {"font", "font-variant"},
	"font-variant-numeric":    {"font", "font-variant"},
	"font-variant-east-asian": {"font", "font-variant"},
	"font-variant-position":   {"font", "font-variant"},
	// mask
	"mask-image":     {"mask"},
	"mask-position":  {"mask"},
	"mask-size":      {"mask"},
	"mask-repeat":    {"mask"},
	"mask-origin":    {"mask"},
	"mask-clip":      {"mask"},
	"mask-composite": {"mask"},
	"mask-mode":      {"mask"},
	// mask-border
	"mask-border-source": {"mask-border"},
	"mask-border-slice":  {"mask-border"},
	"mask-border-width":  {"mask-border"},
	"mask-border-outset": {"mask-border"},
	"mask-border-repeat": {"mask-border"},
	"mask-border-mode":   {"mask-border"},
	// overflow
	"overflow-x": {"overflow"},
	"overflow-y": {"overflow"},
	// text-decoration
	"text-decoration-line":  {"text-decoration"},
	"text-decoration-style": {"text-decoration"},
	"text-decoration-color": {"text-decoration"},
	// white-space
	"text-space-collapse": {"white-space"},
	"text-wrap":           {"white-space"},
	"text-space-trim":     {"white-space"},
}

// IsLonghand reports whether the property is a longhand of at least one
// shorthand. Custom properties never are.
func IsLonghand(name string) bool {
	if strings.HasPrefix(name, "--") {
		return false
	}
	_, ok := longhandOwners[strings.ToLower(name)]
	return ok
}

// ShorthandsOf returns the shorthand properties that cover the given
// longhand, outermost first, or nil for an unrelated property.
func ShorthandsOf(name string) []string {
	owners, ok := longhandOwners[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return append([]string(nil), owners...)
}
