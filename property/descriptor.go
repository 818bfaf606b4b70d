// Package property implements the CSS property registry: per-property
// grammar descriptors loaded from an embedded table, classification of
// value tokens against a property's grammar, and registration of custom
// properties.
package property

import (
	"regexp"
	"strings"

	"cssval/css"
)

// Category is the value category a token classifies into under a
// property grammar.
type Category int

const (
	// CategoryNone marks a token that is accepted without carrying a
	// specific category (wide keywords, grammar function placeholders).
	CategoryNone Category = iota
	CategoryLength
	CategoryNumber
	CategoryPercentage
	CategoryLengthPercentage
	CategoryColor
	CategoryImage
	CategoryURL
	CategoryInteger
	CategoryAngle
	CategoryTime
	CategoryResolution
	CategoryTransformFunction
	CategoryCustomIdent
	CategoryTransformList
	CategoryAny
	CategoryString

	numCategories
)

var categoryNames = map[Category]string{
	CategoryNone:              "none",
	CategoryLength:            "<length>",
	CategoryNumber:            "<number>",
	CategoryPercentage:        "<percentage>",
	CategoryLengthPercentage:  "<length-percentage>",
	CategoryColor:             "<color>",
	CategoryImage:             "<image>",
	CategoryURL:               "<url>",
	CategoryInteger:           "<integer>",
	CategoryAngle:             "<angle>",
	CategoryTime:              "<time>",
	CategoryResolution:        "<resolution>",
	CategoryTransformFunction: "<transform-function>",
	CategoryCustomIdent:       "<custom-ident>",
	CategoryTransformList:     "<transform-list>",
	CategoryAny:               "*",
	CategoryString:            "<string>",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "category(?)"
}

// SyntaxAny is the universal grammar that accepts any value.
const SyntaxAny = "*"

var (
	// syntaxCombinator splits a grammar string into its component parts.
	syntaxCombinator = regexp.MustCompile(` |\|{1,2}|&&|\[|\]`)
	// syntaxMultipliers matches a trailing multiplier on one component.
	syntaxMultipliers = regexp.MustCompile(
		`(\*|\+|\?|#|!)?(\{[0-9]+(,([0-9]+)?)?\}|(\*|\+|\?|#|!))?$`)
	// syntaxFunction matches a function placeholder such as <minmax(...)>.
	syntaxFunction = regexp.MustCompile(
		`(?i)^<((--|-|[a-z_])[a-z0-9_\-]*)\([^)]*\)>$`)
)

// categoryPrefixes maps a component prefix in a grammar string to the
// category it enables. Prefix matching keeps multipliers attached to a
// component from hiding it ("<length>{1,4}" still enables <length>).
var categoryPrefixes = [...]struct {
	cat    Category
	prefix string
}{
	{CategoryLength, "<length>"},
	{CategoryNumber, "<number>"},
	{CategoryPercentage, "<percentage>"},
	{CategoryLengthPercentage, "<length-percentage>"},
	{CategoryColor, "<color>"},
	{CategoryImage, "<image>"},
	{CategoryURL, "<url>"},
	{CategoryInteger, "<integer>"},
	{CategoryAngle, "<angle>"},
	{CategoryTime, "<time>"},
	{CategoryResolution, "<resolution>"},
	{CategoryTransformFunction, "<transform-function>"},
	{CategoryCustomIdent, "<custom-ident>"},
	{CategoryTransformList, "<transform-list>"},
	{CategoryString, "<string>"},
}

// Descriptor is the grammar of one property. Descriptors are immutable
// once constructed.
type Descriptor struct {
	name     string
	syntax   string
	inherits bool
	initial  string
	hasInit  bool

	allowed     [numCategories]bool
	functions   map[string]bool
	identifiers map[string]bool
}

// NewDescriptor builds a descriptor from a property grammar. initial is
// nil for properties without an initial value.
func NewDescriptor(name, syntax string, inherits bool, initial *string) *Descriptor {
	d := &Descriptor{
		name:        name,
		syntax:      syntax,
		inherits:    inherits,
		functions:   map[string]bool{"var": true},
		identifiers: map[string]bool{},
	}
	if initial != nil {
		d.initial = *initial
		d.hasInit = true
	}

	seen := map[string]bool{}
	var components []string
	for _, part := range syntaxCombinator.Split(syntax, -1) {
		switch part {
		case "", "*", "+", "?", "#", "!":
			continue
		}
		if syntaxMultipliers.FindString(part) == part {
			// a bare multiplier such as "{1,4}"
			continue
		}
		if !seen[part] {
			seen[part] = true
			components = append(components, part)
		}
	}

	if syntax == SyntaxAny {
		d.allowed[CategoryAny] = true
	} else {
		for _, p := range categoryPrefixes {
			for _, c := range components {
				if strings.HasPrefix(c, p.prefix) {
					d.allowed[p.cat] = true
					break
				}
			}
		}
	}

	for _, c := range components {
		stripped := syntaxMultipliers.ReplaceAllString(c, "")
		if m := syntaxFunction.FindStringSubmatch(stripped); m != nil {
			d.functions[strings.ToLower(m[1])] = true
			continue
		}
		if stripped == "" || stripped[0] == '<' || stripped[len(stripped)-1] == '>' {
			continue
		}
		lower := strings.ToLower(stripped)
		if css.IsWideKeyword(lower) || css.IsColorKeyword(lower) {
			continue
		}
		d.identifiers[stripped] = true
	}
	return d
}

// Name returns the property name.
func (d *Descriptor) Name() string { return d.name }

// Syntax returns the grammar string the descriptor was built from.
func (d *Descriptor) Syntax() string { return d.syntax }

// Inherits reports whether the property inherits.
func (d *Descriptor) Inherits() bool { return d.inherits }

// Initial returns the property's initial value when it has one.
func (d *Descriptor) Initial() (string, bool) { return d.initial, d.hasInit }

// Allows reports whether the grammar mentions the category.
func (d *Descriptor) Allows(c Category) bool {
	if c < 0 || c >= numCategories {
		return false
	}
	return d.allowed[c]
}

// Identifiers returns the bare identifiers the grammar accepts.
func (d *Descriptor) Identifiers() []string {
	out := make([]string, 0, len(d.identifiers))
	for id := range d.identifiers {
		out = append(out, id)
	}
	return out
}
