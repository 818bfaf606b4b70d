package typedom

import (
	"fmt"
	"regexp"
	"strings"

	"cssval/css"
)

// StyleValue is the reified form of one property value. Implementations
// are the numeric values of this package plus keyword, opaque, image,
// URL and unparsed values.
type StyleValue interface {
	// Serialize renders the value as CSS text. Values produced by the
	// parse entry points render their source text.
	Serialize(f css.Format) string
	String() string

	styleValue()
}

// KeywordValue holds a keyword or other identifier.
type KeywordValue struct {
	value string
	raw   string
}

// NewKeyword builds a keyword value. The keyword must be non-empty.
func NewKeyword(value string) (*KeywordValue, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: expected a non-empty keyword", css.ErrValue)
	}
	return &KeywordValue{value: value}, nil
}

// Value returns the keyword text.
func (v *KeywordValue) Value() string { return v.value }

func (v *KeywordValue) Serialize(f css.Format) string {
	if v.raw != "" {
		return v.raw
	}
	return v.value
}

func (v *KeywordValue) String() string { return v.Serialize(css.DefaultFormat) }
func (v *KeywordValue) styleValue()    {}

// OpaqueValue keeps value text the engine validates but does not model
// further, such as shorthand or color values.
type OpaqueValue struct {
	text string
	raw  string
}

// NewOpaque wraps raw value text.
func NewOpaque(text string) *OpaqueValue { return &OpaqueValue{text: text} }

// Value returns the stored text.
func (v *OpaqueValue) Value() string { return v.text }

func (v *OpaqueValue) Serialize(f css.Format) string {
	if v.raw != "" {
		return v.raw
	}
	return v.text
}

func (v *OpaqueValue) String() string { return v.Serialize(css.DefaultFormat) }
func (v *OpaqueValue) styleValue()    {}

// ImageValue holds an image reference such as a gradient function.
type ImageValue struct {
	text string
	raw  string
}

// Value returns the image value text.
func (v *ImageValue) Value() string { return v.text }

func (v *ImageValue) Serialize(f css.Format) string {
	if v.raw != "" {
		return v.raw
	}
	return v.text
}

func (v *ImageValue) String() string { return v.Serialize(css.DefaultFormat) }
func (v *ImageValue) styleValue()    {}

var urlFunction = regexp.MustCompile(`^url\(([^)]+)\)$`)

// URLValue holds an image loaded by URL.
type URLValue struct {
	url string
	raw string
}

// NewURL builds a URL image value. A url(...) wrapper and surrounding
// double quotes are stripped from the target.
func NewURL(text string) *URLValue {
	if m := urlFunction.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.Trim(text, `"`)
	}
	return &URLValue{url: text}
}

// URL returns the target without the url() wrapper.
func (v *URLValue) URL() string { return v.url }

func (v *URLValue) Serialize(f css.Format) string {
	if v.raw != "" {
		return v.raw
	}
	return `url("` + v.url + `")`
}

func (v *URLValue) String() string { return v.Serialize(css.DefaultFormat) }
func (v *URLValue) styleValue()    {}

// UnparsedPart is one member of an unparsed value: literal text or a
// variable reference. Exactly one of the fields is set.
type UnparsedPart struct {
	Text string
	Var  *VariableReference
}

// UnparsedValue holds value text that references custom properties and
// therefore cannot be reified until substitution.
type UnparsedValue struct {
	parts []UnparsedPart
	raw   string
}

// NewUnparsed builds an unparsed value from its members.
func NewUnparsed(parts ...UnparsedPart) *UnparsedValue {
	return &UnparsedValue{parts: parts}
}

// Parts returns the members in order.
func (v *UnparsedValue) Parts() []UnparsedPart {
	out := make([]UnparsedPart, len(v.parts))
	copy(out, v.parts)
	return out
}

// Len returns the number of members.
func (v *UnparsedValue) Len() int { return len(v.parts) }

func (v *UnparsedValue) Serialize(f css.Format) string {
	if v.raw != "" {
		return v.raw
	}
	var b strings.Builder
	for _, part := range v.parts {
		if part.Var != nil {
			b.WriteString(part.Var.Serialize(f))
		} else {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func (v *UnparsedValue) String() string { return v.Serialize(css.DefaultFormat) }
func (v *UnparsedValue) styleValue()    {}

// VariableReference is a var() reference to a custom property with an
// optional fallback.
type VariableReference struct {
	Name     string
	Fallback *UnparsedValue
}

func (v *VariableReference) Serialize(f css.Format) string {
	var b strings.Builder
	b.WriteString("var(")
	b.WriteString(v.Name)
	if v.Fallback != nil {
		b.WriteByte(',')
		b.WriteString(v.Fallback.Serialize(f))
	}
	b.WriteByte(')')
	return b.String()
}

func (v *VariableReference) String() string { return v.Serialize(css.DefaultFormat) }
