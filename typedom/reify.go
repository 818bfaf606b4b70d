package typedom

import (
	"fmt"
	"regexp"
	"strings"

	"cssval/css"
	"cssval/property"
)

var (
	varFunction = regexp.MustCompile(`(^|\s|\t|\*|/|\(|,)var\(`)
	realNumber  = regexp.MustCompile(`(?i)^[+-]?[0-9]*\.?[0-9]+(e[+-]?[0-9]+)?$`)
)

// singleMultiValued marks properties whose value is reified as one unit
// even when it has multiple components or commas.
var singleMultiValued = map[string]bool{
	"d":                       true,
	"font":                    true,
	"font-family":             true,
	"font-feature-settings":   true,
	"font-variation-settings": true,
	"mask":                    true,
	"mask-clip":               true,
	"mask-composite":          true,
	"mask-image":              true,
	"mask-mode":               true,
	"mask-origin":             true,
	"mask-position":           true,
	"mask-repeat":             true,
	"mask-size":               true,
	"shape-inside":            true,
	"stroke-dasharray":        true,
}

// keywordProperties always reify to keyword values.
var keywordProperties = makeSet(
	"alignment-baseline", "all", "animation-composition", "appearance",
	"backface-visibility", "background-attachment", "background-blend-mode",
	"background-clip", "background-image-transform", "block-step-align",
	"block-step-insert", "block-step-round", "bookmark-state",
	"border-boundary", "border-collapse", "border-image-transform",
	"border-top-style", "box-decoration-break", "box-sizing", "caret-shape",
	"clear", "color-adjust", "color-interpolation", "color-rendering",
	"column-gap", "column-span", "contain", "content", "continue",
	"copy-into", "counter-increment", "counter-reset", "counter-set", "cue",
	"cue-after", "cue-before", "cursor", "d", "direction", "display",
	"dominant-baseline", "elevation", "empty-cells", "fill", "fill-break",
	"fill-color", "fill-image", "fill-origin", "fill-position",
	"fill-repeat", "fill-rule", "fill-size", "filter-margin-top",
	"filter-margin-right", "filter-margin-bottom", "filter-margin-left",
	"flex", "flex-basis", "flex-direction", "flex-flow", "flex-grow",
	"flex-shrink", "flex-wrap", "float", "font-optical-sizing",
	"font-presentation", "font-style", "list-style-position",
	"outline-offset", "outline-style", "overflow-anchor", "overflow-x",
	"overflow-y", "page", "page-break-after", "page-break-before",
	"page-break-inside", "paint-order", "pause", "pause-after",
	"pause-before", "perspective", "perspective-origin", "pitch",
	"pitch-range", "place-content", "place-items", "place-self",
	"play-during", "pointer-events", "position", "presentation-level",
	"quotes", "region-fragment", "resize", "rotate", "row-gap",
	"ruby-align", "ruby-merge", "ruby-position", "scale", "scroll-behavior",
	"scroll-margin", "scroll-margin-block", "scroll-margin-block-end",
	"scroll-margin-block-start", "scroll-margin-bottom",
	"scroll-margin-inline", "scroll-margin-inline-end",
	"scroll-margin-inline-start", "scroll-margin-left",
	"scroll-margin-right", "scroll-margin-top", "scroll-padding",
	"scroll-padding-block", "scroll-padding-block-end",
	"scroll-padding-block-start", "scroll-padding-bottom",
	"scroll-padding-inline", "scroll-padding-inline-end",
	"scroll-padding-inline-start", "scroll-padding-left",
	"scroll-padding-right", "scroll-padding-top", "scroll-snap-align",
	"scroll-snap-stop", "scroll-snap-type", "scrollbar-3dlight-color",
	"scrollbar-arrow-color", "scrollbar-base-color",
	"scrollbar-darkshadow-color", "scrollbar-face-color",
	"scrollbar-gutter", "scrollbar-highlight-color",
	"scrollbar-shadow-color", "scrollbar-track-color", "shape-inside",
	"shape-rendering", "shape-subtract", "size", "solid-color",
	"solid-opacity", "speak", "speak-as", "speak-header", "speak-numeral",
	"speak-punctuation", "speech-rate", "stop-color", "stress", "stroke",
	"stroke-align", "stroke-break", "stroke-color", "stroke-dash-corner",
	"stroke-dash-justify", "stroke-dasharray", "stroke-image",
	"stroke-linecap", "stroke-linejoin", "stroke-origin",
	"stroke-position", "stroke-repeat", "stroke-size", "table-layout",
	"text-align", "text-anchor", "text-combine-upright", "text-decoration",
	"text-decoration-color", "text-decoration-fill",
	"text-decoration-line", "text-decoration-skip",
	"text-decoration-skip-ink", "text-decoration-stroke",
	"text-emphasis-skip", "text-orientation", "text-overflow",
	"text-rendering", "text-size-adjust", "text-transform", "visibility",
	"voice-balance", "voice-duration", "voice-family", "voice-pitch",
	"voice-range", "voice-rate", "voice-stress", "voice-volume", "volume",
	"white-space",
)

// opaqueProperties reify to opaque style values: mostly shorthands whose
// component structure the engine does not model.
var opaqueProperties = makeSet(
	"background", "background-color", "block-step", "bookmark-label",
	"border", "border-block", "border-block-color", "border-block-end",
	"border-block-start", "border-block-style", "border-block-width",
	"border-bottom", "border-color", "border-inline",
	"border-inline-color", "border-inline-end", "border-inline-end-color",
	"border-inline-end-style", "border-inline-end-width",
	"border-inline-start", "border-inline-start-color",
	"border-inline-start-style", "border-inline-start-width",
	"border-inline-style", "border-inline-width", "border-left",
	"border-radius", "border-right", "border-spacing", "border-style",
	"border-top", "border-width", "float-defer", "font", "font-family",
	"font-variant", "list-style-type", "margin", "outline-width",
	"overflow", "overflow-x", "overflow-y", "padding",
)

func makeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// component is one grammar-checked component value awaiting reification.
type component struct {
	text   string
	syntax property.Category
}

// ParseValue parses property value text into a single style value,
// the first one for list-valued properties. Empty input yields nil
// without an error.
func ParseValue(reg *property.Registry, name, text string) (StyleValue, error) {
	values, err := ParseAll(reg, name, text)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// ParseAll parses property value text into style values, one per
// comma-separated group for list-valued properties. Text containing
// var() references and values of unregistered custom properties
// reify to a single unparsed value without grammar checks.
func ParseAll(reg *property.Registry, name, text string) ([]StyleValue, error) {
	if !css.IsCustomProperty(name) {
		name = strings.ToLower(name)
	}
	if css.IsWideKeyword(text) || css.IsColorKeyword(text) {
		text = strings.ToLower(text)
	}

	if varFunction.MatchString(text) ||
		(css.IsCustomProperty(name) && !reg.IsRegistered(name)) {
		value := reifyComponents(css.Tokenize(text))
		value.raw = text
		return []StyleValue{value}, nil
	}

	desc, ok := reg.Lookup(name)
	if !ok {
		desc = property.NewDescriptor(name, property.SyntaxAny, false, nil)
	}

	tokens := css.Significant(css.TopLevel(css.Tokenize(text)))
	wide := 0
	var groups [][]component
	if singleMultiValued[name] {
		var syntaxes []property.Category
		for _, tok := range tokens {
			if tok.Type == css.CommaToken {
				continue
			}
			if css.IsWideKeyword(tok.Data) {
				wide++
			}
			supported, syntax := desc.Classify(tok)
			if !supported {
				return nil, fmt.Errorf("%w: failed to parse %q as %q",
					css.ErrGrammarViolation, tok.Data, name)
			}
			syntaxes = append(syntaxes, syntax)
		}
		syntax := property.CategoryNone
		if len(syntaxes) == 1 {
			syntax = syntaxes[0]
		}
		groups = append(groups, []component{{text: text, syntax: syntax}})
	} else {
		var components []component
		for _, tok := range tokens {
			if tok.Type == css.CommaToken {
				groups = append(groups, components)
				components = nil
				continue
			}
			if css.IsWideKeyword(tok.Data) {
				wide++
			}
			supported, syntax := desc.Classify(tok)
			if !supported {
				return nil, fmt.Errorf("%w: failed to parse %q as %q",
					css.ErrGrammarViolation, tok.Data, name)
			}
			ctext := tok.Data
			if (syntax == property.CategoryLength ||
				syntax == property.CategoryLengthPercentage) &&
				realNumber.MatchString(ctext) {
				// unit-less number used as a length
				ctext += "px"
			}
			components = append(components, component{text: ctext, syntax: syntax})
		}
		if len(components) > 0 {
			groups = append(groups, components)
		}
	}

	values := make([]StyleValue, 0, len(groups))
	for _, group := range groups {
		value, err := reifyGroup(name, group)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if wide > 0 && len(tokens) > 1 {
		return nil, fmt.Errorf("%w: failed to parse %q as %q",
			css.ErrGrammarViolation, text, name)
	}
	if len(values) == 1 {
		values[0] = withStyleRaw(values[0], text)
	}
	return values, nil
}

// reifyGroup turns one group of grammar-checked components into a style
// value based on the property and the classification of its components.
func reifyGroup(name string, components []component) (StyleValue, error) {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.text
	}
	text := strings.Join(parts, " ")
	if css.IsWideKeyword(text) || css.IsColorKeyword(text) {
		text = strings.ToLower(text)
	}

	if css.IsWideKeyword(text) {
		return NewKeyword(text)
	}
	if keywordProperties[name] {
		return NewKeyword(text)
	}
	if opaqueProperties[name] {
		return NewOpaque(text), nil
	}

	syntaxes := make(map[property.Category]bool, len(components))
	for _, c := range components {
		syntaxes[c.syntax] = true
	}
	if len(syntaxes) != 1 {
		if name == "text-indent" || name == "vertical-align" {
			return NewKeyword(text)
		}
		return NewOpaque(text), nil
	}
	var syntax property.Category
	for s := range syntaxes {
		syntax = s
	}

	switch syntax {
	case property.CategoryNone:
		if name == "height" || name == "width" {
			return NewKeyword(text)
		}
		return NewOpaque(text), nil
	case property.CategoryColor:
		return NewOpaque(text), nil
	case property.CategoryCustomIdent:
		return NewKeyword(text)
	case property.CategoryImage:
		return &ImageValue{text: text}, nil
	case property.CategoryLength, property.CategoryNumber,
		property.CategoryPercentage, property.CategoryLengthPercentage,
		property.CategoryInteger, property.CategoryAngle,
		property.CategoryTime, property.CategoryResolution:
		value, err := ParseNumeric(text)
		if err != nil {
			return nil, err
		}
		return value, nil
	case property.CategoryURL:
		return NewURL(text), nil
	}
	return nil, fmt.Errorf("%w: invalid syntax %v for property %q",
		css.ErrGrammarViolation, syntax, name)
}

// reifyComponents splits raw value tokens into literal text runs and
// var() references. Nested functions contribute their leading and
// trailing text to the surrounding runs.
func reifyComponents(tokens []css.Token) *UnparsedValue {
	var parts []UnparsedPart
	var segment strings.Builder
	flush := func() {
		if segment.Len() > 0 {
			parts = append(parts, UnparsedPart{Text: segment.String()})
			segment.Reset()
		}
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != css.FunctionToken {
			segment.WriteString(tok.Data)
			continue
		}
		args, next := css.FunctionArgs(tokens, i)
		i = next - 1
		if tok.FunctionName() == "var" {
			flush()
			var nameBuf strings.Builder
			rest := args
			for len(rest) > 0 {
				arg := rest[0]
				rest = rest[1:]
				if arg.Type == css.CommaToken {
					break
				}
				nameBuf.WriteString(arg.Data)
			}
			ref := &VariableReference{Name: strings.TrimSpace(nameBuf.String())}
			if len(rest) > 0 {
				ref.Fallback = reifyComponents(rest)
			}
			parts = append(parts, UnparsedPart{Var: ref})
			continue
		}
		segment.WriteString(tok.Data)
		inner := reifyComponents(args).parts
		if len(inner) > 0 && inner[0].Var == nil {
			segment.WriteString(inner[0].Text)
			inner = inner[1:]
		}
		parts = append(parts, UnparsedPart{Text: segment.String()})
		segment.Reset()
		var trailing string
		if len(inner) > 0 && inner[len(inner)-1].Var == nil {
			trailing = inner[len(inner)-1].Text
			inner = inner[:len(inner)-1]
		}
		parts = append(parts, inner...)
		segment.WriteString(trailing)
		segment.WriteByte(')')
	}
	flush()
	return &UnparsedValue{parts: parts}
}

func withStyleRaw(v StyleValue, raw string) StyleValue {
	switch t := v.(type) {
	case Numeric:
		return withRaw(t, raw)
	case *KeywordValue:
		t.raw = raw
	case *OpaqueValue:
		t.raw = raw
	case *ImageValue:
		t.raw = raw
	case *URLValue:
		t.raw = raw
	case *UnparsedValue:
		t.raw = raw
	}
	return v
}
