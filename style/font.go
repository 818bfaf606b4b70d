package style

import (
	"strings"

	"cssval/css"
)

// fontExpander handles the font shorthand: style, variant, weight,
// stretch, size with optional /line-height, and family. The variant and
// stretch slots match against the narrower css2/css3 grammars; on
// expansion the variant components feed the font-variant shorthand and
// the stretch components land on font-stretch.
type fontExpander struct{}

func (fontExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	m, _ := expandSlots(d.reg, "font", tokens, true)

	variant := m.pop("font-variant-css2")
	fontVariantExpander{}.set(d, variant, priority)

	stretch := m.pop("font-stretch-css3")
	m.set("font-stretch", stretch)

	return d.storeComponents(m, priority)
}

func (fontExpander) text(d *Declaration, values map[string]string) string {
	keys := d.Names()
	minIdx, maxIdx := -1, -1
	for _, name := range LonghandList("font") {
		idx := indexOf(keys, name)
		if idx < 0 {
			return ""
		}
		if idx > maxIdx {
			maxIdx = idx
		}
		if minIdx < 0 || idx < minIdx {
			minIdx = idx
		}
	}
	for _, name := range fontSubProperties {
		idx := indexOf(keys, name)
		if idx < 0 {
			continue
		}
		if minIdx < idx && idx < maxIdx {
			return ""
		}
		if maxIdx < idx && d.items[name].value != "initial" {
			return ""
		}
	}

	fontStyle := values["font-style"]
	fontVariant := values["font-variant"]
	fontWeight := values["font-weight"]
	fontStretch := values["font-stretch"]
	fontSize := values["font-size"]
	lineHeight := values["line-height"]
	fontFamily := values["font-family"]
	all := []string{fontStyle, fontVariant, fontWeight, fontStretch, fontSize, lineHeight, fontFamily}
	for _, v := range all {
		if v == "" {
			return ""
		}
	}
	if anyWide(all) {
		if allEqualWide(all) {
			return all[0]
		}
		return ""
	}

	// The shorthand only expresses the css2/css3 subsets of variant and
	// stretch.
	if desc, ok := d.reg.Lookup("font-variant-css2"); !ok || !desc.Supports(fontVariant) {
		return ""
	}
	if desc, ok := d.reg.Lookup("font-stretch-css3"); !ok || !desc.Supports(fontStretch) {
		return ""
	}

	type slotValue struct{ name, value string }
	ordered := []slotValue{
		{"font-style", fontStyle},
		{"font-variant", fontVariant},
		{"font-weight", fontWeight},
		{"font-stretch", fontStretch},
	}
	if lineHeight != "normal" {
		ordered = append(ordered, slotValue{"font-size", fontSize + "/" + lineHeight})
	} else {
		ordered = append(ordered,
			slotValue{"font-size", fontSize},
			slotValue{"line-height", lineHeight})
	}
	ordered = append(ordered, slotValue{"font-family", fontFamily})

	var parts []string
	for _, sv := range ordered {
		if sv.name == "font-family" || sv.value != initialOf(d.reg, sv.name) {
			parts = append(parts, sv.value)
		}
	}
	return strings.Join(parts, " ")
}

// fontSynthesisExpander handles font-synthesis: none | weight || style.
type fontSynthesisExpander struct{}

func (fontSynthesisExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	var values []string
	for _, tok := range tokens {
		if !tok.IsWhitespace() {
			values = append(values, tok.Data)
		}
	}
	weight, style := "", ""
	switch {
	case len(values) == 1 && values[0] == "none":
		weight, style = "none", "none"
	case len(values) == 1 && values[0] == "weight":
		weight, style = "auto", "none"
	case len(values) == 1 && values[0] == "style":
		weight, style = "none", "auto"
	case len(values) == 1 && css.IsWideKeyword(values[0]):
		keyword := strings.ToLower(values[0])
		weight, style = keyword, keyword
	case len(values) == 2 && indexOf(values, "weight") >= 0 && indexOf(values, "style") >= 0:
		weight, style = "auto", "auto"
	}
	if weight == "" {
		weight = initialOf(d.reg, "font-synthesis-weight")
	}
	if style == "" {
		style = initialOf(d.reg, "font-synthesis-style")
	}

	m := newComponentMap()
	m.set("font-synthesis-weight", componentList(weight))
	m.set("font-synthesis-style", componentList(style))
	return d.storeComponents(m, priority)
}

func (fontSynthesisExpander) text(_ *Declaration, values map[string]string) string {
	weight, wok := values["font-synthesis-weight"]
	style, sok := values["font-synthesis-style"]
	switch {
	case !wok || !sok:
		return ""
	case weight == "none" && style == "none":
		return "none"
	case weight == "auto" && style == "none":
		return "weight"
	case weight == "none" && style == "auto":
		return "style"
	case weight == "auto" && style == "auto":
		return "weight style"
	case weight == style && css.IsWideKeyword(weight):
		return weight
	}
	return ""
}

// fontVariantExpander handles the font-variant shorthand over its six
// longhands. The whole-value keywords normal and none reset every
// longhand; none additionally sets font-variant-ligatures to none.
type fontVariantExpander struct{}

func (fontVariantExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	value := css.Text(tokens)
	var m *componentMap
	if value == "normal" || value == "none" {
		m = newComponentMap()
		for _, slot := range shorthandSlots["font-variant"] {
			initial := initialOf(d.reg, slot)
			if slot == "font-variant-ligatures" && value == "none" {
				initial = "none"
			}
			m.set(slot, componentList(initial))
		}
	} else {
		m, _ = expandSlots(d.reg, "font-variant", tokens, true)
	}
	return d.storeComponents(m, priority)
}

func (fontVariantExpander) text(_ *Declaration, values map[string]string) string {
	for _, slot := range shorthandSlots["font-variant"] {
		if _, ok := values[slot]; !ok {
			return ""
		}
	}
	ligatures := values["font-variant-ligatures"]
	rest := []string{
		values["font-variant-caps"],
		values["font-variant-alternates"],
		values["font-variant-numeric"],
		values["font-variant-east-asian"],
		values["font-variant-position"],
	}
	all := append([]string{ligatures}, rest...)
	switch {
	case allEqualValue(all, "normal"):
		return "normal"
	case ligatures == "none":
		if allEqualValue(rest, "normal") {
			return "none"
		}
		return ""
	case anyWide(all):
		if allEqualWide(all) {
			return all[0]
		}
		return ""
	}
	var parts []string
	for _, v := range all {
		if v != "normal" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func allEqualValue(values []string, want string) bool {
	for _, v := range values {
		if v != want {
			return false
		}
	}
	return true
}
