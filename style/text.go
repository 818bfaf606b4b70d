package style

import (
	"strings"

	"cssval/css"
)

// overflowExpander handles overflow: one keyword covers both axes, two
// set overflow-x then overflow-y.
type overflowExpander struct{}

func (overflowExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	m := newComponentMap()
	var wide []string
	fillSlot(d.reg, "overflow-x", tokens, m, &wide)

	switch {
	case len(wide) > 1:
		return false
	case len(wide) == 1:
		m.clear()
		keyword := componentList(wide[0])
		for _, slot := range shorthandSlots["overflow"] {
			m.set(slot, append([]css.Token(nil), keyword...))
		}
	default:
		axes := css.Significant(m.get("overflow-x"))
		if len(axes) < 1 || len(axes) > 2 {
			return false
		}
		m.set("overflow-x", []css.Token{axes[0]})
		m.set("overflow-y", []css.Token{axes[len(axes)-1]})
	}
	return d.storeComponents(m, priority)
}

func (overflowExpander) text(_ *Declaration, values map[string]string) string {
	x, ok := values["overflow-x"]
	if !ok {
		return ""
	}
	y, ok := values["overflow-y"]
	switch {
	case !ok:
		return ""
	case x == y:
		return x
	case css.IsWideKeyword(x) || css.IsWideKeyword(y):
		return ""
	}
	return x + " " + y
}

// textDecorationExpander handles text-decoration over line, style and
// color.
type textDecorationExpander struct{}

func (textDecorationExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	m, wide := expandSlots(d.reg, "text-decoration", tokens, false)
	if !fillMissingSlots(m, "text-decoration", wide, "initial") {
		return false
	}
	return d.storeComponents(m, priority)
}

func (textDecorationExpander) text(_ *Declaration, values map[string]string) string {
	var all []string
	for _, name := range shorthandSlots["text-decoration"] {
		v, ok := values[name]
		if !ok {
			return ""
		}
		all = append(all, v)
	}
	if allEqualWide(all) {
		return all[0]
	}
	if anyWideExceptInitial(all) {
		return ""
	}
	var parts []string
	for _, v := range all {
		if v != "initial" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// whiteSpaceExpander handles white-space as a fixed mapping onto
// text-space-collapse, text-wrap and text-space-trim.
type whiteSpaceExpander struct{}

func (whiteSpaceExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	value := css.Text(tokens)
	var collapse, wrap, trim string
	switch value {
	case "normal":
		collapse, wrap, trim = "collapse", "wrap", "none"
	case "pre":
		collapse, wrap, trim = "preserve", "nowrap", "none"
	case "nowrap":
		collapse, wrap, trim = "collapse", "nowrap", "none"
	case "pre-wrap":
		collapse, wrap, trim = "preserve", "wrap", "none"
	case "pre-line":
		collapse, wrap, trim = "preserve-breaks", "wrap", "none"
	default:
		if css.IsWideKeyword(value) {
			keyword := strings.ToLower(value)
			collapse, wrap, trim = keyword, keyword, keyword
		} else {
			collapse = initialOf(d.reg, "text-space-collapse")
			wrap = initialOf(d.reg, "text-wrap")
			trim = initialOf(d.reg, "text-space-trim")
		}
	}

	m := newComponentMap()
	m.set("text-space-collapse", componentList(collapse))
	m.set("text-wrap", componentList(wrap))
	m.set("text-space-trim", componentList(trim))
	return d.storeComponents(m, priority)
}

func (whiteSpaceExpander) text(_ *Declaration, values map[string]string) string {
	collapse, cok := values["text-space-collapse"]
	wrap, wok := values["text-wrap"]
	trim, tok := values["text-space-trim"]
	switch {
	case !cok || !wok || !tok:
		return ""
	case collapse == "collapse" && wrap == "wrap" && trim == "none":
		return "normal"
	case collapse == "preserve" && wrap == "nowrap" && trim == "none":
		return "pre"
	case collapse == "collapse" && wrap == "nowrap" && trim == "none":
		return "nowrap"
	case collapse == "preserve" && wrap == "wrap" && trim == "none":
		return "pre-wrap"
	case collapse == "preserve-breaks" && wrap == "wrap" && trim == "none":
		return "pre-line"
	}
	if all := []string{collapse, wrap, trim}; allEqualWide(all) {
		return all[0]
	}
	return ""
}
