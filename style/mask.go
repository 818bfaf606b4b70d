package style

import (
	"strings"

	"cssval/css"
)

// maskExpander handles the mask shorthand. A single <geometry-box>
// keyword sets both mask-origin and mask-clip; two set them in order.
// mask-size only collapses behind a '/' after mask-position.
type maskExpander struct{}

func (maskExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	m, wide := expandSlots(d.reg, "mask", tokens, false)

	if origin := m.get("mask-origin"); len(origin) > 0 {
		geometry := css.Significant(origin)
		switch {
		case len(geometry) == 1 && !m.has("mask-clip"):
			m.set("mask-clip", []css.Token{geometry[0]})
		case len(geometry) == 2 && !m.has("mask-clip"):
			m.set("mask-origin", []css.Token{geometry[0]})
			m.set("mask-clip", []css.Token{geometry[1]})
		case len(geometry) >= 2:
			m.delete("mask-origin")
		}
	}

	if !fillMissingSlots(m, "mask", wide, "initial") {
		return false
	}
	return d.storeComponents(m, priority)
}

func (maskExpander) text(d *Declaration, values map[string]string) string {
	keys := d.Names()
	minIdx, maxIdx := -1, -1
	for _, name := range shorthandSlots["mask"] {
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
	// mask-border declarations interleaved with the mask run block the
	// shorthand; after the run they only do so when not left at initial.
	for _, name := range shorthandSlots["mask-border"] {
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

	var all []string
	for _, name := range shorthandSlots["mask"] {
		v, ok := values[name]
		if !ok {
			return ""
		}
		all = append(all, v)
	}
	if anyWide(all) {
		if allEqualWide(all) {
			return all[0]
		}
		if anyWideExceptInitial(all) {
			return ""
		}
	}
	if values["mask-position"] == "initial" && values["mask-size"] != "initial" {
		return ""
	}

	var parts []string
	for _, name := range shorthandSlots["mask"] {
		value := values[name]
		switch {
		case value == "initial":
		case name == "mask-clip" && values["mask-origin"] == values["mask-clip"]:
		case name == "mask-size":
			parts = append(parts, "/", value)
		default:
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

// maskBorderExpander handles mask-border. The slice/width/outset slots
// chain behind '/' separators, so width is only scanned once slice
// matched and outset once width did.
type maskBorderExpander struct{}

func (maskBorderExpander) set(d *Declaration, tokens []css.Token, priority string) bool {
	m := newComponentMap()
	var wide []string

	tokens = fillSlot(d.reg, "mask-border-source", tokens, m, &wide)
	tokens = fillSlot(d.reg, "mask-border-slice", tokens, m, &wide)
	if m.has("mask-border-slice") {
		tokens = fillSlot(d.reg, "mask-border-width", tokens, m, &wide)
	}
	if m.has("mask-border-width") {
		tokens = fillSlot(d.reg, "mask-border-outset", tokens, m, &wide)
	}
	tokens = fillSlot(d.reg, "mask-border-repeat", tokens, m, &wide)
	fillSlot(d.reg, "mask-border-mode", tokens, m, &wide)

	if !fillMissingSlots(m, "mask-border", wide, "initial") {
		return false
	}
	return d.storeComponents(m, priority)
}

func (maskBorderExpander) text(d *Declaration, values map[string]string) string {
	keys := d.Names()
	minIdx, maxIdx := -1, -1
	for _, name := range shorthandSlots["mask-border"] {
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
	// Any mask declaration interleaved with or set after the mask-border
	// run blocks the shorthand.
	for _, name := range shorthandSlots["mask"] {
		idx := indexOf(keys, name)
		if idx < 0 {
			continue
		}
		if (minIdx < idx && idx < maxIdx) || maxIdx < idx {
			return ""
		}
	}

	var all []string
	for _, name := range shorthandSlots["mask-border"] {
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
	slice := values["mask-border-slice"]
	width := values["mask-border-width"]
	outset := values["mask-border-outset"]
	// <mask-border-slice> [ / <mask-border-width>? [ / <mask-border-outset> ]? ]?
	if slice == "initial" && width != "initial" {
		return ""
	}
	if (slice == "initial" || width == "initial") && outset != "initial" {
		return ""
	}

	var parts []string
	for _, name := range shorthandSlots["mask-border"] {
		value := values[name]
		switch {
		case value == "initial":
		case name == "mask-border-width" || name == "mask-border-outset":
			parts = append(parts, "/", value)
		default:
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}
