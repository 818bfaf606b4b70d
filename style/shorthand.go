package style

import (
	"regexp"
	"sort"
	"strings"

	"cssval/css"
	"cssval/property"
)

// shorthandSlots lists each shorthand's longhand slots in scan order.
// The -css2/-css3 suffixed entries name narrower grammar variants used
// only while matching slots; they are stripped from the public longhand
// names by Longhands.
var shorthandSlots = map[string][]string{
	"font": {
		"font-style",
		"font-variant-css2",
		"font-weight",
		"font-stretch-css3",
		"font-size",
		"line-height",
		"font-family",
	},
	"font-synthesis": {
		"font-synthesis-weight",
		"font-synthesis-style",
	},
	"font-variant": {
		"font-variant-ligatures",
		"font-variant-caps",
		"font-variant-alternates",
		"font-variant-numeric",
		"font-variant-east-asian",
		"font-variant-position",
	},
	"mask": {
		"mask-image",
		"mask-position",
		"mask-size",
		"mask-repeat",
		"mask-origin",
		"mask-clip",
		"mask-composite",
		"mask-mode",
	},
	"mask-border": {
		"mask-border-source",
		"mask-border-slice",
		"mask-border-width",
		"mask-border-outset",
		"mask-border-repeat",
		"mask-border-mode",
	},
	"overflow": {
		"overflow-x",
		"overflow-y",
	},
	"text-decoration": {
		"text-decoration-line",
		"text-decoration-style",
		"text-decoration-color",
	},
	"white-space": {
		"text-space-collapse",
		"text-wrap",
		"text-space-trim",
	},
}

var reCSSVersion = regexp.MustCompile(`-css[0-9]$`)

// solidusSlots only begin consuming after a '/' separator, covering
// font-size/line-height and mask-border-slice/width/outset.
var solidusSlots = map[string]struct{}{
	"line-height":        {},
	"mask-border-width":  {},
	"mask-border-outset": {},
}

// fontSubProperties cannot be represented by the font shorthand; when
// one of them is set inside or after the font longhand run, the run no
// longer collapses.
var fontSubProperties = []string{
	"font-size-adjust",
	"font-kerning",
	"font-feature-settings",
	"font-language-override",
	"font-min-size",
	"font-max-size",
	"font-optical-sizing",
	"font-variation-settings",
	"font-palette",
}

// expander implements one shorthand property: spreading a value over the
// longhand slots and serializing the longhands back into shorthand form.
type expander interface {
	set(d *Declaration, tokens []css.Token, priority string) bool
	text(d *Declaration, values map[string]string) string
}

var expanders = map[string]expander{
	"font":            fontExpander{},
	"font-synthesis":  fontSynthesisExpander{},
	"font-variant":    fontVariantExpander{},
	"mask":            maskExpander{},
	"mask-border":     maskBorderExpander{},
	"overflow":        overflowExpander{},
	"text-decoration": textDecorationExpander{},
	"white-space":     whiteSpaceExpander{},
}

// IsShorthand reports whether the property expands into longhands.
// Custom properties never do.
func IsShorthand(name string) bool {
	if css.IsCustomProperty(name) {
		return false
	}
	_, ok := shorthandSlots[strings.ToLower(name)]
	return ok
}

// Shorthands returns every shorthand property name, sorted.
func Shorthands() []string {
	names := make([]string, 0, len(shorthandSlots))
	for name := range shorthandSlots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Longhands returns the longhand names a shorthand expands to, in slot
// order. A nested shorthand such as font-variant inside font appears
// under its own name; use LonghandList for full expansion.
func Longhands(name string) []string {
	slots := shorthandSlots[strings.ToLower(name)]
	out := make([]string, len(slots))
	for i, slot := range slots {
		out[i] = reCSSVersion.ReplaceAllString(slot, "")
	}
	return out
}

// LonghandList expands a shorthand to its full set of longhands,
// descending through nested shorthands.
func LonghandList(name string) []string {
	var list []string
	for _, longhand := range Longhands(name) {
		if IsShorthand(longhand) {
			list = append(list, LonghandList(longhand)...)
		} else {
			list = append(list, longhand)
		}
	}
	return list
}

// Expand parses a shorthand value and spreads it over the shorthand's
// longhands, returning the resulting block. ok is false when name is not
// a known shorthand or the value cannot be consumed.
func Expand(reg *property.Registry, name, value, priority string) (*Declaration, bool) {
	d := NewDeclaration(reg)
	name = strings.ToLower(name)
	if !IsShorthand(name) {
		return d, false
	}
	priority = strings.ToLower(priority)
	if priority != "" && priority != "important" {
		return d, false
	}
	tokens := css.TopLevel(css.Tokenize(css.NormalizeText(value)))
	if len(tokens) == 0 {
		return d, false
	}
	return d, d.setShorthand(name, tokens, priority)
}

// Collapse serializes the longhands recorded in the block back into the
// shorthand's textual form. It returns "" when the block cannot be
// represented: a longhand missing or holding a value outside the
// shorthand grammar, mismatched priorities, or a property of the same
// family interleaved into the longhand run.
func Collapse(d *Declaration, name string) string {
	name = strings.ToLower(name)
	if !IsShorthand(name) {
		return ""
	}
	return d.collapse(name)
}

func (d *Declaration) setShorthand(name string, tokens []css.Token, priority string) bool {
	x, ok := expanders[name]
	if !ok {
		return false
	}
	return x.set(d, tokens, priority)
}

// collapse rebuilds a shorthand value from its longhands.
func (d *Declaration) collapse(name string) string {
	values := make(map[string]string)
	var priorities []string
	for _, longhand := range Longhands(name) {
		var value, priority string
		if IsShorthand(longhand) {
			value = d.collapse(longhand)
			priority = d.collapsePriority(longhand)
		} else {
			e, ok := d.items[longhand]
			if !ok {
				continue
			}
			desc, found := d.reg.Lookup(longhand)
			if e.value == "" || !found || !desc.Supports(e.value) {
				return ""
			}
			value, priority = e.value, e.priority
		}
		values[longhand] = value
		priorities = append(priorities, priority)
	}
	if !allEqual(priorities) {
		return ""
	}
	x, ok := expanders[name]
	if !ok {
		return ""
	}
	return x.text(d, values)
}

func (d *Declaration) collapsePriority(name string) string {
	var priorities []string
	for _, longhand := range Longhands(name) {
		if IsShorthand(longhand) {
			priorities = append(priorities, d.collapsePriority(longhand))
		} else if e, ok := d.items[longhand]; ok {
			priorities = append(priorities, e.priority)
		}
	}
	if !allEqual(priorities) {
		return ""
	}
	return priorities[0]
}

func (d *Declaration) removeShorthand(name string) bool {
	removed := false
	for _, longhand := range Longhands(name) {
		if IsShorthand(longhand) {
			if d.removeShorthand(longhand) {
				removed = true
			}
		} else if d.remove(longhand) {
			removed = true
		}
	}
	return removed
}

// storeComponents writes the expanded slot values into the block, all
// with the same priority.
func (d *Declaration) storeComponents(m *componentMap, priority string) bool {
	updated := false
	for _, name := range m.names {
		updated = true
		d.store(name, entry{value: css.Text(m.items[name]), priority: priority})
	}
	return updated
}

// componentMap is an insertion-ordered map from slot name to the tokens
// consumed for that slot.
type componentMap struct {
	names []string
	items map[string][]css.Token
}

func newComponentMap() *componentMap {
	return &componentMap{items: make(map[string][]css.Token)}
}

func (m *componentMap) has(name string) bool {
	_, ok := m.items[name]
	return ok
}

func (m *componentMap) get(name string) []css.Token {
	return m.items[name]
}

// set inserts or replaces an entry; a replaced entry keeps its position.
func (m *componentMap) set(name string, tokens []css.Token) {
	if !m.has(name) {
		m.names = append(m.names, name)
	}
	m.items[name] = tokens
}

// add appends one token to an entry, creating it first if needed.
func (m *componentMap) add(name string, tok css.Token) {
	if !m.has(name) {
		m.names = append(m.names, name)
	}
	m.items[name] = append(m.items[name], tok)
}

// ensure creates an empty entry if none exists.
func (m *componentMap) ensure(name string) {
	if !m.has(name) {
		m.names = append(m.names, name)
		m.items[name] = []css.Token{}
	}
}

func (m *componentMap) delete(name string) {
	if !m.has(name) {
		return
	}
	delete(m.items, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

func (m *componentMap) pop(name string) []css.Token {
	tokens := m.items[name]
	m.delete(name)
	return tokens
}

func (m *componentMap) clear() {
	m.names = m.names[:0]
	m.items = make(map[string][]css.Token)
}

// fillSlot greedily consumes tokens the slot's grammar accepts and
// records them in m, returning the tokens left for later slots. Wide
// keywords are collected separately; commas and the '/' separator are
// structural and follow the slot's grammar.
func fillSlot(reg *property.Registry, name string, tokens []css.Token, m *componentMap, wide *[]string) []css.Token {
	desc, ok := reg.Lookup(name)
	if !ok {
		return tokens
	}
	syntax := desc.Syntax()
	_, solidusSlot := solidusSlots[name]
	foundSolidus := false
	remaining := make([]css.Token, 0, len(tokens))
	i := 0
scan:
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.IsWhitespace():
			if m.has(name) {
				m.add(name, tok)
			} else {
				remaining = append(remaining, tok)
			}
		case tok.Type == css.IdentToken && css.IsWideKeyword(tok.Data):
			*wide = append(*wide, strings.ToLower(tok.Data))
		case tok.Type == css.CommaToken:
			if !strings.Contains(syntax, "#") && !strings.Contains(syntax, ",") {
				m.delete(name)
				break scan
			}
			if m.has(name) {
				m.add(name, tok)
			} else {
				remaining = append(remaining, tok)
			}
		case tok.IsDelim('/'):
			if !solidusSlot && !strings.Contains(syntax, "/") {
				if len(m.get(name)) > 0 {
					break scan
				}
				remaining = append(remaining, tok)
				continue
			}
			if foundSolidus {
				break scan
			}
			foundSolidus = true
			m.ensure(name)
			if strings.Contains(syntax, "/") {
				m.add(name, tok)
			}
		default:
			if solidusSlot && !foundSolidus {
				remaining = append(remaining, tok)
				continue
			}
			supported, category := desc.Classify(tok)
			if supported {
				m.add(name, tok)
				// the fill keyword ends the slice slot
				if name == "mask-border-slice" && category == property.CategoryCustomIdent {
					i++
					break scan
				}
				continue
			}
			if foundSolidus || len(m.get(name)) > 0 {
				break scan
			}
			remaining = append(remaining, tok)
		}
	}
	remaining = append(remaining, tokens[i:]...)
	if m.has(name) && len(m.get(name)) == 0 {
		m.delete(name)
	}
	return remaining
}

// expandSlots runs fillSlot over every slot of a shorthand. With
// setInitial, a single wide keyword fans out to every slot and any slot
// left unfilled receives its registry initial value.
func expandSlots(reg *property.Registry, name string, tokens []css.Token, setInitial bool) (*componentMap, []string) {
	m := newComponentMap()
	var wide []string
	slots := shorthandSlots[name]
	for _, slot := range slots {
		tokens = fillSlot(reg, slot, tokens, m, &wide)
	}
	if len(wide) > 0 {
		m.clear()
	}
	if len(wide) == 1 && setInitial {
		keyword := componentList(wide[0])
		for _, slot := range slots {
			m.set(slot, append([]css.Token(nil), keyword...))
		}
	} else if setInitial {
		for _, slot := range slots {
			if m.has(slot) {
				continue
			}
			m.set(slot, componentList(initialOf(reg, slot)))
		}
	}
	return m, wide
}

// fillMissingSlots finishes expansion for shorthands that defer initial
// filling: more than one wide keyword fails, exactly one fans out, and
// unfilled slots receive the fallback value.
func fillMissingSlots(m *componentMap, name string, wide []string, fallback string) bool {
	var initial []css.Token
	switch {
	case len(wide) > 1:
		return false
	case len(wide) == 1:
		m.clear()
		initial = componentList(wide[0])
	default:
		initial = componentList(fallback)
	}
	for _, slot := range shorthandSlots[name] {
		if !m.has(slot) {
			m.set(slot, append([]css.Token(nil), initial...))
		}
	}
	return true
}

// componentList tokenizes stored value text back into component tokens.
func componentList(value string) []css.Token {
	return css.TopLevel(css.Tokenize(value))
}

func initialOf(reg *property.Registry, name string) string {
	desc, ok := reg.Lookup(name)
	if !ok {
		return ""
	}
	initial, _ := desc.Initial()
	return initial
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func allEqual(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func anyWide(values []string) bool {
	for _, v := range values {
		if css.IsWideKeyword(v) {
			return true
		}
	}
	return false
}

// allEqualWide reports whether every value is the same wide keyword.
func allEqualWide(values []string) bool {
	for _, v := range values {
		if !css.IsWideKeyword(v) {
			return false
		}
	}
	return allEqual(values)
}

// anyWideExceptInitial reports whether any value is a wide keyword other
// than initial.
func anyWideExceptInitial(values []string) bool {
	for _, v := range values {
		if v != "initial" && css.IsWideKeyword(v) {
			return true
		}
	}
	return false
}
