// Package style implements CSS declaration blocks and the bidirectional
// mapping between shorthand properties and their longhands.
package style

import (
	"strings"

	"cssval/css"
	"cssval/property"
)

type entry struct {
	value    string
	priority string
}

// Declaration is an ordered block of CSS declarations, one per property
// name. Insertion order is cascade-significant: re-setting a name moves
// it to the end so that the most recently set declaration wins.
//
// Shorthand properties are never stored directly. Setting one spreads
// its value over the shorthand's longhands and reading one serializes
// the longhands back, so a block only ever holds longhands and custom
// properties.
type Declaration struct {
	reg   *property.Registry
	names []string
	items map[string]entry
}

// NewDeclaration returns an empty declaration block validating against
// the given registry, or the default registry when reg is nil.
func NewDeclaration(reg *property.Registry) *Declaration {
	if reg == nil {
		reg = property.Default()
	}
	return &Declaration{reg: reg, items: make(map[string]entry)}
}

// Len returns the number of stored declarations.
func (d *Declaration) Len() int { return len(d.names) }

// Item returns the property name at the given position, or "" when the
// index is out of range.
func (d *Declaration) Item(i int) string {
	if i < 0 || i >= len(d.names) {
		return ""
	}
	return d.names[i]
}

// Names returns the stored property names in declaration order.
func (d *Declaration) Names() []string {
	return append([]string(nil), d.names...)
}

// Value returns the stored value and priority for an exact property
// name, without shorthand handling.
func (d *Declaration) Value(name string) (value, priority string, ok bool) {
	e, ok := d.items[name]
	return e.value, e.priority, ok
}

// Get returns the value of the named property. For a shorthand the
// longhands are collapsed back into shorthand form; "" means the
// property is absent or cannot be represented.
func (d *Declaration) Get(name string) string {
	if !css.IsCustomProperty(name) {
		name = strings.ToLower(name)
		if IsShorthand(name) {
			return d.collapse(name)
		}
	}
	e, ok := d.items[name]
	if !ok {
		return ""
	}
	return e.value
}

// Priority returns the priority of the named property. For a shorthand
// all longhands must agree on one priority, otherwise "" is returned.
func (d *Declaration) Priority(name string) string {
	if !css.IsCustomProperty(name) {
		name = strings.ToLower(name)
		if IsShorthand(name) {
			return d.collapsePriority(name)
		}
	}
	e, ok := d.items[name]
	if !ok {
		return ""
	}
	return e.priority
}

// Set stores a declaration, keeping any priority already recorded for
// the name. An empty value removes the declaration.
func (d *Declaration) Set(name, value string) {
	d.setProperty(name, value, nil)
}

// SetPriority stores a declaration with an explicit priority, which must
// be "" or "important"; any other priority makes the call a no-op.
func (d *Declaration) SetPriority(name, value, priority string) {
	d.setProperty(name, value, &priority)
}

func (d *Declaration) setProperty(name, value string, priority *string) {
	value = css.NormalizeText(value)
	if value == "" {
		d.Remove(name)
		return
	}
	if !css.IsCustomProperty(name) {
		name = strings.ToLower(name)
	}
	var prio string
	if priority == nil {
		prio = d.Priority(name)
	} else {
		prio = strings.ToLower(*priority)
	}
	if prio != "" && prio != "important" {
		return
	}
	tokens := css.TopLevel(css.Tokenize(value))
	if len(tokens) == 0 {
		return
	}
	if IsShorthand(name) {
		d.setShorthand(name, tokens, prio)
		return
	}
	d.setLonghand(name, tokens, prio)
}

// setLonghand stores a single longhand or custom property. Wide and
// special color keywords are stored lowercased.
func (d *Declaration) setLonghand(name string, tokens []css.Token, priority string) bool {
	value := css.Text(tokens)
	if value == "" {
		return false
	}
	if lower := strings.ToLower(value); css.IsWideKeyword(lower) || css.IsColorKeyword(lower) {
		value = lower
	}
	d.store(name, entry{value: value, priority: priority})
	return true
}

// Remove deletes the named property and returns the value it had.
// Removing a shorthand removes all of its longhands.
func (d *Declaration) Remove(name string) string {
	if !css.IsCustomProperty(name) {
		name = strings.ToLower(name)
	}
	value := d.Get(name)
	if IsShorthand(name) {
		d.removeShorthand(name)
	} else {
		d.remove(name)
	}
	return value
}

// SetText replaces the block's contents with the declarations parsed
// from a declaration list, such as a style attribute value.
func (d *Declaration) SetText(text string) {
	d.names = d.names[:0]
	d.items = make(map[string]entry)
	for _, raw := range css.SplitDeclarations(text) {
		priority := ""
		if raw.Important {
			priority = "important"
		}
		d.SetPriority(raw.Name, raw.Value, priority)
	}
}

// Text serializes the block back to declaration-list form.
func (d *Declaration) Text() string {
	var b strings.Builder
	for i, name := range d.names {
		if i > 0 {
			b.WriteByte(' ')
		}
		e := d.items[name]
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(e.value)
		if e.priority != "" {
			b.WriteString(" !")
			b.WriteString(e.priority)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Clone returns an independent copy of the block.
func (d *Declaration) Clone() *Declaration {
	out := &Declaration{
		reg:   d.reg,
		names: append([]string(nil), d.names...),
		items: make(map[string]entry, len(d.items)),
	}
	for name, e := range d.items {
		out.items[name] = e
	}
	return out
}

// store inserts or replaces an entry with move-to-end semantics.
func (d *Declaration) store(name string, e entry) {
	if _, ok := d.items[name]; ok {
		d.moveToEnd(name)
	} else {
		d.names = append(d.names, name)
	}
	d.items[name] = e
}

func (d *Declaration) moveToEnd(name string) {
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			d.names = append(d.names, name)
			return
		}
	}
}

func (d *Declaration) remove(name string) bool {
	if _, ok := d.items[name]; !ok {
		return false
	}
	delete(d.items, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
	return true
}
