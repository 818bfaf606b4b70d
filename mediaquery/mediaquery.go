// Package mediaquery parses CSS media query lists and evaluates them
// against a feature snapshot. Continuous features delegate their
// comparisons to a caller-supplied CompareFunc, so the matcher itself
// carries no unit knowledge.
package mediaquery

import (
	"regexp"
	"strings"
)

// Media types accepted in a query, current and deprecated.
var mediaTypes = map[string]struct{}{
	"all": {}, "print": {}, "screen": {}, "speech": {},
	"tty": {}, "tv": {}, "projection": {}, "handheld": {},
	"braille": {}, "embossed": {}, "aural": {},
}

// Features compared by string equality rather than numerically.
var discreteFeatures = map[string]struct{}{
	"orientation": {}, "scan": {}, "grid": {}, "update": {},
	"overflow-block": {}, "overflow-inline": {}, "color-gamut": {},
	"pointer": {}, "hover": {}, "any-pointer": {}, "any-hover": {},
}

var (
	reMediaQuery = regexp.MustCompile(
		`(not\s+\(.+\))` +
			`|(\(.+\))` +
			`|((?:not\s+|only\s+)?[^ \n\t]+(?:\s+and\s+(?:\(.+\))+)?)`)
	reMediaInParens = regexp.MustCompile(
		`(\(\s*\S+\s*:\s*\S+\s*\))` +
			`|(\(\s*\S+\s*\))` +
			`|(\(\s*[^<> ]+\s*[<>]=?\s*[^<>) ]+\s*(?:[<>]=?\s*[^<>) ]+\s*)?\))` +
			`|(not\s+\(.+\))` +
			`|(\(.+\))` +
			`|(?:\s+(and|or)\s+)`)
	reMfPlain = regexp.MustCompile(`\(\s*(\S+)\s*:\s*(\S+)\s*\)`)
	reMfRange = regexp.MustCompile(
		`\(\s*([^<> ]+)\s*([<>]=?)\s*([^<>) ]+)\s*(?:([<>]=?)\s*([^<>) ]+)\s*)?\)`)
	reQuerySpace = regexp.MustCompile(`\s+`)
	reNumeric    = regexp.MustCompile(`^[+-]?(?:\d*\.\d+|\d+\.?\d*)(?:[eE][+-]?\d+)?`)
)

// Node is one node of a parsed media query tree. The set of
// implementations is closed.
type Node interface {
	node()
}

// BoolOp joins child expressions under a single operator. Op is the
// first operator seen at this level; Ops records every operator in
// source order so evaluation can reject a level mixing and with or.
type BoolOp struct {
	Op       string
	Ops      []string
	Children []Node
}

// Not negates its child expression.
type Not struct {
	Child *BoolOp
}

// Feature names a media type or a feature tested in boolean context.
type Feature struct {
	Name string
}

// Compare is a feature comparison, possibly chained: the range form
// 400px <= width <= 700px keeps one left operand, two operators and
// two right operands.
type Compare struct {
	Left   Node
	Ops    []string
	Rights []Node
}

// Literal is a leaf value: a number, dimension, ratio or identifier.
type Literal struct {
	Text string
}

func (*BoolOp) node()  {}
func (*Not) node()     {}
func (*Feature) node() {}
func (*Compare) node() {}
func (*Literal) node() {}

// Query is one comma-separated member of a media query list. Media
// holds the normalized query text. Root is nil when the text yields no
// recognizable expression; such a query never matches.
type Query struct {
	Media string
	Root  Node
}

// QueryList is a parsed media query list.
type QueryList []Query

// Parse splits a media query list on commas and parses each query into
// an expression tree. Parsing never fails outright: queries with
// broken grammar come back never-matching.
func Parse(text string) QueryList {
	var list QueryList
	for _, raw := range strings.Split(strings.ToLower(strings.TrimSpace(text)), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		b := &builder{}
		parseMediaQuery(raw, b)
		list = append(list, Query{Media: raw, Root: b.finish()})
	}
	return list
}

// builder accumulates one query's children. A media-not form morphs
// the accumulated state into a fresh negated operand, matching how the
// grammar lets not take over the whole condition.
type builder struct {
	established bool
	negated     bool
	op          string
	ops         []string
	children    []Node
}

func (b *builder) establish() {
	b.established = true
}

func (b *builder) add(n Node) {
	b.established = true
	b.children = append(b.children, n)
}

func (b *builder) negate() {
	b.established = true
	b.negated = true
	b.op = ""
	b.ops = nil
	b.children = nil
}

// segmentOp records an operator seen between a media type and its
// conditions. Only a negated operand tracks it in Ops.
func (b *builder) segmentOp(op string) {
	if b.negated {
		b.ops = append(b.ops, op)
	}
	if b.op == "" {
		b.op = op
	}
}

// parensOp records an operator seen between parenthesized conditions.
func (b *builder) parensOp(op string) {
	b.ops = append(b.ops, op)
	if b.op == "" {
		b.op = op
	}
}

func (b *builder) finish() Node {
	if !b.established {
		return nil
	}
	root := &BoolOp{Op: b.op, Ops: b.ops, Children: b.children}
	if b.negated {
		return &Not{Child: root}
	}
	if len(b.children) == 0 {
		// nothing recognizable in the query text
		return nil
	}
	return root
}

func parseMediaQuery(text string, b *builder) {
	m := reMediaQuery.FindStringSubmatch(text)
	if m == nil {
		return
	}
	switch {
	case m[1] != "":
		parseMediaNot(m[1], b)
	case m[2] != "":
		parseMediaInParens(m[2], b)
	case m[3] != "":
		parseTypeAndConditions(m[3], b)
	}
}

// parseTypeAndConditions walks the [not|only]? <media-type> [and
// <media-in-parens>]* form token by token.
func parseTypeAndConditions(text string, b *builder) {
	rest := text
	for {
		loc := reQuerySpace.FindStringIndex(rest)
		if loc == nil {
			if strings.HasPrefix(rest, "(") {
				parseMediaQuery(rest, b)
			} else {
				b.add(&Feature{Name: rest})
			}
			return
		}
		seg := rest[:loc[0]]
		switch {
		case seg == "only":
			// no effect on matching
		case seg == "not":
			b.negate()
		case seg == "and" || seg == "or":
			if !b.established {
				// invalid grammar, e.g. "or and (color)":
				// keep the operator as a media type
				b.add(&Feature{Name: seg})
			} else {
				b.segmentOp(seg)
			}
		case strings.HasPrefix(seg, "("):
			parseMediaQuery(rest, b)
			return
		default:
			b.add(&Feature{Name: seg})
		}
		rest = rest[loc[1]:]
	}
}

func parseMediaNot(text string, b *builder) {
	b.negate()
	loc := reQuerySpace.FindStringIndex(text)
	if loc == nil {
		return
	}
	parseMediaQuery(text[loc[1]:], b)
}

func parseMediaInParens(text string, b *builder) {
	b.establish()
	for _, m := range reMediaInParens.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "":
			parseMfPlain(m[1], b)
		case m[2] != "":
			parseMfBoolean(m[2], b)
		case m[3] != "":
			parseMfRange(m[3], b)
		case m[4] != "":
			parseMediaNot(m[4], b)
		case m[6] != "":
			b.parensOp(m[6])
		}
		// m[5] is an unrecognized parenthesized group; it adds no
		// child, and a query left empty by that never matches
	}
}

// parseMfPlain handles the (name: value) form, folding min- and max-
// prefixes into the comparison operator.
func parseMfPlain(text string, b *builder) {
	m := reMfPlain.FindStringSubmatch(text)
	if m == nil {
		return
	}
	name, value := m[1], m[2]
	op := "=="
	prefixed := strings.HasPrefix(name, "min-") || strings.HasPrefix(name, "max-")
	switch {
	case prefixed && isDiscrete(name[4:]):
		// min-/max- do not apply to discrete features; the prefixed
		// name stays so the comparison can never match
	case strings.HasPrefix(name, "max-"):
		op = "<="
		name = name[4:]
	case strings.HasPrefix(name, "min-"):
		op = ">="
		name = name[4:]
	}
	b.add(&Compare{
		Left:   &Feature{Name: name},
		Ops:    []string{op},
		Rights: []Node{&Literal{Text: value}},
	})
}

func parseMfBoolean(text string, b *builder) {
	b.add(&Feature{Name: strings.TrimSpace(strings.Trim(text, "()"))})
}

// parseMfRange handles (a < b) and the chained (a < b < c) forms.
func parseMfRange(text string, b *builder) {
	m := reMfRange.FindStringSubmatch(text)
	if m == nil {
		return
	}
	c := &Compare{
		Left:   rangeOperand(m[1]),
		Ops:    []string{m[2]},
		Rights: []Node{rangeOperand(m[3])},
	}
	if m[5] != "" {
		c.Ops = append(c.Ops, m[4])
		c.Rights = append(c.Rights, rangeOperand(m[5]))
	}
	b.add(c)
}

// rangeOperand classifies one side of a range: number-led text is a
// literal value, anything else a feature name.
func rangeOperand(text string) Node {
	if reNumeric.MatchString(text) {
		return &Literal{Text: text}
	}
	return &Feature{Name: text}
}

func isDiscrete(name string) bool {
	_, ok := discreteFeatures[name]
	return ok
}
