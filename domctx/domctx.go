// Package domctx adapts an etree XML document to the length resolver's
// Context interface: parent chains, inline style over presentation
// attributes, computed font properties and the SVG viewport walk.
//
// Documents and nodes are not safe for concurrent use, matching the
// underlying etree types.
package domctx

import (
	"github.com/beevik/etree"

	"cssval/mediaquery"
	"cssval/resolve"
	"cssval/style"
)

// MetricsFunc supplies a font-face measure in pixels for an element's
// current font: x-height, cap-height, ch-advance or ic-advance.
type MetricsFunc func(n *Node, name string) (value float64, ok bool)

// Document wraps a parsed XML tree and hands out one canonical Node
// per element, so nodes compare equal exactly when they wrap the same
// element.
type Document struct {
	// Screen is the output device backing viewport defaults and media
	// query evaluation.
	Screen mediaquery.Screen

	// Metrics resolves font metrics for ex, cap, ch and ic units.
	// When nil the resolver falls back to half the font size.
	Metrics MetricsFunc

	tree  *etree.Document
	nodes map[*etree.Element]*Node
}

// New wraps tree with the default screen.
func New(tree *etree.Document) *Document {
	return &Document{
		Screen: mediaquery.DefaultScreen(),
		tree:   tree,
		nodes:  make(map[*etree.Element]*Node),
	}
}

// Tree returns the wrapped etree document.
func (d *Document) Tree() *etree.Document {
	return d.tree
}

// Root returns the document root node, or nil for an empty document.
func (d *Document) Root() *Node {
	return d.node(d.tree.Root())
}

// Node returns the canonical wrapper for el.
func (d *Document) Node(el *etree.Element) *Node {
	return d.node(el)
}

func (d *Document) node(el *etree.Element) *Node {
	if el == nil {
		return nil
	}
	if n, ok := d.nodes[el]; ok {
		return n
	}
	n := &Node{doc: d, el: el}
	d.nodes[el] = n
	return n
}

// MatchMedia evaluates a media query list against the document's
// screen, with the screen size as the viewport. Relative units in
// query values resolve against the document element.
func (d *Document) MatchMedia(text string) (matches bool, media string) {
	features := d.Screen.Features(float64(d.Screen.Width), float64(d.Screen.Height))
	cmp := mediaquery.CompareFunc(mediaquery.PixelCompare)
	if root := d.Root(); root != nil {
		cmp = mediaquery.ContextCompare(root)
	}
	return mediaquery.Matches(mediaquery.Parse(text), features, cmp)
}

// Node is one element of a wrapped document.
type Node struct {
	doc    *Document
	el     *etree.Element
	inline *style.Declaration
}

// Element returns the wrapped etree element.
func (n *Node) Element() *etree.Element {
	return n.el
}

// Tag returns the element's local name.
func (n *Node) Tag() string {
	return n.el.Tag
}

// Parent returns the parent node, or nil at the document root.
func (n *Node) Parent() resolve.Context {
	p := n.parent()
	if p == nil {
		return nil
	}
	return p
}

// parent skips the unnamed container element etree places above the
// root.
func (n *Node) parent() *Node {
	p := n.el.Parent()
	if p == nil || p.Tag == "" {
		return nil
	}
	return n.doc.node(p)
}

// IsRoot reports whether this node is the document element.
func (n *Node) IsRoot() bool {
	return n.el == n.doc.tree.Root()
}

// StyleAttribute returns the element's specified value for a property.
// A declaration in the style attribute wins over the presentation
// attribute of the same name, and shorthands set through the style
// attribute answer for their longhands.
func (n *Node) StyleAttribute(name string) (string, bool) {
	if value, _, ok := n.inlineStyle().Value(name); ok {
		return value, true
	}
	if a := n.el.SelectAttr(name); a != nil {
		return a.Value, true
	}
	return "", false
}

func (n *Node) inlineStyle() *style.Declaration {
	if n.inline == nil {
		n.inline = style.NewDeclaration(nil)
		if a := n.el.SelectAttr("style"); a != nil {
			n.inline.SetText(a.Value)
		}
	}
	return n.inline
}

// InheritedStyle returns the nearest ancestor-or-self specified value
// for a property. An explicit "inherit" keeps climbing.
func (n *Node) InheritedStyle(name string) (string, bool) {
	for node := n; node != nil; node = node.parent() {
		if v, ok := node.StyleAttribute(name); ok && v != "inherit" {
			return v, true
		}
	}
	return "", false
}

// ComputedFontSize returns the node's computed font size in pixels.
// Unresolvable font-size chains degrade to the document default.
func (n *Node) ComputedFontSize() float64 {
	size, err := resolve.ComputeFontSize(n)
	if err != nil {
		return resolve.DefaultFontSize
	}
	return size
}

// ComputedFontWeight returns the node's computed font weight.
func (n *Node) ComputedFontWeight() int {
	weight, err := resolve.ComputeFontWeight(n)
	if err != nil {
		return resolve.DefaultFontWeight
	}
	return weight
}

// LineHeight returns the node's used line height in pixels.
func (n *Node) LineHeight() float64 {
	fontSize := n.ComputedFontSize()
	value, ok := n.InheritedStyle("line-height")
	if !ok {
		value = "normal"
	}
	lh, err := resolve.ComputeLineHeight(n, value, fontSize)
	if err != nil {
		return 1.2 * fontSize
	}
	return lh
}

// FontMetric reports a font-face measure through the document's
// metrics hook.
func (n *Node) FontMetric(name string) (float64, bool) {
	if n.doc.Metrics == nil {
		return 0, false
	}
	return n.doc.Metrics(n, name)
}
