// Package resolve turns context-relative CSS lengths into absolute
// pixel magnitudes: font-relative and viewport-relative units against a
// document context, plus the font-size, font-weight and line-height
// keyword computations that feed them.
package resolve

import (
	"fmt"

	"cssval/css"
)

// Document-level defaults used when no context can answer a query.
const (
	DefaultFontSize   = 16
	DefaultFontWeight = 400
)

// Context is one node in a document tree as seen by the resolver. All
// queries are read-only. Implementations must be comparable; the
// resolver tracks visited nodes to cut parent cycles.
type Context interface {
	// Parent returns the parent node, or nil at the document root.
	Parent() Context

	// IsRoot reports whether this node is the document root element.
	IsRoot() bool

	// ComputedFontSize returns the node's computed font size in pixels.
	ComputedFontSize() float64

	// FontMetric returns a font-face measure in pixels for the current
	// font: "x-height", "cap-height", "ch-advance" or "ic-advance".
	// ok is false when the metric is not available.
	FontMetric(name string) (value float64, ok bool)

	// ViewportSize returns the width and height in pixels of the
	// nearest viewport established above this node.
	ViewportSize() (w, h float64)
}

// AttributeSource is implemented by contexts that expose per-node
// style values, keyed by property name. The font-size and font-weight
// keyword walks read ancestor values through it.
type AttributeSource interface {
	// StyleAttribute returns the node's specified value for a
	// property, or ok false when the node does not set it.
	StyleAttribute(name string) (value string, ok bool)
}

// Font metric names understood by Context.FontMetric.
const (
	MetricXHeight   = "x-height"
	MetricCapHeight = "cap-height"
	MetricChAdvance = "ch-advance"
	MetricIcAdvance = "ic-advance"
)

// rootOf climbs to the document root.
func rootOf(ctx Context) (Context, error) {
	seen := map[Context]struct{}{}
	for {
		if _, ok := seen[ctx]; ok {
			return nil, fmt.Errorf("%w: at %v", css.ErrContextCycle, ctx)
		}
		seen[ctx] = struct{}{}
		parent := ctx.Parent()
		if parent == nil || ctx.IsRoot() {
			return ctx, nil
		}
		ctx = parent
	}
}

// ancestorChain returns ctx's ancestors ordered from the document root
// down to the immediate parent.
func ancestorChain(ctx Context) ([]Context, error) {
	seen := map[Context]struct{}{ctx: {}}
	var chain []Context
	for parent := ctx.Parent(); parent != nil; parent = parent.Parent() {
		if _, ok := seen[parent]; ok {
			return nil, fmt.Errorf("%w: at %v", css.ErrContextCycle, parent)
		}
		seen[parent] = struct{}{}
		chain = append(chain, parent)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// styleValue reads a property from the node itself, without inheriting.
func styleValue(ctx Context, name string) (string, bool) {
	src, ok := ctx.(AttributeSource)
	if !ok {
		return "", false
	}
	return src.StyleAttribute(name)
}

// inheritedValue reads a property from the node or its nearest ancestor
// that sets it. An explicit "inherit" keeps climbing.
func inheritedValue(ctx Context, name string) (string, bool) {
	seen := map[Context]struct{}{}
	for node := ctx; node != nil; node = node.Parent() {
		if _, ok := seen[node]; ok {
			return "", false
		}
		seen[node] = struct{}{}
		if value, ok := styleValue(node, name); ok && value != "inherit" {
			return value, true
		}
	}
	return "", false
}
