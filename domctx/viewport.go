package domctx

import (
	"math"

	"cssval/resolve"
)

// ViewportSize returns the width and height in pixels of the nearest
// viewport established at or above this node.
func (n *Node) ViewportSize() (w, h float64) {
	_, _, w, h = n.Viewport()
	return w, h
}

// Viewport computes the SVG viewport rectangle established for this
// node. Viewport-establishing ancestors resolve outermost first, each
// against the viewport of its parent; the initial viewport is the
// document screen size. The x and y offsets come from the innermost
// establishing element alone.
func (n *Node) Viewport() (x, y, w, h float64) {
	roots := n.viewportRoots()
	parentW := float64(n.doc.Screen.Width)
	parentH := float64(n.doc.Screen.Height)
	w, h = parentW, parentH
	for _, root := range roots {
		w = viewportExtent(root, "width", resolve.DirectionHorizontal, parentW, parentH)
		parentW = w
		h = viewportExtent(root, "height", resolve.DirectionVertical, parentH, parentW)
		parentH = h
	}
	if len(roots) == 0 {
		return 0, 0, w, h
	}
	inner := roots[len(roots)-1]
	x = viewportOffset(inner, "x", resolve.DirectionHorizontal, w, h)
	y = viewportOffset(inner, "y", resolve.DirectionVertical, h, w)
	return x, y, w, h
}

// viewportRoots collects the ancestor-or-self elements that establish
// viewports, ordered outermost first.
func (n *Node) viewportRoots() []*Node {
	var roots []*Node
	for node := n; node != nil; {
		root := node.nearestViewportElement()
		if root == nil {
			break
		}
		roots = append(roots, root)
		node = root.parent()
	}
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots
}

// nearestViewportElement returns the nearest ancestor-or-self svg or
// symbol element.
func (n *Node) nearestViewportElement() *Node {
	for node := n; node != nil; node = node.parent() {
		switch node.el.Tag {
		case "svg", "symbol":
			return node
		}
	}
	return nil
}

// viewportExtent resolves the width or height attribute of a
// viewport-establishing element. auto means 100%, inherit keeps the
// parent extent, and unresolvable values degrade to it too.
func viewportExtent(root *Node, attr string, dir resolve.Direction, sameAxis, crossAxis float64) float64 {
	raw := root.el.SelectAttrValue(attr, "auto")
	if raw == "auto" {
		raw = "100%"
	}
	if raw == "inherit" {
		return sameAxis
	}
	v, err := viewportValue(root, raw, dir, sameAxis, crossAxis)
	if err != nil {
		return sameAxis
	}
	return v
}

// viewportOffset resolves the x or y attribute of the innermost
// viewport-establishing element against the final viewport extents.
func viewportOffset(root *Node, attr string, dir resolve.Direction, sameAxis, crossAxis float64) float64 {
	v, err := viewportValue(root, root.el.SelectAttrValue(attr, "0"), dir, sameAxis, crossAxis)
	if err != nil {
		return 0
	}
	return v
}

// viewportValue resolves one length against the enclosing viewport.
// Percentages and same-axis viewport units scale sameAxis, the
// cross-axis unit scales crossAxis, and vmin/vmax take the smaller or
// larger extent whole. Anything else converts through the resolver
// with the element as context.
func viewportValue(root *Node, raw string, dir resolve.Direction, sameAxis, crossAxis float64) (float64, error) {
	lv, err := resolve.Parse(raw)
	if err != nil {
		return 0, err
	}
	widthBase, heightBase := sameAxis, crossAxis
	if dir == resolve.DirectionVertical {
		widthBase, heightBase = crossAxis, sameAxis
	}
	switch lv.Unit() {
	case resolve.UnitPercent:
		return scalarOf(lv) / 100 * sameAxis, nil
	case resolve.UnitVw:
		return scalarOf(lv) / 100 * widthBase, nil
	case resolve.UnitVh:
		return scalarOf(lv) / 100 * heightBase, nil
	case resolve.UnitVmin:
		return math.Min(sameAxis, crossAxis), nil
	case resolve.UnitVmax:
		return math.Max(sameAxis, crossAxis), nil
	}
	return lv.WithContext(root).WithDirection(dir).Value(resolve.UnitPx)
}

// scalarOf reads a length's magnitude in its own unit.
func scalarOf(lv *resolve.Length) float64 {
	v, err := lv.Value(lv.Unit())
	if err != nil {
		return 0
	}
	return v
}
