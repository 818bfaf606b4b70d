package domctx_test

import (
	"math"
	"testing"

	"github.com/beevik/etree"

	"cssval/domctx"
	"cssval/resolve"
)

func parseDoc(t *testing.T, xml string) *domctx.Document {
	t.Helper()
	tree := etree.NewDocument()
	if err := tree.ReadFromString(xml); err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return domctx.New(tree)
}

func findNode(t *testing.T, d *domctx.Document, path string) *domctx.Node {
	t.Helper()
	el := d.Tree().FindElement(path)
	if el == nil {
		t.Fatalf("element %q not found", path)
	}
	return d.Node(el)
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestNodeIdentity(t *testing.T) {
	d := parseDoc(t, `<svg><g><rect/></g></svg>`)
	root := d.Root()
	if root == nil {
		t.Fatal("Root() = nil")
	}
	if !root.IsRoot() {
		t.Errorf("IsRoot() = false, want true for the document element")
	}
	if root.Parent() != nil {
		t.Errorf("root Parent() = %v, want nil", root.Parent())
	}
	g := findNode(t, d, "//g")
	rect := findNode(t, d, "//rect")
	if rect.Parent() != g {
		t.Errorf("rect Parent() = %p, want the canonical g wrapper %p", rect.Parent(), g)
	}
	if g.Parent() != root {
		t.Errorf("g Parent() = %p, want the root wrapper %p", g.Parent(), root)
	}
	if again := d.Node(rect.Element()); again != rect {
		t.Errorf("Node() built a second wrapper %p for one element, want %p", again, rect)
	}
	if g.IsRoot() {
		t.Errorf("IsRoot() = true for a non-root element")
	}
}

func TestStyleAttribute(t *testing.T) {
	d := parseDoc(t, `<svg><rect fill="red" width="50%" style="fill: blue; stroke-width: 2px; overflow: hidden"/></svg>`)
	rect := findNode(t, d, "//rect")
	tests := []struct {
		name   string
		prop   string
		want   string
		wantOK bool
	}{
		{"inline style wins over attribute", "fill", "blue", true},
		{"inline style only", "stroke-width", "2px", true},
		{"presentation attribute only", "width", "50%", true},
		{"longhand of inline shorthand", "overflow-x", "hidden", true},
		{"unset property", "stroke", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rect.StyleAttribute(tt.prop)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("StyleAttribute(%q) = (%q, %v), want (%q, %v)",
					tt.prop, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInheritedStyle(t *testing.T) {
	d := parseDoc(t, `<svg style="fill: green"><g style="fill: inherit"><rect/></g></svg>`)
	rect := findNode(t, d, "//rect")
	got, ok := rect.InheritedStyle("fill")
	if !ok || got != "green" {
		t.Errorf("InheritedStyle(fill) = (%q, %v), want (%q, true)", got, ok, "green")
	}
	if v, ok := rect.InheritedStyle("stroke"); ok {
		t.Errorf("InheritedStyle(stroke) = (%q, true), want no value", v)
	}
}

func TestComputedFontSize(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		path string
		want float64
	}{
		{
			"explicit pixels",
			`<svg style="font-size: 20px"/>`,
			"//svg", 20,
		},
		{
			"percentage of parent",
			`<svg style="font-size: 20px"><g style="font-size: 150%"/></svg>`,
			"//g", 30,
		},
		{
			"em against parent chain",
			`<svg style="font-size: 20px"><g style="font-size: 150%"><text style="font-size: 2em"/></g></svg>`,
			"//text", 60,
		},
		{
			"larger along keyword ancestors",
			`<svg style="font-size: 20px"><g style="font-size: larger"><text style="font-size: larger"/></g></svg>`,
			"//text", 24,
		},
		{
			"no font size anywhere",
			`<svg><g/></svg>`,
			"//g", 16,
		},
		{
			"unresolvable value degrades to default",
			`<svg style="font-size: huge"><g/></svg>`,
			"//g", 16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseDoc(t, tt.xml)
			n := findNode(t, d, tt.path)
			if got := n.ComputedFontSize(); !near(got, tt.want) {
				t.Errorf("ComputedFontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputedFontWeight(t *testing.T) {
	d := parseDoc(t, `<svg style="font-weight: bold"><text style="font-weight: bolder"/></svg>`)
	if got := findNode(t, d, "//text").ComputedFontWeight(); got != 700 {
		t.Errorf("ComputedFontWeight() = %d, want 700", got)
	}
	plain := parseDoc(t, `<svg/>`)
	if got := plain.Root().ComputedFontWeight(); got != 400 {
		t.Errorf("ComputedFontWeight() = %d, want 400", got)
	}
}

func TestLineHeight(t *testing.T) {
	d := parseDoc(t, `<svg style="line-height: 150%; font-size: 20px"><text/></svg>`)
	if got := findNode(t, d, "//text").LineHeight(); !near(got, 30) {
		t.Errorf("LineHeight() = %v, want 30", got)
	}
	plain := parseDoc(t, `<svg><text/></svg>`)
	if got := findNode(t, plain, "//text").LineHeight(); !near(got, 19.2) {
		t.Errorf("LineHeight() = %v, want 19.2", got)
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		path string
		x, y float64
		w, h float64
	}{
		{
			"absolute extents",
			`<svg width="400" height="300"><g/></svg>`,
			"//g", 0, 0, 400, 300,
		},
		{
			"percentages of the screen",
			`<svg width="50%" height="25%"/>`,
			"//svg", 0, 0, 640, 180,
		},
		{
			"auto means full size",
			`<svg><rect/></svg>`,
			"//rect", 0, 0, 1280, 720,
		},
		{
			"nested viewport resolves against outer",
			`<svg width="400" height="300"><svg width="50%" height="200"><rect/></svg></svg>`,
			"//rect", 0, 0, 200, 200,
		},
		{
			"symbol establishes a viewport",
			`<svg width="400" height="300"><symbol width="50%" height="100"><rect/></symbol></svg>`,
			"//rect", 0, 0, 200, 100,
		},
		{
			"inherit keeps the outer extent",
			`<svg width="400" height="300"><svg width="inherit" height="inherit"><rect/></svg></svg>`,
			"//rect", 0, 0, 400, 300,
		},
		{
			"offsets on the innermost element",
			`<svg width="400" height="300" x="25%" y="10"><rect/></svg>`,
			"//rect", 100, 10, 400, 300,
		},
		{
			"cross axis viewport unit",
			`<svg width="50vh" height="300"/>`,
			"//svg", 0, 0, 360, 300,
		},
		{
			"font relative width",
			`<svg width="10em" height="300"/>`,
			"//svg", 0, 0, 160, 300,
		},
		{
			"unresolvable width degrades to outer",
			`<svg width="bogus" height="300"/>`,
			"//svg", 0, 0, 1280, 300,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseDoc(t, tt.xml)
			n := findNode(t, d, tt.path)
			x, y, w, h := n.Viewport()
			if !near(x, tt.x) || !near(y, tt.y) || !near(w, tt.w) || !near(h, tt.h) {
				t.Errorf("Viewport() = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
					x, y, w, h, tt.x, tt.y, tt.w, tt.h)
			}
		})
	}
}

func TestViewportFeedsLengths(t *testing.T) {
	d := parseDoc(t, `<svg width="400" height="300"><text style="font-size: 50vh"/></svg>`)
	if got := findNode(t, d, "//text").ComputedFontSize(); !near(got, 150) {
		t.Errorf("ComputedFontSize() = %v, want 150", got)
	}
}

func TestFontMetricHook(t *testing.T) {
	d := parseDoc(t, `<svg style="font-size: 20px"><text/></svg>`)
	text := findNode(t, d, "//text")

	got, err := mustLength(t, "2ex").WithContext(text).Value(resolve.UnitPx)
	if err != nil {
		t.Fatalf("Value(px) failed: %v", err)
	}
	if !near(got, 20) {
		t.Errorf("2ex without metrics = %v, want 20 from the half font size fallback", got)
	}

	d.Metrics = func(_ *domctx.Node, name string) (float64, bool) {
		if name == resolve.MetricXHeight {
			return 8, true
		}
		return 0, false
	}
	got, err = mustLength(t, "2ex").WithContext(text).Value(resolve.UnitPx)
	if err != nil {
		t.Fatalf("Value(px) failed: %v", err)
	}
	if !near(got, 16) {
		t.Errorf("2ex with an x-height of 8 = %v, want 16", got)
	}
}

func mustLength(t *testing.T, text string) *resolve.Length {
	t.Helper()
	l, err := resolve.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return l
}

func TestMatchMedia(t *testing.T) {
	d := parseDoc(t, `<svg/>`)
	tests := []struct {
		name      string
		query     string
		want      bool
		wantMedia string
	}{
		{"screen with width", "screen and (min-width: 1000px)", true, "screen"},
		{"landscape screen", "(orientation: landscape)", true, ""},
		{"portrait does not hold", "(orientation: portrait)", false, ""},
		{"print never matches a screen", "print", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, media := d.MatchMedia(tt.query)
			if got != tt.want || media != tt.wantMedia {
				t.Errorf("MatchMedia(%q) = (%v, %q), want (%v, %q)",
					tt.query, got, media, tt.want, tt.wantMedia)
			}
		})
	}
}

func TestMatchMediaScreenOverride(t *testing.T) {
	d := parseDoc(t, `<svg/>`)
	d.Screen.Width, d.Screen.Height = 600, 800
	if got, _ := d.MatchMedia("(orientation: portrait)"); !got {
		t.Errorf("MatchMedia(orientation: portrait) = false, want true for a 600x800 screen")
	}
	if got, _ := d.MatchMedia("screen and (min-width: 1000px)"); got {
		t.Errorf("MatchMedia(min-width: 1000px) = true, want false for a 600px wide screen")
	}
}

func TestMatchMediaEmptyDocument(t *testing.T) {
	d := domctx.New(etree.NewDocument())
	if got, media := d.MatchMedia("screen and (min-width: 1000px)"); !got || media != "screen" {
		t.Errorf("MatchMedia() = (%v, %q), want (true, %q)", got, media, "screen")
	}
}
