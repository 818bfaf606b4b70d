package stylesheet_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssval/mediaquery"
	"cssval/stylesheet"
)

func TestParser_Ruleset(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`p { text-indent: 1em; color: red }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if len(rule.Selectors) != 1 || rule.Selectors[0] != "p" {
		t.Errorf("selectors = %v, want [p]", rule.Selectors)
	}

	if got := rule.Block.Get("text-indent"); got != "1em" {
		t.Errorf("text-indent = %q, want 1em", got)
	}
	if got := rule.Block.Get("color"); got != "red" {
		t.Errorf("color = %q, want red", got)
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`h1, h2, .title { font-weight: bold }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	want := []string{"h1", "h2", ".title"}
	got := rules[0].Selectors
	if len(got) != len(want) {
		t.Fatalf("selectors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selectors[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if v := rules[0].Block.Get("font-weight"); v != "bold" {
		t.Errorf("font-weight = %q, want bold", v)
	}
}

func TestParser_ShorthandExpansion(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`div { overflow: hidden }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	block := rules[0].Block
	if v, _, ok := block.Value("overflow-x"); !ok || v != "hidden" {
		t.Errorf("overflow-x = %q, %v, want hidden stored", v, ok)
	}
	if v, _, ok := block.Value("overflow-y"); !ok || v != "hidden" {
		t.Errorf("overflow-y = %q, %v, want hidden stored", v, ok)
	}
	if got := block.Get("overflow"); got != "hidden" {
		t.Errorf("overflow collapses to %q, want hidden", got)
	}
}

func TestParser_ImportantPriority(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`p { color: red !important; width: 10px }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	block := rules[0].Block
	value, priority, ok := block.Value("color")
	if !ok || value != "red" || priority != "important" {
		t.Errorf("color = %q/%q/%v, want red/important stored", value, priority, ok)
	}
	if p := block.Priority("width"); p != "" {
		t.Errorf("width priority = %q, want empty", p)
	}
}

func TestParser_CustomProperty(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`:root { --Accent-Color: #ff0000; color: blue }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if rule.Selectors[0] != ":root" {
		t.Errorf("selector = %q, want :root", rule.Selectors[0])
	}

	// custom property names keep their case
	if v, _, ok := rule.Block.Value("--Accent-Color"); !ok || v != "#ff0000" {
		t.Errorf("--Accent-Color = %q, %v, want #ff0000 stored", v, ok)
	}
}

func TestParser_MediaBlock(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@media screen and (min-width: 400px) {
	p { color: blue }
	h1, h2 { color: green }
}`)
	sheet := p.Parse(input)

	if len(sheet.Items) != 1 || sheet.Items[0].MediaBlock == nil {
		t.Fatalf("expected 1 media block item, got %+v", sheet.Items)
	}

	mb := sheet.Items[0].MediaBlock
	if mb.Media != "screen and (min-width: 400px)" {
		t.Errorf("media = %q, want screen and (min-width: 400px)", mb.Media)
	}
	if len(mb.Queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(mb.Queries))
	}
	if len(mb.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(mb.Rules))
	}
	if len(mb.Rules[1].Selectors) != 2 {
		t.Errorf("second rule selectors = %v, want [h1 h2]", mb.Rules[1].Selectors)
	}

	wide := map[string]string{"media": "screen", "width": "500px"}
	if !mb.Matches(wide, mediaquery.PixelCompare) {
		t.Error("Matches(width 500px) = false, want true")
	}

	narrow := map[string]string{"media": "screen", "width": "300px"}
	if mb.Matches(narrow, mediaquery.PixelCompare) {
		t.Error("Matches(width 300px) = true, want false")
	}
}

func TestParser_FontFace(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@font-face {
	font-family: "Liberation Serif";
	src: url(fonts/LiberationSerif-Regular.ttf);
	font-style: normal;
	font-weight: 400;
}`)
	sheet := p.Parse(input)

	faces := sheet.FontFaces()
	if len(faces) != 1 {
		t.Fatalf("expected 1 font face, got %d", len(faces))
	}

	ff := faces[0]
	if ff.Family != "Liberation Serif" {
		t.Errorf("family = %q, want Liberation Serif", ff.Family)
	}
	if !strings.Contains(ff.Src, "LiberationSerif-Regular.ttf") {
		t.Errorf("src = %q, want ttf reference", ff.Src)
	}
	if ff.Style != "normal" || ff.Weight != "400" {
		t.Errorf("style/weight = %q/%q, want normal/400", ff.Style, ff.Weight)
	}
}

func TestParser_Imports(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@import "base.css";
@import url("theme/colors.css");
p { color: red }`)
	sheet := p.Parse(input)

	imports := sheet.Imports()
	if len(imports) != 2 {
		t.Fatalf("imports = %v, want 2 entries", imports)
	}
	if imports[0] != "base.css" || imports[1] != "theme/colors.css" {
		t.Errorf("imports = %v, want [base.css theme/colors.css]", imports)
	}

	if len(sheet.Rules()) != 1 {
		t.Errorf("rules after imports = %d, want 1", len(sheet.Rules()))
	}
}

func TestParser_SkipsUnknownAtRules(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@supports (display: grid) { p { color: red } }
@page { size: a4 }
div { color: green }`)
	sheet := p.Parse(input)

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule after skipped at-rules, got %d", len(rules))
	}
	if rules[0].Selectors[0] != "div" {
		t.Errorf("selector = %q, want div", rules[0].Selectors[0])
	}
}

func TestParser_UnrecognizedMediaWarns(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@media ( a b ) { p { color: red } }`)
	sheet := p.Parse(input)

	if len(sheet.Warnings) == 0 {
		t.Error("expected a warning for unrecognized media query")
	}
	if len(sheet.Items) != 1 || sheet.Items[0].MediaBlock == nil {
		t.Fatal("block should still be preserved")
	}
	if sheet.Items[0].MediaBlock.Matches(map[string]string{"media": "screen"}, mediaquery.PixelCompare) {
		t.Error("unrecognized query matched, want never-match")
	}
}

func TestStylesheet_EffectiveRules(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`p { color: red }
@media print { p { color: black } }
@media screen and (min-width: 100px) { p { color: blue } }`)
	sheet := p.Parse(input)

	features := map[string]string{"media": "screen", "width": "500px"}
	rules := sheet.EffectiveRules(features, mediaquery.PixelCompare)
	if len(rules) != 2 {
		t.Fatalf("effective rules = %d, want 2", len(rules))
	}
	if got := rules[0].Block.Get("color"); got != "red" {
		t.Errorf("first rule color = %q, want red", got)
	}
	if got := rules[1].Block.Get("color"); got != "blue" {
		t.Errorf("second rule color = %q, want blue", got)
	}
}

func TestStylesheet_WriteTo(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@import "base.css";
p { color: red !important }
@media print { h1 { color: black } }`)
	sheet := p.Parse(input)

	out := sheet.String()

	for _, want := range []string{
		"@import url(\"base.css\");",
		"p {",
		"  color: red !important;",
		"@media print {",
		"  h1 {",
		"    color: black;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// serialized form parses back to the same structure
	again := p.Parse([]byte(out))
	if len(again.Items) != len(sheet.Items) {
		t.Errorf("reparse items = %d, want %d", len(again.Items), len(sheet.Items))
	}
}

func TestStylesheet_RewriteURLs(t *testing.T) {
	log := zap.NewNop()
	p := stylesheet.NewParser(log)

	input := []byte(`@import "base.css";
@font-face { font-family: "F"; src: url(fonts/f.ttf); }
div { background-image: url("img/bg.png"); color: red }`)
	sheet := p.Parse(input)

	sheet.RewriteURLs(func(u string) string { return "assets/" + u })

	imports := sheet.Imports()
	if len(imports) != 1 || imports[0] != "assets/base.css" {
		t.Errorf("imports after rewrite = %v, want [assets/base.css]", imports)
	}

	faces := sheet.FontFaces()
	if len(faces) != 1 || faces[0].Src != `url("assets/fonts/f.ttf")` {
		t.Errorf("font src after rewrite = %q, want url(\"assets/fonts/f.ttf\")", faces[0].Src)
	}

	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if got := rules[0].Block.Get("background-image"); got != `url("assets/img/bg.png")` {
		t.Errorf("background-image after rewrite = %q", got)
	}
	// untouched declarations and their order survive
	names := rules[0].Block.Names()
	if len(names) != 2 || names[0] != "background-image" || names[1] != "color" {
		t.Errorf("names after rewrite = %v, want [background-image color]", names)
	}
}
