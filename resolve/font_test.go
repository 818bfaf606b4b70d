package resolve_test

import (
	"errors"
	"math"
	"testing"

	"cssval/css"
	"cssval/resolve"
)

func TestComputeFontSizeKeywords(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    float64
	}{
		{"xx-small clamps to minimum", "xx-small", 10},
		{"x-small", "x-small", 10},
		{"small", "small", 13},
		{"medium", "medium", 16},
		{"large", "large", 18},
		{"x-large", "x-large", 24},
		{"xx-large", "xx-large", 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &node{root: true, attrs: map[string]string{"font-size": tt.keyword}}
			got, err := resolve.ComputeFontSize(ctx)
			if err != nil {
				t.Fatalf("ComputeFontSize failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeFontSize = %v, want %v", got, tt.want)
			}
		})
	}

	got, err := resolve.ComputeFontSize(&node{root: true})
	if err != nil {
		t.Fatalf("ComputeFontSize failed: %v", err)
	}
	if got != 16 {
		t.Errorf("default font size = %v, want 16", got)
	}
}

func TestComputeFontSizeLength(t *testing.T) {
	parent := &node{root: true, fontSize: 20}

	tests := []struct {
		name  string
		attrs map[string]string
		want  float64
	}{
		{"pixels", map[string]string{"font-size": "12px"}, 12},
		{"clamped to minimum", map[string]string{"font-size": "8px"}, 10},
		{"percent of parent font size", map[string]string{"font-size": "150%"}, 30},
		{"em of parent font size", map[string]string{"font-size": "2em"}, 40},
		{"points", map[string]string{"font-size": "18pt"}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &node{parent: parent, attrs: tt.attrs}
			got, err := resolve.ComputeFontSize(ctx)
			if err != nil {
				t.Fatalf("ComputeFontSize failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeFontSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFontSizeInherited(t *testing.T) {
	root := &node{root: true, attrs: map[string]string{"font-size": "12px"}}
	child := &node{parent: root}
	got, err := resolve.ComputeFontSize(child)
	if err != nil {
		t.Fatalf("ComputeFontSize failed: %v", err)
	}
	if got != 12 {
		t.Errorf("inherited font size = %v, want 12", got)
	}

	// an explicit inherit keeps climbing
	root = &node{root: true, attrs: map[string]string{"font-size": "14px"}}
	child = &node{parent: root, attrs: map[string]string{"font-size": "inherit"}}
	got, err = resolve.ComputeFontSize(child)
	if err != nil {
		t.Fatalf("ComputeFontSize failed: %v", err)
	}
	if got != 14 {
		t.Errorf("explicitly inherited font size = %v, want 14", got)
	}
}

func TestComputeFontSizeRelativeKeywords(t *testing.T) {
	tests := []struct {
		name     string
		rootSize string
		midSize  string
		leafSize string
		want     float64
	}{
		{"larger over fixed ancestor", "12px", "", "larger", 12},
		{"larger over larger ancestor", "larger", "", "larger", 16 * 1.2},
		{"smaller over smaller ancestor", "smaller", "", "smaller", 16 / 1.2},
		{"larger through chain", "20px", "larger", "larger", 24},
		{"smaller clamps to minimum", "10px", "smaller", "smaller", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &node{root: true}
			if tt.rootSize != "" {
				root.attrs = map[string]string{"font-size": tt.rootSize}
			}
			mid := &node{parent: root}
			if tt.midSize != "" {
				mid.attrs = map[string]string{"font-size": tt.midSize}
			}
			leaf := &node{parent: mid, attrs: map[string]string{"font-size": tt.leafSize}}
			got, err := resolve.ComputeFontSize(leaf)
			if err != nil {
				t.Fatalf("ComputeFontSize failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeFontSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFontSizeErrors(t *testing.T) {
	ctx := &node{root: true, attrs: map[string]string{"font-size": "huge"}}
	if _, err := resolve.ComputeFontSize(ctx); !errors.Is(err, css.ErrValue) {
		t.Errorf("ComputeFontSize error = %v, want %v", err, css.ErrValue)
	}

	a := &node{attrs: map[string]string{"font-size": "larger"}}
	b := &node{}
	a.parent = b
	b.parent = a
	if _, err := resolve.ComputeFontSize(a); !errors.Is(err, css.ErrContextCycle) {
		t.Errorf("ComputeFontSize error = %v, want %v", err, css.ErrContextCycle)
	}
}

func TestComputeFontWeight(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  int
	}{
		{"default", nil, 400},
		{"normal", map[string]string{"font-weight": "normal"}, 400},
		{"bold", map[string]string{"font-weight": "bold"}, 700},
		{"numeric", map[string]string{"font-weight": "600"}, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &node{root: true, attrs: tt.attrs}
			got, err := resolve.ComputeFontWeight(ctx)
			if err != nil {
				t.Fatalf("ComputeFontWeight failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputeFontWeight = %d, want %d", got, tt.want)
			}
		})
	}

	ctx := &node{root: true, attrs: map[string]string{"font-weight": "heavy"}}
	if _, err := resolve.ComputeFontWeight(ctx); !errors.Is(err, css.ErrValue) {
		t.Errorf("ComputeFontWeight error = %v, want %v", err, css.ErrValue)
	}
}

func TestComputeFontWeightRelative(t *testing.T) {
	tests := []struct {
		name       string
		rootWeight string
		midWeight  string
		leafWeight string
		want       int
	}{
		{"bolder over fixed ancestor", "bold", "", "bolder", 700},
		{"bolder over bolder ancestor", "bolder", "", "bolder", 700},
		{"lighter over lighter ancestor", "lighter", "", "lighter", 100},
		{"bolder through chain", "bold", "bolder", "bolder", 900},
		{"bolder from off-grid weight", "350", "bolder", "bolder", 550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &node{root: true}
			if tt.rootWeight != "" {
				root.attrs = map[string]string{"font-weight": tt.rootWeight}
			}
			mid := &node{parent: root}
			if tt.midWeight != "" {
				mid.attrs = map[string]string{"font-weight": tt.midWeight}
			}
			leaf := &node{parent: mid, attrs: map[string]string{"font-weight": tt.leafWeight}}
			got, err := resolve.ComputeFontWeight(leaf)
			if err != nil {
				t.Fatalf("ComputeFontWeight failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputeFontWeight = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeLineHeight(t *testing.T) {
	parent := &node{root: true, fontSize: 20}
	child := &node{parent: parent, fontSize: 20}

	tests := []struct {
		name     string
		value    string
		fontSize float64
		want     float64
	}{
		{"normal", "normal", 16, 19.2},
		{"percent of font size", "150%", 20, 30},
		{"length", "24px", 16, 24},
		{"number resolves as pixels", "1.5", 20, 1.5},
		{"em against parent", "2em", 16, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve.ComputeLineHeight(child, tt.value, tt.fontSize)
			if err != nil {
				t.Fatalf("ComputeLineHeight failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeLineHeight = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := resolve.ComputeLineHeight(child, "tall", 16); !errors.Is(err, css.ErrValue) {
		t.Errorf("ComputeLineHeight error = %v, want %v", err, css.ErrValue)
	}
}
