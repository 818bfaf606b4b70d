package css_test

import (
	"testing"

	"cssval/css"
)

func TestSplitDeclarations(t *testing.T) {
	decls := css.SplitDeclarations("color: red; width: 10px !important")
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Name != "color" || decls[0].Value != "red" || decls[0].Important {
		t.Errorf("decls[0] = %+v, want color: red", decls[0])
	}
	if decls[1].Name != "width" || decls[1].Value != "10px" || !decls[1].Important {
		t.Errorf("decls[1] = %+v, want width: 10px !important", decls[1])
	}
}

func TestSplitDeclarations_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"semicolons only", " ; ; ", 0},
		{"missing colon", "color red", 0},
		{"missing value", "color: ;", 0},
		{"missing name", ": red", 0},
		{"one bad entry dropped", "color; width: 10px", 1},
		{"number as name", "10px: red", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := css.SplitDeclarations(tt.input)
			if len(decls) != tt.want {
				t.Errorf("expected %d declarations, got %d: %+v", tt.want, len(decls), decls)
			}
		})
	}
}

func TestSplitDeclarations_Important(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		value     string
		important bool
	}{
		{"lowercase", "color: red !important", "red", true},
		{"uppercase", "color: red !IMPORTANT", "red", true},
		{"spaced", "color: red !  important", "red", true},
		{"space before bang", "color: red ! important", "red", true},
		{"ident alone", "color: important", "important", false},
		{"bang missing", "color: red important", "red important", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := css.SplitDeclarations(tt.input)
			if len(decls) != 1 {
				t.Fatalf("expected 1 declaration, got %d", len(decls))
			}
			if decls[0].Value != tt.value {
				t.Errorf("value = %q, want %q", decls[0].Value, tt.value)
			}
			if decls[0].Important != tt.important {
				t.Errorf("important = %v, want %v", decls[0].Important, tt.important)
			}
		})
	}
}

func TestSplitDeclarations_FunctionValue(t *testing.T) {
	// A semicolon inside a function block is not a separator.
	decls := css.SplitDeclarations("width: calc(10px + 2em); background: url(a;b.png)")
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Value != "calc(10px + 2em)" {
		t.Errorf("decls[0].Value = %q, want %q", decls[0].Value, "calc(10px + 2em)")
	}
	if decls[1].Value != "url(a;b.png)" {
		t.Errorf("decls[1].Value = %q, want %q", decls[1].Value, "url(a;b.png)")
	}
}

func TestSplitDeclarations_CaseAndCustomNames(t *testing.T) {
	decls := css.SplitDeclarations("Color: Red; --Custom-X: foo(a;b)")
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	// Names and values keep their case; normalization is the caller's
	// concern.
	if decls[0].Name != "Color" || decls[0].Value != "Red" {
		t.Errorf("decls[0] = %+v, want Color: Red", decls[0])
	}
	if decls[1].Name != "--Custom-X" || decls[1].Value != "foo(a;b)" {
		t.Errorf("decls[1] = %+v, want --Custom-X: foo(a;b)", decls[1])
	}
}
