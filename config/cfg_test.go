package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if cfg.Engine.Precision != 6 {
		t.Errorf("Default precision = %d, want 6", cfg.Engine.Precision)
	}

	if cfg.Engine.RelTol != 1e-9 || cfg.Engine.AbsTol != 1e-9 {
		t.Errorf("Default tolerances = %g/%g, want 1e-09/1e-09", cfg.Engine.RelTol, cfg.Engine.AbsTol)
	}

	if cfg.Engine.Screen.Width != 1280 || cfg.Engine.Screen.Height != 720 {
		t.Errorf("Default screen = %dx%d, want 1280x720", cfg.Engine.Screen.Width, cfg.Engine.Screen.Height)
	}

	if cfg.Engine.Screen.Media != "screen" {
		t.Errorf("Default media = %q, want screen", cfg.Engine.Screen.Media)
	}

	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Default console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}

	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("Default file level = %q, want none", cfg.Logging.FileLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
engine:
  precision: 3
  screen:
    width: 600
    height: 800
    color_depth: 8
  properties:
    - name: "--accent"
      syntax: "<color>"
      inherits: true
      initial: "rgb(0 0 0)"
    - name: "--gap"
      syntax: "<length>"
logging:
  console:
    level: debug
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Engine.Precision != 3 {
		t.Errorf("Precision = %d, want 3", cfg.Engine.Precision)
	}

	if cfg.Engine.Screen.Width != 600 || cfg.Engine.Screen.Height != 800 {
		t.Errorf("Screen = %dx%d, want 600x800", cfg.Engine.Screen.Width, cfg.Engine.Screen.Height)
	}

	// values absent from the file keep template defaults
	if cfg.Engine.Screen.HorizontalResolution != 96 {
		t.Errorf("HorizontalResolution = %d, want 96", cfg.Engine.Screen.HorizontalResolution)
	}

	if len(cfg.Engine.Properties) != 2 {
		t.Fatalf("Properties length = %d, want 2", len(cfg.Engine.Properties))
	}

	if cfg.Engine.Properties[0].Name != "--accent" || !cfg.Engine.Properties[0].Inherits {
		t.Errorf("Properties[0] = %+v, want inheriting --accent", cfg.Engine.Properties[0])
	}

	if cfg.Engine.Properties[0].Initial == nil || *cfg.Engine.Properties[0].Initial != "rgb(0 0 0)" {
		t.Errorf("Properties[0].Initial = %v, want rgb(0 0 0)", cfg.Engine.Properties[0].Initial)
	}

	if cfg.Engine.Properties[1].Initial != nil {
		t.Errorf("Properties[1].Initial = %v, want nil", cfg.Engine.Properties[1].Initial)
	}

	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `version: 1
engine:
  precision: 6
  invalid indent
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
engine:
  precision: 6
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad version",
			content: "version: 2\n",
		},
		{
			name: "bad scan",
			content: `version: 1
engine:
  screen:
    scan: sideways
`,
		},
		{
			name: "custom property without syntax",
			content: `version: 1
engine:
  properties:
    - name: "--accent"
`,
		},
		{
			name: "custom property with bad name",
			content: `version: 1
engine:
  properties:
    - name: "accent"
      syntax: "<color>"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "invalid_values.yaml")

			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	initial := "10px"
	cfg := &Config{
		Version: 1,
		Engine: EngineConfig{
			Precision: 4,
			Screen: ScreenConfig{
				Width:                800,
				Height:               600,
				ColorDepth:           24,
				HorizontalResolution: 96,
				VerticalResolution:   96,
				DevicePixelRatio:     2,
				Scan:                 "progressive",
				Update:               "fast",
				ColorGamut:           "srgb",
				Media:                "screen",
			},
			Properties: []PropertyConfig{
				{Name: "--gap", Syntax: "<length>", Initial: &initial},
			},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Engine.Precision != cfg.Engine.Precision {
		t.Errorf("Precision mismatch after dump/load: got %d, want %d", cfg2.Engine.Precision, cfg.Engine.Precision)
	}

	if len(cfg2.Engine.Properties) != 1 || cfg2.Engine.Properties[0].Name != "--gap" {
		t.Errorf("Properties after dump/load = %+v, want --gap", cfg2.Engine.Properties)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		data := []byte(`version: 1`)
		cfg := &Config{}

		result, err := unmarshalConfig(data, cfg, false)
		if err != nil {
			t.Errorf("unmarshalConfig() error = %v", err)
		}

		if result == nil {
			t.Fatal("unmarshalConfig() returned nil")
		}

		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		data := []byte(`invalid: [yaml`)
		cfg := &Config{}

		_, err := unmarshalConfig(data, cfg, false)
		if err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestScreenConversion(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	scr := cfg.Engine.Screen.Screen()
	if scr.Width != 1280 || scr.Height != 720 {
		t.Errorf("Screen() = %dx%d, want 1280x720", scr.Width, scr.Height)
	}
	if scr.DevicePixelRatio != 1 {
		t.Errorf("Screen().DevicePixelRatio = %v, want 1", scr.DevicePixelRatio)
	}
	if scr.Scan != "progressive" || scr.ColorGamut != "srgb" {
		t.Errorf("Screen() scan/gamut = %q/%q, want progressive/srgb", scr.Scan, scr.ColorGamut)
	}

	tol := cfg.Engine.Tolerance()
	if tol.Rel != 1e-9 || tol.Abs != 1e-9 {
		t.Errorf("Tolerance() = %+v, want 1e-09/1e-09", tol)
	}
}

func TestRegistryFromConfig(t *testing.T) {
	initial := "2px"
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Engine.Properties = append(cfg.Engine.Properties, PropertyConfig{
		Name:     "--gap",
		Syntax:   "<length>",
		Inherits: true,
		Initial:  &initial,
	})

	reg, err := cfg.Engine.Registry()
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}

	if !reg.IsRegistered("--gap") {
		t.Error("Registry() did not register --gap")
	}

	d, ok := reg.Lookup("--gap")
	if !ok {
		t.Fatal("Lookup(--gap) failed")
	}
	if !d.Inherits() {
		t.Error("Lookup(--gap).Inherits() = false, want true")
	}

	// built-in table is present underneath
	if _, ok := reg.Lookup("font-size"); !ok {
		t.Error("Lookup(font-size) failed, want built-in property")
	}

	// duplicate registration fails
	cfg.Engine.Properties = append(cfg.Engine.Properties, cfg.Engine.Properties[len(cfg.Engine.Properties)-1])
	if _, err := cfg.Engine.Registry(); err == nil {
		t.Error("Registry() with duplicate property succeeded, want error")
	}
}
