package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssval/mediaquery"
	"cssval/property"
	"cssval/typedom"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// ScreenConfig describes the output device media queries are
	// evaluated against.
	ScreenConfig struct {
		Width                int     `yaml:"width" validate:"min=1"`
		Height               int     `yaml:"height" validate:"min=1"`
		Angle                int     `yaml:"angle"`
		ColorDepth           int     `yaml:"color_depth" validate:"min=0,max=62"`
		Monochrome           int     `yaml:"monochrome" validate:"gte=0"`
		HorizontalResolution int     `yaml:"horizontal_resolution" validate:"min=1"`
		VerticalResolution   int     `yaml:"vertical_resolution" validate:"min=1"`
		DevicePixelRatio     float64 `yaml:"device_pixel_ratio" validate:"gt=0"`
		Scan                 string  `yaml:"scan" validate:"oneof=interlace progressive"`
		Update               string  `yaml:"update" validate:"oneof=none slow fast"`
		ColorGamut           string  `yaml:"color_gamut" validate:"oneof=srgb p3 rec2020"`
		Media                string  `yaml:"media" validate:"required"`
	}

	// PropertyConfig registers one custom property with the engine.
	PropertyConfig struct {
		Name     string  `yaml:"name" validate:"required,startswith=--"`
		Syntax   string  `yaml:"syntax" validate:"required"`
		Inherits bool    `yaml:"inherits"`
		Initial  *string `yaml:"initial,omitempty"`
	}

	EngineConfig struct {
		Precision  int              `yaml:"precision" validate:"min=0,max=17"`
		RelTol     float64          `yaml:"rel_tol" validate:"gte=0"`
		AbsTol     float64          `yaml:"abs_tol" validate:"gte=0"`
		Screen     ScreenConfig     `yaml:"screen"`
		Properties []PropertyConfig `yaml:"properties" validate:"dive"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Engine  EngineConfig  `yaml:"engine"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	PropertySyntaxFieldName  TemplateFieldName = "syntax"
	PropertyInitialFieldName TemplateFieldName = "initial"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(PropertySyntaxFieldName)),
	gencfg.WithDoNotExpandField(string(PropertyInitialFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Screen converts the configured device description to the matcher's type.
func (conf *ScreenConfig) Screen() mediaquery.Screen {
	return mediaquery.Screen{
		Width:                conf.Width,
		Height:               conf.Height,
		Angle:                conf.Angle,
		ColorDepth:           conf.ColorDepth,
		Monochrome:           conf.Monochrome,
		HorizontalResolution: conf.HorizontalResolution,
		VerticalResolution:   conf.VerticalResolution,
		DevicePixelRatio:     conf.DevicePixelRatio,
		Scan:                 conf.Scan,
		Update:               conf.Update,
		ColorGamut:           conf.ColorGamut,
		Media:                conf.Media,
	}
}

// Tolerance converts the configured comparison tolerances to the numeric
// package type.
func (conf *EngineConfig) Tolerance() typedom.Tolerance {
	return typedom.Tolerance{Rel: conf.RelTol, Abs: conf.AbsTol}
}

// Registry builds a property registry with the configured custom properties
// registered on top of the built-in table.
func (conf *EngineConfig) Registry() (*property.Registry, error) {
	reg, err := property.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, p := range conf.Properties {
		if err := reg.Register(property.NewDescriptor(p.Name, p.Syntax, p.Inherits, p.Initial)); err != nil {
			return nil, fmt.Errorf("failed to register custom property %q: %w", p.Name, err)
		}
	}
	return reg, nil
}
