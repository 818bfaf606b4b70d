package property

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"cssval/css"
)

//go:embed properties.yaml
var propertiesData []byte

type propertyRow struct {
	Name     string  `yaml:"name"`
	Syntax   string  `yaml:"syntax"`
	Initial  *string `yaml:"initial"`
	Inherits bool    `yaml:"inherits"`
}

type propertyTable struct {
	Properties []propertyRow `yaml:"properties"`
}

// Registry resolves property names to their descriptors. The built-in
// table is immutable after construction; custom property descriptors
// may be registered at any time.
type Registry struct {
	builtin map[string]*Descriptor

	mu     sync.RWMutex
	custom map[string]*Descriptor
}

// NewRegistry builds a registry from the embedded descriptor table.
func NewRegistry() (*Registry, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(propertiesData))
	dec.KnownFields(true)

	var table propertyTable
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode property table: %w", err)
	}

	r := &Registry{
		builtin: make(map[string]*Descriptor, len(table.Properties)),
		custom:  make(map[string]*Descriptor),
	}
	for _, row := range table.Properties {
		name := strings.ToLower(row.Name)
		if name == "" {
			return nil, fmt.Errorf("property table has a row without a name")
		}
		if _, dup := r.builtin[name]; dup {
			return nil, fmt.Errorf("duplicate property %q in table", name)
		}
		r.builtin[name] = NewDescriptor(name, row.Syntax, row.Inherits, row.Initial)
	}
	return r, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the shared registry built from the embedded table.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry()
		if err != nil {
			panic(fmt.Sprintf("property: bad embedded table: %s", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Lookup returns the descriptor for the property name. Non-custom names
// are matched case-insensitively, custom property names exactly.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	if css.IsCustomProperty(name) {
		r.mu.RLock()
		d, ok := r.custom[name]
		r.mu.RUnlock()
		return d, ok
	}
	d, ok := r.builtin[strings.ToLower(name)]
	return d, ok
}

// Register adds a custom property descriptor. The descriptor name must
// start with "--" and must not already be registered.
func (r *Registry) Register(d *Descriptor) error {
	if !css.IsCustomProperty(d.Name()) {
		return fmt.Errorf("%w: invalid custom property name %q", css.ErrValue, d.Name())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.custom[d.Name()]; exists {
		return fmt.Errorf("%w: custom property %q already exists", css.ErrValue, d.Name())
	}
	r.custom[d.Name()] = d
	return nil
}

// IsRegistered reports whether a custom property descriptor with the
// name has been registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	_, ok := r.custom[name]
	r.mu.RUnlock()
	return ok
}

// Names returns the sorted names of the built-in property table.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builtin))
	for name := range r.builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
