package model

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds descriptors keyed by collection name. It is an explicit
// value handed to whoever needs to resolve a collection; there is no package
// level registry.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry seeds a registry with the supplied descriptors. Each descriptor
// is validated and duplicate collections are rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	reg := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, desc := range descriptors {
		if err := reg.Register(desc); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds a descriptor to the registry.
func (r *Registry) Register(desc Descriptor) error {
	if err := Validate(desc); err != nil {
		return err
	}
	if r.descriptors == nil {
		r.descriptors = make(map[string]Descriptor)
	}
	if _, exists := r.descriptors[desc.Collection]; exists {
		return fmt.Errorf("model: duplicate collection %q", desc.Collection)
	}
	r.descriptors[desc.Collection] = desc
	return nil
}

// Descriptor returns the descriptor registered for collection.
func (r *Registry) Descriptor(collection string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	desc, ok := r.descriptors[collection]
	return desc, ok
}

// Collections lists the registered collection names in sorted order.
func (r *Registry) Collections() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFS walks fsys and parses every JSON/YAML descriptor file into a
// registry. A nil filesystem yields an empty registry.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := &Registry{descriptors: make(map[string]Descriptor)}
	if fsys == nil {
		return reg, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDescriptorFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("model: read %s: %w", path, err)
		}
		desc, err := ParseDescriptor(data, path)
		if err != nil {
			return err
		}
		if err := reg.Register(desc); err != nil {
			return fmt.Errorf("model: file %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

type descriptorFile struct {
	Collection string         `json:"collection" yaml:"collection"`
	Properties []propertyFile `json:"properties" yaml:"properties"`
}

type propertyFile struct {
	Name               string `json:"name" yaml:"name"`
	PropertyDescriptor `yaml:",inline"`
}

// ParseDescriptor decodes a single descriptor document. JSON is tried first,
// then YAML; source only decorates error messages.
func ParseDescriptor(data []byte, source string) (Descriptor, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Descriptor{}, fmt.Errorf("model: file %s is empty", source)
	}

	var doc descriptorFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = descriptorFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Descriptor{}, fmt.Errorf("model: parse %s: invalid JSON or YAML", source)
		}
	}

	desc := Descriptor{
		Collection: strings.TrimSpace(doc.Collection),
		Properties: make([]string, 0, len(doc.Properties)),
		Fields:     make(map[string]PropertyDescriptor, len(doc.Properties)),
	}
	for _, prop := range doc.Properties {
		name := strings.TrimSpace(prop.Name)
		desc.Properties = append(desc.Properties, name)
		if _, exists := desc.Fields[name]; exists {
			return Descriptor{}, fmt.Errorf("model: file %s: %w %q", source, ErrDuplicateProperty, name)
		}
		desc.Fields[name] = prop.PropertyDescriptor
	}
	if err := Validate(desc); err != nil {
		return Descriptor{}, fmt.Errorf("model: file %s: %w", source, err)
	}
	return desc, nil
}

func isDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// MarshalYAML encodes desc in the file layout read by ParseDescriptor.
func MarshalYAML(desc Descriptor) ([]byte, error) {
	doc := descriptorFile{
		Collection: desc.Collection,
		Properties: make([]propertyFile, 0, len(desc.Properties)),
	}
	for _, name := range desc.Properties {
		prop, _ := desc.Property(name)
		doc.Properties = append(doc.Properties, propertyFile{Name: name, PropertyDescriptor: prop})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("model: marshal %s: %w", desc.Collection, err)
	}
	return out, nil
}
