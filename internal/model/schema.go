package model

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var defaultSectionsYAML []byte

// FieldSpec declares one expected field of an AI fill payload.
type FieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // string, int, bool, list
	Hint string `yaml:"hint"`
}

// Section is one logical fill unit: a key plus the fields the AI is
// asked to return for it.
type Section struct {
	Key    string      `yaml:"key"`
	Fields []FieldSpec `yaml:"fields"`
}

// Schema is the ordered list of sections driven through the AI fill
// service. Order is significant: sections are filled in declaration
// order.
type Schema struct {
	Sections []Section `yaml:"sections"`
}

// Keys returns the section keys in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		keys[i] = sec.Key
	}
	return keys
}

// Section returns the section with the given key, or nil.
func (s *Schema) Section(key string) *Section {
	for i := range s.Sections {
		if s.Sections[i].Key == key {
			return &s.Sections[i]
		}
	}
	return nil
}

// DefaultSchema parses the embedded section schema.
func DefaultSchema() (*Schema, error) {
	return parseSchema(defaultSectionsYAML)
}

// LoadSchema reads a section schema from a YAML file, falling back to
// the embedded default when path is empty.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read schema %s", path)
	}
	return parseSchema(data)
}

func parseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "model: parse schema")
	}
	if len(s.Sections) == 0 {
		return nil, eris.New("model: schema has no sections")
	}
	return &s, nil
}
