package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchema(t *testing.T) {
	s, err := DefaultSchema()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"taxonomy", "care", "growth", "ecology", "consumption",
		"advisory", "colors", "watering", "culinary",
	}, s.Keys())

	care := s.Section("care")
	require.NotNil(t, care)
	assert.NotEmpty(t, care.Fields)
	assert.Nil(t, s.Section("nonsense"))
}

func TestLoadSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sections:
  - key: basics
    fields:
      - {name: description, type: string, hint: "short description"}
`), 0o644))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"basics"}, s.Keys())
}

func TestLoadSchemaEmptyPathUsesDefault(t *testing.T) {
	s, err := LoadSchema("")
	require.NoError(t, err)
	assert.Len(t, s.Sections, 9)
}

func TestLoadSchemaRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: []\n"), 0o644))

	_, err := LoadSchema(path)
	assert.Error(t, err)
}
