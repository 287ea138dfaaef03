package schemas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["person"],
	"properties": {
		"person": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string"},
				"age": {"type": "integer"}
			}
		}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{"valid document", `{"person": {"name": "Ada", "age": 36}}`, false},
		{"missing nested field", `{"person": {}}`, true},
		{"wrong type", `{"person": {"name": "Ada", "age": "old"}}`, true},
		{"malformed json", `{ invalid json }`, true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeFile(t, dir, fmt.Sprintf("doc%d.json", i), tt.content)

			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError, got %T", err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_NestedFieldPath(t *testing.T) {
	err := ValidateBytes(writeFile(t, t.TempDir(), "person.schema.json", personSchema), []byte(`{"person": {}}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "person", validationErr.Errors[0].Field)
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"person": {"name": "Ada"}}`)

	err := ValidateJSON(filepath.Join(dir, "nonexistent.schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nonexistent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateBytes_BrokenSchema(t *testing.T) {
	schemaPath := writeFile(t, t.TempDir(), "broken.schema.json", `{not json`)

	err := ValidateBytes(schemaPath, []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), "failed to load schema")
}

func TestRegistry_CachesCompiledSchemas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "person.schema.json", personSchema)

	reg := NewRegistry(dir)
	require.NoError(t, reg.Validate("person.schema.json", []byte(`{"person": {"name": "Ada"}}`)))
	assert.Len(t, reg.compiled, 1)

	// Removing the file does not matter once compiled
	require.NoError(t, os.Remove(filepath.Join(dir, "person.schema.json")))
	assert.Error(t, reg.Validate("person.schema.json", []byte(`{"person": 1}`)))
	assert.NoError(t, reg.Validate("person.schema.json", []byte(`{"person": {"name": "Bob"}}`)))

	err := reg.Validate("unknown.schema.json", []byte(`{}`))
	assert.ErrorContains(t, err, "schema file not found")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. age: must be a number")
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath(filepath.Join("schemas", MatchRequestSchema)))
	assert.Empty(t, ResolveSchemaPath("does/not/exist.schema.json"))
}
