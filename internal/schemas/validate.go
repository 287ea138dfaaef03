// Package schemas validates JSON documents against the JSON Schemas shipped in schemas/.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema file names under the schemas directory
const (
	CandidateSchema     = "candidate.schema.json"
	JobSchema           = "job.schema.json"
	MatchRequestSchema  = "match_request.schema.json"
	MatchResponseSchema = "match_response.schema.json"
	GapRequestSchema    = "gap_request.schema.json"
)

// ResolveSchemaPath finds a schema file relative to the working directory or up
// to two parent directories. Returns "" when nothing exists.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schema, err := compile(schemaPath)
	if err != nil {
		return err
	}

	return validate(schema, gojsonschema.NewReferenceLoader("file://"+jsonAbsPath))
}

// ValidateBytes validates an in-memory JSON document, such as a request body,
// against a JSON Schema file.
func ValidateBytes(schemaPath string, data []byte) error {
	schema, err := compile(schemaPath)
	if err != nil {
		return err
	}
	return validate(schema, gojsonschema.NewBytesLoader(data))
}

// Registry compiles each schema once and reuses it across validations.
type Registry struct {
	dir string

	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// NewRegistry creates a registry rooted at dir. Schemas compile lazily.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, compiled: make(map[string]*gojsonschema.Schema)}
}

// Validate checks data against the named schema file in the registry directory.
func (r *Registry) Validate(name string, data []byte) error {
	schema, err := r.schema(name)
	if err != nil {
		return err
	}
	return validate(schema, gojsonschema.NewBytesLoader(data))
}

func (r *Registry) schema(name string) (*gojsonschema.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.compiled[name]; ok {
		return s, nil
	}
	s, err := compile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, err
	}
	r.compiled[name] = s
	return s, nil
}

func compile(schemaPath string) (*gojsonschema.Schema, error) {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + schemaAbsPath))
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema could not be compiled",
			Cause:   err,
		}
	}
	return schema, nil
}

func validate(schema *gojsonschema.Schema, document gojsonschema.JSONLoader) error {
	result, err := schema.Validate(document)
	if err != nil {
		// Document is not parseable JSON
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
