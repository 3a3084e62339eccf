package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	ktoml "github.com/knadh/koanf/parsers/toml"
)

//go:embed schema.json
var schemaJSON string

// GetSchemaJSON returns the JSON Schema for promptline configuration
func GetSchemaJSON() string {
	return schemaJSON
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidateWithSchema validates config content against the JSON Schema.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	data, syntaxErr := decodeForSchema(path, content)
	if syntaxErr != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "syntax",
			Message: syntaxErr.Error(),
		})
		return result, nil
	}

	schemaLoader := gojsonschema.NewStringLoader(GetSchemaJSON())
	documentLoader := gojsonschema.NewGoLoader(data)

	validationResult, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if !validationResult.Valid() {
		result.Valid = false
		for _, schemaErr := range validationResult.Errors() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   schemaErr.Field(),
				Message: schemaErr.Description(),
			})
		}
	}

	return result, nil
}

// Validate loads and schema-checks a config file, then applies the
// semantic checks the schema cannot express.
func Validate(path string, content []byte) (*ValidationResult, error) {
	result, err := ValidateWithSchema(path, content)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return result, nil
	}

	cfg, err := LoadBytes(path, content)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "syntax",
			Message: fmt.Sprintf("Failed to parse config: %v", err),
		})
		return result, nil
	}

	if cfg.Completion.MinInputLength > 0 && cfg.Completion.MinInputLength > cfg.Completion.MaxSuggestions {
		// Not strictly wrong, but a smell worth surfacing: huge minimum
		// with a tiny cap usually means swapped values.
		result.Errors = append(result.Errors, ValidationError{
			Field:   "completion/min_input_length",
			Message: "min_input_length exceeds max_suggestions; check for swapped values",
		})
	}

	if _, err := expandPromptTemplate(cfg.Input.Prompt, promptVars()); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "input/prompt",
			Message: fmt.Sprintf("Invalid prompt template: %v", err),
		})
	}

	return result, nil
}

// decodeForSchema converts the file content into a structure the schema
// validator can walk, according to the file format.
func decodeForSchema(path string, content []byte) (interface{}, error) {
	var data interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("Invalid YAML syntax: %v", err)
		}
	case ".json":
		if err := json.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("Invalid JSON syntax: %v", err)
		}
	case ".toml":
		parsed, err := ktoml.Parser().Unmarshal(content)
		if err != nil {
			return nil, fmt.Errorf("Invalid TOML syntax: %v", err)
		}
		data = parsed
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}

	return data, nil
}
