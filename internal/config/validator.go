package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/dataset-schema.json
var embeddedSchema []byte

// schemaOnce ensures thread-safe initialization of the compiled schema.
var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaInitErr  error
)

// schemaURL identifies the embedded dataset schema.
const schemaURL = "https://github.com/johnnynunez/ClassyVision/schemas/dataset/v1.0.0/dataset-schema.json"

// GetEmbeddedSchema returns the embedded dataset schema.
func GetEmbeddedSchema() []byte {
	return embeddedSchema
}

// getCompiledSchema returns the compiled JSON schema, compiling it once.
func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var schemaDoc any
		if err := json.Unmarshal(embeddedSchema, &schemaDoc); err != nil {
			schemaInitErr = fmt.Errorf("failed to parse embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
			schemaInitErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaInitErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaInitErr
}

// ValidateConfig validates a parsed configuration mapping against the
// dataset schema and returns the flattened validation errors, if any.
func ValidateConfig(data map[string]any) []ValidationError {
	if len(data) == 0 {
		return []ValidationError{{Path: "/", Message: "configuration data is empty"}}
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return []ValidationError{{Path: "/", Message: fmt.Sprintf("failed to load schema: %v", err)}}
	}

	validationErr := schema.Validate(data)
	if validationErr == nil {
		return nil
	}

	if detailed, ok := validationErr.(*jsonschema.ValidationError); ok {
		return flattenValidationErrors(detailed)
	}
	return []ValidationError{{Path: "/", Message: validationErr.Error()}}
}

// flattenValidationErrors converts the nested jsonschema error tree to a
// flat list with JSON-pointer paths.
func flattenValidationErrors(err *jsonschema.ValidationError) []ValidationError {
	var errs []ValidationError
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errs = append(errs, ValidationError{
			Path:    formatInstanceLocation(err.InstanceLocation),
			Message: err.Error(),
		})
	}
	for _, cause := range err.Causes {
		errs = append(errs, flattenValidationErrors(cause)...)
	}
	return errs
}

// formatInstanceLocation formats the instance location as a JSON path.
func formatInstanceLocation(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	return "/" + strings.Join(loc, "/")
}
