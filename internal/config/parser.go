package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseConfig parses and validates a dataset configuration file.
// The format (JSON/YAML) is detected from the file extension, falling back
// to content sniffing. The parsed mapping is validated against the dataset
// schema.
func ParseConfig(filepath string) *Result {
	result := &Result{FilePath: filepath}

	content, err := os.ReadFile(filepath)
	if err != nil {
		result.ParseErrors = append(result.ParseErrors, ParseError{
			Path:    filepath,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Type:    ErrorTypeIO,
		})
		return result
	}

	parsed := ParseConfigString(string(content), DetectFormat(filepath))
	parsed.FilePath = filepath
	for i := range parsed.ParseErrors {
		if parsed.ParseErrors[i].Path == "" {
			parsed.ParseErrors[i].Path = filepath
		}
	}
	return parsed
}

// ParseConfigString parses and validates configuration content from a
// string. If format is empty, it is detected from the content.
func ParseConfigString(content, format string) *Result {
	result := &Result{Format: format}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		result.ParseErrors = append(result.ParseErrors, ParseError{
			Message: "empty content: expected a configuration mapping",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	if format == "" {
		if strings.HasPrefix(trimmed, "{") {
			format = "json"
		} else {
			format = "yaml"
		}
		result.Format = format
	}

	var data map[string]any
	var parseErr *ParseError
	switch format {
	case "json":
		data, parseErr = parseJSON(trimmed)
	case "yaml":
		data, parseErr = parseYAML(trimmed)
	default:
		parseErr = &ParseError{
			Message: fmt.Sprintf("unsupported format: %s", format),
			Type:    ErrorTypeFormat,
		}
	}
	if parseErr != nil {
		result.ParseErrors = append(result.ParseErrors, *parseErr)
		return result
	}

	result.Data = data
	result.ValidationErrors = ValidateConfig(data)
	return result
}

// DetectFormat detects the configuration format from the file extension.
// Returns "json", "yaml", or empty string if the extension is unknown.
func DetectFormat(filepath string) string {
	switch strings.ToLower(path.Ext(filepath)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// parseJSON decodes JSON content into a configuration mapping.
func parseJSON(content string) (map[string]any, *ParseError) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		parseErr := &ParseError{Message: err.Error(), Type: ErrorTypeSyntax}
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			parseErr.Line = offsetToLine(content, syntaxErr.Offset)
			parseErr.Message = fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxErr.Offset, err)
		}
		return nil, parseErr
	}

	dataMap, ok := data.(map[string]any)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid configuration: expected JSON object, got %T", data),
			Type:    ErrorTypeFormat,
		}
	}
	return dataMap, nil
}

// parseYAML decodes YAML content into a configuration mapping.
func parseYAML(content string) (map[string]any, *ParseError) {
	var data any
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		parseErr := &ParseError{Message: err.Error(), Type: ErrorTypeSyntax}
		// yaml.v3 embeds line info in the message: "yaml: line X: ..."
		var line int
		if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
			parseErr.Line = line
		}
		return nil, parseErr
	}

	dataMap, ok := data.(map[string]any)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid configuration: expected YAML mapping, got %T", data),
			Type:    ErrorTypeFormat,
		}
	}
	return dataMap, nil
}

// offsetToLine converts a byte offset to a 1-based line number.
func offsetToLine(content string, offset int64) int {
	line := 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
