package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue is one violation, located by JSON pointer (for example "/slides/0/title").
type ValidationIssue struct {
	Location string
	Message  string
}

// Field converts Location into the dotted path used by editor feedback ("slides.0.title").
// The document root maps to "".
func (i ValidationIssue) Field() string {
	location := strings.TrimPrefix(strings.TrimSpace(i.Location), "#")
	location = strings.Trim(location, "/")
	if location == "" {
		return ""
	}
	parts := strings.Split(location, "/")
	for idx, part := range parts {
		parts[idx] = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
	}
	return strings.Join(parts, ".")
}

// PayloadValidationError lists the schema violations of a widget configuration.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		field := issue.Field()
		if field == "" {
			field = "configuration"
		}
		if issue.Message == "" {
			parts = append(parts, field)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from err.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// FieldErrors keys the first message per field, ready for inline editor hints.
func FieldErrors(err error) map[string]string {
	issues := Issues(err)
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string]string, len(issues))
	for _, issue := range issues {
		field := issue.Field()
		if _, ok := out[field]; ok {
			continue
		}
		out[field] = issue.Message
	}
	return out
}

// ValidateSchema ensures schema compiles as a JSON schema document.
func ValidateSchema(schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if _, err := compiled(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// ValidatePayload validates payload against schema. An empty schema accepts anything.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	compiledSchema, err := compiled(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	doc, err := jsonDocument(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// Definitions are validated on every instance create, so compiled schemas are kept by
// their canonical JSON encoding.
var schemaCache sync.Map

func compiled(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	key := string(encoded)
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("widget.schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	result, err := compiler.Compile("widget.schema.json")
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(key, result)
	return actual.(*jsonschema.Schema), nil
}

// jsonDocument converts Go values (ints, typed slices) into the plain JSON shapes the
// validator accepts.
func jsonDocument(payload map[string]any) (any, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
