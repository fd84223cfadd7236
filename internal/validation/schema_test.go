package validation

import (
	"errors"
	"testing"
)

func TestValidateSchemaRejectsBrokenDocument(t *testing.T) {
	err := ValidateSchema(map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"interval": map[string]any{"type": "integer"},
			"headline": map[string]any{"type": "string"},
		},
	}

	if err := ValidatePayload(schema, map[string]any{"interval": 5000, "headline": "Hi"}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err := ValidatePayload(schema, map[string]any{"interval": "soon"})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	issues := Issues(err)
	if len(issues) != 1 || issues[0].Location != "/interval" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}

func TestFieldErrorsUseDottedPaths(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slides": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"title": map[string]any{"type": "string"}},
				},
			},
		},
	}
	err := ValidatePayload(schema, map[string]any{"slides": []any{map[string]any{"title": 4}}})
	fields := FieldErrors(err)
	if _, ok := fields["slides.0.title"]; !ok || len(fields) != 1 {
		t.Fatalf("expected slides.0.title field error, got %+v", fields)
	}
	if FieldErrors(nil) != nil {
		t.Fatal("expected nil map for nil error")
	}
}

func TestValidationIssueFieldUnescapesPointer(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"#":          "",
		"/headline":  "headline",
		"#/a~1b/c~0": "a/b.c~",
	}
	for location, want := range cases {
		if got := (ValidationIssue{Location: location}).Field(); got != want {
			t.Fatalf("Field(%q) = %q, want %q", location, got, want)
		}
	}
}

func TestValidatePayloadReusesCompiledSchema(t *testing.T) {
	schema := map[string]any{"type": "object", "required": []any{"headline"}}
	for i := 0; i < 2; i++ {
		if err := ValidatePayload(schema, map[string]any{}); !errors.Is(err, ErrSchemaValidation) {
			t.Fatalf("run %d: expected validation error, got %v", i, err)
		}
	}
}
