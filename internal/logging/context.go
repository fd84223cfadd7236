package logging

import (
	"context"
	"maps"
	"strings"
)

type contextKey string

const contextFieldsKey contextKey = "sitewidgets.logging.fields"

const (
	fieldSlot = "slot"
	fieldSite = "site_id"
)

// ContextWithFields stores fields on ctx for loggers that read context (the console
// provider merges them into every entry). Existing fields are kept unless overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextWithPlacement tags ctx with the page position being rendered. Blank values
// are skipped.
func ContextWithPlacement(ctx context.Context, siteID, slot string) context.Context {
	fields := map[string]any{}
	if siteID = strings.TrimSpace(siteID); siteID != "" {
		fields[fieldSite] = siteID
	}
	if slot = strings.TrimSpace(slot); slot != "" {
		fields[fieldSlot] = slot
	}
	return ContextWithFields(ctx, fields)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
