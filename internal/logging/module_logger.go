package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const (
	rootModule      = "sitewidgets"
	autosaveModule  = "sitewidgets.autosave"
	containerModule = "sitewidgets.container"
	editorModule    = "sitewidgets.editor"
	widgetsModule   = "sitewidgets.widgets"
	donationsModule = "sitewidgets.donations"
)

const (
	fieldWidgetID   = "widget_id"
	fieldWidgetType = "widget_type"
	fieldMode       = "mode"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// AutosaveLogger returns the logger namespace reserved for autosave controllers.
func AutosaveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, autosaveModule)
}

// ContainerLogger returns the logger namespace reserved for the widget container.
func ContainerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, containerModule)
}

// EditorLogger returns the logger namespace reserved for editing sessions.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// WidgetsLogger returns the logger namespace reserved for the widget service.
func WidgetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, widgetsModule)
}

// DonationsLogger returns the logger namespace reserved for donation submissions.
func DonationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, donationsModule)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithWidgetContext enriches logger with the widget id, type and render mode.
// Empty values are skipped.
func WithWidgetContext(logger interfaces.Logger, widgetID, widgetType, mode string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(widgetID); trimmed != "" {
		fields[fieldWidgetID] = trimmed
	}
	if trimmed := strings.TrimSpace(widgetType); trimmed != "" {
		fields[fieldWidgetType] = trimmed
	}
	if trimmed := strings.TrimSpace(mode); trimmed != "" {
		fields[fieldMode] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
