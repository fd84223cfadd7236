package commands

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const commandModuleRoot = "sitewidgets.commands"

// WidgetScoped is implemented by messages that target a single widget instance.
type WidgetScoped interface {
	TargetWidget() uuid.UUID
}

// CommandLogger returns the logger for a command module, for example
// "sitewidgets.commands.widgets".
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// messageFields builds the structured fields attached to every log line of one execution.
func messageFields(messageType, operation string, msg any) map[string]any {
	fields := map[string]any{"command": messageType}
	if operation != "" {
		fields["operation"] = operation
	}
	if scoped, ok := msg.(WidgetScoped); ok {
		if id := scoped.TargetWidget(); id != uuid.Nil {
			fields["widget_id"] = id.String()
		}
	}
	return fields
}
