package widgetscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/commands"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const saveConfigurationMessageType = "sitewidgets.widgets.configuration.save"

// SaveConfigurationCommand stores the canonical configuration of one widget.
type SaveConfigurationCommand struct {
	InstanceID    uuid.UUID      `json:"instance_id"`
	Configuration map[string]any `json:"configuration"`
}

// Type implements command.Message.
func (SaveConfigurationCommand) Type() string { return saveConfigurationMessageType }

// TargetWidget tags log lines with the widget being acted on.
func (m SaveConfigurationCommand) TargetWidget() uuid.UUID { return m.InstanceID }

// Validate ensures the target and payload are present.
func (m SaveConfigurationCommand) Validate() error {
	errs := validation.Errors{}
	if m.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("sitewidgets.widgets.configuration.instance_required", "instance_id is required")
	}
	if m.Configuration == nil {
		errs["configuration"] = validation.NewError("sitewidgets.widgets.configuration.configuration_required", "configuration is required")
	}
	return errs.Filter()
}

// SaveConfigurationHandler persists widget configurations. A save addressed to a widget
// that no longer exists is discarded: the author navigated away or another author removed
// it, and nothing can be done with the snapshot.
type SaveConfigurationHandler struct {
	inner *commands.Handler[SaveConfigurationCommand]
}

// NewSaveConfigurationHandler constructs a handler wired to service.
func NewSaveConfigurationHandler(service widgets.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SaveConfigurationCommand]) *SaveConfigurationHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SaveConfigurationCommand) error {
		if !gates.widgetsEnabled() {
			return ErrWidgetsModuleDisabled
		}
		entry := logging.WithFields(logger, map[string]any{"widget_id": msg.InstanceID.String()})
		if _, err := service.SaveConfiguration(ctx, msg.InstanceID, msg.Configuration); err != nil {
			if widgets.IsNotFound(err) {
				entry.Debug("widgets.command.configuration.discarded", "error", err)
				return nil
			}
			return err
		}
		entry.Debug("widgets.command.configuration.saved")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveConfigurationCommand]{
		commands.WithLogger[SaveConfigurationCommand](logger),
		commands.WithOperation[SaveConfigurationCommand]("widgets.configuration.save"),
	}
	return &SaveConfigurationHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SaveConfigurationCommand].
func (h *SaveConfigurationHandler) Execute(ctx context.Context, msg SaveConfigurationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Persister returns an autosave persister routing saves through the handler.
func (h *SaveConfigurationHandler) Persister() interfaces.WidgetPersister {
	return interfaces.WidgetPersisterFunc(func(ctx context.Context, widgetID uuid.UUID, configuration map[string]any) error {
		if configuration == nil {
			configuration = map[string]any{}
		}
		return h.Execute(ctx, SaveConfigurationCommand{InstanceID: widgetID, Configuration: configuration})
	})
}
