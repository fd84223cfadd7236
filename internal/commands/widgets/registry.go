package widgetscmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitewidgets/internal/commands"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const syncWidgetRegistryMessageType = "sitewidgets.widgets.registry.sync"

var ErrWidgetsModuleDisabled = errors.New("widgets command: module disabled")

// SyncWidgetRegistryCommand publishes the definitions of every registered widget type.
type SyncWidgetRegistryCommand struct{}

// Type implements command.Message.
func (SyncWidgetRegistryCommand) Type() string { return syncWidgetRegistryMessageType }

// Validate satisfies command.Message.
func (SyncWidgetRegistryCommand) Validate() error { return nil }

// SyncWidgetRegistryHandler wraps registry synchronisation.
type SyncWidgetRegistryHandler struct {
	inner      *commands.Handler[SyncWidgetRegistryCommand]
	cronConfig command.HandlerConfig
}

// NewSyncWidgetRegistryHandler constructs a handler wired to service.
func NewSyncWidgetRegistryHandler(service widgets.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncWidgetRegistryCommand]) *SyncWidgetRegistryHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, _ SyncWidgetRegistryCommand) error {
		if !gates.widgetsEnabled() {
			return ErrWidgetsModuleDisabled
		}
		if err := service.SyncRegistry(ctx); err != nil {
			return err
		}
		logger.Info("widgets.command.registry.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncWidgetRegistryCommand]{
		commands.WithLogger[SyncWidgetRegistryCommand](logger),
		commands.WithOperation[SyncWidgetRegistryCommand]("widgets.registry.sync"),
	}
	return &SyncWidgetRegistryHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SyncWidgetRegistryCommand].
func (h *SyncWidgetRegistryHandler) Execute(ctx context.Context, msg SyncWidgetRegistryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SetCronExpression schedules periodic resyncs when the handler is registered with a
// cron runner. An empty expression leaves the handler unscheduled.
func (h *SyncWidgetRegistryHandler) SetCronExpression(expression string) {
	h.cronConfig.Expression = strings.TrimSpace(expression)
}

// CronHandler satisfies command.CronCommand.
func (h *SyncWidgetRegistryHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), SyncWidgetRegistryCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *SyncWidgetRegistryHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
