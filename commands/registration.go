package commands

import (
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	widgetscmd "github.com/goliatone/go-sitewidgets/internal/commands/widgets"
	"github.com/goliatone/go-sitewidgets/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// ErrUnsupportedHandler is returned by GlobalDispatcher for handler types it cannot subscribe.
var ErrUnsupportedHandler = errors.New("commands: unsupported handler type")

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
	// SyncRegistryCron overrides the configured resync schedule.
	SyncRegistryCron string
}

// RegistrationResult captures the command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Close unsubscribes every dispatcher subscription.
func (r *RegistrationResult) Close() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands exposes the handlers built by container and optionally
// registers them with registry/dispatcher/cron integrations. When no dispatcher is
// supplied and commands.auto_register_dispatcher is set, handlers subscribe to the
// go-command global dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config
	if !cfg.Commands.Enabled {
		return &RegistrationResult{}, nil
	}

	if opts.Dispatcher == nil && cfg.Commands.AutoRegisterDispatcher {
		opts.Dispatcher = GlobalDispatcher{}
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0, 3),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok && strings.TrimSpace(cronCmd.CronOptions().Expression) != "" {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	if cfg.Features.Widgets {
		sync := container.SyncRegistryHandler()
		if sync != nil {
			if expr := strings.TrimSpace(opts.SyncRegistryCron); expr != "" {
				sync.SetCronExpression(expr)
			}
			register(sync)
		}
		if save := container.SaveConfigurationHandler(); save != nil {
			register(save)
		}
		if cfg.Features.Donations {
			if donation := container.SubmitDonationHandler(); donation != nil {
				register(donation)
			}
		}
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure the widgets feature is enabled")
	}

	return result, errs
}

// GlobalDispatcher subscribes the widget handlers to the go-command global dispatcher.
type GlobalDispatcher struct{}

// RegisterCommand satisfies CommandDispatcher.
func (GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *widgetscmd.SyncWidgetRegistryHandler:
		return dispatcher.SubscribeCommand[widgetscmd.SyncWidgetRegistryCommand](h), nil
	case *widgetscmd.SaveConfigurationHandler:
		return dispatcher.SubscribeCommand[widgetscmd.SaveConfigurationCommand](h), nil
	case *widgetscmd.SubmitDonationHandler:
		return dispatcher.SubscribeCommand[widgetscmd.SubmitDonationCommand](h), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandler, handler)
	}
}
