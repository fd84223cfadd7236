package widgetscmd

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/commands"
	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const (
	submitDonationMessageType = "sitewidgets.widgets.donation.submit"
	donationWidgetType        = "donation_form"
)

var (
	ErrDonationsDisabled = errors.New("widgets command: donations disabled")
	ErrNotDonationWidget = errors.New("widgets command: widget does not accept donations")
)

// ConfigResolver resolves the renderer and canonical configuration of a widget.
type ConfigResolver interface {
	Resolve(instance *widgets.Instance) (widgets.Renderer, widgetconfig.Result)
}

// SubmitDonationCommand submits a donor payload through the donation form WidgetID. The
// outcome shown to the donor is written to Result.
type SubmitDonationCommand struct {
	WidgetID uuid.UUID          `json:"widget_id"`
	Payload  donations.Payload  `json:"payload"`
	Result   *donations.Outcome `json:"-"`
}

// Type implements command.Message.
func (SubmitDonationCommand) Type() string { return submitDonationMessageType }

// TargetWidget tags log lines with the widget being acted on.
func (m SubmitDonationCommand) TargetWidget() uuid.UUID { return m.WidgetID }

// Validate ensures the widget and result slot are present.
func (m SubmitDonationCommand) Validate() error {
	errs := validation.Errors{}
	if m.WidgetID == uuid.Nil {
		errs["widget_id"] = validation.NewError("sitewidgets.widgets.donation.widget_required", "widget_id is required")
	}
	if m.Result == nil {
		errs["result"] = validation.NewError("sitewidgets.widgets.donation.result_required", "result destination is required")
	}
	return errs.Filter()
}

// SubmitDonationHandler validates a submission against the rules configured on the
// widget and forwards it to the gateway once. Submissions are never retried.
type SubmitDonationHandler struct {
	inner *commands.Handler[SubmitDonationCommand]
}

// NewSubmitDonationHandler constructs a handler. Rules are read from the widget
// configuration resolved by resolver.
func NewSubmitDonationHandler(service widgets.Service, resolver ConfigResolver, submitter *donations.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SubmitDonationCommand]) *SubmitDonationHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SubmitDonationCommand) error {
		if !gates.donationsEnabled() {
			return ErrDonationsDisabled
		}
		instance, err := service.GetInstance(ctx, msg.WidgetID)
		if err != nil {
			return err
		}
		if instance.WidgetTypeID != donationWidgetType || !instance.IsActive {
			return fmt.Errorf("%w: %s", ErrNotDonationWidget, instance.WidgetTypeID)
		}

		renderer, result := resolver.Resolve(instance)
		rules := donations.RulesFromConfig(result.Config(renderer.Schema()))
		payload := msg.Payload
		payload.WidgetID = instance.ID

		outcome, err := submitter.Submit(ctx, instance.OrganizationID, rules, payload)
		if err != nil {
			return err
		}
		*msg.Result = outcome
		logging.WithFields(logger, map[string]any{"widget_id": instance.ID.String()}).
			Info("widgets.command.donation.completed", "success", outcome.Success, "field_errors", len(outcome.FieldErrors))
		return nil
	}

	handlerOpts := []commands.HandlerOption[SubmitDonationCommand]{
		commands.WithLogger[SubmitDonationCommand](logger),
		commands.WithOperation[SubmitDonationCommand]("widgets.donation.submit"),
	}
	return &SubmitDonationHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SubmitDonationCommand].
func (h *SubmitDonationHandler) Execute(ctx context.Context, msg SubmitDonationCommand) error {
	return h.inner.Execute(ctx, msg)
}
