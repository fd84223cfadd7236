package donations

import (
	"context"
	"errors"
	"maps"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

var ErrGatewayRequired = errors.New("donations: gateway required")

const (
	messageInvalid = "Please correct the highlighted fields."
	messageFailed  = "We could not process your donation. Please try again."
)

// Outcome is the user-facing result of a submission.
type Outcome struct {
	Success     bool              `json:"success"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	Message     string            `json:"message,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service validates donor submissions and forwards accepted ones to the gateway.
type Service struct {
	gateway interfaces.DonationGateway
	logger  interfaces.Logger
}

// NewService constructs a donation service.
func NewService(gateway interfaces.DonationGateway, opts ...Option) *Service {
	s := &Service{gateway: gateway, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit validates payload and, when it passes, submits it once. Validation failures and
// gateway failures come back as an Outcome; the returned error is reserved for
// misconfiguration.
func (s *Service) Submit(ctx context.Context, organizationID uuid.UUID, rules Rules, payload Payload) (Outcome, error) {
	if payload.Currency == "" {
		payload.Currency = rules.DefaultCurrency()
	}
	if err := rules.Validate(payload); err != nil {
		var fieldErrs validation.Errors
		if !errors.As(err, &fieldErrs) {
			return Outcome{}, err
		}
		return Outcome{Message: messageInvalid, FieldErrors: fieldMessages(fieldErrs)}, nil
	}
	if s.gateway == nil {
		return Outcome{}, ErrGatewayRequired
	}

	receipt, err := s.gateway.Submit(ctx, organizationID, interfaces.DonationRequest{
		Amount:          payload.Amount,
		Currency:        strings.ToUpper(payload.Currency),
		PaymentMethodID: payload.PaymentMethodID,
		RecurringPeriod: payload.RecurringPeriod,
		Donor:           maps.Clone(payload.Donor),
		Consents:        maps.Clone(payload.Consents),
		WidgetID:        payload.WidgetID,
	})
	if err != nil {
		s.logger.Warn("donations.submit.failed", "organization_id", organizationID.String(), "error", err)
		return Outcome{Message: messageFailed}, nil
	}
	if !receipt.Success {
		message := strings.TrimSpace(receipt.Message)
		if message == "" {
			message = messageFailed
		}
		return Outcome{Message: message}, nil
	}
	s.logger.Info("donations.submit.accepted", "organization_id", organizationID.String(), "amount", payload.Amount)
	return Outcome{Success: true, RedirectURL: receipt.RedirectURL, Message: receipt.Message}, nil
}

func fieldMessages(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			out[field] = err.Error()
		}
	}
	return out
}
