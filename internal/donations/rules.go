package donations

import (
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
)

// Configuration keys read by RulesFromConfig.
const (
	FieldMinAmount        = "min_amount"
	FieldMaxAmount        = "max_amount"
	FieldCurrency         = "currency"
	FieldCurrencies       = "currencies"
	FieldRecurringPeriods = "recurring_periods"
	FieldRequiredConsents = "required_consents"
	FieldRequireEmail     = "require_email"
)

// Rules are the submission constraints a donation widget is configured with.
type Rules struct {
	MinAmount        float64
	MaxAmount        float64
	Currencies       []string
	RecurringPeriods []string
	RequiredConsents []string
	RequireEmail     bool
}

// RulesFromConfig reads the donation constraints from a resolved configuration. The
// primary currency comes first; a zero MaxAmount leaves the upper bound open.
func RulesFromConfig(cfg widgetconfig.Config) Rules {
	rules := Rules{
		MinAmount:        cfg.Float(FieldMinAmount),
		MaxAmount:        cfg.Float(FieldMaxAmount),
		RecurringPeriods: normalizeList(cfg.Strings(FieldRecurringPeriods)),
		RequiredConsents: normalizeList(cfg.Strings(FieldRequiredConsents)),
		RequireEmail:     cfg.Bool(FieldRequireEmail),
	}
	var currencies []string
	if primary := strings.ToUpper(strings.TrimSpace(cfg.String(FieldCurrency))); primary != "" {
		currencies = append(currencies, primary)
	}
	for _, currency := range normalizeList(cfg.Strings(FieldCurrencies)) {
		if upper := strings.ToUpper(currency); !slices.Contains(currencies, upper) {
			currencies = append(currencies, upper)
		}
	}
	rules.Currencies = currencies
	return rules
}

// DefaultCurrency returns the first allowed currency.
func (r Rules) DefaultCurrency() string {
	if len(r.Currencies) == 0 {
		return ""
	}
	return r.Currencies[0]
}

// Validate checks payload against the rules. Failures are returned as
// validation.Errors keyed by payload field.
func (r Rules) Validate(payload Payload) error {
	amountRules := []validation.Rule{
		validation.Required.Error("enter an amount"),
		validation.By(finiteAmount),
		validation.Min(0.0).Exclusive().Error("amount must be greater than zero"),
	}
	if r.MinAmount > 0 {
		amountRules = append(amountRules, validation.Min(r.MinAmount).Error("amount is below the minimum"))
	}
	if r.MaxAmount > 0 {
		amountRules = append(amountRules, validation.Max(r.MaxAmount).Error("amount is above the maximum"))
	}

	currencyRules := []validation.Rule{validation.Required}
	if len(r.Currencies) > 0 {
		currencyRules = append(currencyRules, validation.In(toAny(r.Currencies)...).Error("currency is not accepted"))
	}

	errs := validation.Errors{
		"amount":            validation.Validate(payload.Amount, amountRules...),
		"currency":          validation.Validate(strings.ToUpper(payload.Currency), currencyRules...),
		"payment_method_id": validation.Validate(payload.PaymentMethodID, validation.Required.Error("choose a payment method")),
	}
	if payload.RecurringPeriod != "" {
		errs["recurring_period"] = validation.Validate(payload.RecurringPeriod,
			validation.In(toAny(r.RecurringPeriods)...).Error("recurring period is not offered"))
	}

	emailRules := []validation.Rule{is.EmailFormat}
	if r.RequireEmail {
		emailRules = append([]validation.Rule{validation.Required.Error("email is required")}, emailRules...)
	}
	errs["donor.email"] = validation.Validate(payload.DonorEmail(), emailRules...)

	for _, consent := range r.RequiredConsents {
		if !payload.Consents[consent] {
			errs["consents."+consent] = validation.NewError("donations.consent_required", "this consent is required")
		}
	}
	return errs.Filter()
}

func finiteAmount(value any) error {
	if amount, ok := value.(float64); ok && !finite(amount) {
		return validation.NewError("donations.amount_invalid", "amount is not a number")
	}
	return nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" && !slices.Contains(out, trimmed) {
			out = append(out, trimmed)
		}
	}
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
