package donations

import (
	"math"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Payload is a donor submission.
type Payload struct {
	WidgetID        uuid.UUID
	Amount          float64
	Currency        string
	PaymentMethodID string
	RecurringPeriod string
	Donor           map[string]any
	Consents        map[string]bool
}

// DonorEmail returns the trimmed donor email, if any.
func (p Payload) DonorEmail() string {
	return strings.TrimSpace(cast.ToString(p.Donor["email"]))
}

// PayloadFromForm decodes a submitted donation form. Donor fields use a "donor_"
// prefix and consents a "consent_" prefix. An unparsable or non-finite amount ("NaN",
// "Inf") decodes as zero.
func PayloadFromForm(values url.Values) Payload {
	payload := Payload{
		Currency:        strings.ToUpper(strings.TrimSpace(values.Get("currency"))),
		PaymentMethodID: strings.TrimSpace(values.Get("payment_method_id")),
		RecurringPeriod: strings.TrimSpace(values.Get("recurring_period")),
		Donor:           map[string]any{},
		Consents:        map[string]bool{},
	}
	if amount, err := cast.ToFloat64E(strings.TrimSpace(values.Get("amount"))); err == nil && finite(amount) {
		payload.Amount = amount
	}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(key, "donor_"):
			payload.Donor[strings.TrimPrefix(key, "donor_")] = strings.TrimSpace(vals[0])
		case strings.HasPrefix(key, "consent_"):
			payload.Consents[strings.TrimPrefix(key, "consent_")] = cast.ToBool(vals[0]) || vals[0] == "on"
		}
	}
	return payload
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
