package variants

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const TypeDonationForm = "donation_form"

var donationSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "title", Kind: widgetconfig.KindString, Default: "Support our work"},
	widgetconfig.Field{Name: "description", Kind: widgetconfig.KindString},
	widgetconfig.Field{Name: donations.FieldMinAmount, Kind: widgetconfig.KindNumber, Default: 1.0},
	widgetconfig.Field{Name: donations.FieldMaxAmount, Kind: widgetconfig.KindNumber, Default: 10000.0},
	widgetconfig.Field{Name: "preset_amounts", Kind: widgetconfig.KindList, Default: []any{25.0, 50.0, 100.0}},
	widgetconfig.Field{Name: donations.FieldCurrency, Kind: widgetconfig.KindString, Default: "USD"},
	widgetconfig.Field{Name: donations.FieldCurrencies, Kind: widgetconfig.KindList},
	widgetconfig.Field{Name: donations.FieldRecurringPeriods, Kind: widgetconfig.KindList, Default: []any{"monthly"}},
	widgetconfig.Field{Name: donations.FieldRequiredConsents, Kind: widgetconfig.KindList},
	widgetconfig.Field{Name: donations.FieldRequireEmail, Kind: widgetconfig.KindBoolean, Default: true},
	widgetconfig.Field{Name: "submit_label", Kind: widgetconfig.KindString, Default: "Donate"},
)

// DonationForm renders the donation form, its payment options and the submission outcome.
type DonationForm struct{}

func (DonationForm) Type() string { return TypeDonationForm }

func (DonationForm) Schema() widgetconfig.Schema { return donationSchema }

// RenderPublic fetches the organization's payment methods. A failed lookup renders an
// alert in place of the method list; the form itself is still shown.
func (d DonationForm) RenderPublic(ctx context.Context, cfg widgetconfig.Config, env widgets.PublicEnv) view.Node {
	if env.Donation != nil && env.Donation.Success {
		return d.success(cfg, *env.Donation)
	}

	var methods []interfaces.PaymentMethod
	var methodsErr error
	if env.Donations != nil {
		methods, methodsErr = env.Donations.PaymentMethods(ctx, env.OrganizationID)
		if methodsErr != nil && env.Logger != nil {
			env.Logger.Warn("donation.payment_methods.failed", "error", methodsErr)
		}
	}

	var outcome donations.Outcome
	if env.Donation != nil {
		outcome = *env.Donation
	}
	return d.form(cfg, env.WidgetID.String(), methods, methodsErr != nil, outcome)
}

func (d DonationForm) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	return editorShell(TypeDonationForm, env, d.form(cfg, env.WidgetID.String(), nil, false, donations.Outcome{}),
		fieldControl("title", "Title", inputText, cfg.String("title")),
		fieldControl("description", "Description", inputTextarea, cfg.String("description")),
		fieldControl(donations.FieldMinAmount, "Minimum amount", inputNumber, cfg.Float(donations.FieldMinAmount)),
		fieldControl(donations.FieldMaxAmount, "Maximum amount", inputNumber, cfg.Float(donations.FieldMaxAmount)),
		listControl("preset_amounts", "Preset amounts", formatAmounts(cfg.Floats("preset_amounts"))),
		fieldControl(donations.FieldCurrency, "Currency", inputText, cfg.String(donations.FieldCurrency)),
		listControl(donations.FieldCurrencies, "Other currencies", cfg.Strings(donations.FieldCurrencies)),
		listControl(donations.FieldRecurringPeriods, "Recurring periods", cfg.Strings(donations.FieldRecurringPeriods)),
		listControl(donations.FieldRequiredConsents, "Required consents", cfg.Strings(donations.FieldRequiredConsents)),
		fieldControl(donations.FieldRequireEmail, "Require email", inputCheckbox, cfg.Bool(donations.FieldRequireEmail)),
		fieldControl("submit_label", "Button label", inputText, cfg.String("submit_label")),
	)
}

func (DonationForm) success(cfg widgetconfig.Config, outcome donations.Outcome) view.Node {
	message := outcome.Message
	if message == "" {
		message = "Thank you for your donation."
	}
	children := []view.Node{
		view.El("h2", nil, view.Text(cfg.String("title"))),
		view.El("p", view.Attrs("class", "donation__message"), view.Text(message)),
	}
	if href := safeHref(outcome.RedirectURL); href != "" {
		children = append(children, view.El("a", view.Attrs("class", "donation__continue", "href", href), view.Text("Continue")))
	}
	return view.El("div", view.Attrs("class", "donation donation--success", "role", "status"), children...)
}

func (DonationForm) form(cfg widgetconfig.Config, widgetID string, methods []interfaces.PaymentMethod, methodsFailed bool, outcome donations.Outcome) view.Node {
	rules := donations.RulesFromConfig(cfg)

	children := []view.Node{
		view.El("h2", nil, view.Text(cfg.String("title"))),
		optionalText("p", "donation__description", cfg.String("description")),
		view.El("input", view.Attrs("type", "hidden", "name", "widget_id", "value", widgetID)),
	}
	if outcome.Message != "" {
		children = append(children, alert(outcome.Message))
	}

	presets := make([]view.Node, 0)
	for _, amount := range cfg.Floats("preset_amounts") {
		if (rules.MinAmount > 0 && amount < rules.MinAmount) || (rules.MaxAmount > 0 && amount > rules.MaxAmount) {
			continue
		}
		label := formatAmount(amount)
		presets = append(presets, view.El("label", view.Attrs("class", "donation__preset"),
			view.El("input", view.Attrs("type", "radio", "name", "amount", "value", label)),
			view.Text(label+" "+rules.DefaultCurrency()),
		))
	}
	if len(presets) > 0 {
		children = append(children, view.El("div", view.Attrs("class", "donation__presets"), presets...))
	}

	amountAttrs := view.Attrs("type", "number", "name", "amount", "step", "0.01")
	if rules.MinAmount > 0 {
		amountAttrs = append(amountAttrs, view.A("min", formatAmount(rules.MinAmount)))
	}
	if rules.MaxAmount > 0 {
		amountAttrs = append(amountAttrs, view.A("max", formatAmount(rules.MaxAmount)))
	}
	children = append(children, formRow("Other amount", view.El("input", amountAttrs), outcome.FieldErrors["amount"]))

	if len(rules.Currencies) > 1 {
		options := make([]view.Node, 0, len(rules.Currencies))
		for _, currency := range rules.Currencies {
			options = append(options, view.El("option", view.Attrs("value", currency), view.Text(currency)))
		}
		children = append(children, formRow("Currency", view.El("select", view.Attrs("name", "currency"), options...), outcome.FieldErrors["currency"]))
	} else {
		children = append(children, view.El("input", view.Attrs("type", "hidden", "name", "currency", "value", rules.DefaultCurrency())))
	}

	if len(rules.RecurringPeriods) > 0 {
		options := []view.Node{view.El("option", view.Attrs("value", ""), view.Text("One time"))}
		for _, period := range rules.RecurringPeriods {
			options = append(options, view.El("option", view.Attrs("value", period), view.Text(period)))
		}
		children = append(children, formRow("Frequency", view.El("select", view.Attrs("name", "recurring_period"), options...), outcome.FieldErrors["recurring_period"]))
	}

	switch {
	case methodsFailed:
		children = append(children, alert("Payment methods are unavailable right now. Please reload to try again."))
	case len(methods) > 0:
		options := make([]view.Node, 0, len(methods))
		for i, method := range methods {
			attrs := view.Attrs("type", "radio", "name", "payment_method_id", "value", method.ID)
			if i == 0 {
				attrs = append(attrs, view.A("checked", "checked"))
			}
			options = append(options, view.El("label", view.Attrs("class", "donation__method"), view.El("input", attrs), view.Text(method.Name)))
		}
		children = append(children, formRow("Payment method", view.El("div", view.Attrs("class", "donation__methods"), options...), outcome.FieldErrors["payment_method_id"]))
	}

	children = append(children,
		formRow("Name", view.El("input", view.Attrs("type", "text", "name", "donor_name")), ""),
		formRow("Email", emailInput(rules.RequireEmail), outcome.FieldErrors["donor.email"]),
	)
	for _, consent := range rules.RequiredConsents {
		children = append(children, formRow(consentLabel(consent),
			view.El("input", view.Attrs("type", "checkbox", "name", "consent_"+consent, "value", "on", "required", "required")),
			outcome.FieldErrors["consents."+consent]))
	}
	children = append(children, view.El("button", view.Attrs("type", "submit", "class", "donation__submit"), view.Text(cfg.String("submit_label"))))

	return view.El("form", view.Attrs("class", "donation", "method", "post", "data-widget-id", widgetID), children...)
}

func emailInput(required bool) view.Node {
	attrs := view.Attrs("type", "email", "name", "donor_email")
	if required {
		attrs = append(attrs, view.A("required", "required"))
	}
	return view.El("input", attrs)
}

func formRow(label string, control view.Node, fieldErr string) view.Node {
	children := []view.Node{
		view.El("span", view.Attrs("class", "form-row__label"), view.Text(label)),
		control,
	}
	if fieldErr != "" {
		children = append(children, view.El("span", view.Attrs("class", "form-row__error", "role", "alert"), view.Text(fieldErr)))
	}
	return view.El("label", view.Attrs("class", "form-row"), children...)
}

func consentLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return "I agree to the " + label + " terms"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAmounts(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatAmount(v)
	}
	return out
}
