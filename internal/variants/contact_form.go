package variants

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

const TypeContactForm = "contact_form"

var fieldTypes = []string{"text", "email", "tel", "textarea", "checkbox"}

var contactSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "title", Kind: widgetconfig.KindString, Default: "Get in touch"},
	widgetconfig.Field{Name: collections.KindFormFields, Kind: widgetconfig.KindCollection},
	widgetconfig.Field{Name: collections.KindActions, Kind: widgetconfig.KindCollection},
	widgetconfig.Field{Name: "success_message", Kind: widgetconfig.KindString, Default: "Thanks, we will be in touch."},
)

var formFieldFields = []itemField{
	{Key: "label", Label: "Label", Input: inputText},
	{Key: "name", Label: "Name", Input: inputText},
	{Key: "type", Label: "Type", Input: inputSelect, Options: fieldTypes},
	{Key: "required", Label: "Required", Input: inputCheckbox},
	{Key: "placeholder", Label: "Placeholder", Input: inputText},
}

var actionFields = []itemField{
	{Key: "label", Label: "Label", Input: inputText},
	{Key: "action", Label: "Action", Input: inputSelect, Options: []string{"submit", "link", "reset"}},
	{Key: "target", Label: "Target", Input: inputURL},
}

// ContactForm renders an author-defined form.
type ContactForm struct{}

func (ContactForm) Type() string { return TypeContactForm }

func (ContactForm) Schema() widgetconfig.Schema { return contactSchema }

func (c ContactForm) RenderPublic(_ context.Context, cfg widgetconfig.Config, env widgets.PublicEnv) view.Node {
	if env.Query != nil && env.Query.Get("sent") == env.WidgetID.String() {
		return view.El("div", view.Attrs("class", "contact-form contact-form--sent", "role", "status"),
			view.Text(cfg.String("success_message")))
	}
	return c.presentation(cfg)
}

func (c ContactForm) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	return editorShell(TypeContactForm, env, c.presentation(cfg),
		fieldControl("title", "Title", inputText, cfg.String("title")),
		fieldControl("success_message", "Success message", inputText, cfg.String("success_message")),
		collectionEditor(collections.KindFormFields, "Fields", cfg.Items(collections.KindFormFields), formFieldFields, -1),
		collectionEditor(collections.KindActions, "Buttons", cfg.Items(collections.KindActions), actionFields, -1),
	)
}

func (ContactForm) presentation(cfg widgetconfig.Config) view.Node {
	children := []view.Node{optionalText("h2", "contact-form__title", cfg.String("title"))}
	for i, field := range cfg.Items(collections.KindFormFields) {
		children = append(children, contactField(field, i))
	}

	actions := make([]view.Node, 0)
	for _, action := range cfg.Items(collections.KindActions) {
		label := cast.ToString(action.Get("label"))
		switch cast.ToString(action.Get("action")) {
		case "link":
			attrs := view.Attrs("class", "button")
			if href := safeHref(cast.ToString(action.Get("target"))); href != "" {
				attrs = append(attrs, view.A("href", href))
			}
			actions = append(actions, view.El("a", attrs, view.Text(label)))
		case "reset":
			actions = append(actions, view.El("button", view.Attrs("type", "reset"), view.Text(label)))
		default:
			actions = append(actions, view.El("button", view.Attrs("type", "submit"), view.Text(label)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, view.El("button", view.Attrs("type", "submit"), view.Text("Send")))
	}
	children = append(children, view.El("div", view.Attrs("class", "contact-form__actions"), actions...))
	return view.El("form", view.Attrs("class", "contact-form", "method", "post"), children...)
}

func contactField(field widgets.Item, index int) view.Node {
	name := strings.TrimSpace(cast.ToString(field.Get("name")))
	if name == "" {
		name = "field_" + cast.ToString(index+1)
	}
	kind := cast.ToString(field.Get("type"))
	attrs := view.Attrs("name", name, "id", name)
	if placeholder := cast.ToString(field.Get("placeholder")); placeholder != "" {
		attrs = append(attrs, view.A("placeholder", placeholder))
	}
	if cast.ToBool(field.Get("required")) {
		attrs = append(attrs, view.A("required", "required"))
	}

	var control view.Node
	switch kind {
	case "textarea":
		control = view.El("textarea", attrs)
	case "email", "tel", "checkbox":
		control = view.El("input", append(attrs, view.A("type", kind)))
	default:
		control = view.El("input", append(attrs, view.A("type", "text")))
	}
	return view.El("div", view.Attrs("class", "form-row", "data-item-id", field.ID),
		view.El("label", view.Attrs("for", name), view.Text(cast.ToString(field.Get("label")))),
		control,
	)
}
