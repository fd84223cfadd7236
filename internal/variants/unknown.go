package variants

import (
	"context"

	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

const TypeUnknown = "unknown"

// Unknown stands in for widget types without a registered renderer. Readers see an empty
// placeholder; authors are told the type is unsupported.
type Unknown struct{}

func (Unknown) Type() string { return TypeUnknown }

func (Unknown) Schema() widgetconfig.Schema { return widgetconfig.Schema{} }

func (Unknown) RenderPublic(_ context.Context, _ widgetconfig.Config, env widgets.PublicEnv) view.Node {
	return view.El("div", view.Attrs(
		"class", "widget-placeholder",
		"data-widget-type", env.WidgetType,
		"aria-hidden", "true",
	))
}

func (Unknown) RenderEditable(_ widgetconfig.Config, env widgets.EditableEnv) view.Node {
	message := "This widget is not supported anymore."
	if env.WidgetType != "" {
		message = "The \"" + env.WidgetType + "\" widget is not supported anymore."
	}
	return view.El("div", view.Attrs("class", "widget-placeholder widget-placeholder--editable", "data-widget-type", env.WidgetType),
		view.El("p", nil, view.Text(message)),
	)
}
