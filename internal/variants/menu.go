package variants

import (
	"context"
	"slices"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

const TypeMenu = "menu"

var orientations = []string{"horizontal", "vertical"}

var menuSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: collections.KindMenuItems, Kind: widgetconfig.KindCollection},
	widgetconfig.Field{Name: "logo", Kind: widgetconfig.KindString, Image: true},
	widgetconfig.Field{Name: "logoAlt", Kind: widgetconfig.KindString},
	widgetconfig.Field{Name: "orientation", Kind: widgetconfig.KindString, Default: "horizontal"},
)

var menuItemFields = []itemField{
	{Key: "label", Label: "Label", Input: inputText},
	{Key: "url", Label: "Link", Input: inputURL},
	{Key: "external", Label: "Open in new tab", Input: inputCheckbox},
}

// Menu renders a navigation bar.
type Menu struct{}

func (Menu) Type() string { return TypeMenu }

func (Menu) Schema() widgetconfig.Schema { return menuSchema }

func (m Menu) RenderPublic(_ context.Context, cfg widgetconfig.Config, _ widgets.PublicEnv) view.Node {
	return m.presentation(cfg)
}

func (m Menu) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	return editorShell(TypeMenu, env, m.presentation(cfg),
		imageControl("logo", "", "Logo", cfg.String("logo")),
		fieldControl("logoAlt", "Logo text", inputText, cfg.String("logoAlt")),
		fieldControl("orientation", "Orientation", inputSelect, menuOrientation(cfg), orientations...),
		collectionEditor(collections.KindMenuItems, "Menu items", cfg.Items(collections.KindMenuItems), menuItemFields, -1),
	)
}

func (Menu) presentation(cfg widgetconfig.Config) view.Node {
	children := []view.Node{}
	if logo := safeImageSrc(cfg.String("logo")); logo != "" {
		children = append(children, view.El("img", view.Attrs("class", "menu__logo", "src", logo, "alt", cfg.String("logoAlt"))))
	}
	items := cfg.Items(collections.KindMenuItems)
	links := make([]view.Node, 0, len(items))
	for _, item := range items {
		var attrs []view.Attr
		if href := safeHref(cast.ToString(item.Get("url"))); href != "" {
			attrs = view.Attrs("href", href)
		}
		if cast.ToBool(item.Get("external")) {
			attrs = append(attrs, view.A("target", "_blank"), view.A("rel", "noopener noreferrer"))
		}
		links = append(links, view.El("li", view.Attrs("class", "menu__item", "data-item-id", item.ID),
			view.El("a", attrs, view.Text(cast.ToString(item.Get("label"))))))
	}
	children = append(children, view.El("ul", view.Attrs("class", "menu__items"), links...))
	return view.El("nav", view.Attrs("class", "menu menu--"+menuOrientation(cfg)), children...)
}

func menuOrientation(cfg widgetconfig.Config) string {
	if value := cfg.String("orientation"); slices.Contains(orientations, value) {
		return value
	}
	return orientations[0]
}
