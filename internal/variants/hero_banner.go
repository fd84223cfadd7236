package variants

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

const TypeHeroBanner = "hero_banner"

var heroSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "headline", Kind: widgetconfig.KindString, Default: "Welcome"},
	widgetconfig.Field{Name: "subheadline", Kind: widgetconfig.KindString},
	widgetconfig.Field{Name: "backgroundImage", Kind: widgetconfig.KindString, Image: true},
	widgetconfig.Field{Name: collections.KindSlides, Kind: widgetconfig.KindCollection, ItemImages: []string{"image"}},
	widgetconfig.Field{Name: "autoplay", Kind: widgetconfig.KindBoolean, Default: true},
	widgetconfig.Field{Name: "interval", Kind: widgetconfig.KindInteger, Default: 5000, Description: "milliseconds between slides"},
	widgetconfig.Field{Name: "overlayOpacity", Kind: widgetconfig.KindNumber, Default: 0.4},
)

var slideFields = []itemField{
	{Key: "title", Label: "Title", Input: inputText},
	{Key: "subtitle", Label: "Subtitle", Input: inputText},
	{Key: "image", Label: "Image", Input: inputImage},
	{Key: "ctaLabel", Label: "Button label", Input: inputText},
	{Key: "ctaUrl", Label: "Button link", Input: inputURL},
}

// HeroBanner renders a headline banner or a slide carousel.
type HeroBanner struct{}

func (HeroBanner) Type() string { return TypeHeroBanner }

func (HeroBanner) Schema() widgetconfig.Schema { return heroSchema }

func (h HeroBanner) RenderPublic(_ context.Context, cfg widgetconfig.Config, _ widgets.PublicEnv) view.Node {
	return h.presentation(cfg, -1)
}

func (h HeroBanner) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	slides := cfg.Items(collections.KindSlides)
	current := clampIndex(env.UI.CurrentSlide, len(slides))
	return editorShell(TypeHeroBanner, env, h.presentation(cfg, current),
		fieldControl("headline", "Headline", inputText, cfg.String("headline")),
		fieldControl("subheadline", "Subheadline", inputText, cfg.String("subheadline")),
		imageControl("backgroundImage", "", "Background image", cfg.String("backgroundImage")),
		fieldControl("autoplay", "Autoplay slides", inputCheckbox, cfg.Bool("autoplay")),
		fieldControl("interval", "Slide interval (ms)", inputNumber, cfg.Int("interval")),
		fieldControl("overlayOpacity", "Overlay opacity", inputNumber, cfg.Float("overlayOpacity")),
		collectionEditor(collections.KindSlides, "Slides", slides, slideFields, current),
	)
}

// presentation is shared by both modes. active marks the slide shown first; -1 keeps the
// first slide.
func (HeroBanner) presentation(cfg widgetconfig.Config, active int) view.Node {
	attrs := view.Attrs("class", "hero")
	if image := safeImageSrc(cfg.String("backgroundImage")); image != "" {
		attrs = append(attrs, view.A("style", fmt.Sprintf("background-image: url(%q)", image)))
	}
	overlay := view.El("div", view.Attrs(
		"class", "hero__overlay",
		"style", "opacity: "+strconv.FormatFloat(clampUnit(cfg.Float("overlayOpacity")), 'f', -1, 64),
	))

	slides := cfg.Items(collections.KindSlides)
	if len(slides) == 0 {
		return view.El("section", attrs, overlay,
			view.El("div", view.Attrs("class", "hero__content"),
				view.El("h1", view.Attrs("class", "hero__headline"), view.Text(cfg.String("headline"))),
				optionalText("p", "hero__subheadline", cfg.String("subheadline")),
			),
		)
	}

	if active < 0 {
		active = 0
	}
	interval := cfg.Int("interval")
	if interval <= 0 {
		interval = cast.ToInt(heroSchema.Default("interval"))
	}
	figures := make([]view.Node, 0, len(slides))
	for i, slide := range slides {
		slideAttrs := view.Attrs("class", "hero__slide", "data-slide-id", slide.ID)
		if i == active {
			slideAttrs = append(slideAttrs, view.A("data-active", "true"))
		}
		children := []view.Node{}
		if image := safeImageSrc(cast.ToString(slide.Get("image"))); image != "" {
			children = append(children, view.El("img", view.Attrs("src", image, "alt", cast.ToString(slide.Get("title")))))
		}
		caption := []view.Node{
			view.El("h2", nil, view.Text(cast.ToString(slide.Get("title")))),
			optionalText("p", "hero__slide-subtitle", cast.ToString(slide.Get("subtitle"))),
		}
		if label, href := cast.ToString(slide.Get("ctaLabel")), safeHref(cast.ToString(slide.Get("ctaUrl"))); label != "" && href != "" {
			caption = append(caption, view.El("a", view.Attrs("class", "hero__cta", "href", href), view.Text(label)))
		}
		children = append(children, view.El("figcaption", nil, caption...))
		figures = append(figures, view.El("figure", slideAttrs, children...))
	}
	return view.El("section", attrs, overlay,
		view.El("div", view.Attrs(
			"class", "hero__slides",
			"data-autoplay", strconv.FormatBool(cfg.Bool("autoplay")),
			"data-interval", strconv.Itoa(interval),
		), figures...),
	)
}

func optionalText(tag, class, text string) view.Node {
	if text == "" {
		return view.Fragment()
	}
	return view.El(tag, view.Attrs("class", class), view.Text(text))
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
