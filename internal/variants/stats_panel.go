package variants

import (
	"context"
	"strconv"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

const TypeStatsPanel = "stats_panel"

var statsSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "title", Kind: widgetconfig.KindString},
	widgetconfig.Field{Name: collections.KindStats, Kind: widgetconfig.KindCollection},
	widgetconfig.Field{Name: "columns", Kind: widgetconfig.KindInteger, Default: 3},
)

var statFields = []itemField{
	{Key: "label", Label: "Label", Input: inputText},
	{Key: "value", Label: "Value", Input: inputText},
	{Key: "icon", Label: "Icon", Input: inputText},
}

// StatsPanel renders a grid of headline numbers.
type StatsPanel struct{}

func (StatsPanel) Type() string { return TypeStatsPanel }

func (StatsPanel) Schema() widgetconfig.Schema { return statsSchema }

func (s StatsPanel) RenderPublic(_ context.Context, cfg widgetconfig.Config, _ widgets.PublicEnv) view.Node {
	return s.presentation(cfg)
}

func (s StatsPanel) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	return editorShell(TypeStatsPanel, env, s.presentation(cfg),
		fieldControl("title", "Title", inputText, cfg.String("title")),
		fieldControl("columns", "Columns", inputNumber, statsColumns(cfg)),
		collectionEditor(collections.KindStats, "Stats", cfg.Items(collections.KindStats), statFields, -1),
	)
}

func (StatsPanel) presentation(cfg widgetconfig.Config) view.Node {
	stats := cfg.Items(collections.KindStats)
	entries := make([]view.Node, 0, len(stats))
	for _, stat := range stats {
		children := []view.Node{}
		if icon := cast.ToString(stat.Get("icon")); icon != "" {
			children = append(children, view.El("span", view.Attrs("class", "stats__icon icon-"+icon, "aria-hidden", "true")))
		}
		children = append(children,
			view.El("dd", view.Attrs("class", "stats__value"), view.Text(cast.ToString(stat.Get("value")))),
			view.El("dt", view.Attrs("class", "stats__label"), view.Text(cast.ToString(stat.Get("label")))),
		)
		entries = append(entries, view.El("div", view.Attrs("class", "stats__entry", "data-item-id", stat.ID), children...))
	}
	return view.El("div", view.Attrs("class", "stats"),
		optionalText("h2", "stats__title", cfg.String("title")),
		view.El("dl", view.Attrs("class", "stats__grid stats__grid--cols-"+strconv.Itoa(statsColumns(cfg))), entries...),
	)
}

func statsColumns(cfg widgetconfig.Config) int {
	columns := cfg.Int("columns")
	if columns < 1 || columns > 6 {
		return cast.ToInt(statsSchema.Default("columns"))
	}
	return columns
}
