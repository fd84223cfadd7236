package variants

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const TypeLeaderboard = "leaderboard"

var sortOrders = []string{string(interfaces.SortDescending), string(interfaces.SortAscending)}

var leaderboardSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "title", Kind: widgetconfig.KindString, Default: "Top supporters"},
	widgetconfig.Field{Name: "source", Kind: widgetconfig.KindString, Default: "donors"},
	widgetconfig.Field{Name: "per_page", Kind: widgetconfig.KindInteger, Default: 10},
	widgetconfig.Field{Name: "sort_field", Kind: widgetconfig.KindString, Default: "value"},
	widgetconfig.Field{Name: "sort_order", Kind: widgetconfig.KindString, Default: string(interfaces.SortDescending)},
	widgetconfig.Field{Name: "searchable", Kind: widgetconfig.KindBoolean, Default: true},
	widgetconfig.Field{Name: "value_label", Kind: widgetconfig.KindString, Default: "Raised"},
)

// Leaderboard renders a live ranked listing. Page, sort and search come from the request
// query under keys scoped to the widget so several leaderboards can share a page.
type Leaderboard struct{}

func (Leaderboard) Type() string { return TypeLeaderboard }

func (Leaderboard) Schema() widgetconfig.Schema { return leaderboardSchema }

func (l Leaderboard) RenderPublic(ctx context.Context, cfg widgetconfig.Config, env widgets.PublicEnv) view.Node {
	keys := leaderboardKeys(env.WidgetID.String())
	query := l.query(cfg, env, keys)
	header := optionalText("h2", "leaderboard__title", cfg.String("title"))

	if env.Listings == nil {
		return view.El("div", view.Attrs("class", "leaderboard"), header, alert("This leaderboard is not available."))
	}
	page, err := env.Listings.Fetch(ctx, query)
	if err != nil {
		if env.Logger != nil {
			env.Logger.Warn("leaderboard.fetch.failed", "source", query.Source, "error", err)
		}
		retry := view.El("a", view.Attrs("class", "alert__retry", "href", "?"+env.Query.Encode()), view.Text("Retry"))
		return view.El("div", view.Attrs("class", "leaderboard"), header,
			alert("We could not load the leaderboard. ", retry))
	}

	children := []view.Node{header}
	if cfg.Bool("searchable") {
		children = append(children, l.searchForm(env.Query, keys, query.Search))
	}
	children = append(children, l.table(cfg, page.Entries, query))
	if nav := l.pagination(env.Query, keys, page.Pagination); nav != nil {
		children = append(children, *nav)
	}
	return view.El("div", view.Attrs("class", "leaderboard"), children...)
}

func (l Leaderboard) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	preview := view.El("div", view.Attrs("class", "leaderboard leaderboard--preview"),
		optionalText("h2", "leaderboard__title", cfg.String("title")),
		view.El("p", view.Attrs("class", "leaderboard__notice"), view.Text("Live results appear on the published page.")),
	)
	return editorShell(TypeLeaderboard, env, preview,
		fieldControl("title", "Title", inputText, cfg.String("title")),
		fieldControl("source", "Data source", inputText, cfg.String("source")),
		fieldControl("per_page", "Rows per page", inputNumber, perPage(cfg)),
		fieldControl("sort_field", "Sort by", inputText, cfg.String("sort_field")),
		fieldControl("sort_order", "Order", inputSelect, sortOrder(cfg.String("sort_order")), sortOrders...),
		fieldControl("searchable", "Show search", inputCheckbox, cfg.Bool("searchable")),
		fieldControl("value_label", "Value column", inputText, cfg.String("value_label")),
	)
}

type queryKeys struct {
	page, sort, order, search string
}

func leaderboardKeys(widgetID string) queryKeys {
	prefix := "lb"
	if len(widgetID) >= 8 {
		prefix += "_" + widgetID[:8]
	}
	return queryKeys{
		page:   prefix + "_page",
		sort:   prefix + "_sort",
		order:  prefix + "_order",
		search: prefix + "_q",
	}
}

func (Leaderboard) query(cfg widgetconfig.Config, env widgets.PublicEnv, keys queryKeys) interfaces.ListingQuery {
	q := interfaces.ListingQuery{
		OrganizationID: env.OrganizationID,
		SiteID:         env.SiteID,
		Source:         cfg.String("source"),
		Page:           1,
		PerPage:        perPage(cfg),
		SortField:      cfg.String("sort_field"),
		SortOrder:      interfaces.SortOrder(sortOrder(cfg.String("sort_order"))),
	}
	if env.Query == nil {
		return q
	}
	if page, err := cast.ToIntE(env.Query.Get(keys.page)); err == nil && page > 0 {
		q.Page = min(page, maxLeaderboardPage)
	}
	if field := strings.TrimSpace(env.Query.Get(keys.sort)); field != "" {
		q.SortField = field
	}
	if order := env.Query.Get(keys.order); order != "" {
		q.SortOrder = interfaces.SortOrder(sortOrder(order))
	}
	q.Search = strings.TrimSpace(env.Query.Get(keys.search))
	return q
}

func (Leaderboard) table(cfg widgetconfig.Config, entries []interfaces.ListingEntry, q interfaces.ListingQuery) view.Node {
	if len(entries) == 0 {
		return view.El("p", view.Attrs("class", "leaderboard__empty"), view.Text("No entries yet."))
	}
	offset := (q.Page - 1) * q.PerPage
	rows := make([]view.Node, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, view.El("tr", view.Attrs("data-entry-id", entry.ID),
			view.El("td", view.Attrs("class", "leaderboard__rank"), view.Text(strconv.Itoa(offset+i+1))),
			view.El("td", view.Attrs("class", "leaderboard__label"), view.Text(entry.Label)),
			view.El("td", view.Attrs("class", "leaderboard__value"), view.Text(formatAmount(entry.Value))),
		))
	}
	return view.El("table", view.Attrs("class", "leaderboard__table"),
		view.El("thead", nil, view.El("tr", nil,
			view.El("th", nil, view.Text("#")),
			view.El("th", nil, view.Text("Name")),
			view.El("th", nil, view.Text(cfg.String("value_label"))),
		)),
		view.El("tbody", nil, rows...),
	)
}

func (Leaderboard) searchForm(current url.Values, keys queryKeys, search string) view.Node {
	hidden := []view.Node{}
	for _, key := range slices.Sorted(maps.Keys(current)) {
		values := current[key]
		if key == keys.search || key == keys.page || len(values) == 0 {
			continue
		}
		hidden = append(hidden, view.El("input", view.Attrs("type", "hidden", "name", key, "value", values[0])))
	}
	children := append(hidden,
		view.El("input", view.Attrs("type", "search", "name", keys.search, "value", search, "placeholder", "Search")),
		view.El("button", view.Attrs("type", "submit"), view.Text("Search")),
	)
	return view.El("form", view.Attrs("class", "leaderboard__search", "method", "get"), children...)
}

func (Leaderboard) pagination(current url.Values, keys queryKeys, p *interfaces.Pagination) *view.Node {
	if p == nil || p.TotalPages <= 1 {
		return nil
	}
	link := func(page int, label, rel string) view.Node {
		next := url.Values{}
		for key, values := range current {
			next[key] = append([]string(nil), values...)
		}
		next.Set(keys.page, strconv.Itoa(page))
		return view.El("a", view.Attrs("href", "?"+next.Encode(), "rel", rel), view.Text(label))
	}
	children := []view.Node{}
	if p.Page > 1 {
		children = append(children, link(p.Page-1, "Previous", "prev"))
	}
	children = append(children, view.El("span", view.Attrs("class", "leaderboard__page"),
		view.Text("Page "+strconv.Itoa(p.Page)+" of "+strconv.Itoa(p.TotalPages))))
	if p.Page < p.TotalPages {
		children = append(children, link(p.Page+1, "Next", "next"))
	}
	nav := view.El("nav", view.Attrs("class", "leaderboard__pagination", "aria-label", "Leaderboard pages"), children...)
	return &nav
}

// maxLeaderboardPage bounds the requested page so rank offsets stay within int range.
const maxLeaderboardPage = 10000

func perPage(cfg widgetconfig.Config) int {
	n := cfg.Int("per_page")
	if n < 1 || n > 100 {
		return cast.ToInt(leaderboardSchema.Default("per_page"))
	}
	return n
}

func sortOrder(raw string) string {
	if strings.EqualFold(raw, string(interfaces.SortAscending)) {
		return string(interfaces.SortAscending)
	}
	return string(interfaces.SortDescending)
}
