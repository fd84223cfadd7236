package variants

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
	"github.com/goliatone/go-sitewidgets/pkg/testsupport"
)

var widgetID = uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")

func configFor(r widgets.Renderer, values map[string]any) widgetconfig.Config {
	result := widgetconfig.Resolve(r.Schema(), widgetconfig.Sources{Seed: widgetID.String(), Inline: values})
	return result.Config(r.Schema())
}

func render(t *testing.T, n view.Node) string {
	t.Helper()
	out, err := view.RenderString(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func attrValues(nodes []view.Node, key string) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		v, _ := node.Attr(key)
		out = append(out, v)
	}
	return out
}

func TestBuiltinsRenderDefaultsInBothModes(t *testing.T) {
	registry := NewRegistry(nil)
	for _, typeID := range registry.List() {
		renderer := registry.Lookup(typeID)
		cfg := configFor(renderer, nil)
		public := renderer.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID, WidgetType: typeID})
		editable := renderer.RenderEditable(cfg, widgets.EditableEnv{WidgetID: widgetID, WidgetType: typeID})
		render(t, public)
		render(t, editable)
	}
}

func TestHeroBannerSlidesKeepOrderAndIdentity(t *testing.T) {
	hero := HeroBanner{}
	cfg := configFor(hero, map[string]any{
		"headline": "Spring",
		"slides": []any{
			map[string]any{"id": "b", "title": "Second"},
			map[string]any{"id": "a", "title": "First", "ctaLabel": "Give", "ctaUrl": "/give"},
		},
	})

	public := hero.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID})
	slides := public.Find(func(n view.Node) bool { return n.HasClass("hero__slide") })
	if diff := cmp.Diff([]string{"b", "a"}, attrValues(slides, "data-slide-id")); diff != "" {
		t.Fatalf("slide order mismatch:\n%s", diff)
	}
	if len(public.Find(func(n view.Node) bool { return n.HasClass("hero__cta") })) != 1 {
		t.Fatalf("expected one call to action")
	}

	editable := hero.RenderEditable(cfg, widgets.EditableEnv{WidgetID: widgetID, UI: widgets.UIState{CurrentSlide: 7}})
	items := editable.FindAttr("data-collection", "slides")[0].Find(func(n view.Node) bool { return n.HasClass("widget-collection__item") })
	if diff := cmp.Diff([]string{"b", "a"}, attrValues(items, widgets.AttrItemID)); diff != "" {
		t.Fatalf("editable order mismatch:\n%s", diff)
	}
	if current, _ := items[1].Attr("aria-current"); current != "true" {
		t.Fatalf("expected current slide clamped to the last item")
	}

	moves := editable.FindAttr(widgets.AttrAction, widgets.ActionCollectionMove)
	if len(moves) != 4 {
		t.Fatalf("expected four move controls, got %d", len(moves))
	}
	if _, disabled := moves[0].Attr("disabled"); !disabled {
		t.Fatalf("moving the first slide up should be disabled")
	}
	uploads := editable.FindAttr(widgets.AttrAction, widgets.ActionUploadImage)
	if len(uploads) != 3 {
		t.Fatalf("expected background and two slide upload controls, got %d", len(uploads))
	}

	preview := editable.Find(func(n view.Node) bool { return n.HasClass("hero__slide") })
	if len(preview) != len(slides) {
		t.Fatalf("editable preview diverges from public output")
	}
}

func TestHeroBannerHeadlineWithoutSlides(t *testing.T) {
	hero := HeroBanner{}
	cfg := configFor(hero, map[string]any{"headline": "Hello <world>", "overlayOpacity": 3})
	html := render(t, hero.RenderPublic(context.Background(), cfg, widgets.PublicEnv{}))
	if !strings.Contains(html, "Hello &lt;world&gt;") {
		t.Fatalf("expected escaped headline, got %s", html)
	}
	if !strings.Contains(html, "opacity: 1") {
		t.Fatalf("expected clamped opacity, got %s", html)
	}
}

func TestDonationFormFetchesPaymentMethods(t *testing.T) {
	gateway := &testsupport.RecordingGateway{Methods: []interfaces.PaymentMethod{{ID: "card", Name: "Card"}, {ID: "sepa", Name: "SEPA"}}}
	form := DonationForm{}
	cfg := configFor(form, map[string]any{"min_amount": 100, "max_amount": 5000, "preset_amounts": []any{50, 100, 250}})

	node := form.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID, Donations: gateway})
	methods := node.FindAttr("name", "payment_method_id")
	if diff := cmp.Diff([]string{"card", "sepa"}, attrValues(methods, "value")); diff != "" {
		t.Fatalf("payment methods mismatch:\n%s", diff)
	}
	presets := node.Find(func(n view.Node) bool {
		name, _ := n.Attr("name")
		kind, _ := n.Attr("type")
		return name == "amount" && kind == "radio"
	})
	if diff := cmp.Diff([]string{"100", "250"}, attrValues(presets, "value")); diff != "" {
		t.Fatalf("presets outside bounds should be hidden:\n%s", diff)
	}
	if gateway.Lookups() != 1 {
		t.Fatalf("expected one payment method lookup, got %d", gateway.Lookups())
	}

	form.RenderEditable(cfg, widgets.EditableEnv{WidgetID: widgetID})
	if gateway.Lookups() != 1 {
		t.Fatalf("editable render must not fetch")
	}
}

func TestDonationFormRendersOutcome(t *testing.T) {
	form := DonationForm{}
	cfg := configFor(form, nil)

	failed := form.RenderPublic(context.Background(), cfg, widgets.PublicEnv{
		WidgetID: widgetID,
		Donation: &donations.Outcome{Message: "Please correct the highlighted fields.", FieldErrors: map[string]string{"amount": "amount is below the minimum"}},
	})
	if got := failed.Find(func(n view.Node) bool { return n.HasClass("form-row__error") }); len(got) != 1 || got[0].TextContent() != "amount is below the minimum" {
		t.Fatalf("expected amount error inline, got %+v", got)
	}

	done := form.RenderPublic(context.Background(), cfg, widgets.PublicEnv{
		Donation: &donations.Outcome{Success: true, RedirectURL: "https://pay.example.org/done"},
	})
	if !done.HasClass("donation--success") || len(done.FindAttr("href", "https://pay.example.org/done")) != 1 {
		t.Fatalf("expected success view with redirect link")
	}
}

func TestDonationFormPaymentMethodFailureShowsAlert(t *testing.T) {
	gateway := &testsupport.RecordingGateway{MethodsErr: errors.New("offline")}
	form := DonationForm{}
	node := form.RenderPublic(context.Background(), configFor(form, nil), widgets.PublicEnv{Donations: gateway})
	if len(node.FindAttr("role", "alert")) == 0 {
		t.Fatalf("expected inline alert")
	}
	if len(node.Find(func(n view.Node) bool { return n.HasClass("donation__submit") })) != 1 {
		t.Fatalf("form should still render")
	}
}

func TestMenuExternalLinks(t *testing.T) {
	menu := Menu{}
	cfg := configFor(menu, map[string]any{
		"orientation": "diagonal",
		"menu_items": []any{
			map[string]any{"id": "home", "label": "Home", "url": "/"},
			map[string]any{"id": "blog", "label": "Blog", "url": "https://blog.example.org", "external": true},
		},
	})
	node := menu.RenderPublic(context.Background(), cfg, widgets.PublicEnv{})
	if !node.HasClass("menu--horizontal") {
		t.Fatalf("unknown orientation should fall back to horizontal")
	}
	if len(node.FindAttr("target", "_blank")) != 1 {
		t.Fatalf("expected one external link")
	}
}

func TestTextBlockSanitizesMarkdown(t *testing.T) {
	block := TextBlock{}
	cfg := configFor(block, map[string]any{"content": "Hello **there**<img src=x onerror=alert(1)>", "alignment": "center"})
	html := render(t, block.RenderPublic(context.Background(), cfg, widgets.PublicEnv{}))
	if !strings.Contains(html, "<strong>there</strong>") || !strings.Contains(html, "text-block--center") {
		t.Fatalf("unexpected output %s", html)
	}
	if strings.Contains(html, "onerror") {
		t.Fatalf("unsafe attribute survived: %s", html)
	}
}

func TestStatsPanelColumnsFallback(t *testing.T) {
	stats := StatsPanel{}
	cfg := configFor(stats, map[string]any{"columns": 40, "stats": []any{map[string]any{"id": "s", "label": "Meals", "value": "12k"}}})
	node := stats.RenderPublic(context.Background(), cfg, widgets.PublicEnv{})
	if len(node.Find(func(n view.Node) bool { return n.HasClass("stats__grid--cols-3") })) != 1 {
		t.Fatalf("expected default column count")
	}
	if !strings.Contains(node.TextContent(), "12k") {
		t.Fatalf("expected stat value")
	}
}

func TestLeaderboardQueryAndPagination(t *testing.T) {
	fetcher := &testsupport.RecordingFetcher{Page: interfaces.ListingPage{
		Entries:    []interfaces.ListingEntry{{ID: "d1", Label: "Ada", Value: 120}},
		Pagination: &interfaces.Pagination{Page: 2, PerPage: 5, Total: 12, TotalPages: 3},
	}}
	board := Leaderboard{}
	cfg := configFor(board, map[string]any{"per_page": 5, "source": "teams"})
	keys := leaderboardKeys(widgetID.String())
	query := url.Values{keys.page: {"2"}, keys.order: {"ASC"}, keys.search: {" ada "}}

	node := board.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID, Listings: fetcher, Query: query})
	queries := fetcher.Queries()
	if len(queries) != 1 {
		t.Fatalf("expected one fetch, got %d", len(queries))
	}
	want := interfaces.ListingQuery{Source: "teams", Page: 2, PerPage: 5, SortField: "value", SortOrder: interfaces.SortAscending, Search: "ada"}
	if diff := cmp.Diff(want, queries[0]); diff != "" {
		t.Fatalf("query mismatch:\n%s", diff)
	}
	ranks := node.Find(func(n view.Node) bool { return n.HasClass("leaderboard__rank") })
	if len(ranks) != 1 || ranks[0].TextContent() != "6" {
		t.Fatalf("expected rank offset by page, got %+v", ranks)
	}
	if len(node.FindAttr("rel", "prev")) != 1 || len(node.FindAttr("rel", "next")) != 1 {
		t.Fatalf("expected previous and next links")
	}
}

func TestLeaderboardFetchErrorRendersRetry(t *testing.T) {
	fetcher := &testsupport.RecordingFetcher{Err: errors.New("timeout")}
	board := Leaderboard{}
	node := board.RenderPublic(context.Background(), configFor(board, nil), widgets.PublicEnv{
		WidgetID: widgetID,
		Listings: fetcher,
		Query:    url.Values{"tab": {"donors"}},
	})
	retry := node.Find(func(n view.Node) bool { return n.HasClass("alert__retry") })
	if len(retry) != 1 {
		t.Fatalf("expected retry link")
	}
	if href, _ := retry[0].Attr("href"); href != "?tab=donors" {
		t.Fatalf("retry should repeat the request, got %q", href)
	}
}

func TestContactFormFieldsAndActions(t *testing.T) {
	form := ContactForm{}
	cfg := configFor(form, map[string]any{
		"form_fields": []any{
			map[string]any{"id": "f1", "label": "Email", "name": "email", "type": "email", "required": true},
			map[string]any{"id": "f2", "label": "Message", "type": "textarea"},
		},
		"actions": []any{map[string]any{"id": "a1", "label": "Send", "action": "submit"}},
	})
	node := form.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID})
	if len(node.FindAttr("required", "required")) != 1 {
		t.Fatalf("expected one required field")
	}
	if len(node.FindAttr("name", "field_2")) != 1 {
		t.Fatalf("expected generated name for unnamed field")
	}

	sent := form.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID, Query: url.Values{"sent": {widgetID.String()}}})
	if !sent.HasClass("contact-form--sent") {
		t.Fatalf("expected success message")
	}
}

func TestUnknownTypeFallsBackToPlaceholder(t *testing.T) {
	registry := NewRegistry(nil)
	renderer := registry.Lookup("carousel_3000")
	if renderer.Type() != TypeUnknown {
		t.Fatalf("expected unknown renderer, got %q", renderer.Type())
	}
	node := renderer.RenderPublic(context.Background(), configFor(renderer, map[string]any{"x": 1}), widgets.PublicEnv{WidgetType: "carousel_3000"})
	if !node.HasClass("widget-placeholder") {
		t.Fatalf("expected placeholder")
	}
	editable := renderer.RenderEditable(widgetconfig.Config{}, widgets.EditableEnv{WidgetType: "carousel_3000"})
	if !strings.Contains(editable.TextContent(), "carousel_3000") {
		t.Fatalf("expected type in editable message")
	}
}

func TestRenderersDropScriptURLs(t *testing.T) {
	const payload = "javascript:alert(1)"
	menu := Menu{}
	hero := HeroBanner{}
	form := DonationForm{}
	contact := ContactForm{}

	nodes := map[string]view.Node{
		"menu": menu.RenderPublic(context.Background(), configFor(menu, map[string]any{
			"logo": "JavaScript:alert(1)",
			"menu_items": []any{
				map[string]any{"id": "x", "label": "Click", "url": payload},
				map[string]any{"id": "mail", "label": "Mail", "url": "mailto:team@example.org"},
			},
		}), widgets.PublicEnv{}),
		"hero": hero.RenderPublic(context.Background(), configFor(hero, map[string]any{
			"backgroundImage": " javascript:alert(1)",
			"slides": []any{
				map[string]any{"id": "s", "title": "Go", "image": "vbscript:msgbox", "ctaLabel": "Give", "ctaUrl": payload},
			},
		}), widgets.PublicEnv{WidgetID: widgetID}),
		"donation": form.RenderPublic(context.Background(), configFor(form, nil), widgets.PublicEnv{
			Donation: &donations.Outcome{Success: true, RedirectURL: payload},
		}),
		"contact": contact.RenderPublic(context.Background(), configFor(contact, map[string]any{
			"actions": []any{map[string]any{"id": "a", "label": "Go", "action": "link", "target": "data:text/html,<script>alert(1)</script>"}},
		}), widgets.PublicEnv{WidgetID: widgetID}),
		"image control": imageControl("logo", "", "Logo", payload),
	}
	for name, node := range nodes {
		html := strings.ToLower(render(t, node))
		for _, bad := range []string{"javascript:", "vbscript:", "data:text"} {
			if strings.Contains(html, bad) {
				t.Fatalf("%s: %s survived in %s", name, bad, html)
			}
		}
	}
	if len(nodes["menu"].FindAttr("href", "mailto:team@example.org")) != 1 {
		t.Fatalf("mailto links should be kept")
	}
	if len(nodes["hero"].Find(func(n view.Node) bool { return n.HasClass("hero__cta") })) != 0 {
		t.Fatalf("call to action with unsafe url should be omitted")
	}
}

func TestSafeHrefAllowsLinkSchemesAndRelativeURLs(t *testing.T) {
	cases := map[string]string{
		"/donate":                  "/donate",
		"#top":                     "#top",
		"?page=2":                  "?page=2",
		"https://example.org/a":    "https://example.org/a",
		"HTTP://example.org":       "HTTP://example.org",
		"tel:+15550100":            "tel:+15550100",
		"mailto:a@example.org":     "mailto:a@example.org",
		"javascript:alert(1)":      "",
		"java\tscript:alert(1)":    "",
		"data:text/html,hi":        "",
		"blob:https://example.org": "",
		"":                         "",
	}
	for raw, want := range cases {
		if got := safeHref(raw); got != want {
			t.Fatalf("safeHref(%q) = %q, want %q", raw, got, want)
		}
	}
	if got := safeImageSrc("mailto:a@example.org"); got != "" {
		t.Fatalf("image sources accept http(s) and relative urls only, got %q", got)
	}
}

func TestLeaderboardClampsOversizedPage(t *testing.T) {
	fetcher := &testsupport.RecordingFetcher{Page: interfaces.ListingPage{
		Entries: []interfaces.ListingEntry{{ID: "d1", Label: "Ada", Value: 1}},
	}}
	board := Leaderboard{}
	cfg := configFor(board, map[string]any{"per_page": 100})
	keys := leaderboardKeys(widgetID.String())
	query := url.Values{keys.page: {"9223372036854775807"}}

	node := board.RenderPublic(context.Background(), cfg, widgets.PublicEnv{WidgetID: widgetID, Listings: fetcher, Query: query})
	queries := fetcher.Queries()
	if len(queries) != 1 || queries[0].Page != maxLeaderboardPage {
		t.Fatalf("expected page clamped to %d, got %+v", maxLeaderboardPage, queries)
	}
	ranks := node.Find(func(n view.Node) bool { return n.HasClass("leaderboard__rank") })
	if len(ranks) != 1 || ranks[0].TextContent() != "999901" {
		t.Fatalf("expected bounded positive rank, got %+v", ranks)
	}
}
