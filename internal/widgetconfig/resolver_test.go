package widgetconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/identity"
	"github.com/goliatone/go-sitewidgets/widgets"
)

func testSchema() Schema {
	return NewSchema(
		Field{Name: "amount", Kind: KindNumber, Default: float64(10)},
		Field{Name: "autoplay", Kind: KindBoolean, Default: true},
		Field{Name: "headline", Kind: KindString, Default: "Welcome"},
		Field{Name: "slides", Kind: KindCollection},
	)
}

func TestResolveEntryOverridesInline(t *testing.T) {
	res := Resolve(testSchema(), Sources{
		Inline: map[string]any{"amount": 50},
		Entries: []widgets.ConfigEntry{
			{Key: "amount", Value: "75", ValueType: widgets.ValueTypeNumber},
		},
	})

	if got := res.Values["amount"]; got != float64(75) {
		t.Fatalf("expected 75 from entry, got %#v", got)
	}
	if res.Origins["amount"] != SourceEntry {
		t.Fatalf("expected entry origin, got %q", res.Origins["amount"])
	}
	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues %v", res.Issues)
	}
}

func TestResolveRowsOverrideEverything(t *testing.T) {
	res := Resolve(testSchema(), Sources{
		Seed:   "w1",
		Inline: map[string]any{"slides": []any{map[string]any{"id": "inline", "title": "Inline"}}},
		Entries: []widgets.ConfigEntry{
			{Key: "slides", Value: `[{"id":"entry","title":"Entry"}]`, ValueType: widgets.ValueTypeJSON},
		},
		Collections: map[string][]widgets.CollectionRow{
			"slides": {
				{ItemID: "second", Position: 2, Payload: map[string]any{"title": "Second"}},
				{ItemID: "first", Position: 1, Payload: map[string]any{"title": "First"}},
			},
		},
	})

	want := []any{
		map[string]any{"id": "first", "title": "First"},
		map[string]any{"id": "second", "title": "Second"},
	}
	if diff := cmp.Diff(want, res.Values["slides"]); diff != "" {
		t.Fatalf("unexpected slides (-want +got):\n%s", diff)
	}
	if res.Origins["slides"] != SourceRows {
		t.Fatalf("expected rows origin, got %q", res.Origins["slides"])
	}
}

func TestResolveMalformedBooleanFallsBackToDefault(t *testing.T) {
	res := Resolve(testSchema(), Sources{
		Inline: map[string]any{"autoplay": false},
		Entries: []widgets.ConfigEntry{
			{Key: "autoplay", Value: "notabool", ValueType: widgets.ValueTypeBoolean},
		},
	})

	if got := res.Values["autoplay"]; got != true {
		t.Fatalf("expected default true, got %#v", got)
	}
	if len(res.Issues) != 1 || res.Issues[0].Field != "autoplay" {
		t.Fatalf("expected one reported issue, got %v", res.Issues)
	}
}

func TestResolveAppliesDefaultsAndKeepsUnknownKeys(t *testing.T) {
	res := Resolve(testSchema(), Sources{
		Inline: map[string]any{"legacyFlag": "x"},
		Entries: []widgets.ConfigEntry{
			{Key: "extra", Value: "3", ValueType: widgets.ValueTypeInteger},
			{Key: "broken", Value: "nope", ValueType: widgets.ValueTypeInteger},
		},
	})

	if res.Values["headline"] != "Welcome" || res.Values["amount"] != float64(10) {
		t.Fatalf("expected defaults, got %v", res.Values)
	}
	if diff := cmp.Diff([]any{}, res.Values["slides"]); diff != "" {
		t.Fatalf("expected empty slides default:\n%s", diff)
	}
	if res.Values["legacyFlag"] != "x" || res.Values["extra"] != 3 {
		t.Fatalf("expected unknown keys preserved, got %v", res.Values)
	}
	if _, ok := res.Values["broken"]; ok {
		t.Fatalf("expected failing unknown entry dropped")
	}
	if len(res.Issues) != 1 || res.Issues[0].Field != "broken" {
		t.Fatalf("expected one issue for broken entry, got %v", res.Issues)
	}
}

func TestResolveAssignsDeterministicItemIDs(t *testing.T) {
	seed := uuid.NewString()
	src := Sources{
		Seed: seed,
		Inline: map[string]any{"slides": []any{
			map[string]any{"title": "No id"},
			map[string]any{"id": "keep", "title": "Has id"},
			map[string]any{"id": "keep", "title": "Duplicate"},
		}},
	}

	first := Resolve(testSchema(), src)
	second := Resolve(testSchema(), src)
	if diff := cmp.Diff(first.Values, second.Values); diff != "" {
		t.Fatalf("expected pure resolution (-first +second):\n%s", diff)
	}

	slides := first.Values["slides"].([]any)
	if got := slides[0].(map[string]any)["id"]; got != identity.ItemID(seed, "slides", 0) {
		t.Fatalf("expected generated id, got %v", got)
	}
	if got := slides[1].(map[string]any)["id"]; got != "keep" {
		t.Fatalf("expected stored id kept, got %v", got)
	}
	if got := slides[2].(map[string]any)["id"]; got == "keep" {
		t.Fatalf("expected duplicate id replaced")
	}
	if _, ok := src.Inline["slides"].([]any)[0].(map[string]any)["id"]; ok {
		t.Fatalf("expected inline input untouched")
	}
}

func TestResolveCollectionNotListFallsBack(t *testing.T) {
	res := Resolve(testSchema(), Sources{Inline: map[string]any{"slides": "oops"}})
	if diff := cmp.Diff([]any{}, res.Values["slides"]); diff != "" {
		t.Fatalf("expected default slides:\n%s", diff)
	}
	if len(res.Issues) != 1 {
		t.Fatalf("expected an issue, got %v", res.Issues)
	}
}

func TestSourcesFromInstanceGroupsRows(t *testing.T) {
	id := uuid.New()
	instance := &widgets.Instance{
		ID:            id,
		Configuration: map[string]any{"headline": "Hi"},
		Entries:       []*widgets.ConfigEntry{{Key: "amount", Value: "5", ValueType: widgets.ValueTypeNumber}},
		Rows: []*widgets.CollectionRow{
			{Field: "slides", ItemID: "a"},
			{Field: "stats", ItemID: "b"},
			{Field: "slides", ItemID: "c"},
		},
	}
	src := SourcesFromInstance(instance)
	if src.Seed != id.String() || len(src.Entries) != 1 {
		t.Fatalf("unexpected sources %+v", src)
	}
	if len(src.Collections["slides"]) != 2 || len(src.Collections["stats"]) != 1 {
		t.Fatalf("unexpected grouping %+v", src.Collections)
	}
}
