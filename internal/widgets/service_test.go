package widgets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/identity"
)

var heroSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"opacity": map[string]any{"type": "number"},
		"slides":  map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
	},
}

func sequentialIDs(values ...string) IDGenerator {
	ids := make([]uuid.UUID, len(values))
	for i, value := range values {
		ids[i] = uuid.MustParse(value)
	}
	var idx int
	return func() uuid.UUID {
		if idx >= len(ids) {
			return uuid.New()
		}
		id := ids[idx]
		idx++
		return id
	}
}

func newTestService(opts ...ServiceOption) Service {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]ServiceOption{WithClock(func() time.Time { return now })}, opts...)
	return NewService(
		NewMemoryDefinitionRepository(),
		NewMemoryInstanceRepository(),
		NewMemoryEntryRepository(),
		NewMemoryRowRepository(),
		opts...,
	)
}

func TestServiceRegisterDefinitionValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{}); !errors.Is(err, ErrDefinitionNameRequired) {
		t.Fatalf("expected ErrDefinitionNameRequired, got %v", err)
	}
	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{Name: "hero_banner"}); !errors.Is(err, ErrDefinitionSchemaRequired) {
		t.Fatalf("expected ErrDefinitionSchemaRequired, got %v", err)
	}
	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{
		Name:   "hero_banner",
		Schema: map[string]any{"type": 12},
	}); !errors.Is(err, ErrDefinitionSchemaInvalid) {
		t.Fatalf("expected ErrDefinitionSchemaInvalid, got %v", err)
	}
	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{
		Name:     "hero_banner",
		Schema:   heroSchema,
		Defaults: map[string]any{"opacity": "dim"},
	}); !errors.Is(err, ErrDefinitionSchemaInvalid) {
		t.Fatalf("expected invalid defaults to be rejected, got %v", err)
	}

	definition, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{
		Name:     " Hero_Banner ",
		Schema:   heroSchema,
		Defaults: map[string]any{"opacity": 0.5},
	})
	if err != nil {
		t.Fatalf("register definition: %v", err)
	}
	if definition.Name != "hero_banner" {
		t.Fatalf("expected canonical name, got %q", definition.Name)
	}
	if definition.ID != identity.WidgetDefinitionUUID("hero_banner") {
		t.Fatalf("expected deterministic definition id, got %s", definition.ID)
	}

	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{Name: "hero_banner", Schema: heroSchema}); !errors.Is(err, ErrDefinitionExists) {
		t.Fatalf("expected ErrDefinitionExists, got %v", err)
	}
}

func TestServiceCreateInstanceMergesDefaultsAndAssignsOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(WithIDGenerator(sequentialIDs(
		"00000000-0000-0000-0000-0000000000a1",
		"00000000-0000-0000-0000-0000000000a2",
	)))
	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{
		Name:     "hero_banner",
		Schema:   heroSchema,
		Defaults: map[string]any{"opacity": 0.5, "title": "Welcome"},
	}); err != nil {
		t.Fatalf("register definition: %v", err)
	}

	siteID := uuid.New()
	first, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:        siteID,
		WidgetTypeID:  "hero_banner",
		PositionSlot:  "main",
		Configuration: map[string]any{"title": "Spring drive"},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	want := map[string]any{"opacity": 0.5, "title": "Spring drive"}
	if diff := cmp.Diff(want, first.Configuration); diff != "" {
		t.Fatalf("configuration mismatch (-want +got):\n%s", diff)
	}
	if !first.IsActive || !first.IsVisible || first.Order != 0 {
		t.Fatalf("unexpected placement defaults: %+v", first)
	}

	second, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:       siteID,
		WidgetTypeID: "hero_banner",
		PositionSlot: "main",
	})
	if err != nil {
		t.Fatalf("create second instance: %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("expected next order 1, got %d", second.Order)
	}

	_, err = svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:        siteID,
		WidgetTypeID:  "hero_banner",
		PositionSlot:  "main",
		Configuration: map[string]any{"opacity": "loud"},
	})
	if !errors.Is(err, ErrConfigurationInvalid) {
		t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
	}
	if fields := ConfigurationFieldErrors(err); fields["opacity"] == "" {
		t.Fatalf("expected opacity field error, got %+v", fields)
	}
}

func TestServiceCreateInstanceValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	negative := -1

	cases := []struct {
		name  string
		input CreateInstanceInput
		want  error
	}{
		{"site", CreateInstanceInput{WidgetTypeID: "menu", PositionSlot: "nav"}, ErrInstanceSiteRequired},
		{"type", CreateInstanceInput{SiteID: uuid.New(), PositionSlot: "nav"}, ErrInstanceTypeRequired},
		{"slot", CreateInstanceInput{SiteID: uuid.New(), WidgetTypeID: "menu"}, ErrInstanceSlotRequired},
		{"order", CreateInstanceInput{SiteID: uuid.New(), WidgetTypeID: "menu", PositionSlot: "nav", Order: &negative}, ErrInstanceOrderInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateInstance(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServiceCreateInstanceUnknownTypeIsAccepted(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:        uuid.New(),
		WidgetTypeID:  "retired_widget",
		PositionSlot:  "footer",
		Configuration: map[string]any{"anything": true},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if instance.WidgetTypeID != "retired_widget" {
		t.Fatalf("unexpected type %q", instance.WidgetTypeID)
	}
}

func TestServiceCreateInstancePersistsEntriesAndRows(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:       uuid.New(),
		WidgetTypeID: "hero_banner",
		PositionSlot: "main",
		Entries: []ConfigEntryInput{
			{Key: "opacity", Value: "75", ValueType: "number"},
			{Key: " ", Value: "ignored", ValueType: "string"},
		},
		Rows: []CollectionRowInput{
			{Field: "slides", ItemID: "s1", Payload: map[string]any{"title": "One"}},
			{Field: "slides", ItemID: "s2", Payload: map[string]any{"title": "Two"}},
		},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if len(instance.Entries) != 1 || instance.Entries[0].Key != "opacity" {
		t.Fatalf("expected one opacity entry, got %+v", instance.Entries)
	}
	if instance.Entries[0].WidgetInstanceID != instance.ID {
		t.Fatalf("entry not linked to instance")
	}
	if len(instance.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(instance.Rows))
	}
	if instance.Rows[0].ItemID != "s1" || instance.Rows[1].Position != 1 {
		t.Fatalf("unexpected row order: %+v %+v", instance.Rows[0], instance.Rows[1])
	}
}

func TestServiceSaveConfigurationRewritesStorage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:        uuid.New(),
		WidgetTypeID:  "hero_banner",
		PositionSlot:  "main",
		Configuration: map[string]any{"title": "Old"},
		Entries:       []ConfigEntryInput{{Key: "opacity", Value: "75", ValueType: "number"}},
		Rows:          []CollectionRowInput{{Field: "slides", ItemID: "s1", Payload: map[string]any{"title": "One"}}},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	snapshot := map[string]any{
		"title":   "New",
		"opacity": 40.0,
		"slides": []any{
			map[string]any{"id": "s2", "title": "Two"},
			map[string]any{"id": "s1", "title": "One"},
		},
	}
	saved, err := svc.SaveConfiguration(ctx, instance.ID, snapshot)
	if err != nil {
		t.Fatalf("save configuration: %v", err)
	}
	if len(saved.Entries) != 0 {
		t.Fatalf("expected entries folded into configuration, got %+v", saved.Entries)
	}
	wantInline := map[string]any{"title": "New", "opacity": 40.0}
	if diff := cmp.Diff(wantInline, saved.Configuration); diff != "" {
		t.Fatalf("inline mismatch (-want +got):\n%s", diff)
	}
	if len(saved.Rows) != 2 || saved.Rows[0].ItemID != "s2" || saved.Rows[1].ItemID != "s1" {
		t.Fatalf("expected rows reordered, got %+v", saved.Rows)
	}
	if _, ok := saved.Rows[0].Payload["id"]; ok {
		t.Fatalf("row payload should not duplicate the item id")
	}

	again, err := svc.SaveConfiguration(ctx, instance.ID, snapshot)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if diff := cmp.Diff(saved.Configuration, again.Configuration); diff != "" {
		t.Fatalf("repeated save changed configuration:\n%s", diff)
	}
	if diff := cmp.Diff(rowSummary(saved.Rows), rowSummary(again.Rows)); diff != "" {
		t.Fatalf("repeated save changed rows:\n%s", diff)
	}
}

func TestServiceSaveConfigurationKeepsEmptiedCollectionInline(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(WithRowBackedFields("slides"))

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:       uuid.New(),
		WidgetTypeID: "hero_banner",
		PositionSlot: "main",
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	saved, err := svc.SaveConfiguration(ctx, instance.ID, map[string]any{"slides": []any{}})
	if err != nil {
		t.Fatalf("save configuration: %v", err)
	}
	if len(saved.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(saved.Rows))
	}
	if diff := cmp.Diff(map[string]any{"slides": []any{}}, saved.Configuration); diff != "" {
		t.Fatalf("configuration mismatch:\n%s", diff)
	}
}

func TestServiceSaveConfigurationUnknownInstance(t *testing.T) {
	svc := newTestService()
	_, err := svc.SaveConfiguration(context.Background(), uuid.New(), map[string]any{})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.SaveConfiguration(context.Background(), uuid.New(), nil); !errors.Is(err, ErrConfigurationRequired) {
		t.Fatalf("expected ErrConfigurationRequired, got %v", err)
	}
}

func TestServiceUpdateAndDeleteInstance(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	siteID := uuid.New()

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		SiteID:       siteID,
		WidgetTypeID: "menu",
		PositionSlot: "header",
		Rows:         []CollectionRowInput{{Field: "items", ItemID: "m1", Payload: map[string]any{"label": "Home"}}},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	hidden := false
	footer := "footer"
	updated, err := svc.UpdateInstance(ctx, UpdateInstanceInput{
		InstanceID:   instance.ID,
		IsVisible:    &hidden,
		PositionSlot: &footer,
	})
	if err != nil {
		t.Fatalf("update instance: %v", err)
	}
	if updated.IsVisible || updated.PositionSlot != "footer" {
		t.Fatalf("update not applied: %+v", updated)
	}

	inFooter, err := svc.ListInstancesBySlot(ctx, siteID, "footer")
	if err != nil {
		t.Fatalf("list by slot: %v", err)
	}
	if len(inFooter) != 1 || len(inFooter[0].Rows) != 1 {
		t.Fatalf("expected footer instance with rows, got %+v", inFooter)
	}

	if err := svc.DeleteInstance(ctx, instance.ID); err != nil {
		t.Fatalf("delete instance: %v", err)
	}
	if _, err := svc.GetInstance(ctx, instance.ID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	all, err := svc.ListInstancesBySite(ctx, siteID)
	if err != nil {
		t.Fatalf("list by site: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no instances, got %d", len(all))
	}
}

func TestServiceSyncRegistryPublishesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	renderer := &stubRenderer{typeID: "stats_panel", fields: []string{"headline"}}
	if err := registry.Register(Registration{Renderer: renderer}); err != nil {
		t.Fatalf("register renderer: %v", err)
	}
	svc := newTestService(WithRegistry(registry))

	if err := svc.SyncRegistry(ctx); err != nil {
		t.Fatalf("sync registry: %v", err)
	}
	definition, err := svc.GetDefinitionByName(ctx, "stats_panel")
	if err != nil {
		t.Fatalf("get definition: %v", err)
	}
	if _, ok := definition.Defaults["headline"]; !ok {
		t.Fatalf("expected headline default, got %+v", definition.Defaults)
	}

	renderer.fields = append(renderer.fields, "caption")
	if err := svc.SyncRegistry(ctx); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	refreshed, err := svc.GetDefinitionByName(ctx, "stats_panel")
	if err != nil {
		t.Fatalf("get refreshed definition: %v", err)
	}
	if _, ok := refreshed.Defaults["caption"]; !ok {
		t.Fatalf("expected refreshed defaults, got %+v", refreshed.Defaults)
	}

	definitions, err := svc.ListDefinitions(ctx)
	if err != nil {
		t.Fatalf("list definitions: %v", err)
	}
	if len(definitions) != 1 {
		t.Fatalf("expected one definition, got %d", len(definitions))
	}
}

func TestBootstrapToleratesExistingDefinitions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	cfg := BootstrapConfig{Definitions: []RegisterDefinitionInput{
		{Name: "text_block", Schema: map[string]any{"type": "object"}},
		{Name: ""},
	}}
	for i := 0; i < 2; i++ {
		if err := Bootstrap(ctx, svc, cfg); err != nil {
			t.Fatalf("bootstrap run %d: %v", i, err)
		}
	}
	if err := Bootstrap(ctx, NewNoOpService(), cfg); err != nil {
		t.Fatalf("bootstrap with noop service: %v", err)
	}
}

func rowSummary(rows []*CollectionRow) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, fmt.Sprintf("%s/%s@%d", row.Field, row.ItemID, row.Position))
	}
	return out
}

func TestBootstrapRoutesSyncThroughHook(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	calls := 0
	cfg := BootstrapConfig{
		SyncRegistry: true,
		Sync: func(context.Context) error {
			calls++
			return errors.New("dispatcher offline")
		},
	}
	if err := Bootstrap(ctx, svc, cfg); err == nil || calls != 1 {
		t.Fatalf("expected hook error after one call, got %v (calls=%d)", err, calls)
	}
	cfg.SyncRegistry = false
	if err := Bootstrap(ctx, svc, cfg); err != nil || calls != 1 {
		t.Fatalf("expected sync skipped, got %v (calls=%d)", err, calls)
	}
}
