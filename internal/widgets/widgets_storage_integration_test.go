package widgets_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/testsupport"
)

func TestWidgetsService_WithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	bunDB := testsupport.NewSQLiteDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	defRepo := widgets.NewBunDefinitionRepositoryWithCache(bunDB, cacheSvc, repocache.NewDefaultKeySerializer())

	service := widgets.NewService(
		defRepo,
		widgets.NewBunInstanceRepository(bunDB),
		widgets.NewBunEntryRepository(bunDB),
		widgets.NewBunRowRepository(bunDB),
		widgets.WithClock(func() time.Time { return now }),
	)

	if _, err := service.RegisterDefinition(ctx, widgets.RegisterDefinitionInput{
		Name: "hero_banner",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
			},
		},
		Defaults: map[string]any{"title": "Welcome"},
	}); err != nil {
		t.Fatalf("register definition: %v", err)
	}

	// Served from cache on the second read.
	for i := 0; i < 2; i++ {
		definition, err := service.GetDefinitionByName(ctx, "hero_banner")
		if err != nil {
			t.Fatalf("get definition (read %d): %v", i, err)
		}
		if definition.Defaults["title"] != "Welcome" {
			t.Fatalf("unexpected defaults: %+v", definition.Defaults)
		}
	}

	siteID := uuid.MustParse("00000000-0000-0000-0000-000000000101")
	instance, err := service.CreateInstance(ctx, widgets.CreateInstanceInput{
		SiteID:       siteID,
		WidgetTypeID: "hero_banner",
		PositionSlot: "main",
		Entries:      []widgets.ConfigEntryInput{{Key: "opacity", Value: "75", ValueType: widgets.ValueType("number")}},
		Rows: []widgets.CollectionRowInput{
			{Field: "slides", ItemID: "s1", Payload: map[string]any{"title": "One"}},
		},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if len(instance.Entries) != 1 || len(instance.Rows) != 1 {
		t.Fatalf("expected one entry and one row, got %d/%d", len(instance.Entries), len(instance.Rows))
	}

	saved, err := service.SaveConfiguration(ctx, instance.ID, map[string]any{
		"title":   "Spring drive",
		"opacity": 40,
		"slides": []any{
			map[string]any{"id": "s2", "title": "Two"},
			map[string]any{"id": "s1", "title": "One"},
		},
	})
	if err != nil {
		t.Fatalf("save configuration: %v", err)
	}
	if len(saved.Entries) != 0 {
		t.Fatalf("expected entries cleared, got %d", len(saved.Entries))
	}
	if saved.Configuration["title"] != "Spring drive" {
		t.Fatalf("unexpected configuration: %+v", saved.Configuration)
	}
	if _, ok := saved.Configuration["slides"]; ok {
		t.Fatalf("row-backed field should not stay inline")
	}
	if len(saved.Rows) != 2 || saved.Rows[0].ItemID != "s2" {
		t.Fatalf("unexpected rows: %+v", saved.Rows)
	}

	listed, err := service.ListInstancesBySlot(ctx, siteID, "main")
	if err != nil {
		t.Fatalf("list by slot: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != instance.ID {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	if err := service.DeleteInstance(ctx, instance.ID); err != nil {
		t.Fatalf("delete instance: %v", err)
	}
	if _, err := service.GetInstance(ctx, instance.ID); !widgets.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestBunConfigurationWriterRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	bunDB := testsupport.NewSQLiteDB(t)
	writer := widgets.NewBunConfigurationWriter(bunDB)
	service := widgets.NewService(
		widgets.NewBunDefinitionRepository(bunDB),
		widgets.NewBunInstanceRepository(bunDB),
		widgets.NewBunEntryRepository(bunDB),
		widgets.NewBunRowRepository(bunDB),
		widgets.WithConfigurationWriter(writer),
	)
	if _, err := service.RegisterDefinition(ctx, widgets.RegisterDefinitionInput{
		Name:   "hero_banner",
		Schema: map[string]any{"type": "object"},
	}); err != nil {
		t.Fatalf("register definition: %v", err)
	}
	instance, err := service.CreateInstance(ctx, widgets.CreateInstanceInput{
		SiteID:        uuid.New(),
		WidgetTypeID:  "hero_banner",
		PositionSlot:  "main",
		Configuration: map[string]any{"title": "Kept"},
		Entries:       []widgets.ConfigEntryInput{{Key: "opacity", Value: "75", ValueType: widgets.ValueType("number")}},
		Rows:          []widgets.CollectionRowInput{{Field: "slides", ItemID: "s1", Payload: map[string]any{"title": "One"}}},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	changed := *instance
	changed.Configuration = map[string]any{"title": "Lost"}
	duplicate := uuid.New()
	err = writer.WriteConfiguration(ctx, widgets.ConfigurationWrite{
		Instance: &changed,
		Rows: map[string][]*widgets.CollectionRow{
			"gallery": {{ID: duplicate, ItemID: "g1"}},
			"slides":  {{ID: duplicate, ItemID: "s2"}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate row id to fail the write")
	}

	stored, err := service.GetInstance(ctx, instance.ID)
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if stored.Configuration["title"] != "Kept" {
		t.Fatalf("instance update should roll back, got %+v", stored.Configuration)
	}
	if len(stored.Entries) != 1 {
		t.Fatalf("entries should survive a failed write, got %d", len(stored.Entries))
	}
	if len(stored.Rows) != 1 || stored.Rows[0].ItemID != "s1" {
		t.Fatalf("rows should roll back, got %+v", stored.Rows)
	}
}
