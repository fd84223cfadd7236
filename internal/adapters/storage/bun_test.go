package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/adapters/storage"
	"github.com/goliatone/go-sitewidgets/pkg/testsupport"
	"github.com/goliatone/go-sitewidgets/widgets"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	logger := &testsupport.RecordingLogger{}
	db, err := storage.Open(ctx, storage.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:storage_open_%d?mode=memory&cache=shared", time.Now().UnixNano()),
		Debug:  true,
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate should be a no-op: %v", err)
	}

	instance := &widgets.Instance{
		ID:             uuid.New(),
		SiteID:         uuid.New(),
		OrganizationID: uuid.New(),
		WidgetTypeID:   "text_block",
		Configuration:  map[string]any{"body": "Hello"},
		IsActive:       true,
		IsVisible:      true,
		PositionSlot:   "main",
	}
	if _, err := db.NewInsert().Model(instance).Exec(ctx); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var stored widgets.Instance
	if err := db.NewSelect().Model(&stored).Where("?TableAlias.id = ?", instance.ID).Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if stored.Configuration["body"] != "Hello" {
		t.Fatalf("unexpected configuration %+v", stored.Configuration)
	}
	if !logger.Has("storage.query") {
		t.Fatalf("expected debug query log")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := storage.Open(ctx, storage.Config{Driver: "sqlite"}); !errors.Is(err, storage.ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
	if _, err := storage.Open(ctx, storage.Config{Driver: "oracle", DSN: "x"}); !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
}
