package sitewidgets_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	sitewidgets "github.com/goliatone/go-sitewidgets"
	"github.com/goliatone/go-sitewidgets/widgets"
)

func TestModuleRendersSlot(t *testing.T) {
	module, err := sitewidgets.New(sitewidgets.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	siteID := uuid.New()
	ctx := context.Background()
	for i, headline := range []string{"First", "Second"} {
		order := i
		if _, err := module.Widgets().CreateInstance(ctx, widgets.CreateInstanceInput{
			SiteID:         siteID,
			OrganizationID: uuid.New(),
			WidgetTypeID:   "hero_banner",
			PositionSlot:   "header",
			Order:          &order,
			Configuration:  map[string]any{"headline": headline},
		}); err != nil {
			t.Fatalf("create instance: %v", err)
		}
	}

	html, err := module.RenderSlot(ctx, siteID, "header", sitewidgets.RenderOptions{})
	if err != nil {
		t.Fatalf("render slot: %v", err)
	}
	first, second := strings.Index(html, "First"), strings.Index(html, "Second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected both headlines in order, got %s", html)
	}
}

func TestModuleSessionRoundTrip(t *testing.T) {
	module, err := sitewidgets.New(sitewidgets.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	instance, err := module.Widgets().CreateInstance(context.Background(), widgets.CreateInstanceInput{
		SiteID:         uuid.New(),
		OrganizationID: uuid.New(),
		WidgetTypeID:   "text_block",
		PositionSlot:   "main",
		Configuration:  map[string]any{"content": "Hello"},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	session, err := module.OpenSession(context.Background(), instance.ID, true)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer session.Close()
	if !session.Editable() {
		t.Fatal("expected editable session")
	}
	if got := session.Configuration()["content"]; got != "Hello" {
		t.Fatalf("expected stored content, got %v", got)
	}
}
