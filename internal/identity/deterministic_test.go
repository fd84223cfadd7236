package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := WidgetDefinitionUUID("Hero_Banner ")
	second := WidgetDefinitionUUID("hero_banner")
	if first != second {
		t.Fatalf("expected normalized names to share an id, got %s and %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}

func TestItemIDDependsOnPosition(t *testing.T) {
	a := ItemID("widget-1", "slides", 0)
	b := ItemID("widget-1", "slides", 1)
	c := ItemID("widget-1", "menu_items", 0)
	if a == b || a == c {
		t.Fatalf("expected distinct ids, got %s %s %s", a, b, c)
	}
	if again := ItemID("widget-1", "slides", 0); again != a {
		t.Fatalf("expected deterministic id, got %s then %s", a, again)
	}
}
