package collections

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sitewidgets/widgets"
)

func sampleList() []widgets.Item {
	return []widgets.Item{
		{ID: "a", Fields: map[string]any{"title": "A"}},
		{ID: "b", Fields: map[string]any{"title": "B"}},
		{ID: "c", Fields: map[string]any{"title": "C"}},
	}
}

func ids(list []widgets.Item) []string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = item.ID
	}
	return out
}

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestEditorAddAppendsDefaults(t *testing.T) {
	editor := NewEditor(KindSlides, WithIDGenerator(sequentialIDs()))
	input := sampleList()

	out := editor.Add(input)

	if len(input) != 3 {
		t.Fatalf("expected input untouched, got %d items", len(input))
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "item-1"}, ids(out)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if got := out[3].Get("title"); got != "New slide" {
		t.Fatalf("expected slide defaults, got %v", got)
	}
}

func TestEditorAddSkipsCollidingIDs(t *testing.T) {
	editor := NewEditor(KindStats, WithIDGenerator(func() string { return "a" }))
	out := editor.Add(sampleList())
	if out[3].ID == "a" || out[3].ID == "" {
		t.Fatalf("expected a fresh id, got %q", out[3].ID)
	}
}

func TestUpdateMergesPatchAndIgnoresID(t *testing.T) {
	input := sampleList()
	out := Update(input, "b", map[string]any{"title": "B2", "id": "z", "image": "https://cdn/x.png"})

	if out[1].ID != "b" {
		t.Fatalf("expected id preserved, got %q", out[1].ID)
	}
	if out[1].Get("title") != "B2" || out[1].Get("image") != "https://cdn/x.png" {
		t.Fatalf("unexpected fields %v", out[1].Fields)
	}
	if input[1].Get("title") != "B" {
		t.Fatalf("expected input item untouched, got %v", input[1].Fields)
	}
}

func TestUpdateMissingIDReturnsInput(t *testing.T) {
	input := sampleList()
	out := Update(input, "missing", map[string]any{"title": "x"})
	if &out[0] != &input[0] {
		t.Fatalf("expected same backing list for absent id")
	}
}

func TestRemove(t *testing.T) {
	input := sampleList()
	out := Remove(input, "b")
	if diff := cmp.Diff([]string{"a", "c"}, ids(out)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if len(input) != 3 {
		t.Fatalf("expected input untouched")
	}
	if same := Remove(input, "missing"); &same[0] != &input[0] {
		t.Fatalf("expected same backing list for absent id")
	}
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	input := sampleList()

	if diff := cmp.Diff(input, Move(input, "a", Up)); diff != "" {
		t.Fatalf("moving first item up changed list:\n%s", diff)
	}
	if diff := cmp.Diff(input, Move(input, "c", Down)); diff != "" {
		t.Fatalf("moving last item down changed list:\n%s", diff)
	}
	if out := Move(input, "a", Up); &out[0] != &input[0] {
		t.Fatalf("expected boundary move to return the input")
	}
}

func TestMoveSwapsNeighbours(t *testing.T) {
	out := Move(sampleList(), "b", Up)
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(out)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	out = Move(out, "b", Down)
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(out)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestValueRoundTripKeepsIDs(t *testing.T) {
	value := []any{
		map[string]any{"id": "s1", "title": "First"},
		"not-a-map",
		map[string]any{"id": "s2", "title": "Second"},
	}
	items := FromValue(value)
	if diff := cmp.Diff([]string{"s1", "s2"}, ids(items)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	back := ToValue(items)
	if back[1].(map[string]any)["id"] != "s2" || back[1].(map[string]any)["title"] != "Second" {
		t.Fatalf("unexpected value %v", back[1])
	}
}

func TestParseDirection(t *testing.T) {
	if dir, ok := ParseDirection(" UP "); !ok || dir != Up {
		t.Fatalf("expected up, got %q %v", dir, ok)
	}
	if _, ok := ParseDirection("left"); ok {
		t.Fatalf("expected unknown direction rejected")
	}
}
