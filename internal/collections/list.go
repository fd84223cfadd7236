package collections

import (
	"slices"
	"sync"

	"github.com/goliatone/go-sitewidgets/widgets"
)

// List is a sequential editing session over one collection. Each operation is applied to
// the result of the previous one, so rapid back-to-back edits never act on a stale
// snapshot.
type List struct {
	mu     sync.Mutex
	editor Editor
	items  []widgets.Item
}

// NewList starts a session seeded with items.
func NewList(editor Editor, items []widgets.Item) *List {
	return &List{editor: editor, items: slices.Clone(items)}
}

// Items returns the current list.
func (l *List) Items() []widgets.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Add appends a new item and returns it with the resulting list.
func (l *List) Add() (widgets.Item, []widgets.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, item := l.editor.add(l.items)
	l.items = next
	return item, slices.Clone(next)
}

// Update patches the item matching id. The boolean reports whether the item exists.
func (l *List) Update(id string, patch map[string]any) ([]widgets.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if IndexOf(l.items, id) < 0 {
		return slices.Clone(l.items), false
	}
	l.items = Update(l.items, id, patch)
	return slices.Clone(l.items), true
}

// Remove deletes the item matching id.
func (l *List) Remove(id string) ([]widgets.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if IndexOf(l.items, id) < 0 {
		return slices.Clone(l.items), false
	}
	l.items = Remove(l.items, id)
	return slices.Clone(l.items), true
}

// Move swaps the item matching id with its neighbour. The boolean is false for boundary
// moves and unknown ids.
func (l *List) Move(id string, direction Direction) ([]widgets.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := IndexOf(l.items, id)
	if idx < 0 || (direction == Up && idx == 0) || (direction == Down && idx == len(l.items)-1) {
		return slices.Clone(l.items), false
	}
	if direction != Up && direction != Down {
		return slices.Clone(l.items), false
	}
	l.items = Move(l.items, id, direction)
	return slices.Clone(l.items), true
}

// Bind returns an update callback pinned to the item with id. It keeps targeting that
// item after reorders and becomes a no-op returning false once the item is removed.
func (l *List) Bind(id string) func(patch map[string]any) ([]widgets.Item, bool) {
	return func(patch map[string]any) ([]widgets.Item, bool) {
		return l.Update(id, patch)
	}
}
