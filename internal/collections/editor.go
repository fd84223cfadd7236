package collections

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/widgets"
)

// Direction selects the neighbour a moved item is swapped with.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Collection field names shared by the built-in widget types.
const (
	KindSlides     = "slides"
	KindMenuItems  = "menu_items"
	KindFormFields = "form_fields"
	KindActions    = "actions"
	KindStats      = "stats"
)

var kindDefaults = map[string]map[string]any{
	KindSlides: {
		"title":    "New slide",
		"subtitle": "",
		"image":    "",
		"ctaLabel": "",
		"ctaUrl":   "",
	},
	KindMenuItems: {
		"label":    "New link",
		"url":      "#",
		"external": false,
	},
	KindFormFields: {
		"label":       "New field",
		"name":        "",
		"type":        "text",
		"required":    false,
		"placeholder": "",
	},
	KindActions: {
		"label":  "Submit",
		"action": "submit",
		"target": "",
	},
	KindStats: {
		"label": "New stat",
		"value": "0",
		"icon":  "",
	},
}

// Defaults returns a copy of the payload a new item of kind starts with.
func Defaults(kind string) map[string]any {
	return util.CloneMap(kindDefaults[strings.TrimSpace(kind)])
}

// IDGenerator produces item identifiers.
type IDGenerator func() string

// EditorOption customises an Editor.
type EditorOption func(*Editor)

// WithIDGenerator overrides the random id source.
func WithIDGenerator(gen IDGenerator) EditorOption {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithDefaults overrides the payload used for new items.
func WithDefaults(defaults map[string]any) EditorOption {
	return func(e *Editor) {
		e.defaults = util.CloneMap(defaults)
	}
}

// Editor creates items for one collection kind. Every operation returns a new slice and
// leaves its input untouched.
type Editor struct {
	kind     string
	newID    IDGenerator
	defaults map[string]any
}

// NewEditor returns an editor for kind.
func NewEditor(kind string, opts ...EditorOption) Editor {
	e := Editor{
		kind:     strings.TrimSpace(kind),
		newID:    uuid.NewString,
		defaults: Defaults(kind),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// Kind reports the collection field this editor serves.
func (e Editor) Kind() string { return e.kind }

// Add appends a new item with a fresh id and the kind defaults.
func (e Editor) Add(list []widgets.Item) []widgets.Item {
	out, _ := e.add(list)
	return out
}

func (e Editor) add(list []widgets.Item) ([]widgets.Item, widgets.Item) {
	id := e.newID()
	for id == "" || IndexOf(list, id) >= 0 {
		id = uuid.NewString()
	}
	item := widgets.Item{ID: id, Fields: util.CloneMap(e.defaults)}
	if item.Fields == nil {
		item.Fields = map[string]any{}
	}
	out := make([]widgets.Item, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item), item
}

// IndexOf returns the position of the item with id, or -1.
func IndexOf(list []widgets.Item, id string) int {
	return slices.IndexFunc(list, func(item widgets.Item) bool { return item.ID == id })
}

// Update shallow-merges patch into the fields of the item matching id. An "id" key in
// patch is ignored. When id is absent the input slice is returned unchanged.
func Update(list []widgets.Item, id string, patch map[string]any) []widgets.Item {
	idx := IndexOf(list, id)
	if idx < 0 {
		return list
	}
	fields := maps.Clone(list[idx].Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	for key, value := range patch {
		if key == "id" {
			continue
		}
		fields[key] = util.CloneValue(value)
	}
	out := slices.Clone(list)
	out[idx] = widgets.Item{ID: list[idx].ID, Fields: fields}
	return out
}

// Remove deletes the item matching id. When id is absent the input slice is returned.
func Remove(list []widgets.Item, id string) []widgets.Item {
	idx := IndexOf(list, id)
	if idx < 0 {
		return list
	}
	out := make([]widgets.Item, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// Move swaps the item matching id with its neighbour in direction. Moving the first item
// up, the last item down, or an absent id returns the input slice.
func Move(list []widgets.Item, id string, direction Direction) []widgets.Item {
	idx := IndexOf(list, id)
	if idx < 0 {
		return list
	}
	var target int
	switch direction {
	case Up:
		target = idx - 1
	case Down:
		target = idx + 1
	default:
		return list
	}
	if target < 0 || target >= len(list) {
		return list
	}
	out := slices.Clone(list)
	out[idx], out[target] = out[target], out[idx]
	return out
}

// ParseDirection normalises a direction coming from a control attribute.
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	default:
		return "", false
	}
}

// FromValue converts a canonical collection value into items. Entries that are not maps
// are skipped. Items keep their stored "id".
func FromValue(value any) []widgets.Item {
	var raw []any
	switch typed := value.(type) {
	case []any:
		raw = typed
	case []map[string]any:
		raw = make([]any, len(typed))
		for i, entry := range typed {
			raw[i] = entry
		}
	case []widgets.Item:
		out := make([]widgets.Item, len(typed))
		for i, item := range typed {
			out[i] = widgets.Item{ID: item.ID, Fields: util.CloneMap(item.Fields)}
		}
		return out
	default:
		return nil
	}

	items := make([]widgets.Item, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := widgets.Item{ID: cast.ToString(fields["id"]), Fields: make(map[string]any, len(fields))}
		for key, v := range fields {
			if key == "id" {
				continue
			}
			item.Fields[key] = util.CloneValue(v)
		}
		items = append(items, item)
	}
	return items
}

// ToValue converts items back to the canonical []any form stored in configuration maps.
func ToValue(items []widgets.Item) []any {
	out := make([]any, len(items))
	for i, item := range items {
		entry := make(map[string]any, len(item.Fields)+1)
		for key, value := range item.Fields {
			entry[key] = util.CloneValue(value)
		}
		entry["id"] = item.ID
		out[i] = entry
	}
	return out
}
