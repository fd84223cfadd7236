package widgetconfig

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/identity"
	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/widgets"
)

// Source names the representation a resolved value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceInline  Source = "inline"
	SourceEntry   Source = "entry"
	SourceRows    Source = "rows"
)

// Issue records a value that could not be interpreted and was replaced or dropped.
type Issue struct {
	Field  string
	Source Source
	Value  string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s (%s): %s", i.Field, i.Source, i.Reason)
}

// Sources carries every persisted representation of one widget configuration.
type Sources struct {
	// Seed makes generated item ids unique per widget. The widget id is used in practice.
	Seed        string
	Inline      map[string]any
	Entries     []widgets.ConfigEntry
	Collections map[string][]widgets.CollectionRow
}

// SourcesFromInstance gathers the inline map and loaded relations of instance.
func SourcesFromInstance(instance *widgets.Instance) Sources {
	if instance == nil {
		return Sources{}
	}
	src := Sources{
		Seed:   instance.ID.String(),
		Inline: instance.Configuration,
	}
	for _, entry := range instance.Entries {
		if entry != nil {
			src.Entries = append(src.Entries, *entry)
		}
	}
	for _, row := range instance.Rows {
		if row == nil {
			continue
		}
		if src.Collections == nil {
			src.Collections = map[string][]widgets.CollectionRow{}
		}
		src.Collections[row.Field] = append(src.Collections[row.Field], *row)
	}
	return src
}

// Result is the canonical configuration produced by Resolve.
type Result struct {
	Values  map[string]any
	Origins map[string]Source
	Issues  []Issue
}

// Config wraps the resolved values in the typed accessor used by renderers.
func (r Result) Config(schema Schema) Config {
	return NewConfig(schema, r.Values)
}

// Resolve merges the configuration sources into one value per field. For recognized
// fields precedence is specialized rows, then entries, then the inline map, then the
// built-in default. Keys the schema does not recognize are preserved untouched. Resolve
// never mutates its inputs.
func Resolve(schema Schema, src Sources) Result {
	res := Result{
		Values:  util.CloneMap(src.Inline),
		Origins: map[string]Source{},
	}
	if res.Values == nil {
		res.Values = map[string]any{}
	}
	for key := range res.Values {
		res.Origins[key] = SourceInline
	}

	applyEntries(schema, src.Entries, &res)
	applyRows(src.Seed, src.Collections, &res)

	for _, field := range schema.Fields {
		value, ok := res.Values[field.Name]
		if !ok || value == nil {
			res.Values[field.Name] = defaultFor(field)
			res.Origins[field.Name] = SourceDefault
			continue
		}
		if field.Kind != KindCollection {
			continue
		}
		items, ok := normalizeCollection(src.Seed, field.Name, value)
		if !ok {
			res.Issues = append(res.Issues, Issue{
				Field:  field.Name,
				Source: res.Origins[field.Name],
				Value:  fmt.Sprintf("%v", value),
				Reason: "collection is not a list",
			})
			res.Values[field.Name] = defaultFor(field)
			res.Origins[field.Name] = SourceDefault
			continue
		}
		res.Values[field.Name] = items
	}
	return res
}

func applyEntries(schema Schema, entries []widgets.ConfigEntry, res *Result) {
	if len(entries) == 0 {
		return
	}
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b widgets.ConfigEntry) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	seen := map[string]bool{}
	for _, entry := range ordered {
		key := strings.TrimSpace(entry.Key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		value, err := CoerceEntry(entry)
		if err == nil {
			res.Values[key] = value
			res.Origins[key] = SourceEntry
			continue
		}

		issue := Issue{Field: key, Source: SourceEntry, Value: entry.Value, Reason: err.Error()}
		if field, known := schema.Field(key); known {
			res.Values[key] = defaultFor(field)
			res.Origins[key] = SourceDefault
			issue.Reason += "; using default"
		} else {
			issue.Reason += "; entry dropped"
		}
		res.Issues = append(res.Issues, issue)
	}
}

func applyRows(seed string, collections map[string][]widgets.CollectionRow, res *Result) {
	if len(collections) == 0 {
		return
	}
	fields := make([]string, 0, len(collections))
	for field := range collections {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	for _, field := range fields {
		rows := slices.Clone(collections[field])
		slices.SortStableFunc(rows, func(a, b widgets.CollectionRow) int {
			return cmp.Compare(a.Position, b.Position)
		})
		items := make([]any, 0, len(rows))
		for i, row := range rows {
			payload := util.CloneMap(row.Payload)
			if payload == nil {
				payload = map[string]any{}
			}
			id := strings.TrimSpace(row.ItemID)
			if id == "" {
				id = identity.ItemID(seed, field, i)
			}
			payload["id"] = id
			items = append(items, payload)
		}
		res.Values[field] = items
		res.Origins[field] = SourceRows
	}
}

// normalizeCollection returns the items as []any of maps each carrying a unique string id.
// Items stored without an id get a deterministic one derived from the seed and position.
func normalizeCollection(seed, field string, value any) ([]any, bool) {
	var raw []any
	switch typed := value.(type) {
	case []any:
		raw = typed
	case []map[string]any:
		raw = make([]any, len(typed))
		for i, item := range typed {
			raw[i] = item
		}
	default:
		return nil, false
	}

	out := make([]any, 0, len(raw))
	used := map[string]bool{}
	for i, entry := range raw {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item = util.CloneMap(item)
		id := strings.TrimSpace(cast.ToString(item["id"]))
		if id == "" || used[id] {
			id = identity.ItemID(seed, field, i)
		}
		used[id] = true
		item["id"] = id
		out = append(out, item)
	}
	return out, true
}

// CoerceEntry converts the string value of entry according to its value type.
func CoerceEntry(entry widgets.ConfigEntry) (any, error) {
	raw := entry.Value
	switch entry.ValueType {
	case widgets.ValueTypeString, "":
		return raw, nil
	case widgets.ValueTypeNumber:
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil || strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return v, nil
	case widgets.ValueTypeInteger:
		v, err := cast.ToIntE(strings.TrimSpace(raw))
		if err != nil || strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return v, nil
	case widgets.ValueTypeBoolean:
		v, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil || strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return v, nil
	case widgets.ValueTypeJSON:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value type %q", entry.ValueType)
	}
}
