package widgetconfig

import (
	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/widgets"
)

// Config is the typed, read-only view over a canonical configuration. Both render modes
// read through it, so a field is always interpreted the same way. A value that fails
// coercion yields the schema default.
type Config struct {
	schema Schema
	values map[string]any
}

// NewConfig wraps values. The map is copied.
func NewConfig(schema Schema, values map[string]any) Config {
	return Config{schema: schema, values: util.CloneMap(values)}
}

// Schema returns the schema the accessor falls back to.
func (c Config) Schema() Schema { return c.schema }

// Values returns a deep copy of the canonical map.
func (c Config) Values() map[string]any {
	out := util.CloneMap(c.values)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Raw returns the stored value for key without coercion.
func (c Config) Raw(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}

// With returns a copy of the configuration with key set to value.
func (c Config) With(key string, value any) Config {
	next := c.Values()
	next[key] = util.CloneValue(value)
	return Config{schema: c.schema, values: next}
}

func (c Config) String(key string) string {
	if v, err := cast.ToStringE(c.values[key]); err == nil && c.values[key] != nil {
		return v
	}
	return cast.ToString(c.schema.Default(key))
}

func (c Config) Bool(key string) bool {
	if raw, ok := c.values[key]; ok && raw != nil {
		if v, err := cast.ToBoolE(raw); err == nil {
			return v
		}
	}
	return cast.ToBool(c.schema.Default(key))
}

func (c Config) Float(key string) float64 {
	if raw, ok := c.values[key]; ok && raw != nil {
		if v, err := cast.ToFloat64E(raw); err == nil {
			return v
		}
	}
	return cast.ToFloat64(c.schema.Default(key))
}

func (c Config) Int(key string) int {
	if raw, ok := c.values[key]; ok && raw != nil {
		if v, err := cast.ToIntE(raw); err == nil {
			return v
		}
	}
	return cast.ToInt(c.schema.Default(key))
}

// Strings returns a list field as strings.
func (c Config) Strings(key string) []string {
	if raw, ok := c.values[key]; ok && raw != nil {
		if v, err := cast.ToStringSliceE(raw); err == nil {
			return v
		}
	}
	return cast.ToStringSlice(c.schema.Default(key))
}

// Floats returns a list field as numbers. A list holding any non-numeric value yields the
// default.
func (c Config) Floats(key string) []float64 {
	if out, ok := toFloats(c.values[key]); ok {
		return out
	}
	out, _ := toFloats(c.schema.Default(key))
	return out
}

// Map returns an object field.
func (c Config) Map(key string) map[string]any {
	if raw, ok := c.values[key]; ok && raw != nil {
		if v, err := cast.ToStringMapE(raw); err == nil {
			return util.CloneMap(v)
		}
	}
	return cast.ToStringMap(c.schema.Default(key))
}

// Items returns a collection field as ordered items.
func (c Config) Items(key string) []widgets.Item {
	if raw, ok := c.values[key]; ok && raw != nil {
		switch raw.(type) {
		case []any, []map[string]any:
			return collections.FromValue(raw)
		}
	}
	return collections.FromValue(c.schema.Default(key))
}

func toFloats(raw any) ([]float64, bool) {
	if raw == nil {
		return nil, false
	}
	list, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, false
	}
	out := make([]float64, 0, len(list))
	for _, entry := range list {
		v, err := cast.ToFloat64E(entry)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
