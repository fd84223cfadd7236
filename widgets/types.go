package widgets

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Mode selects which render tree a widget produces.
type Mode string

const (
	// ModePublic renders the reader-facing presentation only.
	ModePublic Mode = "public"
	// ModeEditable renders the authoring surface with live-editing controls.
	ModeEditable Mode = "editable"
)

// ValueType describes how a normalized configuration entry encodes its value.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeInteger ValueType = "integer"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeJSON    ValueType = "json"
)

// Definition captures a widget type, its configuration schema, and default values.
type Definition struct {
	bun.BaseModel `bun:"table:widget_definitions,alias:wd"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Name        string         `bun:"name,notnull,unique" json:"name"`
	Description *string        `bun:"description" json:"description,omitempty"`
	Schema      map[string]any `bun:"schema,type:jsonb,notnull" json:"schema"`
	Defaults    map[string]any `bun:"defaults,type:jsonb" json:"defaults,omitempty"`
	Category    *string        `bun:"category" json:"category,omitempty"`
	Icon        *string        `bun:"icon" json:"icon,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Instance is a widget attached to a placement slot of a site.
type Instance struct {
	bun.BaseModel `bun:"table:widget_instances,alias:wi"`

	ID             uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	SiteID         uuid.UUID      `bun:"site_id,notnull,type:uuid" json:"site_id"`
	OrganizationID uuid.UUID      `bun:"organization_id,notnull,type:uuid" json:"organization_id"`
	WidgetTypeID   string         `bun:"widget_type_id,notnull" json:"widget_type_id"`
	Configuration  map[string]any `bun:"configuration,type:jsonb,notnull,default:'{}'" json:"configuration"`
	IsActive       bool           `bun:"is_active,notnull,default:true" json:"is_active"`
	IsVisible      bool           `bun:"is_visible,notnull,default:true" json:"is_visible"`
	Order          int            `bun:"sort_order,notnull,default:0" json:"order"`
	PositionSlot   string         `bun:"position_slot,notnull" json:"position_slot"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Entries []*ConfigEntry   `bun:"rel:has-many,join:id=widget_instance_id" json:"entries,omitempty"`
	Rows    []*CollectionRow `bun:"rel:has-many,join:id=widget_instance_id" json:"rows,omitempty"`
}

// ConfigEntry is one field of a widget configuration stored as an explicitly typed key/value pair.
type ConfigEntry struct {
	bun.BaseModel `bun:"table:widget_config_entries,alias:wce"`

	ID               uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WidgetInstanceID uuid.UUID `bun:"widget_instance_id,notnull,type:uuid" json:"widget_instance_id"`
	Key              string    `bun:"key,notnull" json:"key"`
	Value            string    `bun:"value" json:"value"`
	ValueType        ValueType `bun:"value_type,notnull" json:"value_type"`
	Position         int       `bun:"position,notnull,default:0" json:"position"`
}

// CollectionRow stores one item of a collection field (for example a slide) outside the
// generic configuration map.
type CollectionRow struct {
	bun.BaseModel `bun:"table:widget_collection_rows,alias:wcr"`

	ID               uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	WidgetInstanceID uuid.UUID      `bun:"widget_instance_id,notnull,type:uuid" json:"widget_instance_id"`
	Field            string         `bun:"field,notnull" json:"field"`
	ItemID           string         `bun:"item_id" json:"item_id"`
	Position         int            `bun:"position,notnull,default:0" json:"position"`
	Payload          map[string]any `bun:"payload,type:jsonb" json:"payload"`
}

// Item is an ordered, identity-bearing member of a configuration collection.
type Item struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Get returns the field value stored under key.
func (i Item) Get(key string) any {
	if i.Fields == nil {
		return nil
	}
	return i.Fields[key]
}
