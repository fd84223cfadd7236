package widgets

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes widget management capabilities to external consumers.
type Service interface {
	RegisterDefinition(ctx context.Context, input RegisterDefinitionInput) (*Definition, error)
	GetDefinitionByName(ctx context.Context, name string) (*Definition, error)
	ListDefinitions(ctx context.Context) ([]*Definition, error)
	SyncRegistry(ctx context.Context) error

	CreateInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error)
	UpdateInstance(ctx context.Context, input UpdateInstanceInput) (*Instance, error)
	GetInstance(ctx context.Context, id uuid.UUID) (*Instance, error)
	ListInstancesBySite(ctx context.Context, siteID uuid.UUID) ([]*Instance, error)
	ListInstancesBySlot(ctx context.Context, siteID uuid.UUID, slot string) ([]*Instance, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error

	SaveConfiguration(ctx context.Context, id uuid.UUID, configuration map[string]any) (*Instance, error)
}

// RegisterDefinitionInput captures the information required to register a widget definition.
type RegisterDefinitionInput struct {
	Name        string
	Description *string
	Schema      map[string]any
	Defaults    map[string]any
	Category    *string
	Icon        *string
}

// CreateInstanceInput attaches a widget to a placement slot.
type CreateInstanceInput struct {
	SiteID         uuid.UUID
	OrganizationID uuid.UUID
	WidgetTypeID   string
	PositionSlot   string
	Order          *int
	Configuration  map[string]any
	Entries        []ConfigEntryInput
	Rows           []CollectionRowInput
	Inactive       bool
	Hidden         bool
}

// ConfigEntryInput describes a normalized key/value configuration entry.
type ConfigEntryInput struct {
	Key       string
	Value     string
	ValueType ValueType
}

// CollectionRowInput describes one specialized collection row.
type CollectionRowInput struct {
	Field   string
	ItemID  string
	Payload map[string]any
}

// UpdateInstanceInput defines the mutable placement attributes of an instance.
type UpdateInstanceInput struct {
	InstanceID   uuid.UUID
	IsActive     *bool
	IsVisible    *bool
	Order        *int
	PositionSlot *string
}
