package widgets

import (
	"context"

	"github.com/google/uuid"
)

// DefinitionRepository exposes persistence operations for widget definitions.
type DefinitionRepository interface {
	Create(ctx context.Context, definition *Definition) (*Definition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Definition, error)
	GetByName(ctx context.Context, name string) (*Definition, error)
	List(ctx context.Context) ([]*Definition, error)
	Update(ctx context.Context, definition *Definition) (*Definition, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InstanceRepository exposes persistence operations for widget instances. Returned
// instances do not carry their entries or rows.
type InstanceRepository interface {
	Create(ctx context.Context, instance *Instance) (*Instance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Instance, error)
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Instance, error)
	ListBySlot(ctx context.Context, siteID uuid.UUID, slot string) ([]*Instance, error)
	ListByType(ctx context.Context, widgetTypeID string) ([]*Instance, error)
	Update(ctx context.Context, instance *Instance) (*Instance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EntryRepository stores normalized configuration entries.
type EntryRepository interface {
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*ConfigEntry, error)
	Replace(ctx context.Context, instanceID uuid.UUID, entries []*ConfigEntry) error
	DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error
}

// RowRepository stores specialized collection rows.
type RowRepository interface {
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*CollectionRow, error)
	// ReplaceField swaps every row of field for rows.
	ReplaceField(ctx context.Context, instanceID uuid.UUID, field string, rows []*CollectionRow) error
	DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error
}

// ConfigurationWrite is the storage change set of one SaveConfiguration call.
type ConfigurationWrite struct {
	Instance *Instance
	// Rows maps each row-backed field to its replacement rows.
	Rows map[string][]*CollectionRow
}

// ConfigurationWriter applies a ConfigurationWrite: it replaces the listed row fields,
// drops normalized entries and updates the instance. Database-backed writers apply the
// whole set in one transaction.
type ConfigurationWriter interface {
	WriteConfiguration(ctx context.Context, write ConfigurationWrite) error
}
