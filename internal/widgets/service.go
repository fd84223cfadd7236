package widgets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/identity"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/internal/validation"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures widget service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the instance ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRegistry injects the registry whose definitions SyncRegistry publishes.
func WithRegistry(reg *Registry) ServiceOption {
	return func(s *service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfigurationWriter sets how SaveConfiguration persists its change set. The default
// writes through the repositories one call at a time.
func WithConfigurationWriter(writer ConfigurationWriter) ServiceOption {
	return func(s *service) {
		if writer != nil {
			s.writer = writer
		}
	}
}

// WithRowBackedFields lists collection fields always persisted as specialized rows.
// Fields that already have rows stay row-backed regardless.
func WithRowBackedFields(fields ...string) ServiceOption {
	return func(s *service) {
		for _, field := range fields {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				s.rowFields[trimmed] = true
			}
		}
	}
}

type service struct {
	definitions DefinitionRepository
	instances   InstanceRepository
	entries     EntryRepository
	rows        RowRepository
	writer      ConfigurationWriter
	registry    *Registry
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
	rowFields   map[string]bool
}

// NewService constructs a widget service.
func NewService(defRepo DefinitionRepository, instRepo InstanceRepository, entryRepo EntryRepository, rowRepo RowRepository, opts ...ServiceOption) Service {
	s := &service{
		definitions: defRepo,
		instances:   instRepo,
		entries:     entryRepo,
		rows:        rowRepo,
		now:         func() time.Time { return time.Now().UTC() },
		id:          uuid.New,
		logger:      logging.NoOp(),
		rowFields:   map[string]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.entries == nil {
		s.entries = NewMemoryEntryRepository()
	}
	if s.rows == nil {
		s.rows = NewMemoryRowRepository()
	}
	if s.writer == nil {
		s.writer = repositoryWriter{instances: s.instances, entries: s.entries, rows: s.rows}
	}
	return s
}

func (s *service) RegisterDefinition(ctx context.Context, input RegisterDefinitionInput) (*Definition, error) {
	name := canonicalKey(input.Name)
	if name == "" {
		return nil, ErrDefinitionNameRequired
	}
	if len(input.Schema) == 0 {
		return nil, ErrDefinitionSchemaRequired
	}
	if err := validation.ValidateSchema(input.Schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionSchemaInvalid, err)
	}
	if err := validation.ValidatePayload(input.Schema, input.Defaults); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrDefinitionSchemaInvalid, err)
	}

	if existing, err := s.definitions.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrDefinitionExists
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	definition := &Definition{
		ID:          identity.WidgetDefinitionUUID(name),
		Name:        name,
		Description: cloneString(input.Description),
		Schema:      util.CloneMap(input.Schema),
		Defaults:    util.CloneMap(input.Defaults),
		Category:    cloneString(input.Category),
		Icon:        cloneString(input.Icon),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.definitions.Create(ctx, definition)
}

func (s *service) GetDefinitionByName(ctx context.Context, name string) (*Definition, error) {
	return s.definitions.GetByName(ctx, canonicalKey(name))
}

func (s *service) ListDefinitions(ctx context.Context) ([]*Definition, error) {
	return s.definitions.List(ctx)
}

// SyncRegistry publishes every registered widget type to the definition catalog,
// creating missing definitions and refreshing changed schemas or defaults.
func (s *service) SyncRegistry(ctx context.Context) error {
	if s.registry == nil {
		return nil
	}
	for _, input := range s.registry.Definitions() {
		existing, err := s.definitions.GetByName(ctx, canonicalKey(input.Name))
		if err != nil && !IsNotFound(err) {
			return err
		}
		if existing == nil {
			if _, err := s.RegisterDefinition(ctx, input); err != nil && !errors.Is(err, ErrDefinitionExists) {
				return fmt.Errorf("register %s: %w", input.Name, err)
			}
			continue
		}
		if sameDocument(existing.Schema, input.Schema) && sameDocument(existing.Defaults, input.Defaults) {
			continue
		}
		if err := validation.ValidateSchema(input.Schema); err != nil {
			return fmt.Errorf("%w: %v", ErrDefinitionSchemaInvalid, err)
		}
		existing.Schema = util.CloneMap(input.Schema)
		existing.Defaults = util.CloneMap(input.Defaults)
		existing.UpdatedAt = s.now()
		if _, err := s.definitions.Update(ctx, existing); err != nil {
			return err
		}
		s.logger.Info("widgets.definition.refreshed", "name", existing.Name)
	}
	return nil
}

func (s *service) CreateInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error) {
	typeID := strings.TrimSpace(input.WidgetTypeID)
	slot := strings.TrimSpace(input.PositionSlot)
	switch {
	case input.SiteID == uuid.Nil:
		return nil, ErrInstanceSiteRequired
	case typeID == "":
		return nil, ErrInstanceTypeRequired
	case slot == "":
		return nil, ErrInstanceSlotRequired
	case input.Order != nil && *input.Order < 0:
		return nil, ErrInstanceOrderInvalid
	}

	config := util.CloneMap(input.Configuration)
	if config == nil {
		config = map[string]any{}
	}
	if definition, err := s.definitions.GetByName(ctx, canonicalKey(typeID)); err == nil {
		merged := util.CloneMap(definition.Defaults)
		if merged == nil {
			merged = map[string]any{}
		}
		for key, value := range config {
			merged[key] = value
		}
		if err := validation.ValidatePayload(definition.Schema, merged); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
		}
		config = merged
	} else if !IsNotFound(err) {
		return nil, err
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		siblings, err := s.instances.ListBySlot(ctx, input.SiteID, slot)
		if err != nil {
			return nil, err
		}
		for _, sibling := range siblings {
			if sibling.Order >= order {
				order = sibling.Order + 1
			}
		}
	}

	now := s.now()
	instance := &Instance{
		ID:             s.id(),
		SiteID:         input.SiteID,
		OrganizationID: input.OrganizationID,
		WidgetTypeID:   typeID,
		Configuration:  config,
		IsActive:       !input.Inactive,
		IsVisible:      !input.Hidden,
		Order:          order,
		PositionSlot:   slot,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.instances.Create(ctx, instance); err != nil {
		return nil, err
	}

	if len(input.Entries) > 0 {
		entries := make([]*ConfigEntry, 0, len(input.Entries))
		for i, entry := range input.Entries {
			key := strings.TrimSpace(entry.Key)
			if key == "" {
				continue
			}
			entries = append(entries, &ConfigEntry{
				ID:        identity.EntryID(instance.ID, key),
				Key:       key,
				Value:     entry.Value,
				ValueType: entry.ValueType,
				Position:  i,
			})
		}
		if err := s.entries.Replace(ctx, instance.ID, entries); err != nil {
			return nil, err
		}
	}

	byField := map[string][]*CollectionRow{}
	var fields []string
	for _, row := range input.Rows {
		field := strings.TrimSpace(row.Field)
		if field == "" {
			continue
		}
		if _, seen := byField[field]; !seen {
			fields = append(fields, field)
		}
		byField[field] = append(byField[field], &CollectionRow{
			ID:       identity.RowID(instance.ID, field, row.ItemID),
			Field:    field,
			ItemID:   row.ItemID,
			Position: len(byField[field]),
			Payload:  util.CloneMap(row.Payload),
		})
	}
	for _, field := range fields {
		if err := s.rows.ReplaceField(ctx, instance.ID, field, byField[field]); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("widgets.instance.created", "widget_id", instance.ID.String(), "widget_type", typeID, "slot", slot)
	return s.GetInstance(ctx, instance.ID)
}

func (s *service) UpdateInstance(ctx context.Context, input UpdateInstanceInput) (*Instance, error) {
	if input.InstanceID == uuid.Nil {
		return nil, ErrInstanceIDRequired
	}
	instance, err := s.instances.GetByID(ctx, input.InstanceID)
	if err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		instance.IsActive = *input.IsActive
	}
	if input.IsVisible != nil {
		instance.IsVisible = *input.IsVisible
	}
	if input.Order != nil {
		if *input.Order < 0 {
			return nil, ErrInstanceOrderInvalid
		}
		instance.Order = *input.Order
	}
	if input.PositionSlot != nil {
		slot := strings.TrimSpace(*input.PositionSlot)
		if slot == "" {
			return nil, ErrInstanceSlotRequired
		}
		instance.PositionSlot = slot
	}
	instance.UpdatedAt = s.now()
	if _, err := s.instances.Update(ctx, instance); err != nil {
		return nil, err
	}
	return s.GetInstance(ctx, instance.ID)
}

// GetInstance returns the instance with its entries and rows attached.
func (s *service) GetInstance(ctx context.Context, id uuid.UUID) (*Instance, error) {
	if id == uuid.Nil {
		return nil, ErrInstanceIDRequired
	}
	instance, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.attachRelations(ctx, instance)
}

func (s *service) ListInstancesBySite(ctx context.Context, siteID uuid.UUID) ([]*Instance, error) {
	records, err := s.instances.ListBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return s.attachAll(ctx, records)
}

func (s *service) ListInstancesBySlot(ctx context.Context, siteID uuid.UUID, slot string) ([]*Instance, error) {
	records, err := s.instances.ListBySlot(ctx, siteID, strings.TrimSpace(slot))
	if err != nil {
		return nil, err
	}
	return s.attachAll(ctx, records)
}

func (s *service) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInstanceIDRequired
	}
	if _, err := s.instances.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.entries.DeleteByInstance(ctx, id); err != nil {
		return err
	}
	if err := s.rows.DeleteByInstance(ctx, id); err != nil {
		return err
	}
	if err := s.instances.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("widgets.instance.deleted", "widget_id", id.String())
	return nil
}

// SaveConfiguration persists a canonical configuration. The configuration becomes the
// inline map, normalized entries are folded into it and removed, and row-backed
// collection fields are rewritten as rows. Saving the same snapshot twice leaves the
// same stored state.
func (s *service) SaveConfiguration(ctx context.Context, id uuid.UUID, configuration map[string]any) (*Instance, error) {
	if id == uuid.Nil {
		return nil, ErrInstanceIDRequired
	}
	if configuration == nil {
		return nil, ErrConfigurationRequired
	}
	instance, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existingRows, err := s.rows.ListByInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	rowBacked := make(map[string]bool, len(s.rowFields))
	for field := range s.rowFields {
		rowBacked[field] = true
	}
	for _, row := range existingRows {
		rowBacked[row.Field] = true
	}

	inline := util.CloneMap(configuration)
	replaced := map[string][]*CollectionRow{}
	fields := make([]string, 0, len(rowBacked))
	for field := range rowBacked {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		value, ok := inline[field]
		if !ok {
			continue
		}
		rows, ok := rowsFromValue(id, field, value)
		if !ok {
			continue
		}
		replaced[field] = rows
		// An emptied collection stays inline so it does not resolve back to defaults.
		if len(rows) > 0 {
			delete(inline, field)
		}
	}

	instance.Configuration = inline
	instance.UpdatedAt = s.now()
	if err := s.writer.WriteConfiguration(ctx, ConfigurationWrite{Instance: instance, Rows: replaced}); err != nil {
		return nil, err
	}
	return s.GetInstance(ctx, id)
}

func (s *service) attachAll(ctx context.Context, records []*Instance) ([]*Instance, error) {
	out := make([]*Instance, 0, len(records))
	for _, record := range records {
		attached, err := s.attachRelations(ctx, record)
		if err != nil {
			return nil, err
		}
		out = append(out, attached)
	}
	return out, nil
}

func (s *service) attachRelations(ctx context.Context, instance *Instance) (*Instance, error) {
	entries, err := s.entries.ListByInstance(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows.ListByInstance(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	instance.Entries = entries
	instance.Rows = rows
	if instance.Configuration == nil {
		instance.Configuration = map[string]any{}
	}
	return instance, nil
}

func rowsFromValue(instanceID uuid.UUID, field string, value any) ([]*CollectionRow, bool) {
	var items []any
	switch typed := value.(type) {
	case []any:
		items = typed
	case []map[string]any:
		for _, item := range typed {
			items = append(items, item)
		}
	default:
		return nil, false
	}
	rows := make([]*CollectionRow, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		payload := util.CloneMap(item)
		itemID := strings.TrimSpace(cast.ToString(payload["id"]))
		delete(payload, "id")
		rows = append(rows, &CollectionRow{
			ID:       identity.RowID(instanceID, field, itemID),
			Field:    field,
			ItemID:   itemID,
			Position: i,
			Payload:  payload,
		})
	}
	return rows, true
}

// sameDocument compares two JSON documents by their encoding, so stored values that
// came back from a jsonb column match their in-memory originals.
func sameDocument(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
