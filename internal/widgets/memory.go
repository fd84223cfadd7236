package widgets

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/util"
)

// NewMemoryDefinitionRepository constructs an in-memory widget definition repository.
func NewMemoryDefinitionRepository() DefinitionRepository {
	return &memoryDefinitionRepository{
		byID:   make(map[uuid.UUID]*Definition),
		byName: make(map[string]uuid.UUID),
	}
}

type memoryDefinitionRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Definition
	byName map[string]uuid.UUID
}

func (m *memoryDefinitionRepository) Create(_ context.Context, definition *Definition) (*Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneDefinition(definition)
	m.byID[cloned.ID] = cloned
	if cloned.Name != "" {
		m.byName[cloned.Name] = cloned.ID
	}
	return cloneDefinition(cloned), nil
}

func (m *memoryDefinitionRepository) GetByID(_ context.Context, id uuid.UUID) (*Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "widget_definition", Key: id.String()}
	}
	return cloneDefinition(record), nil
}

func (m *memoryDefinitionRepository) GetByName(_ context.Context, name string) (*Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return nil, &NotFoundError{Resource: "widget_definition", Key: name}
	}
	return cloneDefinition(m.byID[id]), nil
}

func (m *memoryDefinitionRepository) List(_ context.Context) ([]*Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Definition, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneDefinition(record))
	}
	slices.SortFunc(records, func(a, b *Definition) int { return cmp.Compare(a.Name, b.Name) })
	return records, nil
}

func (m *memoryDefinitionRepository) Update(_ context.Context, definition *Definition) (*Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[definition.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "widget_definition", Key: definition.ID.String()}
	}
	if existing.Name != definition.Name {
		delete(m.byName, existing.Name)
	}
	cloned := cloneDefinition(definition)
	m.byID[cloned.ID] = cloned
	m.byName[cloned.Name] = cloned.ID
	return cloneDefinition(cloned), nil
}

func (m *memoryDefinitionRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "widget_definition", Key: id.String()}
	}
	delete(m.byName, existing.Name)
	delete(m.byID, id)
	return nil
}

// NewMemoryInstanceRepository constructs an in-memory widget instance repository.
func NewMemoryInstanceRepository() InstanceRepository {
	return &memoryInstanceRepository{byID: make(map[uuid.UUID]*Instance)}
}

type memoryInstanceRepository struct {
	mu             sync.RWMutex
	byID           map[uuid.UUID]*Instance
	insertionOrder []uuid.UUID
}

func (m *memoryInstanceRepository) Create(_ context.Context, instance *Instance) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneInstance(instance)
	if _, exists := m.byID[cloned.ID]; !exists {
		m.insertionOrder = append(m.insertionOrder, cloned.ID)
	}
	m.byID[cloned.ID] = cloned
	return cloneInstance(cloned), nil
}

func (m *memoryInstanceRepository) GetByID(_ context.Context, id uuid.UUID) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "widget_instance", Key: id.String()}
	}
	return cloneInstance(record), nil
}

func (m *memoryInstanceRepository) ListBySite(_ context.Context, siteID uuid.UUID) ([]*Instance, error) {
	out := m.filter(func(inst *Instance) bool { return inst.SiteID == siteID })
	slices.SortStableFunc(out, func(a, b *Instance) int {
		if c := cmp.Compare(a.PositionSlot, b.PositionSlot); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
	return out, nil
}

func (m *memoryInstanceRepository) ListBySlot(_ context.Context, siteID uuid.UUID, slot string) ([]*Instance, error) {
	out := m.filter(func(inst *Instance) bool { return inst.SiteID == siteID && inst.PositionSlot == slot })
	slices.SortStableFunc(out, func(a, b *Instance) int { return cmp.Compare(a.Order, b.Order) })
	return out, nil
}

func (m *memoryInstanceRepository) ListByType(_ context.Context, widgetTypeID string) ([]*Instance, error) {
	return m.filter(func(inst *Instance) bool { return inst.WidgetTypeID == widgetTypeID }), nil
}

func (m *memoryInstanceRepository) filter(keep func(*Instance) bool) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Instance, 0)
	for _, id := range m.insertionOrder {
		record, ok := m.byID[id]
		if ok && keep(record) {
			out = append(out, cloneInstance(record))
		}
	}
	return out
}

func (m *memoryInstanceRepository) Update(_ context.Context, instance *Instance) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[instance.ID]; !ok {
		return nil, &NotFoundError{Resource: "widget_instance", Key: instance.ID.String()}
	}
	cloned := cloneInstance(instance)
	m.byID[cloned.ID] = cloned
	return cloneInstance(cloned), nil
}

func (m *memoryInstanceRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "widget_instance", Key: id.String()}
	}
	delete(m.byID, id)
	m.insertionOrder = slices.DeleteFunc(m.insertionOrder, func(candidate uuid.UUID) bool { return candidate == id })
	return nil
}

// NewMemoryEntryRepository constructs an in-memory configuration entry repository.
func NewMemoryEntryRepository() EntryRepository {
	return &memoryEntryRepository{byInstance: make(map[uuid.UUID][]*ConfigEntry)}
}

type memoryEntryRepository struct {
	mu         sync.RWMutex
	byInstance map[uuid.UUID][]*ConfigEntry
}

func (m *memoryEntryRepository) ListByInstance(_ context.Context, instanceID uuid.UUID) ([]*ConfigEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.byInstance[instanceID]
	out := make([]*ConfigEntry, 0, len(entries))
	for _, entry := range entries {
		cloned := *entry
		out = append(out, &cloned)
	}
	slices.SortStableFunc(out, func(a, b *ConfigEntry) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

func (m *memoryEntryRepository) Replace(_ context.Context, instanceID uuid.UUID, entries []*ConfigEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]*ConfigEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		cloned := *entry
		cloned.WidgetInstanceID = instanceID
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		stored = append(stored, &cloned)
	}
	if len(stored) == 0 {
		delete(m.byInstance, instanceID)
		return nil
	}
	m.byInstance[instanceID] = stored
	return nil
}

func (m *memoryEntryRepository) DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error {
	return m.Replace(ctx, instanceID, nil)
}

// NewMemoryRowRepository constructs an in-memory collection row repository.
func NewMemoryRowRepository() RowRepository {
	return &memoryRowRepository{byInstance: make(map[uuid.UUID][]*CollectionRow)}
}

type memoryRowRepository struct {
	mu         sync.RWMutex
	byInstance map[uuid.UUID][]*CollectionRow
}

func (m *memoryRowRepository) ListByInstance(_ context.Context, instanceID uuid.UUID) ([]*CollectionRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.byInstance[instanceID]
	out := make([]*CollectionRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneRow(row))
	}
	slices.SortStableFunc(out, func(a, b *CollectionRow) int {
		if c := cmp.Compare(a.Field, b.Field); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return out, nil
}

func (m *memoryRowRepository) ReplaceField(_ context.Context, instanceID uuid.UUID, field string, rows []*CollectionRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := slices.DeleteFunc(slices.Clone(m.byInstance[instanceID]), func(row *CollectionRow) bool {
		return row.Field == field
	})
	for _, row := range rows {
		if row == nil {
			continue
		}
		cloned := cloneRow(row)
		cloned.WidgetInstanceID = instanceID
		cloned.Field = field
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		kept = append(kept, cloned)
	}
	if len(kept) == 0 {
		delete(m.byInstance, instanceID)
		return nil
	}
	m.byInstance[instanceID] = kept
	return nil
}

func (m *memoryRowRepository) DeleteByInstance(_ context.Context, instanceID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byInstance, instanceID)
	return nil
}

func cloneDefinition(src *Definition) *Definition {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Description = cloneString(src.Description)
	cloned.Category = cloneString(src.Category)
	cloned.Icon = cloneString(src.Icon)
	cloned.Schema = util.CloneMap(src.Schema)
	cloned.Defaults = util.CloneMap(src.Defaults)
	return &cloned
}

func cloneInstance(src *Instance) *Instance {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Configuration = util.CloneMap(src.Configuration)
	cloned.Entries = nil
	cloned.Rows = nil
	return &cloned
}

func cloneRow(src *CollectionRow) *CollectionRow {
	cloned := *src
	cloned.Payload = util.CloneMap(src.Payload)
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
