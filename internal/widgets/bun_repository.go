package widgets

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const definitionNamespace = "widget_definition"

// BunDefinitionRepository implements DefinitionRepository with optional caching.
type BunDefinitionRepository struct {
	repo         repository.Repository[*Definition]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunDefinitionRepository creates a definition repository without caching.
func NewBunDefinitionRepository(db *bun.DB) *BunDefinitionRepository {
	return NewBunDefinitionRepositoryWithCache(db, nil, nil)
}

// NewBunDefinitionRepositoryWithCache creates a definition repository with caching.
func NewBunDefinitionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunDefinitionRepository {
	base := definitionTable(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = definitionNamespace + cache.KeySeparator
	}
	return &BunDefinitionRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunDefinitionRepository) Create(ctx context.Context, definition *Definition) (*Definition, error) {
	record, err := r.repo.Create(ctx, definition)
	if err != nil {
		return nil, err
	}
	return record, r.InvalidateCache(ctx)
}

func (r *BunDefinitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Definition, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "widget_definition", id.String())
	}
	return record, nil
}

func (r *BunDefinitionRepository) GetByName(ctx context.Context, name string) (*Definition, error) {
	record, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "widget_definition", name)
	}
	return record, nil
}

func (r *BunDefinitionRepository) List(ctx context.Context) ([]*Definition, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

func (r *BunDefinitionRepository) Update(ctx context.Context, definition *Definition) (*Definition, error) {
	updated, err := r.repo.Update(ctx, definition,
		repository.UpdateByID(definition.ID.String()),
		repository.UpdateColumns(
			"name",
			"description",
			"schema",
			"defaults",
			"category",
			"icon",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "widget_definition", definition.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunDefinitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Definition{ID: id}); err != nil {
		return mapRepositoryError(err, "widget_definition", id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops cached definition reads.
func (r *BunDefinitionRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunInstanceRepository implements InstanceRepository. Instances are the autosave write
// path, so reads always hit the database.
type BunInstanceRepository struct {
	db   *bun.DB
	repo repository.Repository[*Instance]
}

// NewBunInstanceRepository creates an instance repository.
func NewBunInstanceRepository(db *bun.DB) *BunInstanceRepository {
	return &BunInstanceRepository{db: db, repo: instanceTable(db)}
}

func (r *BunInstanceRepository) Create(ctx context.Context, instance *Instance) (*Instance, error) {
	return r.repo.Create(ctx, instance)
}

func (r *BunInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*Instance, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "widget_instance", id.String())
	}
	return record, nil
}

func (r *BunInstanceRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Instance, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.site_id = ?", siteID).
			OrderExpr("?TableAlias.position_slot ASC, ?TableAlias.sort_order ASC")
	}))
	return records, err
}

func (r *BunInstanceRepository) ListBySlot(ctx context.Context, siteID uuid.UUID, slot string) ([]*Instance, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.site_id = ?", siteID).
			Where("?TableAlias.position_slot = ?", slot).
			OrderExpr("?TableAlias.sort_order ASC")
	}))
	return records, err
}

func (r *BunInstanceRepository) ListByType(ctx context.Context, widgetTypeID string) ([]*Instance, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.widget_type_id = ?", widgetTypeID)
	}))
	return records, err
}

func (r *BunInstanceRepository) Update(ctx context.Context, instance *Instance) (*Instance, error) {
	return r.UpdateTx(ctx, r.db, instance)
}

// UpdateTx updates the instance through tx.
func (r *BunInstanceRepository) UpdateTx(ctx context.Context, tx bun.IDB, instance *Instance) (*Instance, error) {
	updated, err := r.repo.UpdateTx(ctx, tx, instance,
		repository.UpdateByID(instance.ID.String()),
		repository.UpdateColumns(
			"widget_type_id",
			"configuration",
			"is_active",
			"is_visible",
			"sort_order",
			"position_slot",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "widget_instance", instance.ID.String())
	}
	return updated, nil
}

func (r *BunInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Instance{ID: id}); err != nil {
		return mapRepositoryError(err, "widget_instance", id.String())
	}
	return nil
}

// BunEntryRepository implements EntryRepository.
type BunEntryRepository struct {
	db   *bun.DB
	repo repository.Repository[*ConfigEntry]
}

// NewBunEntryRepository creates a configuration entry repository.
func NewBunEntryRepository(db *bun.DB) *BunEntryRepository {
	return &BunEntryRepository{db: db, repo: entryTable(db)}
}

func (r *BunEntryRepository) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*ConfigEntry, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.widget_instance_id = ?", instanceID).
			OrderExpr("?TableAlias.position ASC, ?TableAlias.key ASC")
	}))
	return records, err
}

func (r *BunEntryRepository) Replace(ctx context.Context, instanceID uuid.UUID, entries []*ConfigEntry) error {
	if r.db == nil {
		return fmt.Errorf("widget entry repository: database not configured")
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return replaceEntriesTx(ctx, tx, instanceID, entries)
	})
}

func replaceEntriesTx(ctx context.Context, tx bun.IDB, instanceID uuid.UUID, entries []*ConfigEntry) error {
	if _, err := tx.NewDelete().
		Model((*ConfigEntry)(nil)).
		Where("?TableAlias.widget_instance_id = ?", instanceID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete widget config entries: %w", err)
	}
	toInsert := make([]*ConfigEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		cloned := *entry
		cloned.WidgetInstanceID = instanceID
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		toInsert = append(toInsert, &cloned)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert widget config entries: %w", err)
	}
	return nil
}

func (r *BunEntryRepository) DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error {
	return r.Replace(ctx, instanceID, nil)
}

// BunRowRepository implements RowRepository.
type BunRowRepository struct {
	db   *bun.DB
	repo repository.Repository[*CollectionRow]
}

// NewBunRowRepository creates a collection row repository.
func NewBunRowRepository(db *bun.DB) *BunRowRepository {
	return &BunRowRepository{db: db, repo: rowTable(db)}
}

func (r *BunRowRepository) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*CollectionRow, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.widget_instance_id = ?", instanceID).
			OrderExpr("?TableAlias.field ASC, ?TableAlias.position ASC")
	}))
	return records, err
}

func (r *BunRowRepository) ReplaceField(ctx context.Context, instanceID uuid.UUID, field string, rows []*CollectionRow) error {
	if r.db == nil {
		return fmt.Errorf("widget row repository: database not configured")
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return replaceRowsTx(ctx, tx, instanceID, field, rows)
	})
}

func replaceRowsTx(ctx context.Context, tx bun.IDB, instanceID uuid.UUID, field string, rows []*CollectionRow) error {
	if _, err := tx.NewDelete().
		Model((*CollectionRow)(nil)).
		Where("?TableAlias.widget_instance_id = ?", instanceID).
		Where("?TableAlias.field = ?", field).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete widget collection rows: %w", err)
	}
	toInsert := make([]*CollectionRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		cloned := *row
		cloned.WidgetInstanceID = instanceID
		cloned.Field = field
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		toInsert = append(toInsert, &cloned)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert widget collection rows: %w", err)
	}
	return nil
}

func (r *BunRowRepository) DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("widget row repository: database not configured")
	}
	if _, err := r.db.NewDelete().
		Model((*CollectionRow)(nil)).
		Where("?TableAlias.widget_instance_id = ?", instanceID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete widget collection rows: %w", err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
