package widgets

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/uptrace/bun"
)

// repositoryWriter applies a configuration write through the repositories in turn. It
// backs the in-memory store, where each step cannot fail halfway.
type repositoryWriter struct {
	instances InstanceRepository
	entries   EntryRepository
	rows      RowRepository
}

func (w repositoryWriter) WriteConfiguration(ctx context.Context, write ConfigurationWrite) error {
	if write.Instance == nil {
		return ErrInstanceIDRequired
	}
	id := write.Instance.ID
	for _, field := range slices.Sorted(maps.Keys(write.Rows)) {
		if err := w.rows.ReplaceField(ctx, id, field, write.Rows[field]); err != nil {
			return err
		}
	}
	if err := w.entries.DeleteByInstance(ctx, id); err != nil {
		return err
	}
	_, err := w.instances.Update(ctx, write.Instance)
	return err
}

// BunConfigurationWriter applies a configuration write in a single transaction so a
// failed step leaves rows, entries and the instance as they were.
type BunConfigurationWriter struct {
	db        *bun.DB
	instances *BunInstanceRepository
}

// NewBunConfigurationWriter creates a transactional configuration writer.
func NewBunConfigurationWriter(db *bun.DB) *BunConfigurationWriter {
	return &BunConfigurationWriter{db: db, instances: NewBunInstanceRepository(db)}
}

func (w *BunConfigurationWriter) WriteConfiguration(ctx context.Context, write ConfigurationWrite) error {
	if w.db == nil {
		return fmt.Errorf("widget configuration writer: database not configured")
	}
	if write.Instance == nil {
		return ErrInstanceIDRequired
	}
	id := write.Instance.ID
	return w.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, field := range slices.Sorted(maps.Keys(write.Rows)) {
			if err := replaceRowsTx(ctx, tx, id, field, write.Rows[field]); err != nil {
				return err
			}
		}
		if err := replaceEntriesTx(ctx, tx, id, nil); err != nil {
			return err
		}
		if _, err := w.instances.UpdateTx(ctx, tx, write.Instance); err != nil {
			return err
		}
		return nil
	})
}
