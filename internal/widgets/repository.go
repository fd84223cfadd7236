package widgets

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// tableRepository builds the go-repository-bun base for one widget table. idOf points at
// the record's primary key; identifierOf defaults to its string form.
func tableRepository[T any](db *bun.DB, newRecord func() T, idOf func(T) *uuid.UUID, identifier string, identifierOf func(T) string) repository.Repository[T] {
	if identifierOf == nil {
		identifierOf = func(record T) string { return idOf(record).String() }
	}
	return repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord:          newRecord,
		GetID:              func(record T) uuid.UUID { return *idOf(record) },
		SetID:              func(record T, id uuid.UUID) { *idOf(record) = id },
		GetIdentifier:      func() string { return identifier },
		GetIdentifierValue: identifierOf,
	})
}

// Definitions are addressed by their registry name; everything else by id.

func definitionTable(db *bun.DB) repository.Repository[*Definition] {
	return tableRepository(db,
		func() *Definition { return &Definition{} },
		func(def *Definition) *uuid.UUID { return &def.ID },
		"name",
		func(def *Definition) string { return def.Name },
	)
}

func instanceTable(db *bun.DB) repository.Repository[*Instance] {
	return tableRepository(db,
		func() *Instance { return &Instance{} },
		func(inst *Instance) *uuid.UUID { return &inst.ID },
		"id", nil,
	)
}

func entryTable(db *bun.DB) repository.Repository[*ConfigEntry] {
	return tableRepository(db,
		func() *ConfigEntry { return &ConfigEntry{} },
		func(entry *ConfigEntry) *uuid.UUID { return &entry.ID },
		"id", nil,
	)
}

func rowTable(db *bun.DB) repository.Repository[*CollectionRow] {
	return tableRepository(db,
		func() *CollectionRow { return &CollectionRow{} },
		func(row *CollectionRow) *uuid.UUID { return &row.ID },
		"id", nil,
	)
}
