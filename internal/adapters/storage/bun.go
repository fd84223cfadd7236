package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
	"github.com/goliatone/go-sitewidgets/widgets"
)

var (
	ErrDriverUnsupported = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn required")
)

// Config selects the SQL backend behind the bun repositories.
type Config struct {
	Driver string
	DSN    string
	// Debug logs every query at debug level through Logger.
	Debug  bool
	Logger interfaces.Logger
}

// Open connects to the configured database and wraps it with the matching bun dialect.
// SQLite handles are limited to one connection so shared in-memory databases stay
// visible to every repository.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var (
		driverName string
		dialect    schema.Dialect
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		driverName, dialect = "sqlite3", sqlitedialect.New()
	case "postgres", "postgresql", "pg":
		driverName, dialect = "postgres", pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driverName, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driverName, err)
	}

	db := bun.NewDB(sqlDB, dialect)
	if driverName == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	if cfg.Debug {
		logger := cfg.Logger
		if logger == nil {
			logger = logging.NoOp()
		}
		db.AddQueryHook(queryLogger{logger: logger})
	}
	return db, nil
}

// Migrate creates the widget tables and the slot lookup index when they are missing.
func Migrate(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*widgets.Definition)(nil),
		(*widgets.Instance)(nil),
		(*widgets.ConfigEntry)(nil),
		(*widgets.CollectionRow)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	_, err := db.NewCreateIndex().
		Model((*widgets.Instance)(nil)).
		Index("widget_instances_site_slot_idx").
		Column("site_id", "position_slot").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: create slot index: %w", err)
	}
	return nil
}

type queryLogger struct {
	logger interfaces.Logger
}

func (h queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	args := []any{"operation", event.Operation(), "duration", time.Since(event.StartTime).String()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.Warn("storage.query.failed", append(args, "query", event.Query, "error", event.Err)...)
		return
	}
	h.logger.Debug("storage.query", append(args, "query", event.Query)...)
}
