// Package storage opens the local journal database, applies the embedded
// schema migrations and hands out repositories bound to it.
//
// A DSN starting with postgres:// or postgresql:// selects PostgreSQL through
// the pgx stdlib driver; anything else is treated as a SQLite path or
// modernc.org/sqlite DSN.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/traveljournal/internal/client/migrations"
	"github.com/dmitrijs2005/traveljournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/traveljournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/traveljournal/internal/dbx"
	"github.com/dmitrijs2005/traveljournal/internal/filex"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Store owns the database handle.
type Store struct {
	DB      *sql.DB
	Dialect dbx.Dialect
}

// Open connects to dsn and migrates the schema to the latest version.
func Open(ctx context.Context, dsn string) (*Store, error) {
	dialect := dbx.DialectFromDSN(dsn)

	if dialect == dbx.SQLite {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("prepare sqlite path: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == dbx.SQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s database: %w", dialect, err)
	}

	s := &Store{DB: db, Dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies all pending migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(s.Dialect.GooseDialect()); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.DB, string(s.Dialect)); err != nil {
		return fmt.Errorf("migrate %s database: %w", s.Dialect, err)
	}
	return nil
}

// Entries returns an entries repository bound to db, which may be the
// store's *sql.DB or a transaction.
func (s *Store) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewRepository(db, s.Dialect)
}

func (s *Store) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewRepository(db, s.Dialect)
}

// WithTx runs fn in a transaction on the store's database.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.DB, nil, fn)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
