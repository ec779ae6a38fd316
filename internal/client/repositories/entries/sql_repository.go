package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/dbx"
	"github.com/google/uuid"
)

const selectColumns = `id, title, description, photos, date, location, tags, is_offline, created_at, updated_at`

// SQLRepository implements Repository using a DBTX.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

// NewRepository returns a repository for the given dialect bound to db.
func NewRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, now: time.Now}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return NewRepository(db, dbx.SQLite)
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return NewRepository(db, dbx.Postgres)
}

func (r *SQLRepository) Insert(ctx context.Context, e *models.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Location == "" {
		e.Location = models.UnknownLocation
	}
	now := r.now().UTC()
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	photos, err := models.EncodeStrings(e.Photos)
	if err != nil {
		return err
	}
	tags, err := models.EncodeStrings(e.Tags)
	if err != nil {
		return err
	}

	query := r.dialect.Rebind(`INSERT INTO journals (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, photos, models.FormatTime(e.Date), e.Location, tags, e.IsOffline,
		models.FormatTime(e.CreatedAt), models.FormatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	query := r.dialect.Rebind(`SELECT ` + selectColumns + ` FROM journals WHERE id = ?`)
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.JournalEntry, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM journals ORDER BY date DESC, created_at DESC`)
}

func (r *SQLRepository) ListUnsynced(ctx context.Context) ([]*models.JournalEntry, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM journals WHERE is_offline = ? ORDER BY created_at`, true)
}

func (r *SQLRepository) Update(ctx context.Context, id string, patch models.EntryPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	set, args, err := buildSet(patch)
	if err != nil {
		return err
	}
	set = append(set, "updated_at = ?")
	args = append(args, models.FormatTime(r.now()), id)

	query := r.dialect.Rebind(`UPDATE journals SET ` + strings.Join(set, ", ") + ` WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return expectOneRow(res, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM journals WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOneRow(res, id)
}

func (r *SQLRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journals`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]*models.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []*models.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.JournalEntry, error) {
	var (
		e                  models.JournalEntry
		photos, tags, date string
		created, updated   string
	)
	if err := s.Scan(&e.ID, &e.Title, &e.Description, &photos, &date, &e.Location, &tags, &e.IsOffline, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if e.Photos, err = models.DecodeStrings(photos); err != nil {
		return nil, err
	}
	if e.Tags, err = models.DecodeStrings(tags); err != nil {
		return nil, err
	}
	if e.Date, err = models.ParseTime(date); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	return &e, nil
}

func buildSet(p models.EntryPatch) ([]string, []any, error) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Photos != nil {
		s, err := models.EncodeStrings(*p.Photos)
		if err != nil {
			return nil, nil, err
		}
		add("photos", s)
	}
	if p.Date != nil {
		add("date", models.FormatTime(*p.Date))
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.Tags != nil {
		s, err := models.EncodeStrings(*p.Tags)
		if err != nil {
			return nil, nil, err
		}
		add("tags", s)
	}
	if p.IsOffline != nil {
		add("is_offline", *p.IsOffline)
	}
	return set, args, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if n != 1 {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}
