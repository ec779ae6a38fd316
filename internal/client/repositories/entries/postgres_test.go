package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewPostgresRepository(db)
	r.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	return r, mock
}

var pgColumns = []string{"id", "title", "description", "photos", "date", "location", "tags", "is_offline", "created_at", "updated_at"}

func TestPostgres_InsertUsesDollarPlaceholders(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`INSERT INTO journals \(id, .*updated_at\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\)`).
		WithArgs(sqlmock.AnyArg(), "Oslo", "", `["o.jpg"]`, "2024-07-01T12:00:00.000000000Z", models.UnknownLocation, `[]`, true,
			"2024-07-01T12:00:00.000000000Z", "2024-07-01T12:00:00.000000000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.JournalEntry{Title: "Oslo", Photos: []string{"o.jpg"}, IsOffline: true}
	require.NoError(t, r.Insert(context.Background(), e))
	assert.NotEmpty(t, e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListUnsynced(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	ts := "2024-07-01T12:00:00.000000000Z"

	rows := sqlmock.NewRows(pgColumns).
		AddRow("e1", "Rome", "", `["r.jpg"]`, ts, "41.9,12.5", `[]`, true, ts, ts).
		AddRow("e2", "Milan", "", `[]`, ts, "Unknown", `["duomo"]`, true, ts, ts)
	mock.ExpectQuery(`SELECT .* FROM journals WHERE is_offline = \$1 ORDER BY created_at`).
		WithArgs(true).
		WillReturnRows(rows)

	list, err := r.ListUnsynced(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"r.jpg"}, list[0].Photos)
	assert.Empty(t, list[0].Tags)
	assert.Equal(t, []string{"duomo"}, list[1].Tags)
	assert.True(t, list[1].IsOffline)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListUnsynced_BadJSON(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	ts := "2024-07-01T12:00:00.000000000Z"

	mock.ExpectQuery(`SELECT .* FROM journals WHERE is_offline`).
		WillReturnRows(sqlmock.NewRows(pgColumns).AddRow("e1", "Rome", "", `{oops`, ts, "Unknown", `[]`, true, ts, ts))

	_, err := r.ListUnsynced(context.Background())
	require.ErrorContains(t, err, "failed to scan entry")
}

func TestPostgres_UpdateSyncedSingleStatement(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`UPDATE journals SET tags = \$1, is_offline = \$2, updated_at = \$3 WHERE id = \$4`).
		WithArgs(`["beach","sea"]`, false, "2024-07-01T12:00:00.000000000Z", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Update(context.Background(), "e1", models.SyncedPatch([]string{"beach", "sea", "beach"})))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateNotFound(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`UPDATE journals SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Update(context.Background(), "nope", models.SyncedPatch(nil))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgres_UpdateExecError(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	boom := errors.New("conn reset")

	mock.ExpectExec(`UPDATE journals SET`).WillReturnError(boom)

	err := r.Update(context.Background(), "e1", models.SyncedPatch(nil))
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "failed to update entry")
}

func TestPostgres_GetByIDNoRows(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM journals WHERE id = \$1`).
		WithArgs("x").
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByID(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgres_DeleteRowsAffectedError(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`DELETE FROM journals WHERE id = \$1`).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	err := r.Delete(context.Background(), "e1")
	require.ErrorContains(t, err, "failed to get rows affected")
}
