// Package entries is the persistence layer for journal entries.
//
// # Overview
//
// Repository describes the CRUD operations used by the journal service and
// the two queries the sync coordinator depends on: ListUnsynced, which
// returns entries still flagged offline, and Update, which applies an
// EntryPatch in a single UPDATE statement so the offline flag and merged tags
// change together.
//
// SQLRepository implements Repository over a dbx.DBTX (either *sql.DB or
// *sql.Tx) for both SQLite and PostgreSQL. The dialect only changes the
// placeholder style and the migrations used to create the journals table.
//
// # Data Model
//
// Photos and tags are stored as JSON text. They are encoded once on write and
// decoded once on read; callers always see []string. Dates are stored as
// RFC 3339 text in UTC.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, entry)            // assigns entry.ID
//	pending, _ := repo.ListUnsynced(ctx)
//	_ = repo.Update(ctx, id, models.SyncedPatch(tags))
package entries
