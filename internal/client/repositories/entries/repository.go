package entries

import (
	"context"

	"github.com/dmitrijs2005/traveljournal/internal/client/models"
)

// Repository describes storage operations for journal entries.
type Repository interface {
	// Insert stores a new entry. It assigns ID, CreatedAt and UpdatedAt.
	Insert(ctx context.Context, e *models.JournalEntry) error

	// GetByID returns common.ErrNotFound when no entry has the id.
	GetByID(ctx context.Context, id string) (*models.JournalEntry, error)

	// List returns all entries, newest date first.
	List(ctx context.Context) ([]*models.JournalEntry, error)

	// ListUnsynced returns entries whose IsOffline flag is set, oldest first.
	ListUnsynced(ctx context.Context) ([]*models.JournalEntry, error)

	// Update applies patch to one entry in a single statement.
	Update(ctx context.Context, id string, patch models.EntryPatch) error

	Delete(ctx context.Context, id string) error

	// DeleteAll removes every entry and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
