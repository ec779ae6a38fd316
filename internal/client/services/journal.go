package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/dbx"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
)

// EntryStore gives access to the entries repository, optionally inside a
// transaction. storage.Store implements it.
type EntryStore interface {
	Entries(db dbx.DBTX) entries.Repository
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
}

// EntryInput carries user-supplied fields for Add and Edit.
type EntryInput struct {
	Title       string
	Description string
	Photos      []string
	Date        time.Time
	Location    string
	Tags        []string
}

// JournalService is the local CRUD surface used by the CLI. Every write
// leaves the entry offline so the next sync pass picks it up.
type JournalService struct {
	store EntryStore
	repo  entries.Repository
	log   logging.Logger
	now   func() time.Time
}

func NewJournalService(store EntryStore, db dbx.DBTX, log logging.Logger) *JournalService {
	return &JournalService{
		store: store,
		repo:  store.Entries(db),
		log:   log,
		now:   time.Now,
	}
}

func (s *JournalService) Add(ctx context.Context, in EntryInput) (*models.JournalEntry, error) {
	e, err := s.build(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "entry added", "entry_id", e.ID, "photos", len(e.Photos))
	return e, nil
}

func (s *JournalService) List(ctx context.Context) ([]*models.JournalEntry, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return list, nil
}

func (s *JournalService) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	}
	return e, nil
}

// Edit replaces the user fields of an entry and marks it offline again.
// Tags are kept unless the input carries some or the photo set changed.
func (s *JournalService) Edit(ctx context.Context, id string, in EntryInput) (*models.JournalEntry, error) {
	want, err := s.build(in)
	if err != nil {
		return nil, err
	}

	var updated *models.JournalEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Entries(tx)

		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		offline := true
		patch := models.EntryPatch{
			Title:       &want.Title,
			Description: &want.Description,
			Photos:      &want.Photos,
			Date:        &want.Date,
			Location:    &want.Location,
			IsOffline:   &offline,
		}
		switch {
		case len(want.Tags) > 0:
			patch.Tags = &want.Tags
		case !slices.Equal(cur.Photos, want.Photos):
			// tags describe the old photos; clearing them lets the next
			// pass classify the new set
			none := []string{}
			patch.Tags = &none
		}
		if err := repo.Update(ctx, id, patch); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, cur.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error editing entry: %w", err)
	}

	s.log.Info(ctx, "entry edited", "entry_id", id)
	return updated, nil
}

func (s *JournalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	s.log.Info(ctx, "entry deleted", "entry_id", id)
	return nil
}

// Clear removes every local entry.
func (s *JournalService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error clearing entries: %w", err)
	}
	s.log.Info(ctx, "journal cleared", "removed", n)
	return n, nil
}

// Search returns entries whose title, description or one of the tags
// contains text, ignoring case. Blank text matches everything.
func (s *JournalService) Search(ctx context.Context, text string) ([]*models.JournalEntry, error) {
	return s.Filter(ctx, EntryFilter{Text: text})
}

// EntryFilter narrows List. Zero fields do not filter.
type EntryFilter struct {
	Text string

	// The date range applies only when both ends are set; both are inclusive.
	From time.Time
	To   time.Time

	// Entries farther than RadiusKm from (Lat, Lon) are dropped, as are
	// entries with an unknown location. RadiusKm <= 0 disables the check.
	Lat, Lon float64
	RadiusKm float64
}

// Filter returns entries matching every criterion in f, newest first.
func (s *JournalService) Filter(ctx context.Context, f EntryFilter) ([]*models.JournalEntry, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.JournalEntry, 0, len(list))
	for _, e := range list {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f EntryFilter) matches(e *models.JournalEntry) bool {
	if !f.From.IsZero() && !f.To.IsZero() {
		if e.Date.Before(f.From) || e.Date.After(f.To) {
			return false
		}
	}

	if f.RadiusKm > 0 {
		lat, lon, ok := models.ParseLocation(e.Location)
		if !ok || models.DistanceKm(f.Lat, f.Lon, lat, lon) > f.RadiusKm {
			return false
		}
	}

	term := strings.ToLower(strings.TrimSpace(f.Text))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func (s *JournalService) build(in EntryInput) (*models.JournalEntry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	photos := make([]string, 0, len(in.Photos))
	for _, p := range in.Photos {
		if p = strings.TrimSpace(p); p != "" {
			photos = append(photos, p)
		}
	}
	if len(photos) > models.MaxPhotos {
		return nil, fmt.Errorf("%w: at most %d photos per entry", common.ErrValidation, models.MaxPhotos)
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	return &models.JournalEntry{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Photos:      photos,
		Date:        date,
		Location:    models.NormalizeLocation(in.Location),
		Tags:        models.MergeTags(in.Tags),
		IsOffline:   true,
	}, nil
}
