// Package models defines the journal entry and the helpers that keep its
// photos, tags and location in canonical form.
package models

import "time"

const (
	// UnknownLocation is stored when no coordinates were captured.
	UnknownLocation = "Unknown"

	// MaxPhotos is the number of photos the client lets a user attach.
	MaxPhotos = 5
)

// JournalEntry is a travel journal record persisted locally and mirrored to
// the remote service.
type JournalEntry struct {
	// ID is assigned by the store on insert and never changes.
	ID string

	Title       string
	Description string

	// Photos holds opaque image references in the order they were attached.
	Photos []string

	Date time.Time

	// Location is "<lat>,<lon>" or UnknownLocation.
	Location string

	// Tags is deduplicated and keeps insertion order.
	Tags []string

	// IsOffline is true until the entry has been accepted by the remote
	// service. Only a successful sync clears it; a local edit sets it again.
	IsOffline bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NeedsEnrichment reports whether the entry has photos but no tags yet.
func (e *JournalEntry) NeedsEnrichment() bool {
	return len(e.Photos) > 0 && len(e.Tags) == 0
}

// Clone returns a deep copy so callers can change slices freely.
func (e *JournalEntry) Clone() *JournalEntry {
	c := *e
	c.Photos = append([]string(nil), e.Photos...)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}

// EntryPatch lists the columns to change in one update. Nil fields are left
// untouched.
type EntryPatch struct {
	Title       *string
	Description *string
	Photos      *[]string
	Date        *time.Time
	Location    *string
	Tags        *[]string
	IsOffline   *bool
}

func (p EntryPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Photos == nil && p.Date == nil &&
		p.Location == nil && p.Tags == nil && p.IsOffline == nil
}

// SyncedPatch is the single update applied after the remote service accepted
// an entry: clear the offline flag and store the merged tags.
func SyncedPatch(tags []string) EntryPatch {
	synced := false
	merged := MergeTags(tags)
	return EntryPatch{IsOffline: &synced, Tags: &merged}
}
