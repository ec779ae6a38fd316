package models

// WireEntry is the body posted to the entries endpoint. Photos and Tags are
// JSON-encoded strings, matching how the service stores them.
type WireEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Photos      string `json:"photos"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Tags        string `json:"tags"`
	IsOffline   bool   `json:"isOffline"`
	CreatedAt   string `json:"createdAt"`
}

// ToWire converts e into its wire form.
func ToWire(e *JournalEntry) (WireEntry, error) {
	photos, err := EncodeStrings(e.Photos)
	if err != nil {
		return WireEntry{}, err
	}
	tags, err := EncodeStrings(e.Tags)
	if err != nil {
		return WireEntry{}, err
	}

	w := WireEntry{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Photos:      photos,
		Location:    e.Location,
		Tags:        tags,
		IsOffline:   e.IsOffline,
	}
	if !e.Date.IsZero() {
		w.Date = FormatTime(e.Date)
	}
	if !e.CreatedAt.IsZero() {
		w.CreatedAt = FormatTime(e.CreatedAt)
	}
	return w, nil
}
