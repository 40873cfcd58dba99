// Package model defines the read models and input bundles exchanged between the
// HTTP handlers, the services and the store.
package model

import "strconv"

// Entry statuses. An entry's status is always one of these four values.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDropped    = "dropped"
)

// Statuses lists the allowed statuses in lifecycle order.
var Statuses = []string{StatusPlanned, StatusInProgress, StatusCompleted, StatusDropped}

// Default values applied by the services when a client omits a field.
const (
	DefaultKind          = "note"
	SourceManual         = "manual"
	SourceQuickCapture   = "quick-capture"
	telegramSourcePrefix = "telegram:"
)

// TelegramSource builds the provenance tag for entries captured from a Telegram chat.
func TelegramSource(chatID int64) string {
	return telegramSourcePrefix + strconv.FormatInt(chatID, 10)
}

// Entry is a captured item: a book, an article, a note, a link...
//
// Tags is never nil in a read model; an entry without tags has an empty slice so
// clients always receive a JSON array.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	URL       *string   `json:"url"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// NewEntry carries already-defaulted values for an insert. The store generates the ID.
type NewEntry struct {
	Title  string
	Kind   string
	Status string
	Notes  string
	URL    *string
	Source string
	Tags   []string
}

// EntryPatch is a partial update. A nil field is left unchanged.
// Tags, when non-nil, replaces the entry's whole tag set (an empty slice clears it).
type EntryPatch struct {
	Title  *string   `json:"title"`
	Kind   *string   `json:"kind"`
	Status *string   `json:"status"`
	Notes  *string   `json:"notes"`
	URL    *string   `json:"url"`
	Source *string   `json:"source"`
	Tags   *[]string `json:"tags"`
}

// Paging bounds for entry listings.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// EntryFilter holds the optional list filters. A nil filter imposes no constraint.
type EntryFilter struct {
	Kind   *string
	Status *string
	Search *string
	Tag    *string
	Limit  *int
	Offset *int
}

// Page returns the clamped limit and offset: limit in [1, MaxListLimit] with
// DefaultListLimit when unset, offset >= 0 with 0 when unset.
func (f EntryFilter) Page() (limit, offset int) {
	limit = DefaultListLimit
	if f.Limit != nil {
		limit = min(max(*f.Limit, 1), MaxListLimit)
	}
	if f.Offset != nil {
		offset = max(*f.Offset, 0)
	}
	return limit, offset
}
