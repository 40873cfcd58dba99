package model

import "slices"

// Tag is a reusable label attached to entries.
type Tag struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt Timestamp `json:"created_at" db:"created_at"`
}

// NormalizeTags turns client input into the canonical tag set: every name is
// trimmed and lowercased, empty names are dropped, duplicates collapse and the
// result is sorted. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if name := NormalizeName(t); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
