package model

import "strings"

// Category is a named classification. An entry's Kind must equal a category Name.
type Category struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   Timestamp `json:"created_at"  db:"created_at"`
}

// CategoryPatch is a partial category update. A nil field is left unchanged.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// NormalizeName trims and lowercases a category or tag name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
