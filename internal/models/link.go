package models

import "time"

type Link struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	URL         string    `json:"url" db:"url"`
	Icon        *string   `json:"icon" db:"icon"`
	Description *string   `json:"description" db:"description"`
	CategoryID  *int64    `json:"category_id" db:"category_id"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsHidden    bool      `json:"is_hidden" db:"is_hidden"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type LinkInput struct {
	Title       string
	URL         string
	Icon        *string
	Description *string
	CategoryID  *int64
	SortOrder   *int
	IsHidden    bool
}

type LinkUpdate struct {
	Title       *string
	URL         *string
	Icon        *string
	Description *string
	CategoryID  OptionalInt64
	SortOrder   *int
	IsHidden    *bool
}

// LinkFilter narrows a link listing.
type LinkFilter struct {
	IncludeHidden bool
	// CategoryID restricts results to one scope when Present; a nil Value
	// selects the uncategorized bucket.
	CategoryID OptionalInt64
}
