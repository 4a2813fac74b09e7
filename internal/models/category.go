package models

import "time"

// MaxCategoryDepth is the number of tree levels: roots and their direct children.
const MaxCategoryDepth = 2

type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parent_id" db:"parent_id"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsDefault bool      `json:"is_default" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the category sits at the top level.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryInput carries the fields of a create request.
type CategoryInput struct {
	Name      string
	ParentID  *int64
	SortOrder *int
}

// CategoryUpdate is a partial update; nil/absent fields are left untouched.
type CategoryUpdate struct {
	Name      *string
	ParentID  OptionalInt64
	SortOrder *int
}

// OrderItem is one entry of a drag-and-drop reorder request.
type OrderItem struct {
	ID        int64 `json:"id" validate:"required,gt=0"`
	SortOrder int   `json:"sort_order" validate:"gte=0"`
}

// DefaultCategory is the response shape of the default-category endpoint.
type DefaultCategory struct {
	CategoryID *int64 `json:"default_category_id"`
}
