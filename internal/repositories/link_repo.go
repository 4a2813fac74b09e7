package repositories

import (
	"context"
	"fmt"
	"strings"

	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/jackc/pgx/v5"
)

type LinkRepository interface {
	List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error)
	GetByID(ctx context.Context, id int64) (*models.Link, error)
	// Create inserts the link at position within its category, or appends it.
	// The category must exist.
	Create(ctx context.Context, link *models.Link, position *int) error
	// Update locks the row, applies mutate to the current state and writes
	// the result. A category set by mutate must exist.
	Update(ctx context.Context, id int64, position *int, mutate func(*models.Link) error) (*models.Link, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []models.OrderItem) error
}

type linkRepo struct {
	db Database
}

func NewLinkRepo(db Database) LinkRepository {
	return &linkRepo{db: db}
}

const linkColumns = `id, title, url, icon, description, category_id, sort_order, is_hidden, created_at`

func scanLink(row pgx.Row) (*models.Link, error) {
	link := &models.Link{}
	err := row.Scan(&link.ID, &link.Title, &link.URL, &link.Icon, &link.Description,
		&link.CategoryID, &link.SortOrder, &link.IsHidden, &link.CreatedAt)
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *linkRepo) List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error) {
	var conditions []string
	var args []interface{}

	if !filter.IncludeHidden {
		conditions = append(conditions, "is_hidden = FALSE")
	}
	if filter.CategoryID.Present {
		args = append(args, filter.CategoryID.Value)
		conditions = append(conditions, fmt.Sprintf("category_id IS NOT DISTINCT FROM $%d", len(args)))
	}

	query := `SELECT ` + linkColumns + ` FROM links`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sort_order, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *linkRepo) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	link, err := scanLink(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, common.NotFoundError("link")
		}
		return nil, err
	}
	return link, nil
}

// lockForLinkWrite takes the categories lock before the links lock, the same
// order category deletion uses, so the category checked stays in place until
// commit.
func lockForLinkWrite(ctx context.Context, tx pgx.Tx) error {
	if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
		return err
	}
	return lockTable(ctx, tx, linksLockKey)
}

func checkCategoryExists(ctx context.Context, q Querier, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, *categoryID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return common.NewError(common.ErrValidation, "category %d does not exist", *categoryID)
	}
	return nil
}

func (r *linkRepo) Create(ctx context.Context, link *models.Link, position *int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockForLinkWrite(ctx, tx); err != nil {
			return err
		}
		if err := checkCategoryExists(ctx, tx, link.CategoryID); err != nil {
			return err
		}

		sortOrder, err := r.slotFor(ctx, tx, link.CategoryID, position, 0)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO links (title, url, icon, description, category_id, sort_order, is_hidden)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
		err = tx.QueryRow(ctx, query, link.Title, link.URL, link.Icon, link.Description,
			link.CategoryID, sortOrder, link.IsHidden).Scan(&link.ID, &link.CreatedAt)
		if err != nil {
			return err
		}

		if err := renumberScope(ctx, tx, "links", "category_id", link.CategoryID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `SELECT sort_order FROM links WHERE id = $1`, link.ID).Scan(&link.SortOrder)
	})
}

func (r *linkRepo) Update(ctx context.Context, id int64, position *int, mutate func(*models.Link) error) (*models.Link, error) {
	var link *models.Link
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockForLinkWrite(ctx, tx); err != nil {
			return err
		}

		query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1 FOR UPDATE`
		current, err := scanLink(tx.QueryRow(ctx, query, id))
		if err != nil {
			if isNoRows(err) {
				return common.NotFoundError("link")
			}
			return err
		}
		oldCategory := current.CategoryID
		if err := mutate(current); err != nil {
			return err
		}

		moved := !sameScope(oldCategory, current.CategoryID)
		if moved {
			if err := checkCategoryExists(ctx, tx, current.CategoryID); err != nil {
				return err
			}
		}

		sortOrder := current.SortOrder
		if moved || position != nil {
			if sortOrder, err = r.slotFor(ctx, tx, current.CategoryID, position, id); err != nil {
				return err
			}
		}

		update := `
			UPDATE links
			SET title = $1, url = $2, icon = $3, description = $4, category_id = $5, sort_order = $6, is_hidden = $7
			WHERE id = $8
		`
		_, err = tx.Exec(ctx, update, current.Title, current.URL, current.Icon, current.Description,
			current.CategoryID, sortOrder, current.IsHidden, id)
		if err != nil {
			return err
		}

		if moved {
			if err := renumberScope(ctx, tx, "links", "category_id", oldCategory); err != nil {
				return err
			}
		}
		if err := renumberScope(ctx, tx, "links", "category_id", current.CategoryID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT sort_order FROM links WHERE id = $1`, id).Scan(&current.SortOrder); err != nil {
			return err
		}
		link = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *linkRepo) slotFor(ctx context.Context, tx pgx.Tx, scope *int64, position *int, selfID int64) (int, error) {
	if position == nil {
		return nextSortOrder(ctx, tx, "links", "category_id", scope)
	}
	if err := shiftScope(ctx, tx, "links", "category_id", scope, *position, selfID); err != nil {
		return 0, err
	}
	return *position, nil
}

func (r *linkRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, linksLockKey); err != nil {
			return err
		}

		var categoryID *int64
		err := tx.QueryRow(ctx, `DELETE FROM links WHERE id = $1 RETURNING category_id`, id).Scan(&categoryID)
		if err != nil {
			if isNoRows(err) {
				return common.NotFoundError("link")
			}
			return err
		}
		return renumberScope(ctx, tx, "links", "category_id", categoryID)
	})
}

func (r *linkRepo) Reorder(ctx context.Context, items []models.OrderItem) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, linksLockKey); err != nil {
			return err
		}

		rows, err := loadOrderRows(ctx, tx, `SELECT id, category_id, sort_order FROM links FOR UPDATE`)
		if err != nil {
			return err
		}

		changes, err := planReorder(rows, items, "link")
		if err != nil {
			return err
		}
		return applyOrderChanges(ctx, tx, "links", changes)
	})
}
