package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	// Create inserts the category at position within its scope, or appends
	// it when position is nil. The parent must exist and be a root.
	Create(ctx context.Context, category *models.Category, position *int) error
	// Update locks the row, lets mutate change name and parent, checks the
	// tree rules against the locked state, then moves the category to
	// position (or to the end of a new scope) and renumbers the scopes
	// involved.
	Update(ctx context.Context, id int64, position *int, mutate func(*models.Category) error) (*models.Category, error)
	// Delete removes the category, promotes its children to root, moves its
	// links to the uncategorized bucket and clears the default pointer.
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []models.OrderItem) error
	GetDefault(ctx context.Context) (*int64, error)
	SetDefault(ctx context.Context, id *int64) error
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, name, parent_id, sort_order, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	if err := row.Scan(&category.ID, &category.Name, &category.ParentID, &category.SortOrder, &category.CreatedAt); err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, common.NotFoundError("category")
		}
		return nil, err
	}
	return category, nil
}

// checkParent verifies, under the categories lock, that parentID names an
// existing root category.
func checkParent(ctx context.Context, q Querier, parentID int64) error {
	var grandParent *int64
	err := q.QueryRow(ctx, `SELECT parent_id FROM categories WHERE id = $1`, parentID).Scan(&grandParent)
	if err != nil {
		if isNoRows(err) {
			return common.NewError(common.ErrValidation, "parent category %d does not exist", parentID)
		}
		return err
	}
	if grandParent != nil {
		return common.NewError(common.ErrValidation, "categories can only be nested %d levels deep", models.MaxCategoryDepth)
	}
	return nil
}

func checkNoChildren(ctx context.Context, q Querier, id int64) error {
	var hasChildren bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&hasChildren)
	if err != nil {
		return err
	}
	if hasChildren {
		return common.NewError(common.ErrValidation, "a category with subcategories cannot become a subcategory")
	}
	return nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category, position *int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
			return err
		}
		if category.ParentID != nil {
			if err := checkParent(ctx, tx, *category.ParentID); err != nil {
				return err
			}
		}

		sortOrder, err := r.slotFor(ctx, tx, category.ParentID, position, 0)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO categories (name, parent_id, sort_order)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`
		if err := tx.QueryRow(ctx, query, category.Name, category.ParentID, sortOrder).
			Scan(&category.ID, &category.CreatedAt); err != nil {
			return err
		}

		if err := renumberScope(ctx, tx, "categories", "parent_id", category.ParentID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `SELECT sort_order FROM categories WHERE id = $1`, category.ID).Scan(&category.SortOrder)
	})
}

func (r *categoryRepo) Update(ctx context.Context, id int64, position *int, mutate func(*models.Category) error) (*models.Category, error) {
	var category *models.Category
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
			return err
		}

		query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 FOR UPDATE`
		current, err := scanCategory(tx.QueryRow(ctx, query, id))
		if err != nil {
			if isNoRows(err) {
				return common.NotFoundError("category")
			}
			return err
		}
		oldParent := current.ParentID
		if err := mutate(current); err != nil {
			return err
		}

		moved := !sameScope(oldParent, current.ParentID)
		if moved && current.ParentID != nil {
			if *current.ParentID == id {
				return common.NewError(common.ErrValidation, "a category cannot be its own parent")
			}
			if err := checkParent(ctx, tx, *current.ParentID); err != nil {
				return err
			}
			if err := checkNoChildren(ctx, tx, id); err != nil {
				return err
			}
		}

		sortOrder := current.SortOrder
		if moved || position != nil {
			if sortOrder, err = r.slotFor(ctx, tx, current.ParentID, position, id); err != nil {
				return err
			}
		}

		update := `UPDATE categories SET name = $1, parent_id = $2, sort_order = $3 WHERE id = $4`
		if _, err := tx.Exec(ctx, update, current.Name, current.ParentID, sortOrder, id); err != nil {
			return err
		}

		if moved {
			if err := renumberScope(ctx, tx, "categories", "parent_id", oldParent); err != nil {
				return err
			}
		}
		if err := renumberScope(ctx, tx, "categories", "parent_id", current.ParentID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT sort_order FROM categories WHERE id = $1`, id).Scan(&current.SortOrder); err != nil {
			return err
		}
		category = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// slotFor picks the sort_order for a row entering scope: position after
// shifting siblings, or the slot after the last sibling.
func (r *categoryRepo) slotFor(ctx context.Context, tx pgx.Tx, scope *int64, position *int, selfID int64) (int, error) {
	if position == nil {
		return nextSortOrder(ctx, tx, "categories", "parent_id", scope)
	}
	if err := shiftScope(ctx, tx, "categories", "parent_id", scope, *position, selfID); err != nil {
		return 0, err
	}
	return *position, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
			return err
		}
		if err := lockTable(ctx, tx, linksLockKey); err != nil {
			return err
		}

		var parentID *int64
		if err := tx.QueryRow(ctx, `SELECT parent_id FROM categories WHERE id = $1`, id).Scan(&parentID); err != nil {
			if isNoRows(err) {
				return common.NotFoundError("category")
			}
			return err
		}

		// Children become roots after the existing roots, keeping their order.
		promote := `
			UPDATE categories
			SET parent_id = NULL,
			    sort_order = sort_order + (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories WHERE parent_id IS NULL)
			WHERE parent_id = $1
		`
		if _, err := tx.Exec(ctx, promote, id); err != nil {
			return fmt.Errorf("promote child categories: %w", err)
		}

		uncategorize := `
			UPDATE links
			SET category_id = NULL,
			    sort_order = sort_order + (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM links WHERE category_id IS NULL)
			WHERE category_id = $1
		`
		if _, err := tx.Exec(ctx, uncategorize, id); err != nil {
			return fmt.Errorf("uncategorize links: %w", err)
		}

		clearDefault := `DELETE FROM config WHERE key = $1 AND value = $2`
		if _, err := tx.Exec(ctx, clearDefault, models.ConfigDefaultCategoryID, strconv.FormatInt(id, 10)); err != nil {
			return fmt.Errorf("clear default category: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return err
		}

		if parentID != nil {
			if err := renumberScope(ctx, tx, "categories", "parent_id", parentID); err != nil {
				return err
			}
		}
		if err := renumberScope(ctx, tx, "categories", "parent_id", nil); err != nil {
			return err
		}
		return renumberScope(ctx, tx, "links", "category_id", nil)
	})
}

func (r *categoryRepo) Reorder(ctx context.Context, items []models.OrderItem) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
			return err
		}

		rows, err := loadOrderRows(ctx, tx, `SELECT id, parent_id, sort_order FROM categories FOR UPDATE`)
		if err != nil {
			return err
		}

		changes, err := planReorder(rows, items, "category")
		if err != nil {
			return err
		}
		return applyOrderChanges(ctx, tx, "categories", changes)
	})
}

func (r *categoryRepo) GetDefault(ctx context.Context) (*int64, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, models.ConfigDefaultCategoryID).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt default category value %q: %w", value, err)
	}
	return &id, nil
}

func (r *categoryRepo) SetDefault(ctx context.Context, id *int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockTable(ctx, tx, categoriesLockKey); err != nil {
			return err
		}

		if id == nil {
			_, err := tx.Exec(ctx, `DELETE FROM config WHERE key = $1`, models.ConfigDefaultCategoryID)
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, *id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return common.NotFoundError("category")
		}

		upsert := `
			INSERT INTO config (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`
		_, err := tx.Exec(ctx, upsert, models.ConfigDefaultCategoryID, strconv.FormatInt(*id, 10))
		return err
	})
}

func loadOrderRows(ctx context.Context, q Querier, query string) ([]orderRow, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []orderRow
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.ID, &row.Scope, &row.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func applyOrderChanges(ctx context.Context, q Querier, table string, changes map[int64]int) error {
	ids := make([]int64, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	query := fmt.Sprintf(`UPDATE %s SET sort_order = $1 WHERE id = $2`, table)
	for _, id := range ids {
		if _, err := q.Exec(ctx, query, changes[id], id); err != nil {
			return fmt.Errorf("update %s order: %w", table, err)
		}
	}
	return nil
}
