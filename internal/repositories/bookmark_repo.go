package repositories

import (
	"context"

	"navhub/internal/common"
	"navhub/internal/models"
)

type BookmarkRepository interface {
	List(ctx context.Context) ([]*models.Bookmark, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, id int64) error
}

type bookmarkRepo struct {
	db Database
}

func NewBookmarkRepo(db Database) BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) List(ctx context.Context) ([]*models.Bookmark, error) {
	query := `SELECT id, title, url, created_at FROM bookmarks ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*models.Bookmark
	for rows.Next() {
		b := &models.Bookmark{}
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *bookmarkRepo) Create(ctx context.Context, bookmark *models.Bookmark) error {
	query := `INSERT INTO bookmarks (title, url) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, bookmark.Title, bookmark.URL).Scan(&bookmark.ID, &bookmark.CreatedAt)
}

func (r *bookmarkRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundError("bookmark")
	}
	return nil
}
