package repositories

import (
	"context"
	"sort"

	"navhub/internal/models"

	"github.com/jackc/pgx/v5"
)

// ConfigRepository is the key/value store behind credentials and settings.
type ConfigRepository interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	// InitAdmin stores the admin credentials in one transaction. It reports
	// false and writes nothing when a password already exists.
	InitAdmin(ctx context.Context, username, passwordHash string) (bool, error)
	// SetMany writes all pairs in one transaction.
	SetMany(ctx context.Context, values map[string]string) error
}

type configRepo struct {
	db Database
}

func NewConfigRepo(db Database) ConfigRepository {
	return &configRepo{db: db}
}

const upsertConfigQuery = `
	INSERT INTO config (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`

func (r *configRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *configRepo) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM config WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

func (r *configRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, upsertConfigQuery, key, value)
	return err
}

func (r *configRepo) InitAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	inserted := false
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `INSERT INTO config (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`
		tag, err := tx.Exec(ctx, query, models.ConfigAdminPassword, passwordHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return nil
		}
		if _, err := tx.Exec(ctx, upsertConfigQuery, models.ConfigAdminUsername, username); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *configRepo) SetMany(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, key := range keys {
			if _, err := tx.Exec(ctx, upsertConfigQuery, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}
