package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const SettingAnnounceChannel = "announce_channel"

type SettingsRepo struct{ db *DB }

func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// GetOr devuelve def si la key no existe.
func (r *SettingsRepo) GetOr(ctx context.Context, key, def string) (string, error) {
	v, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
INSERT INTO settings (key, value, updated_at)
VALUES (?,?,?)
ON CONFLICT (key) DO UPDATE SET
  value      = excluded.value,
  updated_at = excluded.updated_at
`), key, value, time.Now().UTC())
	return err
}
