package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// MMRRepo cachea las respuestas de Heroes Profile.
type MMRRepo struct{ db *DB }

func NewMMRRepo(db *DB) *MMRRepo { return &MMRRepo{db: db} }

func (r *MMRRepo) Get(ctx context.Context, battletag, mode string) (domain.PlayerMMR, error) {
	var m domain.PlayerMMR
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
SELECT battletag, game_mode, mmr, league_tier, games_played, fetched_at
  FROM player_mmr
 WHERE battletag = ? AND game_mode = ?
`), battletag, mode).Scan(&m.BattleTag, &m.GameMode, &m.MMR, &m.LeagueTier, &m.GamesPlayed, &m.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlayerMMR{}, ErrNotFound
	}
	return m, err
}

// List devuelve todos los modos cacheados del battletag, ordenados por modo.
func (r *MMRRepo) List(ctx context.Context, battletag string) ([]domain.PlayerMMR, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
SELECT battletag, game_mode, mmr, league_tier, games_played, fetched_at
  FROM player_mmr
 WHERE battletag = ?
 ORDER BY game_mode
`), battletag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlayerMMR
	for rows.Next() {
		var m domain.PlayerMMR
		if err := rows.Scan(&m.BattleTag, &m.GameMode, &m.MMR, &m.LeagueTier, &m.GamesPlayed, &m.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MMRRepo) Upsert(ctx context.Context, m domain.PlayerMMR) error {
	fetched := m.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
INSERT INTO player_mmr (battletag, game_mode, mmr, league_tier, games_played, fetched_at)
VALUES (?,?,?,?,?,?)
ON CONFLICT (battletag, game_mode) DO UPDATE SET
  mmr          = excluded.mmr,
  league_tier  = excluded.league_tier,
  games_played = excluded.games_played,
  fetched_at   = excluded.fetched_at
`), m.BattleTag, m.GameMode, m.MMR, m.LeagueTier, m.GamesPlayed, fetched.UTC())
	return err
}

func (r *MMRRepo) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM player_mmr WHERE fetched_at < ?`), t.UTC())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
