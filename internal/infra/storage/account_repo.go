package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

type AccountRepo struct{ db *DB }

func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Get(ctx context.Context, battletag string) (domain.AccountStats, error) {
	var a domain.AccountStats
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
SELECT battletag, region, games_played, wins, mmr, updated_at
  FROM account_stats
 WHERE battletag = ?
`), battletag).Scan(&a.BattleTag, &a.Region, &a.GamesPlayed, &a.Wins, &a.MMR, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AccountStats{}, ErrNotFound
	}
	return a, err
}

func (r *AccountRepo) Upsert(ctx context.Context, a domain.AccountStats) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
INSERT INTO account_stats (battletag, region, games_played, wins, mmr, updated_at)
VALUES (?,?,?,?,?,?)
ON CONFLICT (battletag) DO UPDATE SET
  region       = excluded.region,
  games_played = excluded.games_played,
  wins         = excluded.wins,
  mmr          = excluded.mmr,
  updated_at   = excluded.updated_at
`), a.BattleTag, a.Region, a.GamesPlayed, a.Wins, a.MMR, time.Now().UTC())
	return err
}
