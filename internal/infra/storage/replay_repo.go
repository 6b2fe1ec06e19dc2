package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

type ReplayRepo struct{ db *DB }

func NewReplayRepo(db *DB) *ReplayRepo { return &ReplayRepo{db: db} }

// Insert es append-only: un match_id repetido devuelve ErrDuplicateReplay y no toca nada.
func (r *ReplayRepo) Insert(ctx context.Context, rp domain.Replay) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx, r.db.rebind(`SELECT 1 FROM replay_matches WHERE match_id = ?`), rp.MatchID).Scan(&one)
	switch {
	case err == nil:
		return ErrDuplicateReplay
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	if _, err = tx.ExecContext(ctx, r.db.rebind(`
INSERT INTO replay_matches
  (match_id, map_name, game_mode, played_at, duration_seconds, winner_team, source_file, imported_at)
VALUES (?,?,?,?,?,?,?,?)
`), rp.MatchID, rp.MapName, rp.GameMode, rp.PlayedAt.UTC(), rp.DurationSeconds, rp.WinnerTeam, rp.SourceFile, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	insPlayer := r.db.rebind(`
INSERT INTO replay_players (match_id, slot, battletag, hero, team, won)
VALUES (?,?,?,?,?,?)`)
	insStat := r.db.rebind(`
INSERT INTO replay_stats (match_id, slot, stat, value)
VALUES (?,?,?,?)`)

	for _, p := range rp.Players {
		if _, err = tx.ExecContext(ctx, insPlayer, rp.MatchID, p.Slot, p.BattleTag, p.Hero, p.Team, p.Won(rp.WinnerTeam)); err != nil {
			return fmt.Errorf("insert player slot %d: %w", p.Slot, err)
		}
		for stat, v := range p.Stats {
			if _, err = tx.ExecContext(ctx, insStat, rp.MatchID, p.Slot, stat, v); err != nil {
				return fmt.Errorf("insert stat %s slot %d: %w", stat, p.Slot, err)
			}
		}
	}
	return tx.Commit()
}

type ReplayCounts struct {
	Matches int
	Players int
	Stats   int
}

func (r *ReplayRepo) Counts(ctx context.Context) (ReplayCounts, error) {
	var c ReplayCounts
	err := r.db.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM replay_matches),
       (SELECT COUNT(*) FROM replay_players),
       (SELECT COUNT(*) FROM replay_stats)
`).Scan(&c.Matches, &c.Players, &c.Stats)
	return c, err
}

// HeroRecord: partidas y victorias por héroe de un battletag.
type HeroRecord struct {
	Hero  string
	Games int
	Wins  int
}

func (r *ReplayRepo) HeroRecords(ctx context.Context, battletag string, limit int) ([]HeroRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
SELECT hero, COUNT(*) AS games, SUM(CASE WHEN won THEN 1 ELSE 0 END) AS wins
  FROM replay_players
 WHERE battletag = ?
 GROUP BY hero
 ORDER BY games DESC, hero ASC
 LIMIT ?
`), battletag, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeroRecord
	for rows.Next() {
		var h HeroRecord
		if err := rows.Scan(&h.Hero, &h.Games, &h.Wins); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// PruneBefore borra partidas (y sus filas hijas) jugadas antes de t.
func (r *ReplayRepo) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	cut := t.UTC()
	sub := `SELECT match_id FROM replay_matches WHERE played_at < ?`
	if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM replay_stats WHERE match_id IN (`+sub+`)`), cut); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM replay_players WHERE match_id IN (`+sub+`)`), cut); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM replay_matches WHERE played_at < ?`), cut)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}
