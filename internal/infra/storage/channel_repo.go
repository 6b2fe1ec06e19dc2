package storage

import (
	"context"
	"time"
)

// Channel: tag del registro (lobby, team1, team2) -> canal de Discord.
type Channel struct {
	Tag         string
	ChannelID   string
	ChannelName string
	UpdatedAt   time.Time
}

type ChannelRepo struct{ db *DB }

func NewChannelRepo(db *DB) *ChannelRepo { return &ChannelRepo{db: db} }

// Save hace upsert por tag; gana la última escritura.
func (r *ChannelRepo) Save(ctx context.Context, tag, channelID, channelName string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
INSERT INTO channels (tag, channel_id, channel_name, updated_at)
VALUES (?,?,?,?)
ON CONFLICT (tag) DO UPDATE SET
  channel_id   = excluded.channel_id,
  channel_name = excluded.channel_name,
  updated_at   = excluded.updated_at
`), tag, channelID, channelName, time.Now().UTC())
	return err
}

// GetMany devuelve sólo los tags que existen; los ausentes no aparecen en el mapa.
func (r *ChannelRepo) GetMany(ctx context.Context, tags []string) (map[string]Channel, error) {
	out := map[string]Channel{}
	if len(tags) == 0 {
		return out, nil
	}
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}
	return r.query(ctx, `
SELECT tag, channel_id, channel_name, updated_at
  FROM channels
 WHERE tag IN (`+placeholders(len(tags))+`)`, args...)
}

func (r *ChannelRepo) GetAll(ctx context.Context) (map[string]Channel, error) {
	return r.query(ctx, `SELECT tag, channel_id, channel_name, updated_at FROM channels`)
}

func (r *ChannelRepo) query(ctx context.Context, q string, args ...any) (map[string]Channel, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]Channel{}
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.Tag, &c.ChannelID, &c.ChannelName, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out[c.Tag] = c
	}
	return out, rows.Err()
}
