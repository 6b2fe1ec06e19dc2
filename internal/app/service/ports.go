package service

import (
	"context"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.SnapshotFile
type RosterPersister interface {
	Load() (map[string]domain.Player, error)
	Save(players map[string]domain.Player) error
}

// Lo implementa internal/adapters/discord.Announcer
type Announcer interface {
	Announce(ctx context.Context, guildID, msg string) error
}

// Lo implementa internal/infra/storage.ChannelRepo
type ChannelRepo interface {
	Save(ctx context.Context, tag, channelID, channelName string) error
	GetMany(ctx context.Context, tags []string) (map[string]storage.Channel, error)
	GetAll(ctx context.Context) (map[string]storage.Channel, error)
}

// Lo implementa internal/infra/storage.SettingsRepo
type SettingsRepo interface {
	GetOr(ctx context.Context, key, def string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type AccountRepo interface {
	Get(ctx context.Context, battletag string) (domain.AccountStats, error)
	Upsert(ctx context.Context, a domain.AccountStats) error
}

type ReplayRepo interface {
	Insert(ctx context.Context, rp domain.Replay) error
	HeroRecords(ctx context.Context, battletag string, limit int) ([]storage.HeroRecord, error)
}

type MMRRepo interface {
	List(ctx context.Context, battletag string) ([]domain.PlayerMMR, error)
	Upsert(ctx context.Context, m domain.PlayerMMR) error
}

// Lo implementa internal/adapters/heroesprofile.Client
type MMRSource interface {
	GetMMR(ctx context.Context, battletag string) ([]domain.PlayerMMR, error)
}

// clock para tests
type nowFunc func() time.Time
