package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

type memPersister struct {
	mu      sync.Mutex
	data    map[string]domain.Player
	saves   int
	failing error
}

func (m *memPersister) Load() (map[string]domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Player{}
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memPersister) Save(p map[string]domain.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	m.data = p
	m.saves++
	return nil
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	msgs  []string
	fails int // cuántas llamadas fallan antes de andar
}

func (f *fakeAnnouncer) Announce(_ context.Context, guildID, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return errors.New("discord down")
	}
	f.msgs = append(f.msgs, guildID+"|"+msg)
	return nil
}

func newLobby() (*LobbyService, *memPersister, *fakeAnnouncer) {
	p := &memPersister{}
	a := &fakeAnnouncer{}
	svc := NewLobbyService(NewRosterStore(p), a)
	svc.retryWait = 0
	return svc, p, a
}

type memChannels map[string]storage.Channel

func (m memChannels) Save(_ context.Context, tag, id, name string) error {
	m[tag] = storage.Channel{Tag: tag, ChannelID: id, ChannelName: name}
	return nil
}

func (m memChannels) GetMany(_ context.Context, tags []string) (map[string]storage.Channel, error) {
	out := map[string]storage.Channel{}
	for _, t := range tags {
		if c, ok := m[t]; ok {
			out[t] = c
		}
	}
	return out, nil
}

func (m memChannels) GetAll(_ context.Context) (map[string]storage.Channel, error) {
	out := map[string]storage.Channel{}
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

type memSettings map[string]string

func (m memSettings) GetOr(_ context.Context, key, def string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m memSettings) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type memAccounts struct {
	rows    map[string]domain.AccountStats
	upserts int
}

func (m *memAccounts) Get(_ context.Context, tag string) (domain.AccountStats, error) {
	a, ok := m.rows[tag]
	if !ok {
		return domain.AccountStats{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) Upsert(_ context.Context, a domain.AccountStats) error {
	if m.rows == nil {
		m.rows = map[string]domain.AccountStats{}
	}
	m.rows[a.BattleTag] = a
	m.upserts++
	return nil
}

type memReplays struct {
	seen    map[string]bool
	records []storage.HeroRecord
}

func (m *memReplays) Insert(_ context.Context, rp domain.Replay) error {
	if rp.MatchID == "" {
		return errors.New("missing match id")
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[rp.MatchID] {
		return storage.ErrDuplicateReplay
	}
	m.seen[rp.MatchID] = true
	return nil
}

func (m *memReplays) HeroRecords(_ context.Context, _ string, limit int) ([]storage.HeroRecord, error) {
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

type memMMR map[string]domain.PlayerMMR

func (m memMMR) List(_ context.Context, tag string) ([]domain.PlayerMMR, error) {
	var out []domain.PlayerMMR
	for k, v := range m {
		if strings.HasPrefix(k, tag+"|") {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameMode < out[j].GameMode })
	return out, nil
}

func (m memMMR) Upsert(_ context.Context, v domain.PlayerMMR) error {
	m[v.BattleTag+"|"+v.GameMode] = v
	return nil
}

type fakeSource struct {
	out   []domain.PlayerMMR
	err   error
	calls int
}

func (f *fakeSource) GetMMR(_ context.Context, tag string) ([]domain.PlayerMMR, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.PlayerMMR, len(f.out))
	for i, m := range f.out {
		m.BattleTag = tag
		out[i] = m
	}
	return out, nil
}
