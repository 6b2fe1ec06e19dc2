package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/metrics"
)

// Entry es un par (userID, Player) del listado ordenado.
type Entry struct {
	UserID string
	Player domain.Player
}

// RosterStore es el dueño único del roster. Nunca entrega punteros al mapa:
// toda mutación es un read-modify-write bajo el lock.
type RosterStore struct {
	mu      sync.Mutex
	players map[string]domain.Player

	saveMu    sync.Mutex
	persister RosterPersister
}

func NewRosterStore(p RosterPersister) *RosterStore {
	return &RosterStore{players: map[string]domain.Player{}, persister: p}
}

// Load hidrata desde el snapshot. Un error acá tiene que cortar el arranque.
func (s *RosterStore) Load() error {
	m, err := s.persister.Load()
	if err != nil {
		return err
	}
	if m == nil {
		m = map[string]domain.Player{}
	}
	s.mu.Lock()
	s.players = m
	n := s.activeLocked()
	s.mu.Unlock()
	metrics.ActivePlayers.Set(float64(n))
	return nil
}

func (s *RosterStore) Get(userID string) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[userID]
	return p, ok
}

func (s *RosterStore) Lookup(userID string) (domain.Player, domain.Presence) {
	p, ok := s.Get(userID)
	return p, domain.PresenceOf(p, ok)
}

// Set pisa el registro completo (join).
func (s *RosterStore) Set(userID string, p domain.Player) {
	s.mu.Lock()
	s.players[userID] = p
	s.mu.Unlock()
}

// Update aplica fn sobre el registro existente. false si no existe.
func (s *RosterStore) Update(userID string, fn func(p *domain.Player)) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[userID]
	if !ok {
		return domain.Player{}, false
	}
	fn(&p)
	s.players[userID] = p
	return p, true
}

// Upsert: si existe aplica fn, si no guarda create. Devuelve si ya existía.
func (s *RosterStore) Upsert(userID string, create domain.Player, fn func(p *domain.Player)) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[userID]
	if !ok {
		s.players[userID] = create
		return create, false
	}
	fn(&p)
	s.players[userID] = p
	return p, true
}

// DeactivateAll marca a todos como inactivos; devuelve cuántos estaban activos.
func (s *RosterStore) DeactivateAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, p := range s.players {
		if p.Active {
			p.Active = false
			s.players[id] = p
			n++
		}
	}
	return n
}

// Snapshot: copia ordenada por userID.
func (s *RosterStore) Snapshot() []Entry {
	s.mu.Lock()
	out := make([]Entry, 0, len(s.players))
	for id, p := range s.players {
		out = append(out, Entry{UserID: id, Player: p})
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Active: sólo los que ocupan lugar en el lobby, mismo orden que Snapshot.
func (s *RosterStore) Active() []Entry {
	all := s.Snapshot()
	out := all[:0]
	for _, e := range all {
		if e.Player.Active {
			out = append(out, e)
		}
	}
	return out
}

// Save persiste una copia del mapa. El error se loguea y se devuelve para tests,
// pero ningún handler lo muestra al usuario: el estado en memoria sigue mandando.
func (s *RosterStore) Save(ctx context.Context) error {
	// saveMu antes de copiar: un save viejo nunca pisa a uno más nuevo.
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	cp := make(map[string]domain.Player, len(s.players))
	for id, p := range s.players {
		cp[id] = p
	}
	n := s.activeLocked()
	s.mu.Unlock()
	metrics.ActivePlayers.Set(float64(n))

	if err := s.persister.Save(cp); err != nil {
		metrics.RosterSaves.WithLabelValues("error").Inc()
		log.Ctx(ctx).Error().Err(err).Int("players", len(cp)).Msg("roster save failed")
		return err
	}
	metrics.RosterSaves.WithLabelValues("ok").Inc()
	return nil
}

func (s *RosterStore) activeLocked() int {
	n := 0
	for _, p := range s.players {
		if p.Active {
			n++
		}
	}
	return n
}
