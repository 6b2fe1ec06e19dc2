package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/metrics"
)

// Controls: qué botones acompañan la respuesta privada.
type Controls int

const (
	ControlsNone Controls = iota
	ControlsActions
	ControlsRoleSelector
)

// Outcome es lo que produce cada handler: respuesta privada, anuncio público
// opcional y un eco opcional (lista cruda para /players por botón).
type Outcome struct {
	Reply        string
	Announcement string
	Echo         string
	Controls     Controls
}

type LobbyService struct {
	store     *RosterStore
	announcer Announcer
	retryWait time.Duration
}

func NewLobbyService(store *RosterStore, announcer Announcer) *LobbyService {
	return &LobbyService{store: store, announcer: announcer, retryWait: 2 * time.Second}
}

func (s *LobbyService) Store() *RosterStore { return s.store }

// Handle despacha los intents de roster. Los demás no son de este servicio.
func (s *LobbyService) Handle(ctx context.Context, it Intent) (Outcome, error) {
	switch it.Kind {
	case IntentJoin:
		if it.Source == domain.KindButton {
			return s.JoinButton(ctx, it.UserID), nil
		}
		return s.Join(ctx, it.UserID, it.Username, it.RoleInput), nil
	case IntentLeave:
		return s.Leave(ctx, it.UserID), nil
	case IntentRejoin:
		return s.Rejoin(ctx, it.UserID), nil
	case IntentName:
		if it.Source == domain.KindButton {
			return Outcome{Reply: "✏️ Buttons can't take text. Use `/name username:<your in-game name>`."}, nil
		}
		return s.SetName(ctx, it.UserID, it.Username), nil
	case IntentRole:
		return s.SetRole(ctx, it.UserID, it.RoleInput), nil
	case IntentRoleSelector:
		return Outcome{Reply: "🎭 Pick your role:", Controls: ControlsRoleSelector}, nil
	case IntentAssignRole:
		return s.SetRole(ctx, it.UserID, string(it.Role)), nil
	case IntentPlayers:
		return s.Players(it.Source == domain.KindButton), nil
	case IntentClear:
		return s.Clear(ctx), nil
	}
	return Outcome{}, fmt.Errorf("intent %s is not a roster intent", it.Kind)
}

func (s *LobbyService) Join(ctx context.Context, userID, username, roleInput string) Outcome {
	username = strings.TrimSpace(username)
	if username == "" {
		return Outcome{Reply: "❌ Missing username. Use `/join username:<name> role:<role>`."}
	}
	role, err := domain.ParseRole(roleInput)
	if err != nil {
		return Outcome{Reply: invalidRoleMsg(roleInput)}
	}

	p := domain.Player{Username: username, Role: role, Active: true}
	s.store.Set(userID, p)
	_ = s.store.Save(ctx)

	return Outcome{
		Reply:        fmt.Sprintf("✅ You joined the lobby as **%s** (%s).", p.Username, p.Role.Label()),
		Announcement: fmt.Sprintf("%s (%s) has joined as %s", mention(userID), p.Username, p.Role.Label()),
		Controls:     ControlsActions,
	}
}

// JoinButton: el botón no trae nombre ni rol; si ya hay registro se comporta como rejoin.
func (s *LobbyService) JoinButton(ctx context.Context, userID string) Outcome {
	if _, pr := s.store.Lookup(userID); pr == domain.Absent {
		return Outcome{Reply: "ℹ️ Use `/join username:<name> role:<role>` to sign up."}
	}
	return s.Rejoin(ctx, userID)
}

func (s *LobbyService) Leave(ctx context.Context, userID string) Outcome {
	p, pr := s.store.Lookup(userID)
	switch pr {
	case domain.Absent:
		return notInLobby()
	case domain.Inactive:
		return Outcome{Reply: "ℹ️ You already left the lobby. Use `/rejoin` to come back."}
	}

	p, _ = s.store.Update(userID, func(p *domain.Player) { p.Active = false })
	_ = s.store.Save(ctx)
	return Outcome{
		Reply:        "👋 You left the lobby.",
		Announcement: fmt.Sprintf("%s (%s) has left", mention(userID), p.Username),
		Controls:     ControlsActions,
	}
}

func (s *LobbyService) Rejoin(ctx context.Context, userID string) Outcome {
	p, pr := s.store.Lookup(userID)
	switch pr {
	case domain.Absent:
		return Outcome{Reply: "ℹ️ You're not in the lobby. Use `/join username:<name> role:<role>`."}
	case domain.Active:
		return Outcome{
			Reply:    fmt.Sprintf("ℹ️ You're already in the lobby as **%s** (%s).", p.Username, p.Role.Label()),
			Controls: ControlsActions,
		}
	}

	p, _ = s.store.Update(userID, func(p *domain.Player) { p.Active = true })
	_ = s.store.Save(ctx)
	return Outcome{
		Reply:        fmt.Sprintf("✅ You rejoined the lobby as **%s** (%s).", p.Username, p.Role.Label()),
		Announcement: fmt.Sprintf("%s (%s) has rejoined as %s", mention(userID), p.Username, p.Role.Label()),
		Controls:     ControlsActions,
	}
}

// SetName: a un no-miembro le crea un registro inactivo (Flex) con el nombre.
func (s *LobbyService) SetName(ctx context.Context, userID, username string) Outcome {
	username = strings.TrimSpace(username)
	if username == "" {
		return Outcome{Reply: "❌ Missing username. Use `/name username:<name>`."}
	}

	_, existed := s.store.Upsert(userID,
		domain.Player{Username: username, Role: domain.RoleFlex, Active: false},
		func(p *domain.Player) { p.Username = username },
	)
	_ = s.store.Save(ctx)

	if !existed {
		return Outcome{Reply: fmt.Sprintf("✅ Saved **%s** as your name. You're not in the lobby yet: use `/join` or the Rejoin button.", username)}
	}
	return Outcome{Reply: fmt.Sprintf("✅ Your name is now **%s**.", username), Controls: ControlsActions}
}

// SetRole sólo para miembros; sin fallback de creación.
func (s *LobbyService) SetRole(ctx context.Context, userID, roleInput string) Outcome {
	role, err := domain.ParseRole(roleInput)
	if err != nil {
		return Outcome{Reply: invalidRoleMsg(roleInput)}
	}
	if _, ok := s.store.Update(userID, func(p *domain.Player) { p.Role = role }); !ok {
		return notInLobby()
	}
	_ = s.store.Save(ctx)
	return Outcome{Reply: fmt.Sprintf("✅ Your role is now %s.", role.Label()), Controls: ControlsActions}
}

func (s *LobbyService) Players(viaButton bool) Outcome {
	active := s.store.Active()
	if len(active) == 0 {
		return Outcome{Reply: "ℹ️ No players in the lobby."}
	}

	var b, echo strings.Builder
	fmt.Fprintf(&b, "📋 **Lobby (%d)**\n", len(active))
	for _, e := range active {
		fmt.Fprintf(&b, "%s: (%s) %s\n", mention(e.UserID), e.Player.Username, e.Player.Role.Label())
		fmt.Fprintf(&echo, "%s (%s)\n", e.Player.Username, e.Player.Role.Label())
	}
	out := Outcome{Reply: strings.TrimRight(b.String(), "\n")}
	if viaButton {
		out.Echo = strings.TrimRight(echo.String(), "\n")
	}
	return out
}

// Clear desactiva a todos; los registros (nombre/rol) quedan. Sin anuncio público.
func (s *LobbyService) Clear(ctx context.Context) Outcome {
	n := s.store.DeactivateAll()
	_ = s.store.Save(ctx)
	return Outcome{Reply: fmt.Sprintf("🧹 Lobby cleared (%d players removed).", n)}
}

// Teams reparte a los activos en dos equipos al azar, alternando para que
// la diferencia de tamaño sea como mucho 1.
func (s *LobbyService) Teams(shuffle func(n int, swap func(i, j int))) (team1, team2 []Entry) {
	active := s.store.Active()
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })
	for i, e := range active {
		if i%2 == 0 {
			team1 = append(team1, e)
		} else {
			team2 = append(team2, e)
		}
	}
	return team1, team2
}

// Announce es el paso 2 (best effort) después de commitear el estado.
// Un reintento; si igual falla se loguea, el estado no se toca.
func (s *LobbyService) Announce(ctx context.Context, guildID, msg string) {
	if msg == "" || s.announcer == nil {
		return
	}
	err := s.announcer.Announce(ctx, guildID, msg)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("announce failed, retrying")
		select {
		case <-time.After(s.retryWait):
		case <-ctx.Done():
			err = ctx.Err()
		}
		if ctx.Err() == nil {
			err = s.announcer.Announce(ctx, guildID, msg)
		}
	}
	if err != nil {
		metrics.Announcements.WithLabelValues("error").Inc()
		log.Ctx(ctx).Error().Err(err).Str("guild", guildID).Str("msg", msg).Msg("announce dropped")
		return
	}
	metrics.Announcements.WithLabelValues("ok").Inc()
}

func FormatTeams(team1, team2 []Entry) string {
	var b strings.Builder
	write := func(title string, team []Entry) {
		fmt.Fprintf(&b, "**%s**\n", title)
		if len(team) == 0 {
			b.WriteString("—\n")
		}
		for _, e := range team {
			fmt.Fprintf(&b, "%s: (%s) %s\n", mention(e.UserID), e.Player.Username, e.Player.Role.Label())
		}
	}
	write("Team 1", team1)
	b.WriteString("\n")
	write("Team 2", team2)
	return strings.TrimRight(b.String(), "\n")
}

func notInLobby() Outcome {
	return Outcome{Reply: "ℹ️ You're not in the lobby. Use `/join username:<name> role:<role>` first."}
}

func invalidRoleMsg(in string) string {
	labels := make([]string, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		labels = append(labels, fmt.Sprintf("`%s` %s", r, r.Label()))
	}
	return fmt.Sprintf("❌ Unknown role %q. Pick one of: %s.", in, strings.Join(labels, ", "))
}

func mention(userID string) string { return "<@" + userID + ">" }
