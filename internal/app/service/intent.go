package service

import (
	"strings"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentJoin
	IntentLeave
	IntentRejoin
	IntentName
	IntentRole
	IntentRoleSelector
	IntentAssignRole
	IntentPlayers
	IntentClear
	IntentSetChannel
	IntentChannels
	IntentAnnounceChannel
	IntentGather
	IntentTeams
	IntentMMR
)

var intentNames = map[IntentKind]string{
	IntentUnknown:         "unknown",
	IntentJoin:            "join",
	IntentLeave:           "leave",
	IntentRejoin:          "rejoin",
	IntentName:            "name",
	IntentRole:            "role",
	IntentRoleSelector:    "role_selector",
	IntentAssignRole:      "assign_role",
	IntentPlayers:         "players",
	IntentClear:           "clear",
	IntentSetChannel:      "setchannel",
	IntentChannels:        "channels",
	IntentAnnounceChannel: "announcechannel",
	IntentGather:          "gather",
	IntentTeams:           "teams",
	IntentMMR:             "mmr",
}

func (k IntentKind) String() string { return intentNames[k] }

// Intent es el resultado del único paso de parseo en el borde.
type Intent struct {
	Kind    IntentKind
	Source  domain.InteractionKind
	ID      string // identificador crudo (para logs)
	UserID  string
	GuildID string

	Username  string
	Role      domain.Role
	RoleInput string // lo que mandó el usuario, aunque no sea válido

	Tag         string
	ChannelID   string
	ChannelName string

	BattleTag string
}

// AdminOnly: los que además están restringidos por permisos al registrar el comando.
func (i Intent) AdminOnly() bool {
	switch i.Kind {
	case IntentClear, IntentSetChannel, IntentAnnounceChannel, IntentGather, IntentTeams:
		return true
	}
	return false
}

// Custom IDs de botones. Los de rol son los propios símbolos (T, A, B, H, F).
const (
	ButtonJoin    = "join"
	ButtonLeave   = "leave"
	ButtonRejoin  = "rejoin"
	ButtonName    = "name"
	ButtonRole    = "role"
	ButtonPlayers = "players"
)

var commandIntents = map[string]IntentKind{
	"join":            IntentJoin,
	"leave":           IntentLeave,
	"rejoin":          IntentRejoin,
	"name":            IntentName,
	"role":            IntentRole,
	"players":         IntentPlayers,
	"clear":           IntentClear,
	"setchannel":      IntentSetChannel,
	"channels":        IntentChannels,
	"announcechannel": IntentAnnounceChannel,
	"gather":          IntentGather,
	"teams":           IntentTeams,
	"mmr":             IntentMMR,
}

var buttonIntents = map[string]IntentKind{
	ButtonJoin:    IntentJoin,
	ButtonLeave:   IntentLeave,
	ButtonRejoin:  IntentRejoin,
	ButtonName:    IntentName,
	ButtonRole:    IntentRoleSelector,
	ButtonPlayers: IntentPlayers,
}

// ParseIntent traduce la interacción a un Intent. Lo que no reconoce queda
// como IntentUnknown (botones de mensajes viejos o de otros bots).
func ParseIntent(in domain.Interaction) Intent {
	it := Intent{
		Source:  in.Kind,
		ID:      in.ID,
		UserID:  in.InvokerID,
		GuildID: in.GuildID,
	}

	switch in.Kind {
	case domain.KindButton:
		if domain.IsRoleSymbol(in.ID) {
			it.Kind = IntentAssignRole
			it.Role = domain.Role(in.ID)
			it.RoleInput = in.ID
			return it
		}
		it.Kind = buttonIntents[in.ID]
		return it

	case domain.KindCommand:
		it.Kind = commandIntents[in.ID]
	}

	opt := func(k string) string {
		v, _ := in.Opt(k)
		return strings.TrimSpace(v)
	}
	switch it.Kind {
	case IntentJoin, IntentName, IntentRole:
		it.Username = opt("username")
		it.RoleInput = opt("role")
		if r, err := domain.ParseRole(it.RoleInput); err == nil {
			it.Role = r
		}
	case IntentSetChannel:
		it.Tag = strings.ToLower(opt("tag"))
		it.ChannelID = opt("channel")
		it.ChannelName = opt("channel_name")
	case IntentAnnounceChannel:
		it.ChannelName = strings.TrimPrefix(opt("name"), "#")
	case IntentMMR:
		it.BattleTag = opt("battletag")
	}
	return it
}
