package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

func TestParseIntent(t *testing.T) {
	cmd := func(id string, opts map[string]string) domain.Interaction {
		return domain.Interaction{Kind: domain.KindCommand, ID: id, InvokerID: "U1", GuildID: "G1", Options: opts}
	}
	btn := func(id string) domain.Interaction {
		return domain.Interaction{Kind: domain.KindButton, ID: id, InvokerID: "U1", GuildID: "G1"}
	}

	tests := []struct {
		name string
		in   domain.Interaction
		want Intent
	}{
		{
			name: "join command",
			in:   cmd("join", map[string]string{"username": " Alice ", "role": "T"}),
			want: Intent{Kind: IntentJoin, Source: domain.KindCommand, ID: "join", UserID: "U1", GuildID: "G1", Username: "Alice", Role: domain.RoleTank, RoleInput: "T"},
		},
		{
			name: "role command with bad role keeps raw input",
			in:   cmd("role", map[string]string{"role": "Support"}),
			want: Intent{Kind: IntentRole, Source: domain.KindCommand, ID: "role", UserID: "U1", GuildID: "G1", RoleInput: "Support"},
		},
		{
			name: "role button opens selector",
			in:   btn("role"),
			want: Intent{Kind: IntentRoleSelector, Source: domain.KindButton, ID: "role", UserID: "U1", GuildID: "G1"},
		},
		{
			name: "role symbol button",
			in:   btn("H"),
			want: Intent{Kind: IntentAssignRole, Source: domain.KindButton, ID: "H", UserID: "U1", GuildID: "G1", Role: domain.RoleHealer, RoleInput: "H"},
		},
		{
			name: "lowercase symbol is not a role button",
			in:   btn("h"),
			want: Intent{Kind: IntentUnknown, Source: domain.KindButton, ID: "h", UserID: "U1", GuildID: "G1"},
		},
		{
			name: "stale button",
			in:   btn("queue_join"),
			want: Intent{Kind: IntentUnknown, Source: domain.KindButton, ID: "queue_join", UserID: "U1", GuildID: "G1"},
		},
		{
			name: "unknown command",
			in:   cmd("ping", nil),
			want: Intent{Kind: IntentUnknown, Source: domain.KindCommand, ID: "ping", UserID: "U1", GuildID: "G1"},
		},
		{
			name: "setchannel",
			in:   cmd("setchannel", map[string]string{"tag": "Team1", "channel": "42", "channel_name": "Team 1"}),
			want: Intent{Kind: IntentSetChannel, Source: domain.KindCommand, ID: "setchannel", UserID: "U1", GuildID: "G1", Tag: "team1", ChannelID: "42", ChannelName: "Team 1"},
		},
		{
			name: "announcechannel strips hash",
			in:   cmd("announcechannel", map[string]string{"name": "#customs"}),
			want: Intent{Kind: IntentAnnounceChannel, Source: domain.KindCommand, ID: "announcechannel", UserID: "U1", GuildID: "G1", ChannelName: "customs"},
		},
		{
			name: "mmr",
			in:   cmd("mmr", map[string]string{"battletag": "Alice#1234"}),
			want: Intent{Kind: IntentMMR, Source: domain.KindCommand, ID: "mmr", UserID: "U1", GuildID: "G1", BattleTag: "Alice#1234"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.in))
		})
	}
}

func TestIntent_AdminOnly(t *testing.T) {
	assert.True(t, Intent{Kind: IntentClear}.AdminOnly())
	assert.True(t, Intent{Kind: IntentTeams}.AdminOnly())
	assert.False(t, Intent{Kind: IntentJoin}.AdminOnly())
	assert.False(t, Intent{Kind: IntentMMR}.AdminOnly())
	assert.Equal(t, "assign_role", IntentAssignRole.String())
}
