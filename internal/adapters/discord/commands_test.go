package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

func TestCommands_AllParseToIntents(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range Commands {
		require.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true

		it := service.ParseIntent(domain.Interaction{Kind: domain.KindCommand, ID: cmd.Name, InvokerID: "U1"})
		assert.NotEqual(t, service.IntentUnknown, it.Kind, cmd.Name)

		// los restringidos en la app también están ocultos para no-admins en Discord
		assert.Equal(t, it.AdminOnly(), cmd.DefaultMemberPermissions != nil, cmd.Name)
	}
}

func TestCommands_RoleChoicesCoverRoles(t *testing.T) {
	choices := roleChoices()
	require.Len(t, choices, len(domain.Roles))
	for i, r := range domain.Roles {
		assert.Equal(t, string(r), choices[i].Value)
		assert.Equal(t, r.Label(), choices[i].Name)
	}
}

func TestButtons_AllParseToIntents(t *testing.T) {
	rows := append(actionRows(), roleSelectorRows()...)
	n := 0
	for _, row := range rows {
		for _, c := range row.(discordgo.ActionsRow).Components {
			b := c.(discordgo.Button)
			it := service.ParseIntent(domain.Interaction{Kind: domain.KindButton, ID: b.CustomID, InvokerID: "U1"})
			assert.NotEqual(t, service.IntentUnknown, it.Kind, b.CustomID)
			n++
		}
	}
	assert.Equal(t, 11, n)
}

func TestComponentsFor(t *testing.T) {
	assert.Nil(t, componentsFor(service.ControlsNone))
	assert.Len(t, componentsFor(service.ControlsActions), 2)
	assert.Len(t, componentsFor(service.ControlsRoleSelector), 1)
}
