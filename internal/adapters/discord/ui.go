package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

func actionRows() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Join", CustomID: service.ButtonJoin, Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
			discordgo.Button{Style: discordgo.SecondaryButton, Label: "Leave", CustomID: service.ButtonLeave, Emoji: &discordgo.ComponentEmoji{Name: "👋"}},
			discordgo.Button{Style: discordgo.PrimaryButton, Label: "Rejoin", CustomID: service.ButtonRejoin, Emoji: &discordgo.ComponentEmoji{Name: "🔁"}},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SecondaryButton, Label: "Name", CustomID: service.ButtonName, Emoji: &discordgo.ComponentEmoji{Name: "✏️"}},
			discordgo.Button{Style: discordgo.SecondaryButton, Label: "Role", CustomID: service.ButtonRole, Emoji: &discordgo.ComponentEmoji{Name: "🎭"}},
			discordgo.Button{Style: discordgo.SecondaryButton, Label: "Players", CustomID: service.ButtonPlayers, Emoji: &discordgo.ComponentEmoji{Name: "📋"}},
		}},
	}
}

// un botón por rol; el CustomID es el símbolo
func roleSelectorRows() []discordgo.MessageComponent {
	btns := make([]discordgo.MessageComponent, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		btns = append(btns, discordgo.Button{
			Style:    discordgo.SecondaryButton,
			Label:    r.Name(),
			CustomID: string(r),
			Emoji:    &discordgo.ComponentEmoji{Name: r.Emoji()},
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: btns}}
}

func componentsFor(c service.Controls) []discordgo.MessageComponent {
	switch c {
	case service.ControlsActions:
		return actionRows()
	case service.ControlsRoleSelector:
		return roleSelectorRows()
	}
	return nil
}
