package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// toInteraction saca lo que nos importa del evento de discordgo.
// Otros tipos (autocomplete, modals, ping) no se manejan.
func toInteraction(ic *discordgo.InteractionCreate) (domain.Interaction, bool) {
	in := domain.Interaction{GuildID: ic.GuildID, InvokerID: invokerID(ic)}
	if in.InvokerID == "" {
		return in, false
	}

	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		data := ic.ApplicationCommandData()
		in.Kind = domain.KindCommand
		in.ID = data.Name
		in.Options = commandOptions(data)
	case discordgo.InteractionMessageComponent:
		in.Kind = domain.KindButton
		in.ID = ic.MessageComponentData().CustomID
	default:
		return in, false
	}
	return in, true
}

// en DMs no viene Member, viene User
func invokerID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

// commandOptions aplana opciones (y las de un subcommand) a strings.
// Para canales agrega "<nombre>_name" desde los resolved si Discord los manda.
func commandOptions(data discordgo.ApplicationCommandInteractionData) map[string]string {
	out := map[string]string{}
	var walk func(opts []*discordgo.ApplicationCommandInteractionDataOption)
	walk = func(opts []*discordgo.ApplicationCommandInteractionDataOption) {
		for _, o := range opts {
			switch o.Type {
			case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
				walk(o.Options)
			case discordgo.ApplicationCommandOptionChannel:
				id := fmt.Sprint(o.Value)
				out[o.Name] = id
				if data.Resolved != nil {
					if ch, ok := data.Resolved.Channels[id]; ok && ch != nil {
						out[o.Name+"_name"] = ch.Name
					}
				}
			default:
				out[o.Name] = fmt.Sprint(o.Value)
			}
		}
	}
	walk(data.Options)
	return out
}
