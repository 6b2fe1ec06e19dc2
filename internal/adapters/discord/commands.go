package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

var adminPerms int64 = discordgo.PermissionAdministrator

func roleChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: r.Label(), Value: string(r)})
	}
	return out
}

func tagChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(service.ChannelTags))
	for _, t := range service.ChannelTags {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: t, Value: t})
	}
	return out
}

var usernameOpt = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "username",
	Description: "Your in-game name",
	Required:    true,
	MaxLength:   32,
}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "join",
		Description: "Join the lobby",
		Options: []*discordgo.ApplicationCommandOption{
			usernameOpt,
			{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Your role", Required: true, Choices: roleChoices()},
		},
	},
	{Name: "leave", Description: "Leave the lobby"},
	{Name: "rejoin", Description: "Come back with your previous name and role"},
	{
		Name:        "name",
		Description: "Set your in-game name",
		Options:     []*discordgo.ApplicationCommandOption{usernameOpt},
	},
	{
		Name:        "role",
		Description: "Change your role",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Your role", Required: true, Choices: roleChoices()},
		},
	},
	{Name: "players", Description: "List the players in the lobby"},
	{Name: "clear", Description: "Empty the lobby (admins)", DefaultMemberPermissions: &adminPerms},
	{
		Name:                     "setchannel",
		Description:              "Register a voice channel for the lobby or a team (admins)",
		DefaultMemberPermissions: &adminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "What the channel is for", Required: true, Choices: tagChoices()},
			{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "channel",
				Description:  "Voice channel",
				Required:     true,
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
			},
		},
	},
	{Name: "channels", Description: "Show the registered channels"},
	{
		Name:                     "announcechannel",
		Description:              "Text channel for lobby announcements (admins)",
		DefaultMemberPermissions: &adminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Channel name, e.g. lobby", Required: true},
		},
	},
	{Name: "gather", Description: "Move active players in voice to the lobby channel (admins)", DefaultMemberPermissions: &adminPerms},
	{Name: "teams", Description: "Shuffle active players into two teams (admins)", DefaultMemberPermissions: &adminPerms},
	{
		Name:        "mmr",
		Description: "Heroes Profile MMR for a BattleTag",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "battletag", Description: "Name#1234", Required: true},
		},
	},
}
