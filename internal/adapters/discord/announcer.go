package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
)

// Announcer postea en el canal de texto configurado (por nombre) del guild.
type Announcer struct {
	s        *discordgo.Session
	channels *service.ChannelService
}

func NewAnnouncer(s *discordgo.Session, channels *service.ChannelService) *Announcer {
	return &Announcer{s: s, channels: channels}
}

// Announce: si el canal no existe o no es de texto, no hace nada (queda en el log).
// Sólo devuelve error cuando falló Discord, para que el caller reintente.
func (a *Announcer) Announce(ctx context.Context, guildID, msg string) error {
	name, err := a.channels.AnnounceChannel(ctx)
	if err != nil {
		return err
	}
	chID, err := a.findTextChannel(guildID, name)
	if err != nil {
		return err
	}
	if chID == "" {
		log.Ctx(ctx).Warn().Str("channel", name).Msg("announce channel not found, skipping")
		return nil
	}
	return SendPublic(ctx, a.s, chID, msg)
}

func (a *Announcer) findTextChannel(guildID, name string) (string, error) {
	var chans []*discordgo.Channel
	if g, err := a.s.State.Guild(guildID); err == nil && g != nil && len(g.Channels) > 0 {
		chans = g.Channels
	} else {
		chans, err = a.s.GuildChannels(guildID)
		if err != nil {
			return "", err
		}
	}
	return matchTextChannel(chans, name), nil
}

func matchTextChannel(chans []*discordgo.Channel, name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	for _, ch := range chans {
		if ch == nil || !strings.EqualFold(ch.Name, name) {
			continue
		}
		if ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews {
			return ch.ID
		}
	}
	return ""
}
