package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
)

func (r *Router) safeGetChannel(id string) (*discordgo.Channel, error) {
	if ch, err := r.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := r.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = r.s.State.ChannelAdd(ch)
	return ch, nil
}

// userVoiceChannel: canal de voz actual del usuario según el State ("" si no está).
func (r *Router) userVoiceChannel(guildID, userID string) string {
	vs, err := r.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}

// moveAll mueve a los que están en voz (en cualquier canal) a channelID.
// Los que no están en voz se saltean; Discord no permite moverlos.
func (r *Router) moveAll(ctx context.Context, guildID string, players []service.Entry, channelID string) int {
	if ch, err := r.safeGetChannel(channelID); err != nil || ch.Type != discordgo.ChannelTypeGuildVoice {
		log.Ctx(ctx).Warn().Err(err).Str("channel", channelID).Msg("move target is not a voice channel")
		return 0
	}
	moved := 0
	for _, p := range players {
		cur := r.userVoiceChannel(guildID, p.UserID)
		if cur == "" || cur == channelID {
			continue
		}
		if err := r.s.GuildMemberMove(guildID, p.UserID, &channelID, discordgo.WithContext(ctx)); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("player", p.UserID).Str("channel", channelID).Msg("move")
			continue
		}
		moved++
	}
	return moved
}
