package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// menciones sólo a usuarios; nada de @everyone por un username raro
var userMentionsOnly = &discordgo.MessageAllowedMentions{
	Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
}

func SendEphemeral(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, msg string) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         msg,
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: userMentionsOnly,
		},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("SendEphemeral")
	}
	return err
}

// Defer efímero (para trabajos >3s)
func DeferEphemeral(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("DeferEphemeral")
	}
	return err
}

// DeferUpdate: ack de un botón sin mostrar nada
func DeferUpdate(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("DeferUpdate")
	}
	return err
}

func ReplyEphemeral(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, content string, components ...discordgo.MessageComponent) {
	_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content:         content,
		Components:      components,
		Flags:           discordgo.MessageFlagsEphemeral,
		AllowedMentions: userMentionsOnly,
	})
	if err == nil {
		return
	}
	// Fallback sólo si todavía no hay respuesta (webhook desconocido)
	var reqErr *discordgo.RESTError
	if errors.As(err, &reqErr) && reqErr.Message != nil && reqErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         content,
				Components:      components,
				Flags:           discordgo.MessageFlagsEphemeral,
				AllowedMentions: userMentionsOnly,
			},
		})
		return
	}
	log.Ctx(ctx).Error().Err(err).Msg("ReplyEphemeral")
}

// SendPublic postea en un canal de texto (anuncios, equipos, eco de /players).
func SendPublic(ctx context.Context, s *discordgo.Session, channelID, content string) error {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: userMentionsOnly,
	}, discordgo.WithContext(ctx))
	return err
}
