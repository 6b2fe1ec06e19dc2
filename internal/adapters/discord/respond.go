package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// responder: lo que el router necesita para contestar una interacción.
type responder interface {
	Ack(ctx context.Context) error
	Defer(ctx context.Context) error
	Notice(ctx context.Context, msg string) error
	Reply(ctx context.Context, content string, components ...discordgo.MessageComponent)
	Public(ctx context.Context, channelID, content string) error
}

type sessionResponder struct {
	s  *discordgo.Session
	ic *discordgo.InteractionCreate
}

func (r sessionResponder) Ack(ctx context.Context) error { return DeferUpdate(ctx, r.s, r.ic) }
func (r sessionResponder) Defer(ctx context.Context) error { return DeferEphemeral(ctx, r.s, r.ic) }

func (r sessionResponder) Notice(ctx context.Context, msg string) error {
	return SendEphemeral(ctx, r.s, r.ic, msg)
}

func (r sessionResponder) Reply(ctx context.Context, content string, components ...discordgo.MessageComponent) {
	ReplyEphemeral(ctx, r.s, r.ic, content, components...)
}

func (r sessionResponder) Public(ctx context.Context, channelID, content string) error {
	return SendPublic(ctx, r.s, channelID, content)
}
