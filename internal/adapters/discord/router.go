package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/metrics"
)

const (
	commandTimeout   = 12 * time.Second
	componentTimeout = 8 * time.Second
)

type Router struct {
	s       *discordgo.Session
	guildID string

	lobby    *service.LobbyService
	channels *service.ChannelService
	stats    *service.StatsService

	adminRoleIDs []string
	clickLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	lobby *service.LobbyService,
	channels *service.ChannelService,
	stats *service.StatsService,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		lobby:        lobby,
		channels:     channels,
		stats:        stats,
		adminRoleIDs: adminRoleIDs,
		clickLimiter: newUserLimiter(time.Second),
	}
}

// Register crea (o pisa) los slash commands en el guild.
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ev *discordgo.Ready) {
		log.Info().Str("user", ev.User.Username).Int("guilds", len(ev.Guilds)).Msg("discord ready")
	})
	r.s.AddHandler(r.onInteraction)
}

func (r *Router) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	in, ok := toInteraction(ic)
	if !ok {
		return
	}
	r.handle(sessionResponder{s: s, ic: ic}, ic, in)
}

func (r *Router) handle(rsp responder, ic *discordgo.InteractionCreate, in domain.Interaction) {
	it := service.ParseIntent(in)

	timeout := commandTimeout
	if ic.Type == discordgo.InteractionMessageComponent {
		timeout = componentTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger := log.With().
		Str("trace", uuid.NewString()).
		Str("intent", it.Kind.String()).
		Str("id", in.ID).
		Str("user", in.InvokerID).
		Str("guild", in.GuildID).
		Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	outcome := "ok"
	defer func() {
		if rec := recover(); rec != nil {
			outcome = "panic"
			logger.Error().Interface("panic", rec).Msg("panic in interaction")
			rsp.Reply(ctx, "⚠️ Something went wrong. Try again or ping an admin.")
		}
		metrics.Interactions.WithLabelValues(kindLabel(ic.Type), it.Kind.String(), outcome).Inc()
		metrics.InteractionDuration.WithLabelValues(it.Kind.String()).Observe(time.Since(start).Seconds())
	}()

	// botones de mensajes viejos u otros bots: ack mudo, sin respuesta visible
	if it.Kind == service.IntentUnknown {
		outcome = "ignored"
		if ic.Type == discordgo.InteractionMessageComponent {
			_ = rsp.Ack(ctx)
			return
		}
		logger.Warn().Msg("unknown command")
		_ = rsp.Notice(ctx, "ℹ️ Unknown command.")
		return
	}

	if ic.Type == discordgo.InteractionMessageComponent && !r.clickLimiter.Allow(in.InvokerID) {
		outcome = "limited"
		_ = rsp.Notice(ctx, "⏳ Easy, one click per second…")
		return
	}

	_ = rsp.Defer(ctx)
	logger.Debug().Msg("interaction")

	if err := r.dispatch(ctx, rsp, ic, it); err != nil {
		outcome = "error"
		logger.Error().Err(err).Msg("interaction failed")
		rsp.Reply(ctx, errorReply(err))
	}
}

func kindLabel(t discordgo.InteractionType) string {
	if t == discordgo.InteractionMessageComponent {
		return "button"
	}
	return "command"
}
