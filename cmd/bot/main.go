package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	discordrouter "github.com/jose-valero/hots-lobby-bot/internal/adapters/discord"
	"github.com/jose-valero/hots-lobby-bot/internal/adapters/heroesprofile"
	"github.com/jose-valero/hots-lobby-bot/internal/adapters/httpapi"
	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/config"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/logging"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.RequireDiscord(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	log.Info().Str("dialect", db.Dialect).Msg("✅ DB lista y migrada")

	// Roster: si no se puede leer el snapshot no arrancamos con un lobby vacío
	store := service.NewRosterStore(storage.NewSnapshotFile(cfg.RosterPath))
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.RosterPath).Msg("roster load")
	}
	log.Info().Int("players", len(store.Snapshot())).Int("active", len(store.Active())).Msg("✅ roster cargado")

	// Repos
	channelRepo := storage.NewChannelRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)
	accountRepo := storage.NewAccountRepo(db)
	replayRepo := storage.NewReplayRepo(db)
	mmrRepo := storage.NewMMRRepo(db)

	var mmrSource service.MMRSource
	if hp, ok := heroesprofile.NewFromConfig(cfg.HeroesProfile); ok {
		mmrSource = hp
	} else {
		log.Warn().Msg("Heroes Profile sin token: /mmr sólo usa el cache")
	}

	// Discord session
	auth := strings.TrimSpace(cfg.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal().Err(err).Msg("discord session")
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	// Services
	channelSvc := service.NewChannelService(channelRepo, settingsRepo, cfg.AnnounceChannel)
	lobbySvc := service.NewLobbyService(store, discordrouter.NewAnnouncer(s, channelSvc))
	statsSvc := service.NewStatsService(accountRepo, replayRepo, mmrRepo, mmrSource)

	// Router (handlers antes de Open para no perder el Ready)
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, lobbySvc, channelSvc, statsSvc, cfg.AdminRoleIDs)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal().Err(err).Msg("discord open")
	}
	defer s.Close()
	log.Info().Str("user", s.State.User.Username).Str("id", s.State.User.ID).Msg("✅ Conectado")

	if err := r.Register(); err != nil {
		log.Fatal().Err(err).Msg("registrando comandos")
	}
	log.Info().Str("guild", cfg.DiscordGuild).Msg("✅ comandos registrados")

	// Ops HTTP
	go func() {
		if err := httpapi.New(store).Run(ctx, cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando…")

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Save(saveCtx); err != nil {
		log.Error().Err(err).Msg("último save del roster")
	}
}
