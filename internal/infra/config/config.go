package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken string `yaml:"discord_token"`
	DiscordGuild string `yaml:"discord_guild"`
	DatabaseURL  string `yaml:"database_url"`
	RosterPath   string `yaml:"roster_path"`
	HTTPAddr     string `yaml:"http_addr"` // opcional, default :8080

	AnnounceChannel string   `yaml:"announce_channel"` // canal de texto de anuncios (por nombre)
	AdminRoleIDs    []string `yaml:"admin_role_ids"`

	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`

	HeroesProfile HeroesProfileConfig `yaml:"heroesprofile"`
}

type HeroesProfileConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
	Region   int    `yaml:"region"`

	// con token_url + client_id/secret el token sale de client credentials y se refresca
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Load: primero CONFIG_FILE (yaml, opcional), después env pisa lo del archivo.
// Faltantes requeridos -> error.
func Load() (Config, error) {
	var cfg Config
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	str := func(dst *string, k string) {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
		}
	}
	str(&cfg.DiscordToken, "DISCORD_BOT_TOKEN")
	str(&cfg.DiscordGuild, "DISCORD_GUILD_ID")
	str(&cfg.DatabaseURL, "DATABASE_URL")
	str(&cfg.RosterPath, "ROSTER_PATH")
	str(&cfg.HTTPAddr, "HTTP_ADDR")
	str(&cfg.AnnounceChannel, "ANNOUNCE_CHANNEL")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.HeroesProfile.BaseURL, "HEROESPROFILE_BASE_URL")
	str(&cfg.HeroesProfile.APIToken, "HEROESPROFILE_API_TOKEN")
	str(&cfg.HeroesProfile.TokenURL, "HEROESPROFILE_TOKEN_URL")
	str(&cfg.HeroesProfile.ClientID, "HEROESPROFILE_CLIENT_ID")
	str(&cfg.HeroesProfile.ClientSecret, "HEROESPROFILE_CLIENT_SECRET")
	if v := os.Getenv("ADMIN_ROLE_IDS"); v != "" {
		cfg.AdminRoleIDs = splitList(v)
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.LogPretty, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("HEROESPROFILE_REGION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HeroesProfile.Region = n
		}
	}

	// defaults
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:lobby.db"
	}
	if cfg.RosterPath == "" {
		cfg.RosterPath = "roster.json"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.AnnounceChannel == "" {
		cfg.AnnounceChannel = "lobby"
	}
	if cfg.HeroesProfile.BaseURL == "" {
		cfg.HeroesProfile.BaseURL = "https://api.heroesprofile.com/api"
	}
	if cfg.HeroesProfile.Region == 0 {
		cfg.HeroesProfile.Region = 2 // EU
	}
	return cfg, nil
}

// RequireDiscord valida lo que sólo necesita el bot (lobbyctl no tiene token).
func (c Config) RequireDiscord() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.DiscordGuild == "" {
		missing = append(missing, "DISCORD_GUILD_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("faltante env %s", strings.Join(missing, ", "))
	}
	return nil
}

// MustLoad para los main: corta el proceso si la config no sirve.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
