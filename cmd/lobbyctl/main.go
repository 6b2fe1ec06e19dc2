package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jose-valero/hots-lobby-bot/internal/adapters/heroesprofile"
	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/importer"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/config"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/logging"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("lobbyctl")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lobbyctl",
		Usage: "admin tasks for the lobby bot database and roster",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database-url", Usage: "sqlite file or postgres:// url", EnvVars: []string{"DATABASE_URL"}},
			&cli.StringFlag{Name: "roster", Usage: "roster snapshot path", EnvVars: []string{"ROSTER_PATH"}},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), true)
			return nil
		},
		Commands: []*cli.Command{
			migrateCommand(),
			importCommand(),
			mmrCommand(),
			rosterCommand(),
		},
	}
}

// loadConfig: config normal (env / CONFIG_FILE) con los flags por encima.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v := c.String("database-url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := c.String("roster"); v != "" {
		cfg.RosterPath = v
	}
	return cfg, nil
}

func openDB(c *cli.Context) (*storage.DB, config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cfg, err
	}
	db, err := storage.Open(c.Context, cfg.DatabaseURL)
	if err != nil {
		return nil, cfg, err
	}
	if err := storage.Migrate(db); err != nil {
		db.Close()
		return nil, cfg, fmt.Errorf("migrate: %w", err)
	}
	return db, cfg, nil
}

func newStats(db *storage.DB, cfg config.Config) *service.StatsService {
	var src service.MMRSource
	if hp, ok := heroesprofile.NewFromConfig(cfg.HeroesProfile); ok {
		src = hp
	}
	return service.NewStatsService(storage.NewAccountRepo(db), storage.NewReplayRepo(db), storage.NewMMRRepo(db), src)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations",
		Action: func(c *cli.Context) error {
			db, _, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(c.App.Writer, "migrated (%s)\n", db.Dialect)
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "import external data",
		Subcommands: []*cli.Command{
			{
				Name:      "accounts",
				Usage:     "reconcile account stats from a CSV or XLSX file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: lobbyctl import accounts <file>", 2)
					}
					path := c.Args().First()
					reader, err := importer.NewFactory().ReaderFor(path)
					if err != nil {
						return err
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					rows, err := reader.Read(data)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}

					db, cfg, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					res, err := newStats(db, cfg).ReconcileAccounts(c.Context, rows)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "accounts: %s\n", res)
					return nil
				},
			},
			{
				Name:      "replays",
				Usage:     "import parsed replay JSON files (files or directories)",
				ArgsUsage: "<path>...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("usage: lobbyctl import replays <path>...", 2)
					}
					replays, bad := importer.NewReplayReader().ReadPaths(c.Args().Slice()...)
					for _, b := range bad {
						fmt.Fprintf(c.App.ErrWriter, "skip %s\n", b)
					}

					db, cfg, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					res := newStats(db, cfg).ImportReplays(c.Context, replays)
					res.Failed += len(bad)
					counts, err := storage.NewReplayRepo(db).Counts(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "replays: %s (total matches=%d players=%d)\n", res, counts.Matches, counts.Players)
					return nil
				},
			},
		},
	}
}

func mmrCommand() *cli.Command {
	return &cli.Command{
		Name:      "mmr",
		Usage:     "look up Heroes Profile MMR (uses the local cache)",
		ArgsUsage: "<battletag>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: lobbyctl mmr <Name#1234>", 2)
			}
			db, cfg, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()
			msg, err := newStats(db, cfg).DescribeMMR(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, msg)
			return nil
		},
	}
}

type dumpEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

func rosterCommand() *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "inspect the roster snapshot",
		Subcommands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "print the roster snapshot as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "active", Usage: "only active players"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					store := service.NewRosterStore(storage.NewSnapshotFile(cfg.RosterPath))
					if err := store.Load(); err != nil {
						return err
					}
					entries := store.Snapshot()
					if c.Bool("active") {
						entries = store.Active()
					}
					out := make([]dumpEntry, 0, len(entries))
					for _, e := range entries {
						out = append(out, dumpEntry{UserID: e.UserID, Username: e.Player.Username, Role: string(e.Player.Role), Active: e.Player.Active})
					}
					enc := json.NewEncoder(c.App.Writer)
					enc.SetIndent("", "  ")
					return enc.Encode(out)
				},
			},
		},
	}
}
