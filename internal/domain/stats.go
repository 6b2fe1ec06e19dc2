package domain

import "time"

// AccountStats es una fila del CSV/XLSX de cuentas.
type AccountStats struct {
	BattleTag   string
	Region      string
	GamesPlayed int
	Wins        int
	MMR         int
	UpdatedAt   time.Time
}

// PlayerMMR es lo que devuelve Heroes Profile para un modo de juego.
type PlayerMMR struct {
	BattleTag   string
	GameMode    string
	MMR         float64
	LeagueTier  string
	GamesPlayed int
	FetchedAt   time.Time
}

// Replay ya parseado por la herramienta externa.
type Replay struct {
	MatchID         string         `json:"match_id"`
	MapName         string         `json:"map"`
	GameMode        string         `json:"game_mode"`
	PlayedAt        time.Time      `json:"played_at"`
	DurationSeconds int            `json:"duration_seconds"`
	WinnerTeam      int            `json:"winner_team"`
	Players         []ReplayPlayer `json:"players"`
	SourceFile      string         `json:"-"`
}

type ReplayPlayer struct {
	Slot      int                `json:"slot"`
	BattleTag string             `json:"battletag"`
	Hero      string             `json:"hero"`
	Team      int                `json:"team"`
	Stats     map[string]float64 `json:"stats"`
}

func (p ReplayPlayer) Won(winner int) bool { return p.Team == winner }
