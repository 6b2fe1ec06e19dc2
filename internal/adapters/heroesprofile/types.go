package heroesprofile

// /Player/MMR devuelve {"<battletag>": {"<modo>": {...}}}
type mmrResponse map[string]map[string]mmrDTO

type mmrDTO struct {
	MMR         float64 `json:"mmr"`
	GamesPlayed int     `json:"games_played"`
	WinRate     float64 `json:"win_rate"`
	LeagueTier  string  `json:"league_tier"`
}
