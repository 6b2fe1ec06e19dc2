package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// nombres aceptados por columna (normalizados: minúsculas, sin espacios/_/-)
var columnAliases = map[string][]string{
	"battletag": {"battletag", "btag", "tag", "player"},
	"region":    {"region", "server"},
	"games":     {"games", "gamesplayed", "played", "matches"},
	"wins":      {"wins", "won"},
	"mmr":       {"mmr", "rating"},
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// columnIndex mapea cada columna conocida a su posición en el header.
// battletag es obligatoria; las demás pueden faltar (-1).
func columnIndex(header []string) (map[string]int, error) {
	idx := map[string]int{}
	for col, aliases := range columnAliases {
		idx[col] = -1
	scan:
		for i, h := range header {
			n := normalize(h)
			for _, a := range aliases {
				if n == a {
					idx[col] = i
					break scan
				}
			}
		}
	}
	if idx["battletag"] < 0 {
		return nil, fmt.Errorf("missing battletag column in header %q", header)
	}
	return idx, nil
}

// rowToStats arma una fila; line es 1-based para los mensajes.
func rowToStats(row []string, idx map[string]int, line int, now time.Time) (domain.AccountStats, error) {
	cell := func(col string) string {
		i := idx[col]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(col string) (int, error) {
		v := cell(col)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			return 0, fmt.Errorf("line %d: %s %q is not a number", line, col, v)
		}
		return n, nil
	}

	a := domain.AccountStats{BattleTag: cell("battletag"), Region: strings.ToUpper(cell("region")), UpdatedAt: now}
	var err error
	if a.GamesPlayed, err = num("games"); err != nil {
		return a, err
	}
	if a.Wins, err = num("wins"); err != nil {
		return a, err
	}
	if a.MMR, err = num("mmr"); err != nil {
		return a, err
	}
	if a.Wins > a.GamesPlayed && a.GamesPlayed > 0 {
		return a, fmt.Errorf("line %d: wins (%d) > games (%d)", line, a.Wins, a.GamesPlayed)
	}
	return a, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowsToStats: primera fila no vacía es el header.
func rowsToStats(rows [][]string, now time.Time) ([]domain.AccountStats, error) {
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("file is empty")
	}
	idx, err := columnIndex(rows[start])
	if err != nil {
		return nil, err
	}

	var out []domain.AccountStats
	for i := start + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		a, err := rowToStats(rows[i], idx, i+1, now)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
