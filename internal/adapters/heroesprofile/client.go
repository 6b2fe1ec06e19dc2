package heroesprofile

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// GetMMR trae el MMR de todos los modos para la región del cliente.
// Un jugador sin datos devuelve lista vacía, no error.
func (c *Client) GetMMR(ctx context.Context, battletag string) ([]domain.PlayerMMR, error) {
	q := url.Values{}
	q.Set("mode", "json")
	q.Set("battletag", battletag)
	q.Set("region", strconv.Itoa(c.region))

	var res mmrResponse
	err := c.doJSON(ctx, "/Player/MMR", q, &res)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var modes map[string]mmrDTO
	for tag, m := range res {
		if strings.EqualFold(tag, battletag) {
			modes = m
			break
		}
	}
	out := make([]domain.PlayerMMR, 0, len(modes))
	for mode, dto := range modes {
		out = append(out, domain.PlayerMMR{
			BattleTag:   battletag,
			GameMode:    mode,
			MMR:         dto.MMR,
			LeagueTier:  dto.LeagueTier,
			GamesPlayed: dto.GamesPlayed,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameMode < out[j].GameMode })
	return out, nil
}
