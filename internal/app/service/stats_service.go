package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

var reBattleTag = regexp.MustCompile(`^[^\s#]{2,12}#\d{3,6}$`)

const mmrCacheTTL = 6 * time.Hour

// Orden en que se muestran los modos; los demás van al final.
var GameModes = []string{"Storm League", "Quick Match", "Unranked Draft", "ARAM"}

type StatsService struct {
	accounts AccountRepo
	replays  ReplayRepo
	mmr      MMRRepo
	source   MMRSource
	now      nowFunc
}

func NewStatsService(accounts AccountRepo, replays ReplayRepo, mmr MMRRepo, source MMRSource) *StatsService {
	return &StatsService{accounts: accounts, replays: replays, mmr: mmr, source: source, now: time.Now}
}

func ValidBattleTag(tag string) bool { return reBattleTag.MatchString(strings.TrimSpace(tag)) }

// LookupMMR usa el cache si está fresco; si no consulta Heroes Profile y cachea.
// Si la API falla pero hay cache viejo, devuelve el viejo.
func (s *StatsService) LookupMMR(ctx context.Context, battletag string) ([]domain.PlayerMMR, error) {
	battletag = strings.TrimSpace(battletag)

	// el cache se lee por battletag: HP puede devolver modos fuera de GameModes
	cached, err := s.mmr.List(ctx, battletag)
	if err != nil {
		return nil, err
	}
	fresh := true
	for _, m := range cached {
		if s.now().Sub(m.FetchedAt) > mmrCacheTTL {
			fresh = false
		}
	}
	if len(cached) > 0 && fresh {
		return cached, nil
	}
	if s.source == nil {
		if len(cached) > 0 {
			return cached, nil
		}
		return nil, errors.New("no mmr source configured")
	}

	got, err := s.source.GetMMR(ctx, battletag)
	if err != nil {
		if len(cached) > 0 {
			log.Ctx(ctx).Warn().Err(err).Str("battletag", battletag).Msg("mmr lookup failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}
	now := s.now()
	for i := range got {
		got[i].FetchedAt = now
		if err := s.mmr.Upsert(ctx, got[i]); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("battletag", battletag).Msg("mmr cache upsert")
		}
	}
	return got, nil
}

// DescribeMMR arma el texto de /mmr.
func (s *StatsService) DescribeMMR(ctx context.Context, battletag string) (string, error) {
	if !ValidBattleTag(battletag) {
		return "❌ That doesn't look like a BattleTag. Use `Name#1234`.", nil
	}
	list, err := s.LookupMMR(ctx, battletag)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return fmt.Sprintf("ℹ️ No MMR data for **%s**.", battletag), nil
	}
	sort.SliceStable(list, func(i, j int) bool { return modeIndex(list[i].GameMode) < modeIndex(list[j].GameMode) })

	var b strings.Builder
	fmt.Fprintf(&b, "📈 **%s**\n", battletag)
	for _, m := range list {
		tier := ""
		if m.LeagueTier != "" {
			tier = " · " + m.LeagueTier
		}
		fmt.Fprintf(&b, "• %s: **%.0f**%s (%d games)\n", m.GameMode, m.MMR, tier, m.GamesPlayed)
	}

	if s.replays != nil {
		recs, err := s.replays.HeroRecords(ctx, battletag, 3)
		if err == nil && len(recs) > 0 {
			b.WriteString("Customs: ")
			parts := make([]string, 0, len(recs))
			for _, r := range recs {
				parts = append(parts, fmt.Sprintf("%s %d/%d", r.Hero, r.Wins, r.Games))
			}
			b.WriteString(strings.Join(parts, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func modeIndex(mode string) int {
	for i, m := range GameModes {
		if m == mode {
			return i
		}
	}
	return len(GameModes)
}

// ReconcileResult cuenta lo que hizo ReconcileAccounts.
type ReconcileResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
}

func (r ReconcileResult) String() string {
	return fmt.Sprintf("inserted=%d updated=%d unchanged=%d skipped=%d", r.Inserted, r.Updated, r.Unchanged, r.Skipped)
}

// ReconcileAccounts compara cada fila importada con lo guardado y sólo escribe si cambió.
func (s *StatsService) ReconcileAccounts(ctx context.Context, rows []domain.AccountStats) (ReconcileResult, error) {
	var res ReconcileResult
	for _, row := range rows {
		row.BattleTag = strings.TrimSpace(row.BattleTag)
		if !ValidBattleTag(row.BattleTag) {
			res.Skipped++
			continue
		}
		cur, err := s.accounts.Get(ctx, row.BattleTag)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			if err := s.accounts.Upsert(ctx, row); err != nil {
				return res, fmt.Errorf("upsert %s: %w", row.BattleTag, err)
			}
			res.Inserted++
		case err != nil:
			return res, err
		case sameAccount(cur, row):
			res.Unchanged++
		default:
			if err := s.accounts.Upsert(ctx, row); err != nil {
				return res, fmt.Errorf("upsert %s: %w", row.BattleTag, err)
			}
			res.Updated++
		}
	}
	return res, nil
}

func sameAccount(a, b domain.AccountStats) bool {
	return a.Region == b.Region && a.GamesPlayed == b.GamesPlayed && a.Wins == b.Wins && a.MMR == b.MMR
}

// ImportResult de ImportReplays.
type ImportResult struct {
	Imported   int
	Duplicates int
	Failed     int
}

func (r ImportResult) String() string {
	return fmt.Sprintf("imported=%d duplicates=%d failed=%d", r.Imported, r.Duplicates, r.Failed)
}

// ImportReplays inserta cada replay; duplicados y errores por replay no cortan el lote.
func (s *StatsService) ImportReplays(ctx context.Context, replays []domain.Replay) ImportResult {
	var res ImportResult
	for _, rp := range replays {
		err := s.replays.Insert(ctx, rp)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, storage.ErrDuplicateReplay):
			res.Duplicates++
		default:
			res.Failed++
			log.Ctx(ctx).Error().Err(err).Str("match", rp.MatchID).Str("file", rp.SourceFile).Msg("replay import")
		}
	}
	return res
}
