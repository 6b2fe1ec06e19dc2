package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/infra/logging"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

const mmrRetention = 30 * 24 * time.Hour

type pruner interface {
	PruneBefore(ctx context.Context, t time.Time) (int64, error)
}

// retentionDays: RETENTION_DAYS o 365
func retentionDays() int {
	if n, err := strconv.Atoi(os.Getenv("RETENTION_DAYS")); err == nil && n > 0 {
		return n
	}
	return 365
}

// prune borra replays viejos y el cache de MMR vencido. Un error en uno no frena al otro.
func prune(ctx context.Context, replays, mmr pruner, now time.Time, days int) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	nr, errR := replays.PruneBefore(cctx, now.AddDate(0, 0, -days))
	nm, errM := mmr.PruneBefore(cctx, now.Add(-mmrRetention))
	if errR != nil {
		log.Error().Err(errR).Msg("prune replays")
	}
	if errM != nil {
		log.Error().Err(errM).Msg("prune mmr")
	}
	msg := fmt.Sprintf("replays=%d mmr=%d", nr, nm)
	if errR != nil || errM != nil {
		return msg, fmt.Errorf("janitor: replays=%v mmr=%v", errR, errM)
	}
	return msg, nil
}

func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}
	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return fmt.Sprintf("open: %v", err), nil
	}
	defer db.Close()

	msg, err := prune(ctx, storage.NewReplayRepo(db), storage.NewMMRRepo(db), time.Now().UTC(), retentionDays())
	log.Info().Str("result", msg).Msg("janitor")
	return msg, err
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), false)
	lambda.Start(handler)
}
