package discord

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

func step(ctx context.Context, label string) func() {
	start := time.Now()
	return func() { log.Ctx(ctx).Debug().Str("step", label).Dur("dur", time.Since(start)).Msg("trace") }
}
