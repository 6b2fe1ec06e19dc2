// Lambda detrás de API Gateway (HTTP API v2): recibe el JSON de una replay ya
// parseada (lo sube el parser de la PC del host) y lo guarda.
package main

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/importer"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/logging"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

const maxBody = 1 << 20

type replayInserter interface {
	Insert(ctx context.Context, rp domain.Replay) error
}

type hook struct {
	secret  string
	header  string
	reader  *importer.ReplayReader
	replays replayInserter
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// header (API Gateway v2 los manda en minúscula) o ?secret=
func (h *hook) readSecret(req events.APIGatewayV2HTTPRequest) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, h.header) {
			return v
		}
	}
	return req.QueryStringParameters["secret"]
}

func reply(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

func (h *hook) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	logger := log.With().Str("path", req.RawPath).Str("ip", req.RequestContext.HTTP.SourceIP).Logger()

	if m := req.RequestContext.HTTP.Method; m != "" && m != http.MethodPost {
		return reply(http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}), nil
	}
	got := h.readSecret(req)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		logger.Warn().Msg("unauthorized")
		return reply(http.StatusUnauthorized, map[string]any{"error": "unauthorized"}), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return reply(http.StatusBadRequest, map[string]any{"error": "invalid base64"}), nil
		}
		body = dec
	}
	if len(body) > maxBody {
		return reply(http.StatusRequestEntityTooLarge, map[string]any{"error": "body too large"}), nil
	}

	rp, err := h.reader.Decode(body)
	if err != nil {
		logger.Info().Err(err).Msg("rejected replay")
		return reply(http.StatusBadRequest, map[string]any{"error": err.Error()}), nil
	}
	rp.SourceFile = "replayhook"

	ictx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = h.replays.Insert(ictx, rp)
	switch {
	case errors.Is(err, storage.ErrDuplicateReplay):
		return reply(http.StatusOK, map[string]any{"ok": true, "match_id": rp.MatchID, "duplicate": true}), nil
	case err != nil:
		logger.Error().Err(err).Str("match", rp.MatchID).Msg("insert replay")
		return reply(http.StatusInternalServerError, map[string]any{"error": "storage error"}), nil
	}
	logger.Info().Str("match", rp.MatchID).Int("players", len(rp.Players)).Msg("replay stored")
	return reply(http.StatusCreated, map[string]any{"ok": true, "match_id": rp.MatchID}), nil
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.Open(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	h := &hook{
		secret:  os.Getenv("REPLAYHOOK_SECRET"),
		header:  getenv("REPLAYHOOK_HEADER", "X-Replay-Secret"),
		reader:  importer.NewReplayReader(),
		replays: storage.NewReplayRepo(db),
	}
	lambda.Start(h.handle)
}
