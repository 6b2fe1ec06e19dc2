package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
)

// Server expone health, métricas y el roster activo (para overlays / dashboards).
type Server struct {
	store  *service.RosterStore
	router chi.Router
}

func New(store *service.RosterStore) *Server {
	s := &Server{store: store, router: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/roster", s.handleRoster)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

type rosterPlayer struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	RoleLabel string `json:"role_label"`
}

type rosterResponse struct {
	Count   int            `json:"count"`
	Players []rosterPlayer `json:"players"`
}

func (s *Server) handleRoster(w http.ResponseWriter, _ *http.Request) {
	active := s.store.Active()
	res := rosterResponse{Count: len(active), Players: make([]rosterPlayer, 0, len(active))}
	for _, e := range active {
		res.Players = append(res.Players, rosterPlayer{
			UserID:    e.UserID,
			Username:  e.Player.Username,
			Role:      string(e.Player.Role),
			RoleLabel: e.Player.Role.Label(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("dur", time.Since(start)).
			Str("req_id", middleware.GetReqID(r.Context())).
			Msg("http")
	})
}

// Run escucha hasta que ctx se cancela y después apaga con gracia.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("🌐 HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
