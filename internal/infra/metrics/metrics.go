package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Interactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lobby",
		Name:      "interactions_total",
		Help:      "Interacciones recibidas por tipo, intent y resultado.",
	}, []string{"kind", "intent", "outcome"})

	InteractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lobby",
		Name:      "interaction_duration_seconds",
		Help:      "Duración del handler por intent.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"intent"})

	RosterSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lobby",
		Name:      "roster_saves_total",
		Help:      "Guardados del snapshot del roster.",
	}, []string{"result"})

	ActivePlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lobby",
		Name:      "active_players",
		Help:      "Jugadores activos en el lobby.",
	})

	Announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lobby",
		Name:      "announcements_total",
		Help:      "Anuncios públicos enviados.",
	}, []string{"result"})

	ExternalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lobby",
		Name:      "heroesprofile_requests_total",
		Help:      "Requests a Heroes Profile por status.",
	}, []string{"status"})
)
