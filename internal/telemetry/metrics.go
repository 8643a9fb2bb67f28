package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the two-rooms game server.
//
// Naming convention: namespace_subsystem_name
//   - namespace: tworooms
//   - subsystem: game, command, eventbus, store
//
// Metric types:
//   - Gauge: current state (active games, active subscribers)
//   - Counter: cumulative events (commands submitted, games reaped)
//   - Histogram: latency distributions (command processing time)
var (
	GamesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tworooms",
		Subsystem: "game",
		Name:      "active",
		Help:      "Current number of games held in the store.",
	})

	PlayersActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tworooms",
		Subsystem: "game",
		Name:      "players_active",
		Help:      "Current number of seated players, per game id.",
	}, []string{"game_id"})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tworooms",
		Subsystem: "command",
		Name:      "submitted_total",
		Help:      "Total commands submitted to the controller, by type and outcome.",
	}, []string{"command_type", "outcome"})

	CommandProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tworooms",
		Subsystem: "command",
		Name:      "processing_seconds",
		Help:      "Time spent validating and applying a command.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"command_type"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tworooms",
		Subsystem: "eventbus",
		Name:      "published_total",
		Help:      "Total events published, by event type.",
	}, []string{"event_type"})

	SubscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tworooms",
		Subsystem: "eventbus",
		Name:      "subscribers_active",
		Help:      "Current number of live event-stream subscribers across all games.",
	})

	GamesReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tworooms",
		Subsystem: "store",
		Name:      "games_reaped_total",
		Help:      "Total finished games removed by the reaper.",
	})

	RoomCodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tworooms",
		Subsystem: "store",
		Name:      "room_code_collisions_total",
		Help:      "Total room-code generation attempts that collided with an existing code.",
	})
)
