package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/config"
	"github.com/oakwood/tworooms/internal/controller"
	"github.com/oakwood/tworooms/internal/middleware"
	"github.com/oakwood/tworooms/internal/store"
	"github.com/oakwood/tworooms/internal/telemetry"
	"github.com/oakwood/tworooms/internal/transport"
)

// app bundles the long-lived collaborators SetupServer wires together, so
// main can stop the reaper and flush the logger on shutdown.
type app struct {
	handler http.Handler
	store   *store.Store
	logger  *zap.Logger
}

// SetupServer builds the full dependency graph described by the domain
// stack table: configuration, the default character catalogue, the
// in-memory store, the Controller, structured logging, and a chi router
// carrying the reference HTTP/SSE transport plus ambient middleware.
func SetupServer(cfg *config.ServerConfig) (*app, error) {
	// "debug" gets the human-readable development encoder; anything else
	// gets the JSON production encoder (§ambient logging).
	logger, err := telemetry.NewLogger(cfg.Server.LogLevel == "debug")
	if err != nil {
		return nil, err
	}
	sugar := logger.Sugar()

	st := store.New(cfg.Server.GameRetention)
	ctrl := controller.New(st, catalogue.Default(), controller.Config{
		ParlayDuration:    cfg.Round.ParlayDuration,
		TieLimit:          cfg.Round.TieLimit,
		JournalRetention:  500,
		TimerTick:         cfg.Round.TimerTick,
		TimerPublishEvery: cfg.Round.TimerPublishEvery,
	}, controller.NullAbilityEngine{}, sugar)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestSizeLimiter(1 << 20))
	r.Use(middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst).Middleware())

	r.Handle("/metrics", promhttp.Handler())

	transport.New(ctrl, st, sugar).Routes(r)

	return &app{handler: r, store: st, logger: logger}, nil
}
