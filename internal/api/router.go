package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Beacon/internal/config"
	"github.com/MikeSquared-Agency/Beacon/internal/hermes"
	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
	"github.com/MikeSquared-Agency/Beacon/internal/store"
)

func NewRouter(session *scoring.Session, reg *scoring.Registry, l *ingest.Loader, s store.Store, p *hermes.Publisher, o ResultObserver, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(RateLimitMiddleware(120))

	scores := NewScoresHandler(session, p, o)
	reports := NewReportsHandler(l, scores, cfg.Fetch.ReportURL, cfg.FetchTimeout(), cfg.Server.AdminToken != "")
	weights := NewWeightsHandler(reg, s, p, scores)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scores", scores.Get)
		r.Post("/recompute", scores.Recompute)
		r.Post("/reports", reports.Submit)
		r.Get("/weights", weights.List)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/reports/fetch", reports.Fetch)
			r.Put("/weights/{category}", weights.Update)
		})
	})

	if cfg.Server.FixturesDir != "" {
		r.Handle("/tests/*", http.StripPrefix("/tests/", http.FileServer(http.Dir(cfg.Server.FixturesDir))))
	}

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
