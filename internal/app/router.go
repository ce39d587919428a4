package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Josecau2/njfinish-sub001/internal/auth"
	"github.com/Josecau2/njfinish-sub001/internal/catalog"
	"github.com/Josecau2/njfinish-sub001/internal/observability"
	"github.com/Josecau2/njfinish-sub001/internal/proposals"
	"github.com/Josecau2/njfinish-sub001/internal/rates"
	"github.com/Josecau2/njfinish-sub001/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	RatesHandler     *rates.Handler
	ProposalsHandler *proposals.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthHandler.RequireSession)
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
		r.Route("/rates", params.RatesHandler.MountRoutes)
		r.Route("/proposals", params.ProposalsHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
