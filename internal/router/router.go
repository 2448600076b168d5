package router

import (
	"net/http"

	_ "pet-meds/internal/docs"
	"pet-meds/internal/domain/export"
	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/projections"
	"pet-meds/internal/middleware"
	"pet-meds/internal/platform/logger"
	"pet-meds/internal/platform/metrics"
	"pet-meds/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Service *petmeds.Service

	// Opcional: sin Export no se montan las rutas /exports.
	Export *export.Service

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	Logger  logger.Logger
	Metrics *metrics.Metrics // opcional
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	var obs middleware.HTTPObserver
	if opts.Metrics != nil {
		obs = opts.Metrics
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger, obs))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.AuthVerifier))

		petmeds.RegisterRoutes(r, opts.Service)
		projections.RegisterRoutes(r, opts.Service)
		if opts.Export != nil {
			export.RegisterRoutes(r, opts.Export)
		}
	})

	return r
}
