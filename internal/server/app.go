// Package server wires the product and cart route sets into one handler with
// the shared middleware stack.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"FlatMart/internal/authn"
	"FlatMart/internal/cart"
	"FlatMart/internal/catalog"
	"FlatMart/pkg/kit"
)

type Deps struct {
	Catalog *catalog.Server
	Carts   *cart.Server
	Tokens  *authn.TokenMaker
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	mutateLimitPerMin = 30
	limitWindow       = 60 * time.Second
)

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	limiter := kit.NewIPRateLimiter(mutateLimitPerMin, int(limitWindow.Seconds()))

	r.Get("/products", deps.Catalog.List)
	r.Get("/products/{id}", deps.Catalog.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(limiter.Middleware)
		pr.Use(authn.RequireActor(deps.Tokens))

		pr.Post("/products", deps.Catalog.Create)
		pr.Put("/products/{id}", deps.Catalog.Update)
		pr.Delete("/products/{id}", deps.Catalog.Delete)
	})

	r.Get("/carts/{id}", deps.Carts.Get)
	r.With(limiter.Middleware).Post("/carts", deps.Carts.Create)
	r.With(limiter.Middleware).Post("/carts/{id}/product/{productID}", deps.Carts.AddProduct)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

// readyz loads both documents; a service that cannot read its collections
// should not take traffic.
func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Catalog.Manager.Ready(); err != nil {
			if log != nil {
				log.Warn("readyz failed", zap.String("document", "products"), zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		if err := deps.Carts.Manager.Ready(); err != nil {
			if log != nil {
				log.Warn("readyz failed", zap.String("document", "carts"), zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
