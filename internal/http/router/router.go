package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/storefront-crud-api/internal/health"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/handler"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/middleware"
	"github.com/sandeepkv93/storefront-crud-api/internal/http/response"
)

const defaultBodyLimitBytes = 1 << 20

type Dependencies struct {
	ProductHandler *handler.ProductHandler
	UserHandler    *handler.UserHandler
	CORSOrigins    []string
	BodyLimitBytes int64
	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	bodyLimit := dep.BodyLimitBytes
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimitBytes
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(bodyLimit))

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{
			"status": "unready",
			"error":  "dependencies are not ready",
			"checks": results,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", dep.ProductHandler.List)
			r.Post("/", dep.ProductHandler.Create)
			r.Get("/{id}", dep.ProductHandler.GetByID)
			r.Put("/{id}", dep.ProductHandler.Update)
			r.Patch("/{id}", dep.ProductHandler.ToggleAvailability)
			r.Delete("/{id}", dep.ProductHandler.Delete)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", dep.UserHandler.List)
			r.Post("/", dep.UserHandler.Create)
			r.Get("/{id}", dep.UserHandler.GetByID)
			r.Put("/{id}", dep.UserHandler.Update)
			r.Patch("/{id}", dep.UserHandler.ToggleActive)
			r.Delete("/{id}", dep.UserHandler.Delete)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
