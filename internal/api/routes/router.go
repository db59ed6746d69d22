package routes

import (
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/api/handlers"
	"github.com/zatekoja/medicalnetwork/internal/api/middleware"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	networkHandler   *handlers.NetworkHandler
	providerHandler  *handlers.ProviderHandler
	recommendHandler *handlers.RecommendHandler
	analyticsHandler *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics

	allowedOrigins []string
	staticDir      string
}

// Options carries the router settings that do not come from handlers
type Options struct {
	AllowedOrigins []string
	// StaticDir holds the browser front-end; empty disables static serving.
	StaticDir string
}

// NewRouter creates a new router
func NewRouter(
	networkHandler *handlers.NetworkHandler,
	providerHandler *handlers.ProviderHandler,
	recommendHandler *handlers.RecommendHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	opts Options,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		networkHandler:   networkHandler,
		providerHandler:  providerHandler,
		recommendHandler: recommendHandler,
		analyticsHandler: analyticsHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
		allowedOrigins:   opts.AllowedOrigins,
		staticDir:        opts.StaticDir,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.networkHandler.Health)

	// Directory endpoints
	r.mux.HandleFunc("GET /api/network", r.networkHandler.GetNetwork)
	r.mux.HandleFunc("GET /api/network/status", r.networkHandler.GetStatus)
	r.mux.HandleFunc("POST /api/network/reload", r.networkHandler.Reload)
	r.mux.HandleFunc("GET /api/specialties", r.networkHandler.ListSpecialties)

	// Provider endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/suggest", r.providerHandler.SuggestProviders)

	// Recommendation endpoints
	r.mux.HandleFunc("POST /api/recommend", r.recommendHandler.Recommend)
	r.mux.HandleFunc("POST /api/analyze", r.recommendHandler.Analyze)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-searches", r.analyticsHandler.GetZeroResultSearches)
	}

	if r.staticDir != "" {
		if info, err := os.Stat(r.staticDir); err == nil && info.IsDir() {
			r.mux.Handle("GET /", http.FileServer(http.Dir(r.staticDir)))
		} else {
			log.Warn().Str("static_dir", r.staticDir).Msg("Static directory not found, front-end will not be served")
		}
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
