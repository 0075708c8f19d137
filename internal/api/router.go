package api

import (
	"footpath-matrix-service/internal/api/handlers"
	"footpath-matrix-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires the lookup handlers to the pair cache and returns an http.Handler.
func NewRouter(cache *services.PairCache, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	footpaths := &handlers.FootpathHandler{Cache: cache, Log: log}

	mux.HandleFunc("/health", handlers.Health(log))
	mux.HandleFunc("/footpaths", footpaths.Get)

	return loggingMiddleware(mux, log)
}
