package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Health is a liveness check; it does not touch the pair store.
func Health(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, r, log, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		writeJSON(w, r, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
