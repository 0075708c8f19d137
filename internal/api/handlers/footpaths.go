package handlers

import (
	"errors"
	"footpath-matrix-service/internal/api/dto"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/services"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// FootpathHandler answers walking-duration lookups for stop pairs.
type FootpathHandler struct {
	Cache *services.PairCache
	Log   *zap.Logger
}

// Get serves GET /footpaths?from=A&to=B. The pair is unordered, so swapping
// from and to yields the same duration.
func (h *FootpathHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, h.Log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "from and to are required")
		return
	}

	d, err := h.Cache.Lookup(r.Context(), from, to)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, h.Log, http.StatusNotFound, "unknown stop pair")
		return
	case errors.Is(err, domain.ErrInputParse):
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid stop id")
		return
	case err != nil:
		h.Log.Error("lookup failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		writeError(w, r, h.Log, http.StatusBadGateway, "pair store unavailable")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.FootpathResponse{
		From:            from,
		To:              to,
		DurationSeconds: float64(d),
		Routed:          d.Routed(),
	})
}
