package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/localsight/localsight-platform/pkg/logging"
)

// Handler exposes the engine over HTTP. It is a thin serialization layer;
// every availability response is 200 because the engine never fails a read.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates an availability handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// GetByRange handles GET /availability?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) GetByRange(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(dateFormat, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "invalid or missing start date", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(dateFormat, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "invalid or missing end date", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "end date before start date", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.engine.ByDateRange(r.Context(), start, end))
}

// GetMonth handles GET /availability/month?month=YYYY-MM.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "invalid or missing month", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.engine.ForMonth(r.Context(), month))
}

type invalidateRequest struct {
	Date string `json:"date,omitempty"`
}

// Invalidate handles POST /availability/invalidate. An empty or absent date
// clears the whole cache; a non-empty value removes only an exactly matching
// range key.
func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	h.engine.InvalidateCache(r.Context(), req.Date)
	h.logger.Info("availability cache invalidated", "key", req.Date)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
