package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/localsight/localsight-platform/pkg/logging"
)

// CacheInvalidator clears cached availability after schedule changes.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, date string)
}

// Handler handles HTTP requests for scheduling configuration.
type Handler struct {
	repo        *Repository
	invalidator CacheInvalidator
	logger      *logging.Logger
}

// NewHandler creates a new schedule handler.
func NewHandler(repo *Repository, invalidator CacheInvalidator, logger *logging.Logger) *Handler {
	return &Handler{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// GetSettings handles GET /admin/schedule/settings requests.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.ActiveSettings(r.Context())
	if err != nil {
		h.logger.Error("failed to load schedule settings", "error", err)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	if settings == nil {
		http.Error(w, "schedule not configured", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// PutSettings handles PUT /admin/schedule/settings requests. Saving a
// new configuration clears all cached availability.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.logger.Error("failed to decode settings", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := settings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := h.repo.SaveSettings(r.Context(), &settings); err != nil {
		h.logger.Error("failed to save schedule settings", "error", err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	h.invalidate(r.Context())
	h.logger.Info("schedule settings updated", "id", settings.ID, "slot_minutes", settings.SlotDurationMinutes)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&settings)
}

// ListBlockedDatesResponse is the response for listing blocked dates.
type ListBlockedDatesResponse struct {
	BlockedDates []BlockedDate `json:"blocked_dates"`
	Count        int           `json:"count"`
}

// ListBlockedDates handles GET /admin/schedule/blocked-dates requests.
func (h *Handler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	start, end, err := blockedRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks, err := h.repo.ListBlockedDates(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to list blocked dates", "error", err)
		http.Error(w, "failed to list blocked dates", http.StatusInternalServerError)
		return
	}

	response := ListBlockedDatesResponse{
		BlockedDates: blocks,
		Count:        len(blocks),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// AddBlockedDate handles POST /admin/schedule/blocked-dates requests.
func (h *Handler) AddBlockedDate(w http.ResponseWriter, r *http.Request) {
	var block BlockedDate
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		h.logger.Error("failed to decode blocked date", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := block.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.AddBlockedDate(r.Context(), &block); err != nil {
		h.logger.Error("failed to add blocked date", "error", err)
		http.Error(w, "failed to add blocked date", http.StatusInternalServerError)
		return
	}

	h.invalidate(r.Context())
	h.logger.Info("blocked date added", "id", block.ID, "date", block.Date.Format("2006-01-02"), "all_day", block.AllDay)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&block)
}

// RemoveBlockedDate handles DELETE /admin/schedule/blocked-dates/{id} requests.
func (h *Handler) RemoveBlockedDate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid block id", http.StatusBadRequest)
		return
	}

	if err := h.repo.RemoveBlockedDate(r.Context(), id); err != nil {
		h.logger.Error("failed to remove blocked date", "error", err, "id", id)
		http.Error(w, "failed to remove blocked date", http.StatusInternalServerError)
		return
	}

	h.invalidate(r.Context())
	h.logger.Info("blocked date removed", "id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.invalidator != nil {
		// Schedule changes affect every cached range.
		h.invalidator.InvalidateCache(ctx, "")
	}
}

// blockedRange parses the optional start/end query params, defaulting
// to the next 90 days.
func blockedRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 90)

	var err error
	if s := r.URL.Query().Get("start"); s != "" {
		if start, err = time.Parse("2006-01-02", s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if e := r.URL.Query().Get("end"); e != "" {
		if end, err = time.Parse("2006-01-02", e); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
