// Package api exposes the journal over JSON HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"example.com/prosoche/internal/auth"
	"example.com/prosoche/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AchievementLister returns the achievement codes held by a user.
type AchievementLister interface {
	Achievements(ctx context.Context, userID string) ([]string, error)
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service      *domain.Service
	logger       *zap.Logger
	now          func() time.Time
	achievements AchievementLister
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for unexpected errors.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClock overrides the time source used for default query values.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithAchievements enables GET /v1/logros.
func WithAchievements(lister AchievementLister) Option {
	return func(h *Handler) {
		h.achievements = lister
	}
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("GET /v1/dashboard", h.dashboard)

	mux.HandleFunc("GET /v1/prosoche", h.currentMonth)
	mux.HandleFunc("GET /v1/prosoche/months/{year}/{month}", h.monthDetail)
	mux.HandleFunc("GET /v1/prosoche/months/{year}/{month}/entries", h.monthEntries)
	mux.HandleFunc("POST /v1/prosoche/months/{id}/review", h.monthReview)
	mux.HandleFunc("POST /v1/prosoche/objectives", h.objectives)
	mux.HandleFunc("GET /v1/prosoche/weekly-review", h.weeklyReview)
	mux.HandleFunc("POST /v1/prosoche/weekly-review", h.saveWeeklyReview)
	mux.HandleFunc("POST /v1/prosoche/entries", h.createEntry)
	mux.HandleFunc("POST /v1/prosoche/entries/autosave", h.autosaveEntry)
	mux.HandleFunc("GET /v1/prosoche/entries/{id}", h.getEntry)
	mux.HandleFunc("PUT /v1/prosoche/entries/{id}", h.updateEntry)
	mux.HandleFunc("DELETE /v1/prosoche/entries/{id}", h.deleteEntry)
	mux.HandleFunc("POST /v1/prosoche/entries/{id}/tasks", h.toggleTask)
	mux.HandleFunc("POST /v1/prosoche/habits", h.createHabit)
	mux.HandleFunc("POST /v1/prosoche/habits/toggle", h.toggleHabit)

	mux.HandleFunc("GET /v1/eudaimonia/areas", h.listAreas)
	mux.HandleFunc("POST /v1/eudaimonia/areas", h.addArea)
	mux.HandleFunc("GET /v1/eudaimonia/areas/{id}", h.areaDetail)
	mux.HandleFunc("PATCH /v1/eudaimonia/areas/{id}", h.updateArea)
	mux.HandleFunc("POST /v1/eudaimonia/areas/{id}/quarters", h.saveQuarter)

	mux.HandleFunc("GET /v1/arete/exercises", h.listExercises)
	mux.HandleFunc("POST /v1/arete/exercises", h.createExercise)
	mux.HandleFunc("PATCH /v1/arete/exercises/{id}", h.updateExercise)

	mux.HandleFunc("GET /v1/gnosis", h.listKnowledge)
	mux.HandleFunc("POST /v1/gnosis", h.createKnowledge)

	mux.HandleFunc("GET /v1/vires", h.vitality)
	mux.HandleFunc("POST /v1/vires/tracking", h.saveTracking)
	mux.HandleFunc("POST /v1/vires/training", h.saveTraining)
	mux.HandleFunc("POST /v1/vires/workout-notes/parse", h.parseWorkout)

	mux.HandleFunc("GET /v1/kairos", h.calendar)
	mux.HandleFunc("POST /v1/kairos/events", h.createEvent)
	mux.HandleFunc("GET /v1/kairos/events/feed", h.eventFeed)
	mux.HandleFunc("GET /v1/kairos/plan", h.dayPlan)
	mux.HandleFunc("POST /v1/kairos/plan", h.savePlanSlot)

	mux.HandleFunc("GET /v1/simbiosis", h.relationships)
	mux.HandleFunc("POST /v1/simbiosis/people", h.createPerson)
	mux.HandleFunc("GET /v1/simbiosis/people/{id}", h.personDetail)
	mux.HandleFunc("PUT /v1/simbiosis/people/{id}", h.updatePerson)
	mux.HandleFunc("POST /v1/simbiosis/interactions", h.createInteraction)
	mux.HandleFunc("PUT /v1/simbiosis/interactions/{id}", h.updateInteraction)

	mux.HandleFunc("GET /v1/oraculo", h.insights)
	mux.HandleFunc("GET /v1/analiticas", h.analytics)

	if h.achievements != nil {
		mux.HandleFunc("GET /v1/logros", h.listAchievements)
	}
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// reader returns the caller when the token grants read or write access.
func (h *Handler) reader(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	if !claims.HasScope(auth.ScopeJournalRead) && !claims.HasScope(auth.ScopeJournalWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope journal:read required")
		return "", false
	}
	return claims.Subject, true
}

// writer returns the caller when the token grants write access.
func (h *Handler) writer(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	if !claims.HasScope(auth.ScopeJournalWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope journal:write required")
		return "", false
	}
	return claims.Subject, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

// fail maps domain errors to responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be a number")
		return 0, false
	}
	return v, true
}

// queryInt parses an optional integer query parameter, falling back on
// missing or malformed values.
func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *Handler) listAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	codes, err := h.achievements.Achievements(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"logros": codes})
}
