package api

import (
	"net/http"
	"strings"

	"example.com/prosoche/internal/domain"
)

func (h *Handler) currentMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	view, err := h.service.CurrentMonth(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthPageView(*view))
}

func (h *Handler) monthDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := pathInt(w, r, "month")
	if !ok {
		return
	}
	view, err := h.service.MonthDetail(r.Context(), userID, year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthPageView(*view))
}

// MonthEntriesResponse lists the entries of a month.
type MonthEntriesResponse struct {
	Month   MonthView   `json:"mes"`
	Entries []EntryView `json:"entradas"`
}

func (h *Handler) monthEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := pathInt(w, r, "month")
	if !ok {
		return
	}
	m, entries, err := h.service.ListMonthEntries(r.Context(), userID, year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthEntriesResponse{Month: toMonthView(*m), Entries: toEntryViews(entries)})
}

// ObjectivePatch is a partial update of one objective.
type ObjectivePatch struct {
	Text *string `json:"texto"`
	Done *bool   `json:"completado"`
}

// ObjectivesRequest updates the objectives of a month or of one of its weeks.
type ObjectivesRequest struct {
	Kind       string           `json:"tipo"`
	MonthID    string           `json:"mes_id"`
	Week       int              `json:"semana_numero"`
	Objectives []ObjectivePatch `json:"objetivos"`
}

func (req ObjectivesRequest) patch() domain.ObjectivesPatch {
	var p domain.ObjectivesPatch
	for i, o := range req.Objectives {
		if i >= len(p.Text) {
			break
		}
		p.Text[i] = o.Text
		p.Done[i] = o.Done
	}
	return p
}

func (h *Handler) objectives(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req ObjectivesRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.MonthID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "mes_id is required")
		return
	}

	switch req.Kind {
	case "", "mes":
		month, err := h.service.UpdateMonthObjectives(r.Context(), userID, req.MonthID, req.patch())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMonthView(*month))
	case "semana":
		week, err := h.service.UpdateWeekObjectives(r.Context(), userID, req.MonthID, req.Week, req.patch())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toWeekView(*week))
	default:
		writeError(w, http.StatusBadRequest, "validation_failed", "tipo must be mes or semana")
	}
}

// MonthReviewRequest is the end of month review.
type MonthReviewRequest struct {
	Achievement string `json:"logro_principal"`
	Obstacle    string `json:"obstaculo"`
	Learning    string `json:"aprendizaje"`
	HappyMoment string `json:"momento_feliz"`
}

func (h *Handler) monthReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req MonthReviewRequest
	if !decode(w, r, &req) {
		return
	}
	month, err := h.service.SaveMonthReview(r.Context(), userID, r.PathValue("id"), domain.MonthReview{
		Achievement: req.Achievement,
		Obstacle:    req.Obstacle,
		Learning:    req.Learning,
		HappyMoment: req.HappyMoment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthView(*month))
}

func (h *Handler) weeklyReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	view, err := h.service.WeeklyReview(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyReviewView(*view))
}

// WeeklyReviewRequest submits the weekly review and next week's objectives.
type WeeklyReviewRequest struct {
	Achievement    string   `json:"logro_principal"`
	Obstacle       string   `json:"obstaculo"`
	Learning       string   `json:"aprendizaje"`
	NextObjectives []string `json:"objetivos_siguiente_semana"`
}

func (h *Handler) saveWeeklyReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req WeeklyReviewRequest
	if !decode(w, r, &req) {
		return
	}
	input := domain.WeeklyReviewInput{Achievement: req.Achievement, Obstacle: req.Obstacle, Learning: req.Learning}
	copy(input.NextObjectives[:], req.NextObjectives)
	view, err := h.service.SaveWeeklyReview(r.Context(), userID, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyReviewView(*view))
}

// EntryRequest is the full content of a daily page.
type EntryRequest struct {
	Date        string        `json:"fecha"`
	Tags        string        `json:"etiquetas"`
	Mood        int           `json:"estado_animo"`
	Intention   string        `json:"persona_quiero_ser"`
	Tasks       []domain.Task `json:"tareas"`
	Gratitude   []string      `json:"gratitud"`
	Media       string        `json:"podcast_libro_dia"`
	Happiness   string        `json:"felicidad"`
	WentWell    string        `json:"que_ha_ido_bien"`
	ToImprove   string        `json:"que_puedo_mejorar"`
	Reflections string        `json:"reflexiones_dia"`
}

func (req EntryRequest) input(id string) (domain.SaveEntryInput, error) {
	in := domain.SaveEntryInput{
		ID:          id,
		Tags:        req.Tags,
		Mood:        req.Mood,
		Intention:   req.Intention,
		Tasks:       req.Tasks,
		Media:       req.Media,
		Happiness:   req.Happiness,
		WentWell:    req.WentWell,
		ToImprove:   req.ToImprove,
		Reflections: req.Reflections,
	}
	copy(in.Gratitude[:], req.Gratitude)
	if req.Date != "" && id == "" {
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			return domain.SaveEntryInput{}, err
		}
		in.Date = &date
	}
	return in, nil
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	h.saveEntry(w, r, "")
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	h.saveEntry(w, r, r.PathValue("id"))
}

func (h *Handler) saveEntry(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req EntryRequest
	if !decode(w, r, &req) {
		return
	}
	input, err := req.input(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entry, created, err := h.service.SaveEntry(r.Context(), userID, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, createdStatus(created), toEntryView(*entry))
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetEntry(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := toEntryDetailView(*detail)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEntry(r.Context(), userID, r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AutosaveRequest writes a single field of the entry of a day.
type AutosaveRequest struct {
	Date  string `json:"fecha"`
	Field string `json:"campo"`
	Value string `json:"valor"`
}

// AutosaveResponse acknowledges an auto-saved field.
type AutosaveResponse struct {
	Success bool      `json:"success"`
	Entry   EntryView `json:"entrada"`
}

func (h *Handler) autosaveEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req AutosaveRequest
	if !decode(w, r, &req) {
		return
	}
	date := h.now()
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		date = parsed
	}
	entry, err := h.service.AutoSaveEntryField(r.Context(), userID, date, req.Field, req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AutosaveResponse{Success: true, Entry: toEntryView(*entry)})
}

// ToggleTaskRequest marks one task of an entry.
type ToggleTaskRequest struct {
	Index int  `json:"tarea_index"`
	Done  bool `json:"completada"`
}

// ToggleTaskResponse returns the task counters after a toggle.
type ToggleTaskResponse struct {
	Success   bool `json:"success"`
	Completed int  `json:"completadas"`
	Total     int  `json:"total"`
}

func (h *Handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req ToggleTaskRequest
	if !decode(w, r, &req) {
		return
	}
	completed, total, err := h.service.ToggleTask(r.Context(), userID, r.PathValue("id"), req.Index, req.Done)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleTaskResponse{Success: true, Completed: completed, Total: total})
}

// CreateHabitRequest adds a habit to a month.
type CreateHabitRequest struct {
	MonthID     string `json:"mes_id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Color       string `json:"color"`
}

// HabitResponse is a created or existing habit.
type HabitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Color       string `json:"color"`
	Created     bool   `json:"creado"`
}

func (h *Handler) createHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req CreateHabitRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.MonthID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "mes_id is required")
		return
	}
	habit, created, err := h.service.CreateHabit(r.Context(), userID, req.MonthID, req.Name, req.Description, req.Color)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, createdStatus(created), HabitResponse{
		ID:          habit.ID,
		Name:        habit.Name,
		Description: habit.Description,
		Color:       habit.Color,
		Created:     created,
	})
}

// ToggleHabitRequest flips the check-in of a habit on a day.
type ToggleHabitRequest struct {
	HabitID string `json:"habito_id"`
	Day     int    `json:"dia"`
}

// ToggleHabitResponse reports the resulting state.
type ToggleHabitResponse struct {
	Success bool `json:"success"`
	Done    bool `json:"completado"`
}

func (h *Handler) toggleHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req ToggleHabitRequest
	if !decode(w, r, &req) {
		return
	}
	done, err := h.service.ToggleHabitDay(r.Context(), userID, req.HabitID, req.Day)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleHabitResponse{Success: true, Done: done})
}
