package api

import (
	"net/http"
	"time"

	"example.com/prosoche/internal/domain"
)

// VitalityResponse is the Vires screen.
type VitalityResponse struct {
	Date          string                `json:"fecha"`
	WeekStart     string                `json:"semana_inicio"`
	Today         *TrackingView         `json:"hoy,omitempty"`
	TodayWorkout  []WorkoutExerciseView `json:"ejercicios_hoy"`
	TrainingWeeks []TrainingWeekView    `json:"entrenamientos_semana"`
	Recent        []TrackingView        `json:"ultimos_registros"`
}

func (h *Handler) vitality(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	overview, err := h.service.VitalityOverview(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := VitalityResponse{
		Date:          formatDate(overview.Date),
		WeekStart:     formatDate(overview.WeekStart),
		Today:         toTrackingPtr(overview.Today),
		TodayWorkout:  toWorkoutViews(overview.TodayWorkout),
		TrainingWeeks: make([]TrainingWeekView, 0, len(overview.TrainingWeeks)),
		Recent:        make([]TrackingView, 0, len(overview.Recent)),
	}
	for _, tw := range overview.TrainingWeeks {
		resp.TrainingWeeks = append(resp.TrainingWeeks, toTrainingWeekView(tw))
	}
	for _, t := range overview.Recent {
		resp.Recent = append(resp.Recent, toTrackingView(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// TrackingRequest stores the tracking of a day (today when fecha is blank).
type TrackingRequest struct {
	Date          string   `json:"fecha"`
	Weight        *float64 `json:"peso"`
	BodyFat       *float64 `json:"grasa_corporal"`
	MuscleMass    *float64 `json:"masa_muscular"`
	BodyWater     *float64 `json:"agua_corporal"`
	Trained       bool     `json:"entrenamiento"`
	WorkoutNotes  string   `json:"notas_entrenamiento"`
	HealthyEating bool     `json:"alimentacion_saludable"`
	Hydrated      bool     `json:"hidratacion"`
	Rested        bool     `json:"descanso"`
	Notes         string   `json:"notas"`
	SleepHours    *float64 `json:"horas_sueno"`
	SleepQuality  *int     `json:"calidad_sueno"`
	Energy        *int     `json:"nivel_energia"`
	Stress        *int     `json:"nivel_estres"`
	Steps         *int     `json:"pasos"`
}

// TrackingResponse reports whether the tracking was new.
type TrackingResponse struct {
	Tracking TrackingView `json:"registro"`
	Created  bool         `json:"creado"`
}

func (h *Handler) saveTracking(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req TrackingRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tracking, created, err := h.service.SaveTracking(r.Context(), userID, domain.DailyTracking{
		Date:          date,
		Weight:        req.Weight,
		BodyFat:       req.BodyFat,
		MuscleMass:    req.MuscleMass,
		BodyWater:     req.BodyWater,
		Trained:       req.Trained,
		WorkoutNotes:  req.WorkoutNotes,
		HealthyEating: req.HealthyEating,
		Hydrated:      req.Hydrated,
		Rested:        req.Rested,
		Notes:         req.Notes,
		SleepHours:    req.SleepHours,
		SleepQuality:  req.SleepQuality,
		Energy:        req.Energy,
		Stress:        req.Stress,
		Steps:         req.Steps,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, createdStatus(created), TrackingResponse{Tracking: toTrackingView(*tracking), Created: created})
}

// TrainingRequest stores a weekly training plan.
type TrainingRequest struct {
	WeekStart string   `json:"semana_inicio"`
	Kind      string   `json:"tipo"`
	Days      []string `json:"dias"`
}

func (h *Handler) saveTraining(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req TrainingRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := optionalDate(req.WeekStart)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	week := domain.TrainingWeek{WeekStart: start, Kind: domain.TrainingKind(req.Kind)}
	copy(week.Days[:], req.Days)
	saved, err := h.service.SaveTrainingWeek(r.Context(), userID, week)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrainingWeekView(*saved))
}

// WorkoutNotesRequest carries free-form workout notes.
type WorkoutNotesRequest struct {
	Notes string `json:"notas"`
}

// WorkoutNotesResponse lists the exercises found in the notes.
type WorkoutNotesResponse struct {
	Exercises []WorkoutExerciseView `json:"ejercicios"`
}

func (h *Handler) parseWorkout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.reader(w, r); !ok {
		return
	}
	var req WorkoutNotesRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, WorkoutNotesResponse{Exercises: toWorkoutViews(domain.ParseWorkoutNotes(req.Notes))})
}

// CalendarResponse lists the events of a month and of today.
type CalendarResponse struct {
	Year   int         `json:"anio"`
	Month  int         `json:"mes"`
	Events []EventView `json:"eventos"`
	Today  []EventView `json:"eventos_hoy"`
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	now := h.now()
	year := queryInt(r, "anio", now.Year())
	month := queryInt(r, "mes", int(now.Month()))
	view, err := h.service.CalendarMonth(r.Context(), userID, year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarResponse{
		Year:   view.Year,
		Month:  view.Month,
		Events: toEventViews(view.Events),
		Today:  toEventViews(view.Today),
	})
}

// EventRequest creates a calendar event. Times are RFC 3339.
type EventRequest struct {
	Title           string     `json:"titulo"`
	Description     string     `json:"descripcion"`
	Kind            string     `json:"tipo"`
	StartsAt        time.Time  `json:"fecha_inicio"`
	EndsAt          *time.Time `json:"fecha_fin"`
	AllDay          bool       `json:"todo_el_dia"`
	Reminder        bool       `json:"recordatorio"`
	ReminderMinutes int        `json:"minutos_recordatorio"`
	Color           string     `json:"color"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !decode(w, r, &req) {
		return
	}
	event, err := h.service.CreateEvent(r.Context(), userID, domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		Kind:            domain.EventKind(req.Kind),
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		AllDay:          req.AllDay,
		Reminder:        req.Reminder,
		ReminderMinutes: req.ReminderMinutes,
		Color:           req.Color,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(*event))
}

func (h *Handler) eventFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	events, err := h.service.EventFeed(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	feed := make([]FeedEvent, 0, len(events))
	for _, e := range events {
		feed = append(feed, FeedEvent{
			ID:          e.ID,
			Title:       e.Title,
			Start:       e.StartsAt,
			End:         e.EndsAt,
			Color:       e.Color,
			AllDay:      e.AllDay,
			Description: e.Description,
		})
	}
	writeJSON(w, http.StatusOK, feed)
}

// DayPlanResponse is the hourly plan of a day.
type DayPlanResponse struct {
	Date  string         `json:"fecha"`
	Slots []PlanSlotView `json:"franjas"`
}

func (h *Handler) dayPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	date, err := optionalDate(r.URL.Query().Get("fecha"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if date.IsZero() {
		date = domain.DateOf(h.now())
	}
	slots, err := h.service.DayPlan(r.Context(), userID, date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := DayPlanResponse{Date: formatDate(date), Slots: make([]PlanSlotView, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, toPlanSlotView(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PlanSlotRequest stores one hour of a daily plan.
type PlanSlotRequest struct {
	Date        string `json:"fecha"`
	Hour        string `json:"hora"`
	Activity    string `json:"actividad"`
	Description string `json:"descripcion"`
	Done        bool   `json:"completado"`
}

func (h *Handler) savePlanSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req PlanSlotRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slot, err := h.service.SavePlanSlot(r.Context(), userID, domain.PlanSlot{
		Date:        date,
		Hour:        req.Hour,
		Activity:    req.Activity,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanSlotView(*slot))
}
