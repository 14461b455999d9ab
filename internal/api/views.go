package api

import (
	"time"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/textutil"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// ObjectiveView is one of the three month or week objectives.
type ObjectiveView struct {
	Text string `json:"texto"`
	Done bool   `json:"completado"`
}

func toObjectives(in [3]domain.Objective) []ObjectiveView {
	out := make([]ObjectiveView, 0, len(in))
	for _, o := range in {
		out = append(out, ObjectiveView{Text: o.Text, Done: o.Done})
	}
	return out
}

// MonthView is a month without its children.
type MonthView struct {
	ID                  string          `json:"id"`
	Year                int             `json:"anio"`
	Month               int             `json:"mes"`
	Objectives          []ObjectiveView `json:"objetivos"`
	CompletedObjectives int             `json:"objetivos_completados"`
	Achievement         string          `json:"logro_principal"`
	Obstacle            string          `json:"obstaculo"`
	Learning            string          `json:"aprendizaje"`
	HappyMoment         string          `json:"momento_feliz"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func toMonthView(m domain.Month) MonthView {
	return MonthView{
		ID:                  m.ID,
		Year:                m.Year,
		Month:               m.Month,
		Objectives:          toObjectives(m.Objectives),
		CompletedObjectives: m.CompletedObjectives(),
		Achievement:         m.Review.Achievement,
		Obstacle:            m.Review.Obstacle,
		Learning:            m.Review.Learning,
		HappyMoment:         m.Review.HappyMoment,
		UpdatedAt:           m.UpdatedAt,
	}
}

// WeekView is a week of a month.
type WeekView struct {
	ID                  string          `json:"id"`
	Number              int             `json:"numero"`
	Objectives          []ObjectiveView `json:"objetivos"`
	CompletedObjectives int             `json:"objetivos_completados"`
}

func toWeekView(w domain.Week) WeekView {
	return WeekView{ID: w.ID, Number: w.Number, Objectives: toObjectives(w.Objectives), CompletedObjectives: w.CompletedObjectives()}
}

func toWeekPtr(w *domain.Week) *WeekView {
	if w == nil {
		return nil
	}
	v := toWeekView(*w)
	return &v
}

// EntryView is a daily page.
type EntryView struct {
	ID                string        `json:"id"`
	MonthID           string        `json:"mes_id"`
	Date              string        `json:"fecha"`
	Tags              string        `json:"etiquetas"`
	TagList           []string      `json:"lista_etiquetas"`
	Mood              int           `json:"estado_animo"`
	Intention         string        `json:"persona_quiero_ser"`
	Tasks             []domain.Task `json:"tareas"`
	Gratitude         [5]string     `json:"gratitud"`
	Media             string        `json:"podcast_libro_dia"`
	Happiness         string        `json:"felicidad"`
	WentWell          string        `json:"que_ha_ido_bien"`
	ToImprove         string        `json:"que_puedo_mejorar"`
	Reflections       string        `json:"reflexiones_dia"`
	CompletionPercent int           `json:"porcentaje_completado"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func toEntryView(e domain.Entry) EntryView {
	tasks := e.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return EntryView{
		ID:                e.ID,
		MonthID:           e.MonthID,
		Date:              formatDate(e.Date),
		Tags:              e.Tags,
		TagList:           e.TagList(),
		Mood:              e.Mood,
		Intention:         e.Intention,
		Tasks:             tasks,
		Gratitude:         e.Gratitude,
		Media:             e.Media,
		Happiness:         e.Happiness,
		WentWell:          e.WentWell,
		ToImprove:         e.ToImprove,
		Reflections:       e.Reflections,
		CompletionPercent: e.CompletionPercent(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toEntryViews(entries []domain.Entry) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryView(e))
	}
	return out
}

func toEntryPtr(e *domain.Entry) *EntryView {
	if e == nil {
		return nil
	}
	v := toEntryView(*e)
	return &v
}

// EntryDetailView adds the derived counters and rendered reflections.
type EntryDetailView struct {
	EntryView
	Month           MonthView `json:"mes"`
	CompletedTasks  int       `json:"tareas_completadas"`
	TotalTasks      int       `json:"total_tareas"`
	GratitudeItems  []string  `json:"gratitud_items"`
	ReflectionsHTML string    `json:"reflexiones_html"`
}

func toEntryDetailView(d domain.EntryDetail) (EntryDetailView, error) {
	html, err := textutil.RenderMarkdown(d.Entry.Reflections)
	if err != nil {
		return EntryDetailView{}, err
	}
	return EntryDetailView{
		EntryView:       toEntryView(d.Entry),
		Month:           toMonthView(d.Month),
		CompletedTasks:  d.CompletedTasks,
		TotalTasks:      d.TotalTasks,
		GratitudeItems:  d.GratitudeItems,
		ReflectionsHTML: html,
	}, nil
}

// HabitView is a habit with its grid for the month.
type HabitView struct {
	ID          string         `json:"id"`
	Name        string         `json:"nombre"`
	Description string         `json:"descripcion"`
	Color       string         `json:"color"`
	Days        []HabitDayView `json:"dias"`
	Percent     int            `json:"porcentaje"`
}

// HabitDayView is one cell of the habit grid.
type HabitDayView struct {
	Day  int  `json:"dia"`
	Done bool `json:"completado"`
}

func toHabitView(row domain.HabitRow) HabitView {
	days := make([]HabitDayView, 0, len(row.Days))
	for _, d := range row.Days {
		days = append(days, HabitDayView{Day: d.Day, Done: d.Done})
	}
	return HabitView{
		ID:          row.Habit.ID,
		Name:        row.Habit.Name,
		Description: row.Habit.Description,
		Color:       row.Habit.Color,
		Days:        days,
		Percent:     row.Percent,
	}
}

// MonthPageView is the full monthly journal.
type MonthPageView struct {
	Month       MonthView   `json:"mes"`
	Weeks       []WeekView  `json:"semanas"`
	CurrentWeek *WeekView   `json:"semana_actual,omitempty"`
	Entries     []EntryView `json:"entradas"`
	Habits      []HabitView `json:"habitos"`
	DaysInMonth int         `json:"dias_mes"`
	Previous    []MonthView `json:"meses_anteriores"`
}

func toMonthPageView(v domain.MonthView) MonthPageView {
	out := MonthPageView{
		Month:       toMonthView(v.Month),
		Weeks:       make([]WeekView, 0, len(v.Weeks)),
		CurrentWeek: toWeekPtr(v.CurrentWeek),
		Entries:     toEntryViews(v.Entries),
		Habits:      make([]HabitView, 0, len(v.Habits)),
		DaysInMonth: v.DaysInMonth,
		Previous:    make([]MonthView, 0, len(v.Previous)),
	}
	for _, w := range v.Weeks {
		out.Weeks = append(out.Weeks, toWeekView(w))
	}
	for _, h := range v.Habits {
		out.Habits = append(out.Habits, toHabitView(h))
	}
	for _, m := range v.Previous {
		out.Previous = append(out.Previous, toMonthView(m))
	}
	return out
}

// WeeklyReviewView is the guided review of the previous week.
type WeeklyReviewView struct {
	From           string                  `json:"fecha_inicio"`
	To             string                  `json:"fecha_fin"`
	Entries        []EntryView             `json:"entradas"`
	MoodAverage    *float64                `json:"promedio_animo"`
	TotalTasks     int                     `json:"total_tareas"`
	CompletedTasks int                     `json:"tareas_completadas"`
	TasksPercent   int                     `json:"porcentaje_tareas"`
	Interactions   []InteractionView       `json:"interacciones"`
	Balance        map[string]int          `json:"balance_interacciones"`
	TopPerson      *PersonCountView        `json:"persona_destacada,omitempty"`
	CurrentWeek    *WeekView               `json:"semana_actual,omitempty"`
	PreviousWeek   *WeekView               `json:"semana_anterior,omitempty"`
	Review         *WeeklyReviewRecordView `json:"revision,omitempty"`
}

// PersonCountView is the person seen most during the week.
type PersonCountView struct {
	Person PersonView `json:"persona"`
	Count  int        `json:"interacciones"`
}

// WeeklyReviewRecordView is the stored weekly review.
type WeeklyReviewRecordView struct {
	ID          string `json:"id"`
	WeekID      string `json:"semana_id"`
	Achievement string `json:"logro_principal"`
	Obstacle    string `json:"obstaculo"`
	Learning    string `json:"aprendizaje"`
}

func toWeeklyReviewView(v domain.WeeklyReviewView) WeeklyReviewView {
	out := WeeklyReviewView{
		From:           formatDate(v.From),
		To:             formatDate(v.To),
		Entries:        toEntryViews(v.Summary.Entries),
		MoodAverage:    v.Summary.MoodAverage,
		TotalTasks:     v.Summary.TotalTasks,
		CompletedTasks: v.Summary.CompletedTasks,
		TasksPercent:   v.Summary.TasksPercent,
		Interactions:   toInteractionViews(v.Summary.Interactions),
		Balance:        make(map[string]int, len(v.Summary.Balance)),
		CurrentWeek:    toWeekPtr(v.CurrentWeek),
		PreviousWeek:   toWeekPtr(v.PreviousWeek),
	}
	for kind, n := range v.Summary.Balance {
		out.Balance[string(kind)] = n
	}
	if top := v.Summary.TopPerson; top != nil {
		out.TopPerson = &PersonCountView{Person: toPersonView(top.Person), Count: top.Count}
	}
	if r := v.Review; r != nil {
		out.Review = &WeeklyReviewRecordView{ID: r.ID, WeekID: r.WeekID, Achievement: r.Achievement, Obstacle: r.Obstacle, Learning: r.Learning}
	}
	return out
}

// AreaScoreView is a user's evaluation of a life area.
type AreaScoreView struct {
	ID          string    `json:"id"`
	AreaID      string    `json:"area_id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Icon        string    `json:"icono"`
	Color       string    `json:"color"`
	Priority    string    `json:"prioridad"`
	Score       int       `json:"puntuacion"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAreaScoreView(s domain.AreaScore) AreaScoreView {
	return AreaScoreView{
		ID:          s.ID,
		AreaID:      s.Area.ID,
		Name:        s.Area.Name,
		Description: s.Area.Description,
		Icon:        s.Area.Icon,
		Color:       s.Area.Color,
		Priority:    string(s.Priority),
		Score:       s.Score,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toAreaScoreViews(in []domain.AreaScore) []AreaScoreView {
	out := make([]AreaScoreView, 0, len(in))
	for _, s := range in {
		out = append(out, toAreaScoreView(s))
	}
	return out
}

// QuarterView is a quarterly plan.
type QuarterView struct {
	ID         string `json:"id"`
	Label      string `json:"trimestre"`
	Year       int    `json:"anio"`
	State      string `json:"estado"`
	Objectives string `json:"objetivos"`
	ActionPlan string `json:"plan_accion"`
	StartDate  string `json:"fecha_inicio"`
	EndDate    string `json:"fecha_fin"`
	Results    string `json:"resultados"`
}

func toQuarterView(q domain.Quarter) QuarterView {
	return QuarterView{
		ID:         q.ID,
		Label:      q.Label,
		Year:       q.Year,
		State:      string(q.State),
		Objectives: q.Objectives,
		ActionPlan: q.ActionPlan,
		StartDate:  formatDate(q.StartDate),
		EndDate:    formatDate(q.EndDate),
		Results:    q.Results,
	}
}

// ExerciseView is an Areté exercise.
type ExerciseView struct {
	ID           string     `json:"id"`
	Name         string     `json:"nombre"`
	Description  string     `json:"descripcion"`
	Instructions string     `json:"instrucciones"`
	State        string     `json:"estado"`
	CompletedAt  *time.Time `json:"fecha_completado,omitempty"`
	Reflections  string     `json:"reflexiones"`
	Order        int        `json:"numero_orden"`
}

func toExerciseView(e domain.Exercise) ExerciseView {
	return ExerciseView{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Instructions: e.Instructions,
		State:        string(e.State),
		CompletedAt:  e.CompletedAt,
		Reflections:  e.Reflections,
		Order:        e.Order,
	}
}

func toExercisePtr(e *domain.Exercise) *ExerciseView {
	if e == nil {
		return nil
	}
	v := toExerciseView(*e)
	return &v
}

// KnowledgeView is a Gnosis item.
type KnowledgeView struct {
	ID        string    `json:"id"`
	Title     string    `json:"titulo"`
	Category  string    `json:"categoria"`
	State     string    `json:"estado"`
	Topic     string    `json:"tematica"`
	Rating    string    `json:"puntuacion,omitempty"`
	Author    string    `json:"autor"`
	URL       string    `json:"url"`
	Notes     string    `json:"notas"`
	StartDate *string   `json:"fecha_inicio,omitempty"`
	EndDate   *string   `json:"fecha_fin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toKnowledgeView(k domain.KnowledgeItem) KnowledgeView {
	return KnowledgeView{
		ID:        k.ID,
		Title:     k.Title,
		Category:  string(k.Category),
		State:     string(k.State),
		Topic:     k.Topic,
		Rating:    string(k.Rating),
		Author:    k.Author,
		URL:       k.URL,
		Notes:     k.Notes,
		StartDate: formatDatePtr(k.StartDate),
		EndDate:   formatDatePtr(k.EndDate),
		CreatedAt: k.CreatedAt,
	}
}

// TrackingView is the health tracking of a day.
type TrackingView struct {
	ID            string   `json:"id"`
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

func toTrackingView(t domain.DailyTracking) TrackingView {
	return TrackingView{
		ID:            t.ID,
		Date:          formatDate(t.Date),
		Weight:        t.Weight,
		BodyFat:       t.BodyFat,
		MuscleMass:    t.MuscleMass,
		BodyWater:     t.BodyWater,
		Trained:       t.Trained,
		WorkoutNotes:  t.WorkoutNotes,
		HealthyEating: t.HealthyEating,
		Hydrated:      t.Hydrated,
		Rested:        t.Rested,
		Notes:         t.Notes,
		SleepHours:    t.SleepHours,
		SleepQuality:  t.SleepQuality,
		Energy:        t.Energy,
		Stress:        t.Stress,
		Steps:         t.Steps,
	}
}

func toTrackingPtr(t *domain.DailyTracking) *TrackingView {
	if t == nil {
		return nil
	}
	v := toTrackingView(*t)
	return &v
}

// TrainingWeekView is a weekly training plan.
type TrainingWeekView struct {
	ID        string    `json:"id"`
	WeekStart string    `json:"semana_inicio"`
	Kind      string    `json:"tipo"`
	Days      [7]string `json:"dias"`
}

func toTrainingWeekView(w domain.TrainingWeek) TrainingWeekView {
	return TrainingWeekView{ID: w.ID, WeekStart: formatDate(w.WeekStart), Kind: string(w.Kind), Days: w.Days}
}

// WorkoutExerciseView is a parsed workout line with its series and mean reps.
type WorkoutExerciseView struct {
	domain.WorkoutExercise
	Series  int `json:"series"`
	AvgReps int `json:"repeticiones_promedio"`
}

func toWorkoutViews(in []domain.WorkoutExercise) []WorkoutExerciseView {
	out := make([]WorkoutExerciseView, 0, len(in))
	for _, ex := range in {
		series, reps := domain.ParseRepsAndSeries(ex.Reps)
		out = append(out, WorkoutExerciseView{WorkoutExercise: ex, Series: series, AvgReps: reps})
	}
	return out
}

// EventView is a calendar event.
type EventView struct {
	ID              string     `json:"id"`
	Title           string     `json:"titulo"`
	Description     string     `json:"descripcion"`
	Kind            string     `json:"tipo"`
	StartsAt        time.Time  `json:"fecha_inicio"`
	EndsAt          *time.Time `json:"fecha_fin,omitempty"`
	AllDay          bool       `json:"todo_el_dia"`
	Reminder        bool       `json:"recordatorio"`
	ReminderMinutes int        `json:"minutos_recordatorio"`
	Done            bool       `json:"completado"`
	Color           string     `json:"color"`
}

func toEventView(e domain.Event) EventView {
	return EventView{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Kind:            string(e.Kind),
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		AllDay:          e.AllDay,
		Reminder:        e.Reminder,
		ReminderMinutes: e.ReminderMinutes,
		Done:            e.Done,
		Color:           e.Color,
	}
}

func toEventViews(in []domain.Event) []EventView {
	out := make([]EventView, 0, len(in))
	for _, e := range in {
		out = append(out, toEventView(e))
	}
	return out
}

// FeedEvent is the calendar widget representation of an event.
type FeedEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Color       string     `json:"color"`
	AllDay      bool       `json:"allDay"`
	Description string     `json:"description"`
}

// PlanSlotView is one hour of the daily plan.
type PlanSlotView struct {
	ID          string `json:"id"`
	Date        string `json:"fecha"`
	Hour        string `json:"hora"`
	Activity    string `json:"actividad"`
	Description string `json:"descripcion"`
	Done        bool   `json:"completado"`
}

func toPlanSlotView(p domain.PlanSlot) PlanSlotView {
	return PlanSlotView{ID: p.ID, Date: formatDate(p.Date), Hour: p.Hour, Activity: p.Activity, Description: p.Description, Done: p.Done}
}

// PersonView is someone important to the user.
type PersonView struct {
	ID       string    `json:"id"`
	Name     string    `json:"nombre"`
	Relation string    `json:"tipo_relacion"`
	Health   int       `json:"salud_relacion"`
	Notes    string    `json:"notas"`
	Created  time.Time `json:"created_at"`
}

func toPersonView(p domain.Person) PersonView {
	return PersonView{ID: p.ID, Name: p.Name, Relation: string(p.Relation), Health: p.Health, Notes: p.Notes, Created: p.CreatedAt}
}

func toPersonPtr(p *domain.Person) *PersonView {
	if p == nil {
		return nil
	}
	v := toPersonView(*p)
	return &v
}

// InteractionView is a moment shared with people.
type InteractionView struct {
	ID          string   `json:"id"`
	PersonIDs   []string `json:"personas"`
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Feeling     string   `json:"sentimiento"`
	Learning    string   `json:"aprendizaje"`
	Date        string   `json:"fecha"`
	Kind        string   `json:"tipo_interaccion"`
}

func toInteractionView(in domain.Interaction) InteractionView {
	ids := in.PersonIDs
	if ids == nil {
		ids = []string{}
	}
	return InteractionView{
		ID:          in.ID,
		PersonIDs:   ids,
		Title:       in.Title,
		Description: in.Description,
		Feeling:     in.Feeling,
		Learning:    in.Learning,
		Date:        formatDate(in.Date),
		Kind:        string(in.Kind),
	}
}

func toInteractionViews(in []domain.Interaction) []InteractionView {
	out := make([]InteractionView, 0, len(in))
	for _, i := range in {
		out = append(out, toInteractionView(i))
	}
	return out
}

// InsightView is one observation of the Oráculo.
type InsightView struct {
	Title   string     `json:"titulo"`
	Message string     `json:"mensaje"`
	Kind    string     `json:"tipo"`
	Action  ActionView `json:"accion"`
}

// ActionView links an insight to a follow-up screen.
type ActionView struct {
	Text string `json:"texto"`
	Path string `json:"url"`
}

func toInsightView(i domain.Insight) InsightView {
	return InsightView{Title: i.Title, Message: i.Message, Kind: string(i.Kind), Action: ActionView{Text: i.Action.Text, Path: i.Action.Path}}
}
