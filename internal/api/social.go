package api

import (
	"net/http"

	"example.com/prosoche/internal/domain"
)

// RelationshipsResponse lists people and the latest interactions.
type RelationshipsResponse struct {
	People       []PersonView      `json:"personas"`
	Interactions []InteractionView `json:"interacciones_recientes"`
}

func (h *Handler) relationships(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	overview, err := h.service.RelationshipOverview(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := RelationshipsResponse{
		People:       make([]PersonView, 0, len(overview.People)),
		Interactions: toInteractionViews(overview.Interactions),
	}
	for _, p := range overview.People {
		resp.People = append(resp.People, toPersonView(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PersonRequest creates or updates a person.
type PersonRequest struct {
	Name     string `json:"nombre"`
	Relation string `json:"tipo_relacion"`
	Health   int    `json:"salud_relacion"`
	Notes    string `json:"notas"`
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request) {
	h.savePerson(w, r, "")
}

func (h *Handler) updatePerson(w http.ResponseWriter, r *http.Request) {
	h.savePerson(w, r, r.PathValue("id"))
}

func (h *Handler) savePerson(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req PersonRequest
	if !decode(w, r, &req) {
		return
	}
	person, err := h.service.SavePerson(r.Context(), userID, domain.Person{
		ID:       id,
		Name:     req.Name,
		Relation: domain.Relation(req.Relation),
		Health:   req.Health,
		Notes:    req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, createdStatus(id == ""), toPersonView(*person))
}

// PersonDetailResponse is a person with the interactions involving them.
type PersonDetailResponse struct {
	Person       PersonView        `json:"persona"`
	Interactions []InteractionView `json:"interacciones"`
}

func (h *Handler) personDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	view, err := h.service.PersonDetail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PersonDetailResponse{Person: toPersonView(view.Person), Interactions: toInteractionViews(view.Interactions)})
}

// InteractionRequest creates or updates an interaction.
type InteractionRequest struct {
	PersonIDs   []string `json:"personas"`
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Feeling     string   `json:"sentimiento"`
	Learning    string   `json:"aprendizaje"`
	Date        string   `json:"fecha"`
	Kind        string   `json:"tipo_interaccion"`
}

func (h *Handler) createInteraction(w http.ResponseWriter, r *http.Request) {
	h.saveInteraction(w, r, "")
}

func (h *Handler) updateInteraction(w http.ResponseWriter, r *http.Request) {
	h.saveInteraction(w, r, r.PathValue("id"))
}

func (h *Handler) saveInteraction(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req InteractionRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	interaction, err := h.service.SaveInteraction(r.Context(), userID, domain.Interaction{
		ID:          id,
		PersonIDs:   req.PersonIDs,
		Title:       req.Title,
		Description: req.Description,
		Feeling:     req.Feeling,
		Learning:    req.Learning,
		Date:        date,
		Kind:        domain.InteractionKind(req.Kind),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, createdStatus(id == ""), toInteractionView(*interaction))
}

// InsightsResponse lists the observations about the previous week.
type InsightsResponse struct {
	Insights []InsightView `json:"insights"`
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	insights, err := h.service.Insights(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := InsightsResponse{Insights: make([]InsightView, 0, len(insights))}
	for _, i := range insights {
		resp.Insights = append(resp.Insights, toInsightView(i))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AnalyticsResponse holds one value per day; null marks a day without data.
type AnalyticsResponse struct {
	Period int        `json:"periodo"`
	Labels []string   `json:"labels"`
	Mood   []*float64 `json:"animo"`
	Weight []*float64 `json:"peso"`
	Sleep  []*float64 `json:"sueno"`
	Energy []*float64 `json:"energia"`
	Stress []*float64 `json:"estres"`
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	series, err := h.service.Analytics(r.Context(), userID, queryInt(r, "periodo", domain.DefaultAnalyticsPeriod))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalyticsResponse{
		Period: series.Period,
		Labels: series.Labels,
		Mood:   series.Mood,
		Weight: series.Weight,
		Sleep:  series.Sleep,
		Energy: series.Energy,
		Stress: series.Stress,
	})
}

// DashboardResponse is the "today" view.
type DashboardResponse struct {
	Date            string           `json:"fecha"`
	Entry           *EntryView       `json:"entrada_hoy,omitempty"`
	Tracking        *TrackingView    `json:"registro_hoy,omitempty"`
	Events          []EventView      `json:"eventos_hoy"`
	PriorityArea    *AreaScoreView   `json:"area_prioritaria,omitempty"`
	NextExercise    *ExerciseView    `json:"siguiente_ejercicio,omitempty"`
	WeakRelation    *PersonView      `json:"relacion_a_cuidar,omitempty"`
	PendingLearning *InteractionView `json:"interaccion_sin_aprendizaje,omitempty"`
	Insight         *InsightView     `json:"insight,omitempty"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	d, err := h.service.Today(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := DashboardResponse{
		Date:         formatDate(d.Date),
		Entry:        toEntryPtr(d.Entry),
		Tracking:     toTrackingPtr(d.Tracking),
		Events:       toEventViews(d.Events),
		NextExercise: toExercisePtr(d.NextExercise),
		WeakRelation: toPersonPtr(d.WeakRelation),
	}
	if d.PriorityArea != nil {
		v := toAreaScoreView(*d.PriorityArea)
		resp.PriorityArea = &v
	}
	if d.PendingLearning != nil {
		v := toInteractionView(*d.PendingLearning)
		resp.PendingLearning = &v
	}
	if d.Insight != nil {
		v := toInsightView(*d.Insight)
		resp.Insight = &v
	}
	writeJSON(w, http.StatusOK, resp)
}
