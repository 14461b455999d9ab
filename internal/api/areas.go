package api

import (
	"net/http"
	"time"

	"example.com/prosoche/internal/domain"
)

// AreasResponse groups the user's life areas by priority.
type AreasResponse struct {
	High   []AreaScoreView `json:"alta"`
	Medium []AreaScoreView `json:"media"`
	Low    []AreaScoreView `json:"baja"`
	Total  int             `json:"total"`
}

func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	overview, err := h.service.ListAreas(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AreasResponse{
		High:   toAreaScoreViews(overview.High),
		Medium: toAreaScoreViews(overview.Medium),
		Low:    toAreaScoreViews(overview.Low),
		Total:  overview.Total,
	})
}

// AddAreaRequest adds a life area to the user's dashboard.
type AddAreaRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Score       int    `json:"puntuacion"`
	Priority    string `json:"prioridad"`
}

func (h *Handler) addArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req AddAreaRequest
	if !decode(w, r, &req) {
		return
	}
	score, err := h.service.AddArea(r.Context(), userID, domain.AddAreaInput{
		Name:        req.Name,
		Description: req.Description,
		Score:       req.Score,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAreaScoreView(*score))
}

// AreaDetailResponse is a life area with its quarterly plans.
type AreaDetailResponse struct {
	Area     AreaScoreView `json:"area"`
	Quarters []QuarterView `json:"trimestres"`
}

func (h *Handler) areaDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	view, err := h.service.AreaDetail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := AreaDetailResponse{Area: toAreaScoreView(view.Score), Quarters: make([]QuarterView, 0, len(view.Quarters))}
	for _, q := range view.Quarters {
		resp.Quarters = append(resp.Quarters, toQuarterView(q))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateAreaRequest is a partial update of a life area evaluation.
type UpdateAreaRequest struct {
	Score    *int    `json:"puntuacion"`
	Priority *string `json:"prioridad"`
}

func (h *Handler) updateArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req UpdateAreaRequest
	if !decode(w, r, &req) {
		return
	}
	patch := domain.AreaPatch{Score: req.Score}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	score, err := h.service.UpdateArea(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAreaScoreView(*score))
}

// QuarterRequest creates or replaces a quarterly plan.
type QuarterRequest struct {
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

func (h *Handler) saveQuarter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req QuarterRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := optionalDate(req.StartDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	end, err := optionalDate(req.EndDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.service.SaveQuarter(r.Context(), userID, r.PathValue("id"), domain.Quarter{
		ID:         req.ID,
		Label:      req.Label,
		Year:       req.Year,
		State:      domain.QuarterState(req.State),
		Objectives: req.Objectives,
		ActionPlan: req.ActionPlan,
		StartDate:  start,
		EndDate:    end,
		Results:    req.Results,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuarterView(*q))
}

// optionalDate parses a YYYY-MM-DD value; blank yields the zero time.
func optionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(value)
}

func optionalDatePtr(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ExercisesResponse is the filtered exercise list with the overall progress.
type ExercisesResponse struct {
	Filter    string          `json:"filtro"`
	Exercises []ExerciseView  `json:"ejercicios"`
	Summary   ExerciseSummary `json:"progreso"`
}

// ExerciseSummary is the overall Areté progress.
type ExerciseSummary struct {
	Total     int           `json:"total"`
	Completed int           `json:"completados"`
	ToRepeat  int           `json:"a_repetir"`
	Pending   int           `json:"sin_completar"`
	Percent   int           `json:"porcentaje"`
	Degrees   int           `json:"grados"`
	Next      *ExerciseView `json:"siguiente,omitempty"`
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListExercises(r.Context(), userID, r.URL.Query().Get("filtro"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := ExercisesResponse{
		Filter:    list.Filter,
		Exercises: make([]ExerciseView, 0, len(list.Exercises)),
		Summary: ExerciseSummary{
			Total:     list.Summary.Total,
			Completed: list.Summary.Completed,
			ToRepeat:  list.Summary.ToRepeat,
			Pending:   list.Summary.Pending,
			Percent:   list.Summary.Percent,
			Degrees:   list.Summary.Degrees,
			Next:      toExercisePtr(list.Summary.Next),
		},
	}
	for _, e := range list.Exercises {
		resp.Exercises = append(resp.Exercises, toExerciseView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateExerciseRequest adds an Areté exercise.
type CreateExerciseRequest struct {
	Name         string `json:"nombre"`
	Description  string `json:"descripcion"`
	Instructions string `json:"instrucciones"`
	Order        int    `json:"numero_orden"`
	State        string `json:"estado"`
	Reflections  string `json:"reflexiones"`
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	ex, err := h.service.CreateExercise(r.Context(), userID, domain.Exercise{
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
		Order:        req.Order,
		State:        domain.ExerciseState(req.State),
		Reflections:  req.Reflections,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExerciseView(*ex))
}

// UpdateExerciseRequest changes the state of an exercise.
type UpdateExerciseRequest struct {
	State       string `json:"estado"`
	Reflections string `json:"reflexiones"`
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	ex, err := h.service.UpdateExercise(r.Context(), userID, r.PathValue("id"), domain.ExerciseState(req.State), req.Reflections)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseView(*ex))
}

// KnowledgeResponse is a Gnosis listing.
type KnowledgeResponse struct {
	Category   string          `json:"categoria"`
	Search     string          `json:"q"`
	Items      []KnowledgeView `json:"items"`
	Total      int             `json:"total"`
	Categories []string        `json:"categorias"`
}

func (h *Handler) listKnowledge(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.reader(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	list, err := h.service.ListKnowledge(r.Context(), userID, query.Get("categoria"), query.Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := KnowledgeResponse{
		Category:   list.Category,
		Search:     list.Search,
		Items:      make([]KnowledgeView, 0, len(list.Items)),
		Total:      list.Total,
		Categories: make([]string, 0, len(domain.KnowledgeCategories)),
	}
	for _, item := range list.Items {
		resp.Items = append(resp.Items, toKnowledgeView(item))
	}
	for _, c := range domain.KnowledgeCategories {
		resp.Categories = append(resp.Categories, string(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// KnowledgeRequest adds a Gnosis item.
type KnowledgeRequest struct {
	Title     string `json:"titulo"`
	Category  string `json:"categoria"`
	State     string `json:"estado"`
	Topic     string `json:"tematica"`
	Rating    string `json:"puntuacion"`
	Author    string `json:"autor"`
	URL       string `json:"url"`
	Notes     string `json:"notas"`
	StartDate string `json:"fecha_inicio"`
	EndDate   string `json:"fecha_fin"`
}

func (h *Handler) createKnowledge(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.writer(w, r)
	if !ok {
		return
	}
	var req KnowledgeRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := optionalDatePtr(req.StartDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	end, err := optionalDatePtr(req.EndDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.service.CreateKnowledge(r.Context(), userID, domain.KnowledgeItem{
		Title:     req.Title,
		Category:  domain.KnowledgeCategory(req.Category),
		State:     domain.KnowledgeState(req.State),
		Topic:     req.Topic,
		Rating:    domain.KnowledgeRating(req.Rating),
		Author:    req.Author,
		URL:       req.URL,
		Notes:     req.Notes,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toKnowledgeView(*item))
}
