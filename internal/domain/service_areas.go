package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AreaOverview groups the user's life areas by priority.
type AreaOverview struct {
	High   []AreaScore
	Medium []AreaScore
	Low    []AreaScore
	Total  int
}

// ListAreas returns the user's life areas grouped by priority.
func (s *Service) ListAreas(ctx context.Context, userID string) (*AreaOverview, error) {
	scores, err := s.repo.ListAreaScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list area scores: %w", err)
	}
	out := &AreaOverview{High: []AreaScore{}, Medium: []AreaScore{}, Low: []AreaScore{}, Total: len(scores)}
	for _, sc := range scores {
		switch sc.Priority {
		case PriorityHigh:
			out.High = append(out.High, sc)
		case PriorityLow:
			out.Low = append(out.Low, sc)
		default:
			out.Medium = append(out.Medium, sc)
		}
	}
	return out, nil
}

// AreaView is a life area with its quarterly plans, newest first.
type AreaView struct {
	Score    AreaScore
	Quarters []Quarter
}

// AreaDetail returns one life area of the user.
func (s *Service) AreaDetail(ctx context.Context, userID, id string) (*AreaView, error) {
	score, err := s.repo.GetAreaScore(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	quarters, err := s.repo.ListQuarters(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("list quarters: %w", err)
	}
	return &AreaView{Score: *score, Quarters: quarters}, nil
}

// AreaPatch is a partial update of a life area evaluation.
type AreaPatch struct {
	Score    *int
	Priority *Priority
}

func validateAreaScore(score int) error {
	if score < MinAreaScore || score > MaxAreaScore {
		return invalid("puntuacion", "must be between 1 and 10")
	}
	return nil
}

// UpdateArea changes the score and/or priority of a life area.
func (s *Service) UpdateArea(ctx context.Context, userID, id string, patch AreaPatch) (*AreaScore, error) {
	if patch.Score != nil {
		if err := validateAreaScore(*patch.Score); err != nil {
			return nil, err
		}
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, invalid("prioridad", "is not a known priority")
	}
	score, err := s.repo.GetAreaScore(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Score != nil {
		score.Score = *patch.Score
	}
	if patch.Priority != nil {
		score.Priority = *patch.Priority
	}
	score.UpdatedAt = s.now()
	if err := s.repo.UpdateAreaScore(ctx, *score); err != nil {
		return nil, fmt.Errorf("update area score: %w", err)
	}
	return score, nil
}

// AddAreaInput names a life area to add to the user's dashboard.
type AddAreaInput struct {
	Name        string
	Description string
	Score       int
	Priority    Priority
}

// AddArea links a life area, found or created by name, to the user. Adding an
// area the user already has is a conflict.
func (s *Service) AddArea(ctx context.Context, userID string, input AddAreaInput) (*AreaScore, error) {
	name := s.text(input.Name)
	if name == "" {
		return nil, invalid("nombre", "is required")
	}
	score := input.Score
	if score == 0 {
		score = DefaultAreaScore
	}
	if err := validateAreaScore(score); err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("prioridad", "is not a known priority")
	}

	area := LifeArea{
		ID:          uuid.NewString(),
		Name:        name,
		Description: s.text(input.Description),
		Color:       DefaultColor,
		Active:      true,
	}
	created, err := s.repo.AddAreaScore(ctx, area, AreaScore{
		ID:        uuid.NewString(),
		UserID:    userID,
		Priority:  priority,
		Score:     score,
		UpdatedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("area %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("add area: %w", err)
	}
	return created, nil
}

var quarterLabel = regexp.MustCompile(`^Q[1-4]$`)

// SaveQuarter creates or replaces the plan of one quarter of a life area.
func (s *Service) SaveQuarter(ctx context.Context, userID, areaScoreID string, q Quarter) (*Quarter, error) {
	q.Label = strings.ToUpper(strings.TrimSpace(q.Label))
	if !quarterLabel.MatchString(q.Label) {
		return nil, invalid("trimestre", "must be Q1..Q4")
	}
	if q.Year < 1 || q.Year > 9999 {
		return nil, invalid("año", "is out of range")
	}
	if q.State == "" {
		q.State = QuarterPlanned
	}
	if !q.State.Valid() {
		return nil, invalid("estado", "is not a known state")
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return nil, invalid("fecha_inicio", "start and end dates are required")
	}
	if q.EndDate.Before(q.StartDate) {
		return nil, invalid("fecha_fin", "must not be before the start date")
	}
	if _, err := s.repo.GetAreaScore(ctx, userID, areaScoreID); err != nil {
		return nil, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.AreaScoreID = areaScoreID
	q.StartDate = DateOf(q.StartDate)
	q.EndDate = DateOf(q.EndDate)
	q.Objectives = s.text(q.Objectives)
	q.ActionPlan = s.text(q.ActionPlan)
	q.Results = s.text(q.Results)
	if err := s.repo.SaveQuarter(ctx, userID, q); err != nil {
		return nil, fmt.Errorf("save quarter: %w", err)
	}
	return &q, nil
}

// Exercise list filters.
const (
	FilterAll       = "todos"
	FilterCompleted = "completados"
	FilterToRepeat  = "a_repetir"
	FilterPending   = "sin_completar"
)

// ExerciseList is the filtered exercise list with the overall progress.
type ExerciseList struct {
	Filter    string
	Exercises []Exercise
	Summary   ExerciseSummary
}

// ListExercises returns the exercises matching filter, in order.
func (s *Service) ListExercises(ctx context.Context, userID, filter string) (*ExerciseList, error) {
	if filter == "" {
		filter = FilterAll
	}
	var want ExerciseState
	switch filter {
	case FilterAll:
	case FilterCompleted:
		want = ExerciseDone
	case FilterToRepeat:
		want = ExerciseToRepeat
	case FilterPending:
		want = ExercisePending
	default:
		return nil, invalid("filtro", "is not a known filter")
	}

	all, err := s.repo.ListExercises(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	filtered := make([]Exercise, 0, len(all))
	for _, e := range all {
		if want == "" || e.State == want {
			filtered = append(filtered, e)
		}
	}
	return &ExerciseList{Filter: filter, Exercises: filtered, Summary: ExerciseProgress(all)}, nil
}

// UpdateExercise sets the state of an exercise and, when given, its
// reflections. The completion time is recorded the first time it is completed.
func (s *Service) UpdateExercise(ctx context.Context, userID, id string, state ExerciseState, reflections string) (*Exercise, error) {
	if !state.Valid() {
		return nil, invalid("estado", "is not a known state")
	}
	ex, err := s.repo.GetExercise(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	ex.State = state
	if r := s.text(reflections); r != "" {
		ex.Reflections = r
	}
	if state == ExerciseDone && ex.CompletedAt == nil {
		now := s.now()
		ex.CompletedAt = &now
	}
	if err := s.repo.SaveExercise(ctx, *ex); err != nil {
		return nil, fmt.Errorf("save exercise: %w", err)
	}
	return ex, nil
}

// CreateExercise adds an exercise. Order 0 appends after the last one.
func (s *Service) CreateExercise(ctx context.Context, userID string, ex Exercise) (*Exercise, error) {
	ex.Name = s.text(ex.Name)
	if ex.Name == "" {
		return nil, invalid("nombre", "is required")
	}
	if ex.Order < 0 {
		return nil, invalid("numero_orden", "must be positive")
	}
	if ex.State == "" {
		ex.State = ExercisePending
	}
	if !ex.State.Valid() {
		return nil, invalid("estado", "is not a known state")
	}

	existing, err := s.repo.ListExercises(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	last := 0
	for _, e := range existing {
		if ex.Order != 0 && e.Order == ex.Order {
			return nil, fmt.Errorf("exercise order %d: %w", ex.Order, ErrConflict)
		}
		if e.Order > last {
			last = e.Order
		}
	}
	if ex.Order == 0 {
		ex.Order = last + 1
	}

	ex.ID = uuid.NewString()
	ex.UserID = userID
	ex.Description = s.text(ex.Description)
	ex.Instructions = s.text(ex.Instructions)
	ex.Reflections = s.text(ex.Reflections)
	if ex.State == ExerciseDone && ex.CompletedAt == nil {
		now := s.now()
		ex.CompletedAt = &now
	}
	if err := s.repo.SaveExercise(ctx, ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

// KnowledgeList is a filtered Gnosis listing with the unfiltered total.
type KnowledgeList struct {
	Category string
	Search   string
	Items    []KnowledgeItem
	Total    int
}

// ListKnowledge lists items by category ("todos" for all) and a
// case-insensitive search over title, author and topic. Newest first.
func (s *Service) ListKnowledge(ctx context.Context, userID, category, search string) (*KnowledgeList, error) {
	if category == "" {
		category = FilterAll
	}
	filter := KnowledgeFilter{Search: strings.TrimSpace(search)}
	if category != FilterAll {
		filter.Category = KnowledgeCategory(category)
		if !filter.Category.Valid() {
			return nil, invalid("categoria", "is not a known category")
		}
	}
	items, err := s.repo.ListKnowledge(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	total, err := s.repo.CountKnowledge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count knowledge: %w", err)
	}
	return &KnowledgeList{Category: category, Search: filter.Search, Items: items, Total: total}, nil
}

// CreateKnowledge adds a Gnosis item.
func (s *Service) CreateKnowledge(ctx context.Context, userID string, item KnowledgeItem) (*KnowledgeItem, error) {
	item.Title = s.text(item.Title)
	if item.Title == "" {
		return nil, invalid("titulo", "is required")
	}
	if !item.Category.Valid() {
		return nil, invalid("categoria", "is not a known category")
	}
	if item.State == "" {
		item.State = KnowledgeNotStarted
	}
	if !item.State.Valid() {
		return nil, invalid("estado", "is not a known state")
	}
	if !item.Rating.Valid() {
		return nil, invalid("puntuacion", "is not a known rating")
	}
	if item.StartDate != nil && item.EndDate != nil && item.EndDate.Before(*item.StartDate) {
		return nil, invalid("fecha_fin", "must not be before the start date")
	}
	item.ID = uuid.NewString()
	item.UserID = userID
	item.Topic = s.text(item.Topic)
	item.Author = s.text(item.Author)
	item.URL = strings.TrimSpace(item.URL)
	item.Notes = s.text(item.Notes)
	item.CreatedAt = s.now()
	if err := s.repo.CreateKnowledge(ctx, item); err != nil {
		return nil, fmt.Errorf("create knowledge: %w", err)
	}
	return &item, nil
}
