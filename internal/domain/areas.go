package domain

import "time"

// Priority ranks a life area for the user.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// LifeArea is a shared catalogue entry such as "Salud" or "Finanzas".
type LifeArea struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Active      bool
}

// AreaScore is a user's evaluation of a life area.
type AreaScore struct {
	ID        string
	UserID    string
	Area      LifeArea
	Priority  Priority
	Score     int
	UpdatedAt time.Time
}

// Score bounds for life areas.
const (
	MinAreaScore     = 1
	MaxAreaScore     = 10
	DefaultAreaScore = 5
)

// QuarterState tracks the progress of a quarterly plan.
type QuarterState string

const (
	QuarterPlanned    QuarterState = "planificado"
	QuarterInProgress QuarterState = "en_progreso"
	QuarterDone       QuarterState = "completado"
	QuarterPaused     QuarterState = "pausado"
)

// Valid reports whether s is a known quarter state.
func (s QuarterState) Valid() bool {
	switch s {
	case QuarterPlanned, QuarterInProgress, QuarterDone, QuarterPaused:
		return true
	}
	return false
}

// Quarter is a three-month plan for a life area.
type Quarter struct {
	ID          string
	AreaScoreID string
	Label       string
	Year        int
	State       QuarterState
	Objectives  string
	ActionPlan  string
	StartDate   time.Time
	EndDate     time.Time
	Results     string
}

// ExerciseState is the completion state of an Areté exercise.
type ExerciseState string

const (
	ExercisePending  ExerciseState = "sin_completar"
	ExerciseDone     ExerciseState = "completado"
	ExerciseToRepeat ExerciseState = "a_repetir"
)

// Valid reports whether s is a known exercise state.
func (s ExerciseState) Valid() bool {
	switch s {
	case ExercisePending, ExerciseDone, ExerciseToRepeat:
		return true
	}
	return false
}

// Exercise is a personal development exercise worked through in order.
type Exercise struct {
	ID           string
	UserID       string
	Name         string
	Description  string
	Instructions string
	State        ExerciseState
	CompletedAt  *time.Time
	Reflections  string
	Order        int
}

// ExerciseSummary aggregates the progress over all exercises of a user.
type ExerciseSummary struct {
	Total     int
	Completed int
	ToRepeat  int
	Pending   int
	Percent   int
	Degrees   int
	Next      *Exercise
}

// ExerciseProgress summarises exercises; the input must be sorted by Order.
func ExerciseProgress(exercises []Exercise) ExerciseSummary {
	var s ExerciseSummary
	s.Total = len(exercises)
	for i := range exercises {
		switch exercises[i].State {
		case ExerciseDone:
			s.Completed++
		case ExerciseToRepeat:
			s.ToRepeat++
		case ExercisePending:
			if s.Next == nil {
				next := exercises[i]
				s.Next = &next
			}
		}
	}
	s.Pending = s.Total - s.Completed - s.ToRepeat
	if s.Total > 0 {
		s.Percent = s.Completed * 100 / s.Total
		s.Degrees = s.Completed * 360 / s.Total
	}
	return s
}

// KnowledgeCategory classifies a Gnosis item.
type KnowledgeCategory string

const (
	CategoryPodcast KnowledgeCategory = "podcast"
	CategoryVideo   KnowledgeCategory = "video"
	CategoryBook    KnowledgeCategory = "libro"
	CategoryRecipe  KnowledgeCategory = "receta"
	CategoryArticle KnowledgeCategory = "articulo"
)

// KnowledgeCategories lists the categories in display order.
var KnowledgeCategories = []KnowledgeCategory{CategoryPodcast, CategoryVideo, CategoryBook, CategoryRecipe, CategoryArticle}

// Valid reports whether c is a known category.
func (c KnowledgeCategory) Valid() bool {
	for _, known := range KnowledgeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// KnowledgeState tracks consumption of a Gnosis item.
type KnowledgeState string

const (
	KnowledgeFinished   KnowledgeState = "finalizado"
	KnowledgeInProgress KnowledgeState = "en_progreso"
	KnowledgeNotStarted KnowledgeState = "no_empezado"
)

// Valid reports whether s is a known state.
func (s KnowledgeState) Valid() bool {
	switch s {
	case KnowledgeFinished, KnowledgeInProgress, KnowledgeNotStarted:
		return true
	}
	return false
}

// KnowledgeRating is the optional verdict on a Gnosis item.
type KnowledgeRating string

const (
	RatingLegendary KnowledgeRating = "legendario"
	RatingVeryGood  KnowledgeRating = "muy_bueno"
	RatingGood      KnowledgeRating = "bueno"
	RatingFair      KnowledgeRating = "regular"
	RatingBad       KnowledgeRating = "malo"
)

// Valid reports whether r is empty or a known rating.
func (r KnowledgeRating) Valid() bool {
	switch r {
	case "", RatingLegendary, RatingVeryGood, RatingGood, RatingFair, RatingBad:
		return true
	}
	return false
}

// KnowledgeItem is a book, podcast, video, recipe or article.
type KnowledgeItem struct {
	ID        string
	UserID    string
	Title     string
	Category  KnowledgeCategory
	State     KnowledgeState
	Topic     string
	Rating    KnowledgeRating
	Author    string
	URL       string
	Notes     string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

// KnowledgeFilter narrows a Gnosis listing. An empty category means all.
type KnowledgeFilter struct {
	Category KnowledgeCategory
	Search   string
}
