package domain

import "time"

// DailyTracking records body measurements and wellbeing for one day.
type DailyTracking struct {
	ID            string
	UserID        string
	Date          time.Time
	Weight        *float64
	BodyFat       *float64
	MuscleMass    *float64
	BodyWater     *float64
	Trained       bool
	WorkoutNotes  string
	HealthyEating bool
	Hydrated      bool
	Rested        bool
	Notes         string
	SleepHours    *float64
	SleepQuality  *int
	Energy        *int
	Stress        *int
	Steps         *int
}

// TrainingKind classifies a weekly training plan.
type TrainingKind string

const (
	TrainingWeights  TrainingKind = "pesas"
	TrainingCardio   TrainingKind = "cardio"
	TrainingMobility TrainingKind = "movilidad"
)

// Valid reports whether k is a known training kind.
func (k TrainingKind) Valid() bool {
	switch k {
	case TrainingWeights, TrainingCardio, TrainingMobility:
		return true
	}
	return false
}

// TrainingWeek is the plan for one week and kind; Days runs Monday..Sunday.
type TrainingWeek struct {
	ID        string
	UserID    string
	WeekStart time.Time
	Kind      TrainingKind
	Days      [7]string
	CreatedAt time.Time
}

// Wellbeing levels (sleep quality, energy, stress) are on a 1..5 scale.
const (
	MinLevel = 1
	MaxLevel = 5
)

func validLevel(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < MinLevel || *v > MaxLevel {
		return invalid(field, "must be between 1 and 5")
	}
	return nil
}

// Validate checks the optional wellbeing ranges.
func (t DailyTracking) Validate() error {
	if t.Date.IsZero() {
		return invalid("date", "is required")
	}
	for field, v := range map[string]*int{"sleep_quality": t.SleepQuality, "energy": t.Energy, "stress": t.Stress} {
		if err := validLevel(field, v); err != nil {
			return err
		}
	}
	if t.Steps != nil && *t.Steps < 0 {
		return invalid("steps", "must be >= 0")
	}
	if t.SleepHours != nil && (*t.SleepHours < 0 || *t.SleepHours > 24) {
		return invalid("sleep_hours", "must be between 0 and 24")
	}
	return nil
}
