package domain

import "time"

// Period bounds for the analytics view, in days.
const (
	DefaultAnalyticsPeriod = 30
	MaxAnalyticsPeriod     = 365
)

// AnalyticsSeries holds one value per day; nil marks a day without data.
type AnalyticsSeries struct {
	Period int
	Labels []string
	Mood   []*float64
	Weight []*float64
	Sleep  []*float64
	Energy []*float64
	Stress []*float64
}

// NormalizePeriod applies the default and bounds to a requested period.
func NormalizePeriod(days int) int {
	switch {
	case days <= 0:
		return DefaultAnalyticsPeriod
	case days > MaxAnalyticsPeriod:
		return MaxAnalyticsPeriod
	}
	return days
}

// BuildAnalytics lays out entries and trackings over the days ending at today.
// Zero measurements count as missing.
func BuildAnalytics(period int, today time.Time, entries []Entry, trackings []DailyTracking) AnalyticsSeries {
	end := DateOf(today)
	start := end.AddDate(0, 0, -(period - 1))

	moods := make(map[time.Time]int, len(entries))
	for _, e := range entries {
		d := DateOf(e.Date)
		if _, seen := moods[d]; !seen {
			moods[d] = e.Mood
		}
	}
	tracked := make(map[time.Time]DailyTracking, len(trackings))
	for _, t := range trackings {
		tracked[DateOf(t.Date)] = t
	}

	s := AnalyticsSeries{
		Period: period,
		Labels: make([]string, 0, period),
		Mood:   make([]*float64, 0, period),
		Weight: make([]*float64, 0, period),
		Sleep:  make([]*float64, 0, period),
		Energy: make([]*float64, 0, period),
		Stress: make([]*float64, 0, period),
	}
	for i := 0; i < period; i++ {
		day := start.AddDate(0, 0, i)
		s.Labels = append(s.Labels, day.Format("02/01"))

		if mood, ok := moods[day]; ok {
			s.Mood = append(s.Mood, floatPtr(float64(mood)))
		} else {
			s.Mood = append(s.Mood, nil)
		}

		t, ok := tracked[day]
		if !ok {
			s.Weight = append(s.Weight, nil)
			s.Sleep = append(s.Sleep, nil)
			s.Energy = append(s.Energy, nil)
			s.Stress = append(s.Stress, nil)
			continue
		}
		s.Weight = append(s.Weight, nonZeroFloat(t.Weight))
		s.Sleep = append(s.Sleep, nonZeroFloat(t.SleepHours))
		s.Energy = append(s.Energy, nonZeroInt(t.Energy))
		s.Stress = append(s.Stress, nonZeroInt(t.Stress))
	}
	return s
}

func floatPtr(v float64) *float64 { return &v }

func nonZeroFloat(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return floatPtr(*v)
}

func nonZeroInt(v *int) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return floatPtr(float64(*v))
}
