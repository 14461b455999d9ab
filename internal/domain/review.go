package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// WeekSummary aggregates the records of a finished week.
type WeekSummary struct {
	Entries        []Entry
	MoodAverage    *float64
	TotalTasks     int
	CompletedTasks int
	TasksPercent   int
	Interactions   []Interaction
	Balance        map[InteractionKind]int
	TopPerson      *PersonCount
}

// PersonCount is a person with the number of interactions they appear in.
type PersonCount struct {
	Person Person
	Count  int
}

// SummarizeWeek computes the weekly review figures. people resolves the
// person IDs referenced by interactions; unknown IDs are ignored.
func SummarizeWeek(entries []Entry, interactions []Interaction, people []Person) WeekSummary {
	s := WeekSummary{
		Entries:      entries,
		Interactions: interactions,
		Balance:      make(map[InteractionKind]int),
	}

	if len(entries) > 0 {
		var m mean
		for _, e := range entries {
			m.add(float64(e.Mood))
			s.TotalTasks += e.TotalTasks()
			s.CompletedTasks += e.CompletedTasks()
		}
		avg := math.RoundToEven(m.value()*10) / 10
		s.MoodAverage = &avg
	}
	s.TasksPercent = roundPercent(s.CompletedTasks, s.TotalTasks)

	byID := make(map[string]Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	counts := make(map[string]int)
	var order []string
	for _, in := range interactions {
		s.Balance[in.Kind]++
		for _, id := range in.PersonIDs {
			if _, ok := byID[id]; !ok {
				continue
			}
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
		}
	}
	// Ties go to the person seen first.
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > 0 {
		s.TopPerson = &PersonCount{Person: byID[order[0]], Count: counts[order[0]]}
	}
	return s
}

// SuggestedReview pre-fills a weekly review from what went well and what
// could improve during the week.
func SuggestedReview(entries []Entry) (achievement, learning string) {
	var well, improve []string
	for _, e := range entries {
		if e.WentWell != "" {
			well = append(well, e.WentWell)
		}
		if e.ToImprove != "" {
			improve = append(improve, e.ToImprove)
		}
	}
	return bulletList(well), bulletList(improve)
}

func bulletList(items []string) string {
	return " - " + strings.Join(items, "\n - ")
}

// Entry fields that may be written one at a time by the auto-save endpoint.
const (
	FieldTags        = "etiquetas"
	FieldMood        = "estado_animo"
	FieldIntention   = "persona_quiero_ser"
	FieldMedia       = "podcast_libro_dia"
	FieldHappiness   = "felicidad"
	FieldWentWell    = "que_ha_ido_bien"
	FieldToImprove   = "que_puedo_mejorar"
	FieldReflections = "reflexiones_dia"
)

// SetField assigns a single named field. Unknown names fail validation.
func (e *Entry) SetField(field, value string) error {
	switch field {
	case FieldTags:
		e.Tags = value
	case FieldMood:
		mood, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalid(field, "must be a number")
		}
		if err := validateMood(mood); err != nil {
			return err
		}
		e.Mood = mood
	case FieldIntention:
		e.Intention = value
	case FieldMedia:
		e.Media = value
	case FieldHappiness:
		e.Happiness = value
	case FieldWentWell:
		e.WentWell = value
	case FieldToImprove:
		e.ToImprove = value
	case FieldReflections:
		e.Reflections = value
	default:
		n, ok := gratitudeField(field)
		if !ok {
			return &ValidationError{Reason: "campo " + field + " no válido"}
		}
		e.Gratitude[n] = value
	}
	return nil
}

// IsTextField reports whether field holds free text.
func IsTextField(field string) bool {
	return field != FieldMood
}

func gratitudeField(field string) (int, bool) {
	rest, ok := strings.CutPrefix(field, "gratitud_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > len(Entry{}.Gratitude) {
		return 0, false
	}
	return n - 1, true
}

func validateMood(mood int) error {
	if mood < 1 || mood > 5 {
		return invalid("mood", "must be between 1 and 5")
	}
	return nil
}
