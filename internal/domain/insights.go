package domain

import (
	"fmt"
	"math"
	"time"
)

// InsightKind drives how an insight is presented.
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightSuccess InsightKind = "success"
	InsightWarning InsightKind = "warning"
)

// Action points the user at the screen that follows up on an insight.
type Action struct {
	Text string
	Path string
}

// Insight is one observation about the previous week.
type Insight struct {
	Title   string
	Message string
	Kind    InsightKind
	Action  Action
}

// Paths referenced by insight actions.
const (
	WeeklyReviewPath = "/v1/prosoche/weekly-review"
	AnalyticsPath    = "/v1/analiticas"
)

// minInsightSamples is the number of records a correlation needs.
const minInsightSamples = 3

// GenerateWeeklyInsights derives observations from one week of entries and
// trackings. The result is never empty.
func GenerateWeeklyInsights(entries []Entry, trackings []DailyTracking) []Insight {
	if len(entries) == 0 && len(trackings) == 0 {
		return []Insight{{
			Title:   "Una Semana de Datos",
			Message: "Has completado otra semana de seguimiento. Cada dato que registras es un paso más hacia el autoconocimiento. Sigue así, el camino del filósofo se construye día a día.",
			Kind:    InsightInfo,
			Action:  Action{Text: "Hacer Revisión Semanal", Path: WeeklyReviewPath},
		}}
	}

	var insights []Insight

	if len(trackings) >= minInsightSamples {
		var good, bad mean
		for _, t := range trackings {
			if t.SleepHours == nil || t.Energy == nil {
				continue
			}
			if *t.SleepHours >= 7 {
				good.add(float64(*t.Energy))
			} else {
				bad.add(float64(*t.Energy))
			}
		}
		if good.n > 0 && bad.n > 0 && good.value() > bad.value() {
			improvement := int(math.RoundToEven((good.value()/bad.value() - 1) * 100))
			insights = append(insights, Insight{
				Title:   "El Descanso es tu Poder",
				Message: fmt.Sprintf("Análisis de la semana: los días que duermes 7 horas o más, tu nivel de energía promedio es un %d%% más alto. El descanso no es tiempo perdido, es una inversión.", improvement),
				Kind:    InsightSuccess,
				Action:  Action{Text: "Planificar Descanso", Path: WeeklyReviewPath},
			})
		}
	}

	if len(trackings) >= minInsightSamples && len(entries) >= minInsightSamples {
		stressed := make(map[time.Time]struct{})
		for _, t := range trackings {
			if t.Stress != nil && *t.Stress >= 4 {
				stressed[DateOf(t.Date)] = struct{}{}
			}
		}
		var high, low mean
		for _, e := range entries {
			if _, ok := stressed[DateOf(e.Date)]; ok {
				high.add(float64(e.Mood))
			} else {
				low.add(float64(e.Mood))
			}
		}
		if high.n > 0 && low.n > 0 && high.value() < low.value() {
			insights = append(insights, Insight{
				Title:   "La Fortaleza ante la Tensión",
				Message: "Hemos observado que en tus días de mayor estrés, tu estado de ánimo tiende a bajar. Recuerda las herramientas estoicas: enfócate en lo que puedes controlar y acepta lo demás.",
				Kind:    InsightWarning,
				Action:  Action{Text: "Reflexionar sobre el Estrés", Path: AnalyticsPath},
			})
		}
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{
			Title:   "El Viaje Continúa",
			Message: "Sigue registrando tus datos para descubrir patrones más profundos. La constancia es la clave de la sabiduría.",
			Kind:    InsightInfo,
			Action:  Action{Text: "Ver mi Progreso", Path: AnalyticsPath},
		})
	}
	return insights
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}
