package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// WorkoutExercise is one line parsed out of free-form workout notes.
type WorkoutExercise struct {
	Name      string `json:"nombre"`
	Weight    string `json:"peso"`
	Reps      string `json:"repeticiones"`
	Completed bool   `json:"completado"`
}

const detailedMarker = "Ejercicios Detallados:"

var (
	workoutLine = regexp.MustCompile(`(?i)^[✓✗N]?\s*(.+?):\s*([\d.,PC]+),\s*(\d+x\d+.*)`)
	digits      = regexp.MustCompile(`\d+`)
)

// ParseWorkoutNotes extracts exercises written as "[✓|✗|N] Name: Weight, SxR".
// Only the text after the last "Ejercicios Detallados:" marker is considered.
func ParseWorkoutNotes(notes string) []WorkoutExercise {
	exercises := []WorkoutExercise{}
	if notes == "" {
		return exercises
	}

	text := strings.ReplaceAll(notes, `\n`, "\n")
	if i := strings.LastIndex(text, detailedMarker); i >= 0 {
		text = text[i+len(detailedMarker):]
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := workoutLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		exercises = append(exercises, WorkoutExercise{
			Name:      NormalizeExerciseName(m[1]),
			Weight:    strings.TrimSpace(m[2]),
			Reps:      strings.TrimSpace(m[3]),
			Completed: strings.HasPrefix(line, "✓"),
		})
	}
	return exercises
}

// NormalizeExerciseName trims the name and title-cases each word.
func NormalizeExerciseName(name string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.TrimSpace(name) {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// ParseRepsAndSeries reads strings such as "3x10-12" or "12" and returns the
// number of series and the truncated mean of the repetitions. Blank input
// yields (1, 0).
func ParseRepsAndSeries(value string) (series, reps int) {
	if value == "" {
		return 1, 0
	}
	text := strings.ToLower(value)
	text = strings.ReplaceAll(text, "×", "x")
	text = strings.ReplaceAll(text, " ", "")

	series = 1
	repPart := text
	if strings.Contains(text, "x") {
		parts := strings.Split(text, "x")
		if n, err := strconv.Atoi(parts[0]); err == nil && isDigits(parts[0]) {
			series = n
		}
		repPart = parts[1]
	}

	found := digits.FindAllString(repPart, -1)
	if len(found) == 0 {
		return series, 0
	}
	sum := 0
	for _, f := range found {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 1, 0
		}
		sum += n
	}
	return series, sum / len(found)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
