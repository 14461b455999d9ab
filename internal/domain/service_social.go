package domain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const recentInteractionsLimit = 10

// RelationshipOverview lists people and the latest interactions.
type RelationshipOverview struct {
	People       []Person
	Interactions []Interaction
}

// RelationshipOverview returns people ordered by relation and name, plus the
// last interactions.
func (s *Service) RelationshipOverview(ctx context.Context, userID string) (*RelationshipOverview, error) {
	people, err := s.repo.ListPeople(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	interactions, err := s.repo.ListInteractions(ctx, userID, recentInteractionsLimit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return &RelationshipOverview{People: people, Interactions: interactions}, nil
}

// SavePerson creates a person or updates one identified by p.ID.
func (s *Service) SavePerson(ctx context.Context, userID string, p Person) (*Person, error) {
	p.Name = s.text(p.Name)
	if p.Name == "" {
		return nil, invalid("nombre", "is required")
	}
	if p.Relation == "" {
		p.Relation = RelationFriend
	}
	if !p.Relation.Valid() {
		return nil, invalid("tipo_relacion", "is not a known relation")
	}
	if p.Health == 0 {
		p.Health = DefaultHealth
	}
	if p.Health < 1 || p.Health > 5 {
		return nil, invalid("salud_relacion", "must be between 1 and 5")
	}
	p.Notes = s.text(p.Notes)
	p.UserID = userID

	if p.ID != "" {
		existing, err := s.repo.GetPerson(ctx, userID, p.ID)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = s.now()
	}
	if err := s.repo.SavePerson(ctx, p); err != nil {
		return nil, fmt.Errorf("save person: %w", err)
	}
	return &p, nil
}

// SaveInteraction creates an interaction or updates one identified by in.ID.
// Every referenced person must belong to the user.
func (s *Service) SaveInteraction(ctx context.Context, userID string, in Interaction) (*Interaction, error) {
	in.Title = s.text(in.Title)
	if in.Title == "" {
		return nil, invalid("titulo", "is required")
	}
	if in.Kind == "" {
		in.Kind = InteractionNeutral
	}
	if !in.Kind.Valid() {
		return nil, invalid("tipo_interaccion", "is not a known interaction kind")
	}
	if in.Date.IsZero() {
		in.Date = s.today()
	}
	in.Date = DateOf(in.Date)

	ids := dedupe(in.PersonIDs)
	if len(ids) > 0 {
		owned, err := s.repo.CountOwnedPeople(ctx, userID, ids)
		if err != nil {
			return nil, fmt.Errorf("count people: %w", err)
		}
		if owned != len(ids) {
			return nil, invalid("personas", "must belong to the user")
		}
	}
	in.PersonIDs = ids

	if in.ID != "" {
		if _, err := s.repo.GetInteraction(ctx, userID, in.ID); err != nil {
			return nil, err
		}
	} else {
		in.ID = uuid.NewString()
	}
	in.UserID = userID
	in.Description = s.text(in.Description)
	in.Feeling = s.text(in.Feeling)
	in.Learning = s.text(in.Learning)
	if err := s.repo.SaveInteraction(ctx, in); err != nil {
		return nil, fmt.Errorf("save interaction: %w", err)
	}
	return &in, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// PersonView is a person with the interactions involving them.
type PersonView struct {
	Person       Person
	Interactions []Interaction
}

// PersonDetail returns a person of the user with their interactions, newest first.
func (s *Service) PersonDetail(ctx context.Context, userID, id string) (*PersonView, error) {
	person, err := s.repo.GetPerson(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	interactions, err := s.repo.ListPersonInteractions(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("list person interactions: %w", err)
	}
	return &PersonView{Person: *person, Interactions: interactions}, nil
}

// Insights evaluates the previous week of the user.
func (s *Service) Insights(ctx context.Context, userID string) ([]Insight, error) {
	from, to := PreviousWeek(s.today())
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	trackings, err := s.repo.ListTrackingsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list trackings: %w", err)
	}
	return GenerateWeeklyInsights(entries, trackings), nil
}

// Analytics returns the per-day series of the last period days.
func (s *Service) Analytics(ctx context.Context, userID string, period int) (*AnalyticsSeries, error) {
	period = NormalizePeriod(period)
	today := s.today()
	from := today.AddDate(0, 0, -(period - 1))
	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	trackings, err := s.repo.ListTrackingsBetween(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("list trackings: %w", err)
	}
	series := BuildAnalytics(period, today, entries, trackings)
	return &series, nil
}

// Dashboard is the "today" view combining every area.
type Dashboard struct {
	Date            time.Time
	Entry           *Entry
	Tracking        *DailyTracking
	Events          []Event
	PriorityArea    *AreaScore
	NextExercise    *Exercise
	WeakRelation    *Person
	PendingLearning *Interaction
	Insight         *Insight
}

// Today gathers the dashboard. The sub-queries run concurrently.
func (s *Service) Today(ctx context.Context, userID string) (*Dashboard, error) {
	today := s.today()
	d := &Dashboard{Date: today, Events: []Event{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entry, err := s.repo.FindEntryByDate(gctx, userID, today)
		if err == nil {
			d.Entry = entry
			return nil
		}
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("find entry: %w", err)
	})
	g.Go(func() error {
		tracking, err := s.repo.FindTracking(gctx, userID, today)
		if err == nil {
			d.Tracking = tracking
			return nil
		}
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("find tracking: %w", err)
	})
	g.Go(func() error {
		events, err := s.repo.ListEventsBetween(gctx, userID, today, today.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		d.Events = events
		return nil
	})
	g.Go(func() error {
		scores, err := s.repo.ListAreaScores(gctx, userID)
		if err != nil {
			return fmt.Errorf("list area scores: %w", err)
		}
		d.PriorityArea = topPriorityArea(scores)
		return nil
	})
	g.Go(func() error {
		exercises, err := s.repo.ListExercises(gctx, userID)
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		d.NextExercise = ExerciseProgress(exercises).Next
		return nil
	})
	g.Go(func() error {
		people, err := s.repo.ListPeople(gctx, userID)
		if err != nil {
			return fmt.Errorf("list people: %w", err)
		}
		d.WeakRelation = weakestRelation(people)
		return nil
	})
	g.Go(func() error {
		interactions, err := s.repo.ListInteractions(gctx, userID, 0)
		if err != nil {
			return fmt.Errorf("list interactions: %w", err)
		}
		for i := range interactions {
			if interactions[i].Learning == "" {
				in := interactions[i]
				d.PendingLearning = &in
				break
			}
		}
		return nil
	})
	g.Go(func() error {
		insights, err := s.Insights(gctx, userID)
		if err != nil {
			return err
		}
		if len(insights) > 0 {
			d.Insight = &insights[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func topPriorityArea(scores []AreaScore) *AreaScore {
	var best *AreaScore
	for i := range scores {
		if scores[i].Priority != PriorityHigh {
			continue
		}
		if best == nil || scores[i].Score > best.Score {
			sc := scores[i]
			best = &sc
		}
	}
	return best
}

func weakestRelation(people []Person) *Person {
	candidates := make([]Person, 0, len(people))
	for _, p := range people {
		if p.Health < DefaultHealth {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Health < candidates[j].Health })
	return &candidates[0]
}
