package memory

import (
	"context"
	"sort"
	"time"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

// ListPeople implements domain.RelationshipRepository.
func (r *Repository) ListPeople(ctx context.Context, userID string) ([]domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Person, 0)
	for _, p := range r.people {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Relation != out[j].Relation {
			return out[i].Relation < out[j].Relation
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetPerson implements domain.RelationshipRepository.
func (r *Repository) GetPerson(ctx context.Context, userID, id string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.people[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// SavePerson implements domain.RelationshipRepository.
func (r *Repository) SavePerson(ctx context.Context, person domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.people[person.ID]; ok && existing.UserID != person.UserID {
		return domain.ErrNotFound
	}
	r.people[person.ID] = person
	return nil
}

// CountOwnedPeople implements domain.RelationshipRepository.
func (r *Repository) CountOwnedPeople(ctx context.Context, userID string, ids []string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, id := range ids {
		if p, ok := r.people[id]; ok && p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func copyInteraction(in domain.Interaction) domain.Interaction {
	in.PersonIDs = append([]string{}, in.PersonIDs...)
	return in
}

func (r *Repository) sortInteractions(list []domain.Interaction) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return r.seq[list[i].ID] > r.seq[list[j].ID]
	})
}

// ListInteractions implements domain.RelationshipRepository.
func (r *Repository) ListInteractions(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Interaction, 0)
	for _, in := range r.interactions {
		if in.UserID == userID {
			out = append(out, copyInteraction(in))
		}
	}
	r.sortInteractions(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListInteractionsBetween implements domain.RelationshipRepository.
func (r *Repository) ListInteractionsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Interaction, 0)
	for _, in := range r.interactions {
		if in.UserID == userID && inRange(in.Date, from, to) {
			out = append(out, copyInteraction(in))
		}
	}
	r.sortInteractions(out)
	return out, nil
}

// ListPersonInteractions implements domain.RelationshipRepository.
func (r *Repository) ListPersonInteractions(ctx context.Context, userID, personID string) ([]domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Interaction, 0)
	for _, in := range r.interactions {
		if in.UserID != userID {
			continue
		}
		for _, id := range in.PersonIDs {
			if id == personID {
				out = append(out, copyInteraction(in))
				break
			}
		}
	}
	r.sortInteractions(out)
	return out, nil
}

// GetInteraction implements domain.RelationshipRepository.
func (r *Repository) GetInteraction(ctx context.Context, userID, id string) (*domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.interactions[id]
	if !ok || in.UserID != userID {
		return nil, domain.ErrNotFound
	}
	in = copyInteraction(in)
	return &in, nil
}

// SaveInteraction implements domain.RelationshipRepository.
func (r *Repository) SaveInteraction(ctx context.Context, interaction domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.interactions[interaction.ID]; ok && existing.UserID != interaction.UserID {
		return domain.ErrNotFound
	}
	r.interactions[interaction.ID] = copyInteraction(interaction)
	r.stamp(interaction.ID)
	r.emit(events.TypeInteractionSaved, interaction.UserID, events.InteractionSaved{
		InteractionID: interaction.ID,
		UserID:        interaction.UserID,
		Kind:          string(interaction.Kind),
		PersonCount:   len(interaction.PersonIDs),
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}
