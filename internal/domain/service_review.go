package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WeeklyReviewView is the guided review of the previous week.
type WeeklyReviewView struct {
	From         time.Time
	To           time.Time
	Summary      WeekSummary
	CurrentMonth *Month
	CurrentWeek  *Week
	PreviousWeek *Week
	Review       *WeeklyReview
}

// WeeklyReviewInput is the submitted review plus the plan for the coming week.
type WeeklyReviewInput struct {
	Achievement    string
	Obstacle       string
	Learning       string
	NextObjectives [3]string
}

// WeeklyReview summarises the previous Monday..Sunday week. The review record
// exists only when the month of that week exists; a new review is pre-filled
// from what went well and what could improve.
func (s *Service) WeeklyReview(ctx context.Context, userID string) (*WeeklyReviewView, error) {
	today := s.today()
	from, to := PreviousWeek(today)
	view := &WeeklyReviewView{From: from, To: to}

	entries, err := s.repo.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	interactions, err := s.repo.ListInteractionsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	people, err := s.repo.ListPeople(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	view.Summary = SummarizeWeek(entries, interactions, people)

	view.CurrentMonth, view.CurrentWeek, err = s.weekOf(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	_, view.PreviousWeek, err = s.weekOf(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	if view.PreviousWeek != nil {
		seed := WeeklyReview{
			ID:        uuid.NewString(),
			WeekID:    view.PreviousWeek.ID,
			UserID:    userID,
			CreatedAt: s.now(),
		}
		if len(entries) > 0 {
			seed.Achievement, seed.Learning = SuggestedReview(entries)
		}
		review, _, err := s.repo.GetOrCreateWeeklyReview(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("get or create weekly review: %w", err)
		}
		view.Review = review
	}
	return view, nil
}

// weekOf returns the month and week records containing day. Both are nil
// when the month was never opened; the week is created on demand otherwise.
func (s *Service) weekOf(ctx context.Context, userID string, day time.Time) (*Month, *Week, error) {
	month, err := s.repo.FindMonth(ctx, userID, day.Year(), int(day.Month()))
	if isNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find month: %w", err)
	}
	week, err := s.repo.GetOrCreateWeek(ctx, userID, month.ID, WeekOfMonth(day))
	if err != nil {
		return nil, nil, fmt.Errorf("get or create week: %w", err)
	}
	return month, week, nil
}

// SaveWeeklyReview stores the review of the previous week and the objectives
// of the current week, when those records exist.
func (s *Service) SaveWeeklyReview(ctx context.Context, userID string, input WeeklyReviewInput) (*WeeklyReviewView, error) {
	view, err := s.WeeklyReview(ctx, userID)
	if err != nil {
		return nil, err
	}
	if view.Review != nil {
		view.Review.Achievement = s.text(input.Achievement)
		view.Review.Obstacle = s.text(input.Obstacle)
		view.Review.Learning = s.text(input.Learning)
		if err := s.repo.SaveWeeklyReview(ctx, *view.Review); err != nil {
			return nil, fmt.Errorf("save weekly review: %w", err)
		}
	}
	if view.CurrentWeek != nil {
		for i, text := range input.NextObjectives {
			view.CurrentWeek.Objectives[i].Text = s.text(text)
		}
		if err := s.repo.UpdateWeek(ctx, userID, *view.CurrentWeek); err != nil {
			return nil, fmt.Errorf("update week: %w", err)
		}
	}
	return view, nil
}
