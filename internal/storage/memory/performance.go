package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/performance"
)

type reviewRow struct {
	seq    int64
	review performance.Review
}

type goalRow struct {
	seq  int64
	goal performance.Goal
}

type feedbackRow struct {
	seq      int64
	feedback performance.Feedback
}

func (s *Store) CreateReview(_ context.Context, review *performance.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()
	if _, exists := s.reviews[review.ID]; exists {
		return fmt.Errorf("review %s: %w", review.ID, apperr.ErrConflict)
	}
	s.reviews[review.ID] = &reviewRow{seq: s.nextSeq(), review: cloneReview(*review)}
	return nil
}

func (s *Store) GetReview(_ context.Context, id string) (performance.Review, error) {
	s.reviewMu.RLock()
	defer s.reviewMu.RUnlock()
	row, ok := s.reviews[id]
	if !ok {
		return performance.Review{}, fmt.Errorf("review %s: %w", id, apperr.ErrNotFound)
	}
	return cloneReview(row.review), nil
}

func (s *Store) ListReviews(_ context.Context, employeeID string) ([]performance.Review, error) {
	s.reviewMu.RLock()
	rows := make([]*reviewRow, 0, len(s.reviews))
	for _, row := range s.reviews {
		if employeeID == "" || row.review.EmployeeID == employeeID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]performance.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneReview(row.review))
	}
	s.reviewMu.RUnlock()
	return out, nil
}

func (s *Store) UpdateReviewStatus(_ context.Context, id, from, to string) (performance.Review, error) {
	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()
	row, ok := s.reviews[id]
	if !ok {
		return performance.Review{}, fmt.Errorf("review %s: %w", id, apperr.ErrNotFound)
	}
	if row.review.Status != from {
		return performance.Review{}, fmt.Errorf("review %s is %s, not %s: %w", id, row.review.Status, from, apperr.ErrConflict)
	}
	row.review.Status = to
	row.review.UpdatedAt = now()
	return cloneReview(row.review), nil
}

func (s *Store) CreateGoal(_ context.Context, goal *performance.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	s.goalMu.Lock()
	defer s.goalMu.Unlock()
	if _, exists := s.goals[goal.ID]; exists {
		return fmt.Errorf("goal %s: %w", goal.ID, apperr.ErrConflict)
	}
	s.goals[goal.ID] = &goalRow{seq: s.nextSeq(), goal: cloneGoal(*goal)}
	return nil
}

func (s *Store) GetGoal(_ context.Context, id string) (performance.Goal, error) {
	s.goalMu.RLock()
	defer s.goalMu.RUnlock()
	row, ok := s.goals[id]
	if !ok {
		return performance.Goal{}, fmt.Errorf("goal %s: %w", id, apperr.ErrNotFound)
	}
	return cloneGoal(row.goal), nil
}

func (s *Store) ListGoals(_ context.Context, employeeID string) ([]performance.Goal, error) {
	s.goalMu.RLock()
	rows := make([]*goalRow, 0, len(s.goals))
	for _, row := range s.goals {
		if employeeID == "" || row.goal.EmployeeID == employeeID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]performance.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneGoal(row.goal))
	}
	s.goalMu.RUnlock()
	return out, nil
}

func (s *Store) UpdateGoalProgress(_ context.Context, id string, progress int, status string) (performance.Goal, error) {
	s.goalMu.Lock()
	defer s.goalMu.Unlock()
	row, ok := s.goals[id]
	if !ok {
		return performance.Goal{}, fmt.Errorf("goal %s: %w", id, apperr.ErrNotFound)
	}
	row.goal.Progress = progress
	row.goal.Status = status
	row.goal.UpdatedAt = now()
	return cloneGoal(row.goal), nil
}

func (s *Store) CreateFeedback(_ context.Context, feedback *performance.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()
	if _, exists := s.feedback[feedback.ID]; exists {
		return fmt.Errorf("feedback %s: %w", feedback.ID, apperr.ErrConflict)
	}
	s.feedback[feedback.ID] = &feedbackRow{seq: s.nextSeq(), feedback: cloneFeedback(*feedback)}
	return nil
}

func (s *Store) ListFeedback(_ context.Context, employeeID string) ([]performance.Feedback, error) {
	s.feedbackMu.RLock()
	rows := make([]*feedbackRow, 0, len(s.feedback))
	for _, row := range s.feedback {
		if employeeID == "" || row.feedback.EmployeeID == employeeID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]performance.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneFeedback(row.feedback))
	}
	s.feedbackMu.RUnlock()
	return out, nil
}

func cloneReview(review performance.Review) performance.Review {
	r := &review.Ratings
	for _, field := range []**float64{&r.OverallRating, &r.TechnicalSkills, &r.Communication, &r.Teamwork, &r.Leadership, &r.Punctuality, &r.GoalsAchieved} {
		*field = cloneFloat(*field)
	}
	return review
}

func cloneGoal(goal performance.Goal) performance.Goal {
	if goal.TargetDate != nil {
		target := *goal.TargetDate
		goal.TargetDate = &target
	}
	return goal
}

func cloneFeedback(feedback performance.Feedback) performance.Feedback {
	feedback.Rating = cloneFloat(feedback.Rating)
	return feedback
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
