package performance

import (
	"context"
	"math"

	"hrperf/internal/domain/auth"
)

// Stats aggregates the dashboard figures. hr and admin see everything, other roles see
// their own records plus a feedback count.
func (s *Service) Stats(ctx context.Context, caller auth.Identity) (Stats, error) {
	scope := caller.EmployeeID
	if caller.Privileged() {
		scope = ""
	}
	reviews, err := s.store.ListReviews(ctx, scope)
	if err != nil {
		return Stats{}, err
	}
	goals, err := s.store.ListGoals(ctx, scope)
	if err != nil {
		return Stats{}, err
	}

	if caller.Privileged() {
		employees, err := s.employees.ListEmployees(ctx)
		if err != nil {
			return Stats{}, err
		}
		headcount := 0
		for _, emp := range employees {
			if emp.Role == auth.RoleEmployee {
				headcount++
			}
		}
		stats := buildStats(reviews, goals)
		pending := 0
		for _, review := range reviews {
			if review.Status == ReviewStatusSubmitted {
				pending++
			}
		}
		stats.TotalEmployees = &headcount
		stats.PendingReviews = &pending
		return stats, nil
	}

	feedback, err := s.store.ListFeedback(ctx, scope)
	if err != nil {
		return Stats{}, err
	}
	stats := buildStats(reviews, goals)
	total := len(feedback)
	stats.TotalFeedback = &total
	return stats, nil
}

func buildStats(reviews []Review, goals []Goal) Stats {
	stats := Stats{
		TotalReviews: len(reviews),
		TotalGoals:   len(goals),
	}

	var ratingSum float64
	rated := 0
	for _, review := range reviews {
		if review.OverallRating == nil {
			continue
		}
		ratingSum += *review.OverallRating
		rated++
	}
	if rated > 0 {
		stats.AvgRating = round(ratingSum/float64(rated), 2)
	}

	progressSum := 0
	for _, goal := range goals {
		progressSum += goal.Progress
		if goal.Status == GoalStatusCompleted {
			stats.CompletedGoals++
		}
	}
	if len(goals) > 0 {
		stats.AvgProgress = round(float64(progressSum)/float64(len(goals)), 1)
	}
	return stats
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
