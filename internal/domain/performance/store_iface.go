package performance

import "context"

// Store persists reviews, goals and feedback. Lists are newest first. Get and update calls
// return apperr.ErrNotFound for unknown ids.
type Store interface {
	CreateReview(ctx context.Context, review *Review) error
	GetReview(ctx context.Context, id string) (Review, error)
	// ListReviews filters by subject; an empty employeeID lists every review.
	ListReviews(ctx context.Context, employeeID string) ([]Review, error)
	// UpdateReviewStatus moves a review from one status to another and fails with
	// apperr.ErrConflict if the stored status is no longer from.
	UpdateReviewStatus(ctx context.Context, id, from, to string) (Review, error)

	CreateGoal(ctx context.Context, goal *Goal) error
	GetGoal(ctx context.Context, id string) (Goal, error)
	ListGoals(ctx context.Context, employeeID string) ([]Goal, error)
	UpdateGoalProgress(ctx context.Context, id string, progress int, status string) (Goal, error)

	CreateFeedback(ctx context.Context, feedback *Feedback) error
	ListFeedback(ctx context.Context, employeeID string) ([]Feedback, error)
}

// Notifier is told about records that concern an employee. Implementations must not fail
// the calling operation.
type Notifier interface {
	ReviewRecorded(ctx context.Context, review Review)
	FeedbackReceived(ctx context.Context, feedback Feedback)
}
