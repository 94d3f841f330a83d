package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/performance"
)

const reviewColumns = `id, employee_id, reviewer_id, review_period_start, review_period_end,
  overall_rating, technical_skills, communication, teamwork, leadership, punctuality, goals_achieved,
  comments, feedback, status, created_at, updated_at`

func scanReview(row pgx.Row) (performance.Review, error) {
	var r performance.Review
	err := row.Scan(&r.ID, &r.EmployeeID, &r.ReviewerID, &r.ReviewPeriodStart, &r.ReviewPeriodEnd,
		&r.OverallRating, &r.TechnicalSkills, &r.Communication, &r.Teamwork, &r.Leadership, &r.Punctuality, &r.GoalsAchieved,
		&r.Comments, &r.Feedback, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) CreateReview(ctx context.Context, review *performance.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO performance_reviews (`+reviewColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
  `, review.ID, review.EmployeeID, review.ReviewerID, review.ReviewPeriodStart, review.ReviewPeriodEnd,
		review.OverallRating, review.TechnicalSkills, review.Communication, review.Teamwork, review.Leadership,
		review.Punctuality, review.GoalsAchieved, review.Comments, review.Feedback, review.Status,
		review.CreatedAt, review.UpdatedAt)
	return mapError(err, "review "+review.ID)
}

func (s *Store) GetReview(ctx context.Context, id string) (performance.Review, error) {
	review, err := scanReview(s.DB.QueryRow(ctx, `SELECT `+reviewColumns+` FROM performance_reviews WHERE id = $1`, id))
	if err != nil {
		return performance.Review{}, mapError(err, "review "+id)
	}
	return review, nil
}

func (s *Store) ListReviews(ctx context.Context, employeeID string) ([]performance.Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE $1::text = '' OR employee_id = $1
    ORDER BY seq DESC
  `, employeeID)
	if err != nil {
		return nil, mapError(err, "list reviews")
	}
	defer rows.Close()

	out := []performance.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, mapError(err, "scan review")
		}
		out = append(out, review)
	}
	return out, mapError(rows.Err(), "list reviews")
}

func (s *Store) UpdateReviewStatus(ctx context.Context, id, from, to string) (performance.Review, error) {
	review, err := scanReview(s.DB.QueryRow(ctx, `
    UPDATE performance_reviews SET status = $3, updated_at = now()
    WHERE id = $1 AND status = $2
    RETURNING `+reviewColumns, id, from, to))
	if err == nil {
		return review, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return performance.Review{}, mapError(err, "review "+id)
	}
	current, err := s.GetReview(ctx, id)
	if err != nil {
		return performance.Review{}, err
	}
	return performance.Review{}, fmt.Errorf("review %s is %s, not %s: %w", id, current.Status, from, apperr.ErrConflict)
}

const goalColumns = `id, employee_id, created_by, title, description, target_date, status, progress, created_at, updated_at`

func scanGoal(row pgx.Row) (performance.Goal, error) {
	var g performance.Goal
	err := row.Scan(&g.ID, &g.EmployeeID, &g.CreatedBy, &g.Title, &g.Description, &g.TargetDate,
		&g.Status, &g.Progress, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (s *Store) CreateGoal(ctx context.Context, goal *performance.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO goals (`+goalColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, goal.ID, goal.EmployeeID, goal.CreatedBy, goal.Title, goal.Description, goal.TargetDate,
		goal.Status, goal.Progress, goal.CreatedAt, goal.UpdatedAt)
	return mapError(err, "goal "+goal.ID)
}

func (s *Store) GetGoal(ctx context.Context, id string) (performance.Goal, error) {
	goal, err := scanGoal(s.DB.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		return performance.Goal{}, mapError(err, "goal "+id)
	}
	return goal, nil
}

func (s *Store) ListGoals(ctx context.Context, employeeID string) ([]performance.Goal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+goalColumns+`
    FROM goals
    WHERE $1::text = '' OR employee_id = $1
    ORDER BY seq DESC
  `, employeeID)
	if err != nil {
		return nil, mapError(err, "list goals")
	}
	defer rows.Close()

	out := []performance.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, mapError(err, "scan goal")
		}
		out = append(out, goal)
	}
	return out, mapError(rows.Err(), "list goals")
}

func (s *Store) UpdateGoalProgress(ctx context.Context, id string, progress int, status string) (performance.Goal, error) {
	goal, err := scanGoal(s.DB.QueryRow(ctx, `
    UPDATE goals SET progress = $2, status = $3, updated_at = now()
    WHERE id = $1
    RETURNING `+goalColumns, id, progress, status))
	if err != nil {
		return performance.Goal{}, mapError(err, "goal "+id)
	}
	return goal, nil
}

const feedbackColumns = `id, employee_id, from_employee_id, feedback_type, feedback_text, rating, is_anonymous, created_at`

func scanFeedback(row pgx.Row) (performance.Feedback, error) {
	var f performance.Feedback
	err := row.Scan(&f.ID, &f.EmployeeID, &f.FromEmployeeID, &f.Type, &f.FeedbackText, &f.Rating, &f.IsAnonymous, &f.CreatedAt)
	return f, err
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *performance.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO feedback (`+feedbackColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, feedback.ID, feedback.EmployeeID, feedback.FromEmployeeID, feedback.Type, feedback.FeedbackText,
		feedback.Rating, feedback.IsAnonymous, feedback.CreatedAt)
	return mapError(err, "feedback "+feedback.ID)
}

func (s *Store) ListFeedback(ctx context.Context, employeeID string) ([]performance.Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+feedbackColumns+`
    FROM feedback
    WHERE $1::text = '' OR employee_id = $1
    ORDER BY seq DESC
  `, employeeID)
	if err != nil {
		return nil, mapError(err, "list feedback")
	}
	defer rows.Close()

	out := []performance.Feedback{}
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			return nil, mapError(err, "scan feedback")
		}
		out = append(out, item)
	}
	return out, mapError(rows.Err(), "list feedback")
}
