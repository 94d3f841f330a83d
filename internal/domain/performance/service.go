package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/platform/validation"
)

type Service struct {
	store     Store
	employees employee.Store
	notifier  Notifier
	now       func() time.Time
}

func NewService(store Store, employees employee.Store, notifier Notifier) *Service {
	return &Service{store: store, employees: employees, notifier: notifier, now: time.Now}
}

func (s *Service) CreateReview(ctx context.Context, caller auth.Identity, input ReviewInput) (Review, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return Review{}, err
	}
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	if err := validation.Struct(input); err != nil {
		return Review{}, err
	}
	if input.ReviewPeriodEnd.Before(input.ReviewPeriodStart) {
		return Review{}, apperr.Invalid("reviewPeriodEnd", "must not be before reviewPeriodStart")
	}
	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		return Review{}, err
	}

	status := input.Status
	if status == "" {
		status = ReviewStatusSubmitted
	}
	now := s.now().UTC()
	review := Review{
		EmployeeID:        input.EmployeeID,
		ReviewerID:        caller.EmployeeID,
		ReviewPeriodStart: input.ReviewPeriodStart,
		ReviewPeriodEnd:   input.ReviewPeriodEnd,
		Ratings:           input.Ratings,
		Comments:          input.Comments,
		Feedback:          input.Feedback,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateReview(ctx, &review); err != nil {
		return Review{}, err
	}
	if s.notifier != nil && review.Status != ReviewStatusDraft {
		s.notifier.ReviewRecorded(ctx, review)
	}
	return review, nil
}

func (s *Service) ListMyReviews(ctx context.Context, caller auth.Identity) ([]ReviewView, error) {
	reviews, err := s.store.ListReviews(ctx, caller.EmployeeID)
	if err != nil {
		return nil, err
	}
	return s.reviewViews(ctx, reviews, false)
}

func (s *Service) ListAllReviews(ctx context.Context, caller auth.Identity) ([]ReviewView, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.reviewViews(ctx, reviews, true)
}

// AdvanceReviewStatus moves a review one step along draft, submitted, reviewed, approved.
func (s *Service) AdvanceReviewStatus(ctx context.Context, caller auth.Identity, reviewID, status string) (Review, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return Review{}, err
	}
	if status == "" {
		return Review{}, apperr.Invalid("status", "is required")
	}
	current, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	next := NextReviewStatus(current.Status)
	if next == "" || next != status {
		return Review{}, fmt.Errorf("review %s cannot move from %s to %s: %w", reviewID, current.Status, status, apperr.ErrConflict)
	}
	updated, err := s.store.UpdateReviewStatus(ctx, reviewID, current.Status, next)
	if err != nil {
		return Review{}, err
	}
	if s.notifier != nil && current.Status == ReviewStatusDraft {
		s.notifier.ReviewRecorded(ctx, updated)
	}
	return updated, nil
}

// ReviewPDF renders a review for its subject or for hr/admin.
func (s *Service) ReviewPDF(ctx context.Context, caller auth.Identity, reviewID string) ([]byte, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.EmployeeID != caller.EmployeeID && !caller.Privileged() {
		return nil, fmt.Errorf("review %s: %w", reviewID, apperr.ErrForbidden)
	}
	views, err := s.reviewViews(ctx, []Review{review}, true)
	if err != nil {
		return nil, err
	}
	return renderReviewPDF(views[0])
}

func (s *Service) reviewViews(ctx context.Context, reviews []Review, withSubject bool) ([]ReviewView, error) {
	names := newNameCache(s.employees)
	out := make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := ReviewView{Review: review}
		reviewer, err := names.lookup(ctx, review.ReviewerID)
		if err != nil {
			return nil, err
		}
		view.ReviewerName = reviewer.Name
		if withSubject {
			subject, err := names.lookup(ctx, review.EmployeeID)
			if err != nil {
				return nil, err
			}
			view.EmployeeName = subject.Name
			view.Department = subject.Department
			view.Position = subject.Position
		}
		out = append(out, view)
	}
	return out, nil
}

// nameCache resolves employees once per listing. Missing employees resolve to a zero value.
type nameCache struct {
	finder employee.Finder
	seen   map[string]employee.Employee
}

func newNameCache(finder employee.Finder) *nameCache {
	return &nameCache{finder: finder, seen: make(map[string]employee.Employee)}
}

func (c *nameCache) lookup(ctx context.Context, employeeID string) (employee.Employee, error) {
	if employeeID == "" {
		return employee.Employee{}, nil
	}
	if emp, ok := c.seen[employeeID]; ok {
		return emp, nil
	}
	emp, err := c.finder.FindByID(ctx, employeeID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return employee.Employee{}, err
	}
	c.seen[employeeID] = emp
	return emp, nil
}
