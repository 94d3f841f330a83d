package performance

import (
	"context"
	"strings"

	"hrperf/internal/domain/auth"
	"hrperf/internal/platform/validation"
)

func (s *Service) CreateFeedback(ctx context.Context, caller auth.Identity, input FeedbackInput) (Feedback, error) {
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.FeedbackText = strings.TrimSpace(input.FeedbackText)
	if err := validation.Struct(input); err != nil {
		return Feedback{}, err
	}
	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		return Feedback{}, err
	}

	feedback := Feedback{
		EmployeeID:     input.EmployeeID,
		FromEmployeeID: caller.EmployeeID,
		Type:           input.Type,
		FeedbackText:   input.FeedbackText,
		Rating:         input.Rating,
		IsAnonymous:    input.IsAnonymous,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateFeedback(ctx, &feedback); err != nil {
		return Feedback{}, err
	}
	if s.notifier != nil {
		s.notifier.FeedbackReceived(ctx, feedback)
	}
	return feedback, nil
}

func (s *Service) ListMyFeedback(ctx context.Context, caller auth.Identity) ([]FeedbackView, error) {
	feedback, err := s.store.ListFeedback(ctx, caller.EmployeeID)
	if err != nil {
		return nil, err
	}
	return s.feedbackViews(ctx, feedback, false)
}

func (s *Service) ListAllFeedback(ctx context.Context, caller auth.Identity) ([]FeedbackView, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return nil, err
	}
	feedback, err := s.store.ListFeedback(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.feedbackViews(ctx, feedback, true)
}

func (s *Service) feedbackViews(ctx context.Context, feedback []Feedback, withSubject bool) ([]FeedbackView, error) {
	names := newNameCache(s.employees)
	out := make([]FeedbackView, 0, len(feedback))
	for _, item := range feedback {
		view := FeedbackView{Feedback: item}
		if withSubject {
			subject, err := names.lookup(ctx, item.EmployeeID)
			if err != nil {
				return nil, err
			}
			view.EmployeeName = subject.Name
			view.Department = subject.Department
		}
		if !item.IsAnonymous {
			author, err := names.lookup(ctx, item.FromEmployeeID)
			if err != nil {
				return nil, err
			}
			view.FromEmployeeName = author.Name
			view.FromPosition = author.Position
		}
		out = append(out, redact(view))
	}
	return out, nil
}

// redact drops every author field from anonymous feedback.
func redact(view FeedbackView) FeedbackView {
	if !view.IsAnonymous {
		return view
	}
	view.FromEmployeeID = ""
	view.FromEmployeeName = ""
	view.FromPosition = ""
	return view
}
