// Package notifications mails employees when a review or feedback about them is recorded.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Dispatcher runs deliveries off the request path.
type Dispatcher interface {
	Enqueue(jobType string, run func(context.Context) error) bool
}

type Service struct {
	finder     employee.Finder
	mailer     Mailer
	from       string
	dispatcher Dispatcher
}

var _ performance.Notifier = (*Service)(nil)

func New(finder employee.Finder, mailer Mailer, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{finder: finder, mailer: mailer, from: from}
}

// WithDispatcher queues mail on d instead of sending it inline.
func (s *Service) WithDispatcher(d Dispatcher) *Service {
	s.dispatcher = d
	return s
}

func (s *Service) ReviewRecorded(ctx context.Context, review performance.Review) {
	reviewer := "HR"
	if emp, err := s.finder.FindByID(ctx, review.ReviewerID); err == nil {
		reviewer = emp.Name
	}
	body := fmt.Sprintf(
		"A performance review for %s to %s was recorded by %s.\nStatus: %s\n",
		review.ReviewPeriodStart.Format("2006-01-02"),
		review.ReviewPeriodEnd.Format("2006-01-02"),
		reviewer,
		review.Status,
	)
	s.send(ctx, review.EmployeeID, "New performance review", body)
}

// FeedbackReceived never names the author of anonymous feedback.
func (s *Service) FeedbackReceived(ctx context.Context, feedback performance.Feedback) {
	author := "A colleague"
	if !feedback.IsAnonymous {
		if emp, err := s.finder.FindByID(ctx, feedback.FromEmployeeID); err == nil {
			author = emp.Name
		}
	}
	body := fmt.Sprintf("%s left you %s feedback:\n\n%s\n", author, feedback.Type, feedback.FeedbackText)
	s.send(ctx, feedback.EmployeeID, "You received new feedback", body)
}

func (s *Service) send(ctx context.Context, employeeID, subject, body string) {
	if s.mailer == nil {
		return
	}
	emp, err := s.finder.FindByID(ctx, employeeID)
	if err != nil {
		slog.Warn("notification recipient lookup failed", "employeeId", employeeID, "err", err)
		return
	}
	if strings.TrimSpace(emp.Email) == "" {
		return
	}
	message := "Hello " + emp.Name + ",\n\n" + body
	deliver := func(ctx context.Context) error {
		if err := s.mailer.Send(ctx, s.from, emp.Email, subject, message); err != nil {
			return fmt.Errorf("notify %s: %w", employeeID, err)
		}
		return nil
	}
	if s.dispatcher != nil {
		if !s.dispatcher.Enqueue("notification_email", deliver) {
			slog.Warn("notification email dropped", "employeeId", employeeID)
		}
		return
	}
	if err := deliver(ctx); err != nil {
		slog.Warn("notification email send failed", "employeeId", employeeID, "err", err)
	}
}
