package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
)

type demoEmployee struct {
	employee.Employee
	password string
}

var demoEmployees = []demoEmployee{
	{Employee: employee.Employee{EmployeeID: "EMP001", Name: "John Doe", Email: "john.doe@company.com", Department: "Engineering", Position: "Software Developer", Role: auth.RoleEmployee}, password: "password123"},
	{Employee: employee.Employee{EmployeeID: "HR001", Name: "Alice Johnson", Email: "alice.johnson@company.com", Department: "Human Resources", Position: "HR Manager", Role: auth.RoleHR}, password: "password123"},
	{Employee: employee.Employee{EmployeeID: "ADMIN001", Name: "Alex Morgan", Email: "admin@company.com", Department: "Administration", Position: "System Administrator", Role: auth.RoleAdmin}, password: "admin123"},
	{Employee: employee.Employee{EmployeeID: "EMP002", Name: "Sarah Wilson", Email: "sarah.wilson@company.com", Department: "Marketing", Position: "Marketing Specialist", Role: auth.RoleEmployee}, password: "password123"},
	{Employee: employee.Employee{EmployeeID: "EMP003", Name: "Michael Brown", Email: "michael.brown@company.com", Department: "Sales", Position: "Sales Representative", Role: auth.RoleEmployee}, password: "password123"},
}

func day(value string) time.Time {
	parsed, _ := time.Parse(time.DateOnly, value)
	return parsed
}

func rating(value float64) *float64 { return &value }

// Seed loads the demo organisation. It does nothing when the demo hr account already exists,
// so it is safe to run on every start.
func Seed(ctx context.Context, employees employee.Store, records performance.Store) error {
	if _, err := employees.FindByID(ctx, "HR001"); err == nil {
		slog.Debug("demo data already present")
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("check demo data: %w", err)
	}

	for _, demo := range demoEmployees {
		hash, err := auth.HashPassword(demo.password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		emp := demo.Employee
		emp.PasswordHash = hash
		emp.CreatedAt = day("2024-01-01")
		if err := employees.CreateEmployee(ctx, &emp); err != nil && !errors.Is(err, apperr.ErrConflict) {
			return fmt.Errorf("seed employee %s: %w", emp.EmployeeID, err)
		}
	}

	review := performance.Review{
		EmployeeID:        "EMP001",
		ReviewerID:        "HR001",
		ReviewPeriodStart: day("2024-01-01"),
		ReviewPeriodEnd:   day("2024-06-30"),
		Ratings: performance.Ratings{
			OverallRating:   rating(4.2),
			TechnicalSkills: rating(4.5),
			Communication:   rating(4.0),
			Teamwork:        rating(4.3),
			Leadership:      rating(3.8),
			Punctuality:     rating(4.6),
			GoalsAchieved:   rating(4.1),
		},
		Comments:  "Excellent technical skills and great team collaboration.",
		Feedback:  "Continue to develop leadership skills for future growth.",
		Status:    performance.ReviewStatusApproved,
		CreatedAt: day("2024-07-01"),
		UpdatedAt: day("2024-07-01"),
	}
	if err := records.CreateReview(ctx, &review); err != nil {
		return fmt.Errorf("seed review: %w", err)
	}

	goals := []performance.Goal{
		{
			EmployeeID:  "EMP001",
			CreatedBy:   "HR001",
			Title:       "Complete React Certification",
			Description: "Obtain React.js professional certification to enhance frontend skills",
			TargetDate:  ptrTime(day("2024-12-31")),
			Status:      performance.GoalStatusInProgress,
			Progress:    75,
			CreatedAt:   day("2024-01-15"),
			UpdatedAt:   day("2024-01-15"),
		},
		{
			EmployeeID:  "EMP001",
			CreatedBy:   "HR001",
			Title:       "Lead Team Project",
			Description: "Take leadership role in the new mobile app development project",
			TargetDate:  ptrTime(day("2024-10-30")),
			Status:      performance.GoalStatusInProgress,
			Progress:    30,
			CreatedAt:   day("2024-06-01"),
			UpdatedAt:   day("2024-06-01"),
		},
	}
	for i := range goals {
		if err := records.CreateGoal(ctx, &goals[i]); err != nil {
			return fmt.Errorf("seed goal: %w", err)
		}
	}

	feedback := []performance.Feedback{
		{
			EmployeeID:     "EMP001",
			FromEmployeeID: "EMP002",
			Type:           performance.FeedbackTypePeer,
			FeedbackText:   "Great colleague to work with. Always willing to help and share knowledge with the team.",
			Rating:         rating(4.5),
			IsAnonymous:    true,
			CreatedAt:      day("2024-07-05"),
		},
		{
			EmployeeID:     "EMP001",
			FromEmployeeID: "HR001",
			Type:           performance.FeedbackTypeSupervisor,
			FeedbackText:   "John has shown exceptional growth in his role. His problem-solving skills and attention to detail are outstanding. He would benefit from taking on more leadership responsibilities.",
			Rating:         rating(4.3),
			CreatedAt:      day("2024-07-10"),
		},
	}
	for i := range feedback {
		if err := records.CreateFeedback(ctx, &feedback[i]); err != nil {
			return fmt.Errorf("seed feedback: %w", err)
		}
	}

	slog.Info("demo data seeded", "employees", len(demoEmployees))
	return nil
}

func ptrTime(value time.Time) *time.Time { return &value }
