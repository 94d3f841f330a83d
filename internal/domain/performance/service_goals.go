package performance

import (
	"context"
	"fmt"
	"strings"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/platform/validation"
)

// ClampProgress bounds a progress value to [0, 100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// CreateGoal records a goal for the caller. hr and admin may target any existing employee.
func (s *Service) CreateGoal(ctx context.Context, caller auth.Identity, input GoalInput) (Goal, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return Goal{}, err
	}

	ownerID := caller.EmployeeID
	if target := strings.TrimSpace(input.EmployeeID); target != "" && caller.Privileged() {
		ownerID = target
	}
	if ownerID != caller.EmployeeID {
		if _, err := s.employees.FindByID(ctx, ownerID); err != nil {
			return Goal{}, err
		}
	}

	status := input.Status
	if status == "" {
		status = GoalStatusNotStarted
	}
	now := s.now().UTC()
	goal := Goal{
		EmployeeID:  ownerID,
		CreatedBy:   caller.EmployeeID,
		Title:       input.Title,
		Description: input.Description,
		TargetDate:  input.TargetDate,
		Status:      status,
		Progress:    ClampProgress(input.Progress),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateGoal(ctx, &goal); err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (s *Service) ListMyGoals(ctx context.Context, caller auth.Identity) ([]GoalView, error) {
	goals, err := s.store.ListGoals(ctx, caller.EmployeeID)
	if err != nil {
		return nil, err
	}
	return s.goalViews(ctx, goals, false)
}

func (s *Service) ListAllGoals(ctx context.Context, caller auth.Identity) ([]GoalView, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return nil, err
	}
	goals, err := s.store.ListGoals(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.goalViews(ctx, goals, true)
}

// UpdateGoalProgress clamps progress and keeps the current status when status is empty.
func (s *Service) UpdateGoalProgress(ctx context.Context, caller auth.Identity, goalID string, progress int, status string) (Goal, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}
	if goal.EmployeeID != caller.EmployeeID && !caller.Privileged() {
		return Goal{}, fmt.Errorf("goal %s: %w", goalID, apperr.ErrForbidden)
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = goal.Status
	}
	if !ValidGoalStatus(status) {
		return Goal{}, apperr.Invalid("status", "must be one of: "+strings.Join(goalStatuses, ", "))
	}
	return s.store.UpdateGoalProgress(ctx, goalID, ClampProgress(progress), status)
}

func (s *Service) goalViews(ctx context.Context, goals []Goal, withOwner bool) ([]GoalView, error) {
	names := newNameCache(s.employees)
	out := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		view := GoalView{Goal: goal}
		creator, err := names.lookup(ctx, goal.CreatedBy)
		if err != nil {
			return nil, err
		}
		view.CreatedByName = creator.Name
		if withOwner {
			owner, err := names.lookup(ctx, goal.EmployeeID)
			if err != nil {
				return nil, err
			}
			view.EmployeeName = owner.Name
			view.Department = owner.Department
		}
		out = append(out, view)
	}
	return out, nil
}
