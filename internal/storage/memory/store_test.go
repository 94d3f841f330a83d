package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
)

func TestCreateEmployeeRejectsDuplicates(t *testing.T) {
	store := New()
	ctx := context.Background()
	if err := store.CreateEmployee(ctx, &employee.Employee{EmployeeID: "EMP001", Email: "john@company.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []employee.Employee{
		{EmployeeID: "EMP001", Email: "other@company.com"},
		{EmployeeID: "EMP099", Email: "JOHN@company.com"},
	}
	for _, emp := range cases {
		emp := emp
		if err := store.CreateEmployee(ctx, &emp); !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("expected conflict for %+v, got %v", emp, err)
		}
	}
}

func TestFindByEmailIgnoresCase(t *testing.T) {
	store := New()
	ctx := context.Background()
	_ = store.CreateEmployee(ctx, &employee.Employee{EmployeeID: "HR001", Email: "hr@company.com"})

	emp, err := store.FindByEmail(ctx, "HR@Company.com")
	if err != nil || emp.EmployeeID != "HR001" {
		t.Fatalf("expected HR001, got %+v err=%v", emp, err)
	}
	if _, err := store.FindByEmail(ctx, "nobody@company.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.FindByID(ctx, "EMP404"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListsAreNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		goal := performance.Goal{EmployeeID: "EMP001", Title: fmt.Sprintf("goal-%d", i)}
		if err := store.CreateGoal(ctx, &goal); err != nil {
			t.Fatalf("create goal: %v", err)
		}
	}
	other := performance.Goal{EmployeeID: "EMP002", Title: "other"}
	_ = store.CreateGoal(ctx, &other)

	goals, err := store.ListGoals(ctx, "EMP001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 3 || goals[0].Title != "goal-2" || goals[2].Title != "goal-0" {
		t.Fatalf("unexpected order: %+v", goals)
	}
	all, _ := store.ListGoals(ctx, "")
	if len(all) != 4 || all[0].Title != "other" {
		t.Fatalf("unexpected full listing: %+v", all)
	}
}

func TestUpdateReviewStatusCompareAndSet(t *testing.T) {
	store := New()
	ctx := context.Background()
	review := performance.Review{EmployeeID: "EMP001", Status: performance.ReviewStatusSubmitted}
	if err := store.CreateReview(ctx, &review); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.ID == "" {
		t.Fatal("expected generated id")
	}

	updated, err := store.UpdateReviewStatus(ctx, review.ID, performance.ReviewStatusSubmitted, performance.ReviewStatusReviewed)
	if err != nil || updated.Status != performance.ReviewStatusReviewed {
		t.Fatalf("expected reviewed, got %+v err=%v", updated, err)
	}
	if _, err := store.UpdateReviewStatus(ctx, review.ID, performance.ReviewStatusSubmitted, performance.ReviewStatusReviewed); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on stale status, got %v", err)
	}
	if _, err := store.UpdateReviewStatus(ctx, "missing", "draft", "submitted"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := New()
	ctx := context.Background()
	rating := 4.0
	feedback := performance.Feedback{EmployeeID: "EMP001", Rating: &rating}
	_ = store.CreateFeedback(ctx, &feedback)
	rating = 1.0

	listed, _ := store.ListFeedback(ctx, "EMP001")
	if *listed[0].Rating != 4.0 {
		t.Fatalf("store shares caller memory: %v", *listed[0].Rating)
	}
	*listed[0].Rating = 0
	again, _ := store.ListFeedback(ctx, "EMP001")
	if *again[0].Rating != 4.0 {
		t.Fatalf("store shares returned memory: %v", *again[0].Rating)
	}
}

func TestConcurrentGoalUpdates(t *testing.T) {
	store := New()
	ctx := context.Background()
	goal := performance.Goal{EmployeeID: "EMP001", Status: performance.GoalStatusNotStarted}
	_ = store.CreateGoal(ctx, &goal)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(progress int) {
			defer wg.Done()
			if _, err := store.UpdateGoalProgress(ctx, goal.ID, progress, performance.GoalStatusInProgress); err != nil {
				t.Errorf("update: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := store.ListGoals(ctx, ""); err != nil {
				t.Errorf("list: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.GetGoal(ctx, goal.ID)
	if err != nil || got.Status != performance.GoalStatusInProgress {
		t.Fatalf("unexpected goal %+v err=%v", got, err)
	}
}
