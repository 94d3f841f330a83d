package employee_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	cryptoutil "hrperf/internal/platform/crypto"
	"hrperf/internal/storage/memory"
)

var hrCaller = auth.Identity{EmployeeID: "HR001", Name: "Alice Johnson", Role: auth.RoleHR}

func newService(t *testing.T) (*employee.Service, *memory.Store) {
	t.Helper()
	sealer, err := cryptoutil.New("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("crypto: %v", err)
	}
	store := memory.New()
	return employee.NewService(store, sealer), store
}

func createJohn(t *testing.T, svc *employee.Service) employee.Employee {
	t.Helper()
	emp, err := svc.Create(context.Background(), hrCaller, employee.CreateInput{
		EmployeeID: "EMP001",
		Name:       "John Doe",
		Email:      "John.Doe@Company.com",
		Password:   "password123",
		Department: "Engineering",
		Position:   "Software Developer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return emp
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService(t)
	created := createJohn(t, svc)
	if created.Role != auth.RoleEmployee || created.Email != "john.doe@company.com" {
		t.Fatalf("unexpected defaults: %+v", created)
	}

	emp, err := svc.Authenticate(context.Background(), "john.doe@company.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if emp.EmployeeID != "EMP001" {
		t.Fatalf("unexpected employee %+v", emp)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newService(t)
	createJohn(t, svc)

	_, unknown := svc.Authenticate(context.Background(), "nobody@company.com", "password123")
	_, wrong := svc.Authenticate(context.Background(), "john.doe@company.com", "nope")
	if !errors.Is(unknown, employee.ErrInvalidCredentials) || !errors.Is(wrong, employee.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v / %v", unknown, wrong)
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("errors differ: %q vs %q", unknown, wrong)
	}
}

func TestCreateRequiresPrivilegedCaller(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), auth.Identity{EmployeeID: "EMP001", Role: auth.RoleEmployee}, employee.CreateInput{
		EmployeeID: "EMP010", Name: "Test", Email: "t@company.com", Password: "password123",
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateValidatesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newService(t)
	createJohn(t, svc)

	_, err := svc.Create(context.Background(), hrCaller, employee.CreateInput{EmployeeID: "EMP010", Email: "bad", Password: "short", Role: "owner"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range apperr.Issues(err) {
		fields[issue.Field] = true
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if !fields[field] {
			t.Fatalf("expected issue for %s, got %+v", field, apperr.Issues(err))
		}
	}

	_, err = svc.Create(context.Background(), hrCaller, employee.CreateInput{
		EmployeeID: "EMP002", Name: "Copy", Email: "JOHN.DOE@company.com", Password: "password123",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDirectoryHidesContactFieldsFromEmployees(t *testing.T) {
	svc, _ := newService(t)
	hired := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), hrCaller, employee.CreateInput{
		EmployeeID: "EMP001", Name: "John Doe", Email: "john@company.com", Password: "password123", HireDate: &hired,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	full, _ := svc.Directory(context.Background(), hrCaller)
	if len(full) != 1 || full[0].Email == "" || full[0].HireDate == nil {
		t.Fatalf("expected full entry for hr, got %+v", full)
	}
	limited, _ := svc.Directory(context.Background(), auth.Identity{EmployeeID: "EMP002", Role: auth.RoleEmployee})
	if limited[0].Email != "" || limited[0].Role != "" || limited[0].HireDate != nil {
		t.Fatalf("expected directory view, got %+v", limited[0])
	}
}

func TestMFAEnrollmentAndLogin(t *testing.T) {
	svc, store := newService(t)
	createJohn(t, svc)
	ctx := context.Background()
	caller := auth.Identity{EmployeeID: "EMP001", Email: "john.doe@company.com", Role: auth.RoleEmployee}

	if err := svc.EnableMFA(ctx, caller, "123456"); !errors.Is(err, employee.ErrMFANotConfigured) {
		t.Fatalf("expected setup required, got %v", err)
	}
	enrollment, err := svc.SetupMFA(ctx, caller)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	stored, _ := store.FindByID(ctx, "EMP001")
	if string(stored.MFASecret) == enrollment.Secret {
		t.Fatal("secret stored in plaintext")
	}
	if err := svc.EnableMFA(ctx, caller, "000000x"); !errors.Is(err, employee.ErrMFAInvalid) {
		t.Fatalf("expected invalid code, got %v", err)
	}

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if err := svc.EnableMFA(ctx, caller, code); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if _, err := svc.SetupMFA(ctx, caller); !errors.Is(err, employee.ErrMFAAlreadyEnabled) {
		t.Fatalf("expected setup to be refused while enabled, got %v", err)
	}

	emp, err := svc.Authenticate(ctx, "john.doe@company.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.CheckMFA(emp, ""); !errors.Is(err, employee.ErrMFARequired) {
		t.Fatalf("expected mfa required, got %v", err)
	}
	if err := svc.CheckMFA(emp, code); err != nil {
		t.Fatalf("expected valid code, got %v", err)
	}

	if err := svc.DisableMFA(ctx, caller, code); err != nil {
		t.Fatalf("disable: %v", err)
	}
	emp, _ = store.FindByID(ctx, "EMP001")
	if err := svc.CheckMFA(emp, ""); err != nil {
		t.Fatalf("expected mfa off, got %v", err)
	}
}

func TestMFAUnavailableWithoutKey(t *testing.T) {
	sealer, _ := cryptoutil.New("")
	svc := employee.NewService(memory.New(), sealer)
	if _, err := svc.SetupMFA(context.Background(), hrCaller); !errors.Is(err, employee.ErrMFAUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
