package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/platform/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFAUnavailable     = errors.New("mfa requires encryption key")
	ErrMFANotConfigured   = errors.New("mfa setup required")
	ErrMFAAlreadyEnabled  = errors.New("mfa already enabled")
)

const mfaIssuer = "HR Performance"

// SecretSealer encrypts MFA secrets at rest.
type SecretSealer interface {
	Configured() bool
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(sealed []byte) ([]byte, error)
}

type MFAEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

type Service struct {
	store  Store
	sealer SecretSealer
	now    func() time.Time
}

func NewService(store Store, sealer SecretSealer) *Service {
	return &Service{store: store, sealer: sealer, now: time.Now}
}

func (s *Service) FindByID(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.FindByID(ctx, employeeID)
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a wrong password alike.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Employee, error) {
	emp, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Employee{}, ErrInvalidCredentials
		}
		return Employee{}, err
	}
	if !auth.VerifyPassword(password, emp.PasswordHash) {
		return Employee{}, ErrInvalidCredentials
	}
	return emp, nil
}

// CheckMFA validates the second factor for an authenticated employee. Accounts without MFA pass.
func (s *Service) CheckMFA(emp Employee, code string) error {
	if !emp.MFAEnabled {
		return nil
	}
	if strings.TrimSpace(code) == "" {
		return ErrMFARequired
	}
	secret, err := s.openSecret(emp.MFASecret)
	if err != nil || secret == "" {
		return ErrMFAInvalid
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return nil
}

func (s *Service) Directory(ctx context.Context, caller auth.Identity) ([]DirectoryEntry, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]DirectoryEntry, 0, len(employees))
	for _, emp := range employees {
		entries = append(entries, DirectoryView(emp, caller))
	}
	return entries, nil
}

func (s *Service) Create(ctx context.Context, caller auth.Identity, input CreateInput) (Employee, error) {
	if err := auth.RequireRole(caller, auth.PrivilegedRoles...); err != nil {
		return Employee{}, err
	}
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return Employee{}, err
	}
	role := input.Role
	if role == "" {
		role = auth.RoleEmployee
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}
	emp := Employee{
		EmployeeID:   input.EmployeeID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Department:   strings.TrimSpace(input.Department),
		Position:     strings.TrimSpace(input.Position),
		HireDate:     input.HireDate,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateEmployee(ctx, &emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// SetupMFA stores a fresh, not yet enabled TOTP secret for the caller.
// An enabled factor must be disabled with a valid code first.
func (s *Service) SetupMFA(ctx context.Context, caller auth.Identity) (MFAEnrollment, error) {
	if s.sealer == nil || !s.sealer.Configured() {
		return MFAEnrollment{}, ErrMFAUnavailable
	}
	emp, err := s.store.FindByID(ctx, caller.EmployeeID)
	if err != nil {
		return MFAEnrollment{}, err
	}
	if emp.MFAEnabled {
		return MFAEnrollment{}, ErrMFAAlreadyEnabled
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: caller.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFAEnrollment{}, fmt.Errorf("generate mfa secret: %w", err)
	}
	sealed, err := s.sealer.Encrypt([]byte(key.Secret()))
	if err != nil {
		return MFAEnrollment{}, fmt.Errorf("seal mfa secret: %w", err)
	}
	if err := s.store.UpdateMFA(ctx, emp.EmployeeID, sealed, false); err != nil {
		return MFAEnrollment{}, err
	}
	return MFAEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, caller auth.Identity, code string) error {
	return s.toggleMFA(ctx, caller, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, caller auth.Identity, code string) error {
	return s.toggleMFA(ctx, caller, code, false)
}

func (s *Service) toggleMFA(ctx context.Context, caller auth.Identity, code string, enabled bool) error {
	if s.sealer == nil || !s.sealer.Configured() {
		return ErrMFAUnavailable
	}
	emp, err := s.store.FindByID(ctx, caller.EmployeeID)
	if err != nil {
		return err
	}
	if len(emp.MFASecret) == 0 {
		return ErrMFANotConfigured
	}
	secret, err := s.openSecret(emp.MFASecret)
	if err != nil {
		return ErrMFAInvalid
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.store.UpdateMFA(ctx, emp.EmployeeID, emp.MFASecret, enabled)
}

func (s *Service) openSecret(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if s.sealer == nil || !s.sealer.Configured() {
		return string(sealed), nil
	}
	plain, err := s.sealer.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
