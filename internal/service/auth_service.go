package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
)

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Type domain.SubjectType
	ID   string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	tenants    repository.TenantRepository
	staff      repository.StaffRepository
	properties repository.PropertyRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	TenantRepo        repository.TenantRepository
	StaffRepo         repository.StaffRepository
	PropertyRepo      repository.PropertyRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		tenants:    deps.TenantRepo,
		staff:      deps.StaffRepo,
		properties: deps.PropertyRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterTenant creates a new tenant account bound to a property unit.
func (s *AuthService) RegisterTenant(ctx context.Context, name, email, password, propertyID, unit string) (*domain.Tenant, string, time.Time, error) {
	if _, err := s.tenants.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !property.IsActive {
		return nil, "", time.Time{}, errors.New("property inactive")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	tenant := &domain.Tenant{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PropertyID:   property.ID,
		Unit:         unit,
		Status:       domain.TenantStatusActive,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(tenant.ID, domain.SubjectTypeTenant, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return tenant, token, exp, nil
}

// LoginTenant authenticates a tenant.
func (s *AuthService) LoginTenant(ctx context.Context, email, password string) (*domain.Tenant, string, time.Time, error) {
	tenant, err := s.tenants.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if tenant.Status != domain.TenantStatusActive {
		return nil, "", time.Time{}, errors.New("tenant suspended")
	}
	if err := auth.ComparePassword(tenant.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(tenant.ID, domain.SubjectTypeTenant, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return tenant, token, exp, nil
}

// LoginStaff authenticates staff and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffAccount, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !staff.Active {
		return nil, "", time.Time{}, errors.New("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// RequestPasswordReset persists a reset token for either tenant or staff email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	_, _ = s.CleanupExpiredResets(ctx)

	subjectType := domain.SubjectTypeTenant
	subjectID := ""

	if tenant, err := s.tenants.GetByEmail(ctx, email); err == nil {
		subjectID = tenant.ID
	} else if err == pgx.ErrNoRows {
		staff, staffErr := s.staff.GetByEmail(ctx, email)
		if staffErr != nil {
			return nil, staffErr
		}
		subjectType = domain.SubjectTypeStaff
		subjectID = staff.ID
	} else {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		SubjectType: string(subjectType),
		SubjectID:   subjectID,
		Token:       uuid.NewString(),
		ExpiresAt:   time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return errors.New("token expired or used")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch domain.SubjectType(token.SubjectType) {
	case domain.SubjectTypeTenant:
		tenant, err := s.tenants.GetByID(ctx, token.SubjectID)
		if err != nil {
			return err
		}
		tenant.PasswordHash = hash
		if err := s.tenants.Update(ctx, tenant); err != nil {
			return err
		}
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, token.SubjectID)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return err
		}
	default:
		return errors.New("unknown subject type")
	}

	return s.resets.MarkUsed(ctx, token.ID)
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch subject.Type {
	case domain.SubjectTypeTenant:
		tenant, err := s.tenants.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(tenant.PasswordHash, currentPassword); err != nil {
			return errors.New("invalid credentials")
		}
		tenant.PasswordHash = hash
		return s.tenants.Update(ctx, tenant)
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
			return errors.New("invalid credentials")
		}
		staff.PasswordHash = hash
		return s.staff.Update(ctx, staff)
	default:
		return errors.New("unknown subject")
	}
}

// CleanupExpiredResets prunes stale reset tokens; invoked opportunistically.
func (s *AuthService) CleanupExpiredResets(ctx context.Context) (int64, error) {
	return s.resets.DeleteExpired(ctx, time.Now())
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
