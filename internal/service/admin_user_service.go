package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

const (
	minPasswordLength = 6
	resourceAdminUser = "admin_users"
)

type identityRepository interface {
	Create(ctx context.Context, identity *models.Identity) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type profileRepository interface {
	List(ctx context.Context) ([]models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

// AdminUserService runs the privileged account operations. Routes reaching it
// are already limited to super admins; the service checks again.
type AdminUserService struct {
	identities identityRepository
	profiles   profileRepository
	audit      auditTrail
	validator  *validator.Validate
	logger     *zap.Logger
	hashCost   int
}

// NewAdminUserService constructs an AdminUserService.
func NewAdminUserService(identities identityRepository, profiles profileRepository, audit auditRepository, validate *validator.Validate, logger *zap.Logger) *AdminUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdminUserService{
		identities: identities,
		profiles:   profiles,
		audit:      auditTrail{repo: audit, logger: logger},
		validator:  validate,
		logger:     logger,
		hashCost:   bcrypt.DefaultCost,
	}
}

// List returns every profile, super admins first.
func (s *AdminUserService) List(ctx context.Context, actor *models.Actor) ([]models.Profile, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "list profiles")
	}
	return profiles, nil
}

// Create provisions a confirmed identity and its profile. When the profile
// insert fails the identity is deleted again so no orphan login remains.
func (s *AdminUserService) Create(ctx context.Context, actor *models.Actor, req dto.CreateAdminUserRequest) (*models.Profile, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid user payload")
	}

	var department *int
	if req.Role == models.RoleDeptAdmin {
		if req.DepartmentID == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "department_id is required for dept_admin")
		}
		if _, ok := models.FindDepartment(*req.DepartmentID); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "department_id must reference an existing department")
		}
		dept := *req.DepartmentID
		department = &dept
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Because(appErrors.ErrInternal, err, "failed to hash password")
	}

	confirmed := time.Now().UTC()
	identity := &models.Identity{Email: req.Email, PasswordHash: string(hash), EmailConfirmedAt: &confirmed}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, appErrors.Store(err, "create identity")
	}

	profile := &models.Profile{ID: identity.ID, Email: req.Email, Role: req.Role, DepartmentID: department}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if rbErr := s.identities.Delete(ctx, identity.ID); rbErr != nil {
			s.logger.Error("failed to roll back identity after profile insert failure",
				zap.String("identity_id", identity.ID), zap.Error(rbErr))
		}
		return nil, appErrors.Store(err, "create profile")
	}

	s.audit.record(ctx, actor, models.AuditActionUserCreate, resourceAdminUser, profile.ID, nil, profile)
	return profile, nil
}

// ResetPassword overwrites the credential of any identity.
func (s *AdminUserService) ResetPassword(ctx context.Context, actor *models.Actor, req dto.ResetPasswordRequest) error {
	if err := requireUserManager(actor); err != nil {
		return err
	}
	if strings.TrimSpace(req.ID) == "" || req.NewPassword == "" {
		return appErrors.Clone(appErrors.ErrValidation, "ID dan Password baru wajib diisi")
	}
	if len([]rune(req.NewPassword)) < minPasswordLength {
		return appErrors.Clone(appErrors.ErrValidation, "Password minimal 6 karakter")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return appErrors.Because(appErrors.ErrInternal, err, "failed to hash password")
	}
	if err := s.identities.UpdatePassword(ctx, req.ID, string(hash), time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Store(err, "update password")
	}

	s.audit.record(ctx, actor, models.AuditActionPasswordReset, resourceAdminUser, req.ID, nil, map[string]string{"status": "reset"})
	return nil
}

// Delete removes an identity and, through the cascade, its profile.
// Super admin accounts are refused.
func (s *AdminUserService) Delete(ctx context.Context, actor *models.Actor, id string) error {
	if err := requireUserManager(actor); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "ID User diperlukan")
	}

	target, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Store(err, "find profile")
	}
	if !CapabilitiesFor(actor).CanDeleteAccount(target.Role) {
		return appErrors.Clone(appErrors.ErrForbidden, "DILARANG: Akun Super Admin tidak boleh dihapus!")
	}

	if err := s.identities.Delete(ctx, id); err != nil {
		return appErrors.Store(err, "delete identity")
	}

	s.audit.record(ctx, actor, models.AuditActionUserDelete, resourceAdminUser, id, target, nil)
	return nil
}

func requireUserManager(actor *models.Actor) error {
	caps := CapabilitiesFor(actor)
	if !caps.Authenticated {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	if !caps.CanManageUsers() {
		return appErrors.Clone(appErrors.ErrForbidden, "super admin only")
	}
	return nil
}
