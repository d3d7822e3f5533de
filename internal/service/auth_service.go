package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

type credentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type profileFinder interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService signs in admins and verifies their session tokens.
type AuthService struct {
	identities credentialRepository
	profiles   profileFinder
	audit      auditTrail
	validator  *validator.Validate
	logger     *zap.Logger
	config     AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(identities credentialRepository, profiles profileFinder, audit auditRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		identities: identities,
		profiles:   profiles,
		audit:      auditTrail{repo: audit, logger: logger},
		validator:  validate,
		logger:     logger,
		config:     config,
	}
}

// Login checks the credentials and issues an access token carrying role and department.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Because(appErrors.ErrValidation, err, "invalid login payload")
	}

	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Store(err, "find identity")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if identity.EmailConfirmedAt == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "email not confirmed")
	}

	profile, err := s.profiles.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no admin profile")
		}
		return nil, appErrors.Store(err, "find profile")
	}

	issuedAt := time.Now().UTC()
	token, err := s.generateAccessToken(profile, issuedAt)
	if err != nil {
		return nil, appErrors.Because(appErrors.ErrInternal, err, "failed to create access token")
	}

	actor := &models.Actor{UserID: profile.ID, Email: profile.Email, Role: profile.Role, IP: req.IP, UserAgent: req.UserAgent}
	s.audit.record(ctx, actor, models.AuditActionLogin, "auth", profile.ID, nil, map[string]string{"status": "success"})

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Profile:     *profile,
		IssuedAt:    issuedAt,
	}, nil
}

// Me returns the profile behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Store(err, "find profile")
	}
	return profile, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Because(appErrors.ErrUnauthorized, err, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(profile *models.Profile, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID:       profile.ID,
		Email:        profile.Email,
		Role:         profile.Role,
		DepartmentID: profile.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   profile.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
