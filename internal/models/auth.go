package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and the caller's profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Profile     Profile   `json:"profile"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	DepartmentID *int   `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the service-level caller.
func (c *JWTClaims) Actor() *Actor {
	if c == nil {
		return nil
	}
	return &Actor{UserID: c.UserID, Email: c.Email, Role: c.Role, DepartmentID: c.DepartmentID}
}
