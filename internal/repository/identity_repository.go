package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

// IdentityRepository stores login credentials.
type IdentityRepository struct {
	db *sqlx.DB
}

// NewIdentityRepository creates a new instance of IdentityRepository.
func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// FindByEmail returns an identity by email address.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	const query = `SELECT id, email, password_hash, email_confirmed_at, created_at, updated_at FROM auth_identities WHERE email = $1 LIMIT 1`
	var identity models.Identity
	if err := r.db.GetContext(ctx, &identity, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find identity by email: %w", err)
	}
	return &identity, nil
}

// Create inserts a new identity.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	const query = `INSERT INTO auth_identities (id, email, password_hash, email_confirmed_at, created_at, updated_at) VALUES (:id, :email, :password_hash, :email_confirmed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, identity); err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *IdentityRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE auth_identities SET password_hash = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(res, "update password")
}

// Delete removes an identity. The profile row is removed by ON DELETE CASCADE.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM auth_identities WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}
