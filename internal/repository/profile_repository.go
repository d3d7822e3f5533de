package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

// ProfileRepository stores the role and department of each identity.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List returns all profiles, super admins first.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	const query = `SELECT id, email, role, department_id, created_at FROM profiles ORDER BY role DESC, email ASC`
	profiles := make([]models.Profile, 0)
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// FindByID returns the profile for an identity.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, email, role, department_id, created_at FROM profiles WHERE id = $1 LIMIT 1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

// Create inserts a profile for an existing identity.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO profiles (id, email, role, department_id, created_at) VALUES (:id, :email, :role, :department_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
