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

// ProkerRepository provides database access for work programmes.
type ProkerRepository struct {
	db *sqlx.DB
}

// NewProkerRepository creates a new instance of ProkerRepository.
func NewProkerRepository(db *sqlx.DB) *ProkerRepository {
	return &ProkerRepository{db: db}
}

// List returns every proker ordered by name.
func (r *ProkerRepository) List(ctx context.Context) ([]models.Proker, error) {
	const query = `SELECT id, name, department_id, logo_url, created_at, updated_at FROM prokers ORDER BY name ASC`
	prokers := make([]models.Proker, 0)
	if err := r.db.SelectContext(ctx, &prokers, query); err != nil {
		return nil, fmt.Errorf("list prokers: %w", err)
	}
	return prokers, nil
}

// FindByID returns a proker by identifier.
func (r *ProkerRepository) FindByID(ctx context.Context, id string) (*models.Proker, error) {
	const query = `SELECT id, name, department_id, logo_url, created_at, updated_at FROM prokers WHERE id = $1 LIMIT 1`
	var proker models.Proker
	if err := r.db.GetContext(ctx, &proker, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find proker by id: %w", err)
	}
	return &proker, nil
}

// Create inserts a new proker.
func (r *ProkerRepository) Create(ctx context.Context, proker *models.Proker) error {
	if proker.ID == "" {
		proker.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if proker.CreatedAt.IsZero() {
		proker.CreatedAt = now
	}
	proker.UpdatedAt = now

	const query = `INSERT INTO prokers (id, name, department_id, logo_url, created_at, updated_at) VALUES (:id, :name, :department_id, :logo_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, proker); err != nil {
		return fmt.Errorf("create proker: %w", err)
	}
	return nil
}

// Update changes name, department and logo.
func (r *ProkerRepository) Update(ctx context.Context, proker *models.Proker) error {
	proker.UpdatedAt = time.Now().UTC()
	const query = `UPDATE prokers SET name = :name, department_id = :department_id, logo_url = :logo_url, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, proker)
	if err != nil {
		return fmt.Errorf("update proker: %w", err)
	}
	return requireAffected(res, "update proker")
}

// Delete removes a proker. Its events go with it through ON DELETE CASCADE.
func (r *ProkerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM prokers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete proker: %w", err)
	}
	return requireAffected(res, "delete proker")
}
