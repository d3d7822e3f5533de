package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BlobReferenceRepository answers which uploaded blobs are still pointed at by a row.
type BlobReferenceRepository struct {
	db *sqlx.DB
}

// NewBlobReferenceRepository creates a new instance of BlobReferenceRepository.
func NewBlobReferenceRepository(db *sqlx.DB) *BlobReferenceRepository {
	return &BlobReferenceRepository{db: db}
}

// ListReferences returns every distinct event attachment and proker logo URL.
func (r *BlobReferenceRepository) ListReferences(ctx context.Context) ([]string, error) {
	const query = `SELECT file_url FROM events WHERE file_url <> '' UNION SELECT logo_url FROM prokers WHERE logo_url <> ''`
	var urls []string
	if err := r.db.SelectContext(ctx, &urls, query); err != nil {
		return nil, fmt.Errorf("list blob references: %w", err)
	}
	return urls, nil
}

// IsReferenced reports whether any event or proker URL ends in objectPath
// (/files/<bucket>/<name>), whatever host it was issued under.
func (r *BlobReferenceRepository) IsReferenced(ctx context.Context, objectPath string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM events WHERE right(file_url, length($1)) = $1
		UNION ALL
		SELECT 1 FROM prokers WHERE right(logo_url, length($1)) = $1
	)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, objectPath); err != nil {
		return false, fmt.Errorf("check blob reference: %w", err)
	}
	return exists, nil
}
