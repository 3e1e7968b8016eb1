package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Domain represents a custom short-link domain registered to a project.
type Domain struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	Slug      string    `db:"slug"`
	Verified  bool      `db:"verified"`
	CreatedAt time.Time `db:"created_at"`
}

type DomainStore struct {
	db *sqlx.DB
}

func NewDomainStore(db *sqlx.DB) *DomainStore {
	return &DomainStore{db: db}
}

// Add registers slug to the project. A domain belongs to at most one project.
func (s *DomainStore) Add(ctx context.Context, projectID, slug string, verified bool) (*Domain, error) {
	slug, err := NormalizeDomain(slug)
	if err != nil {
		return nil, err
	}
	d := &Domain{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Slug:      slug,
		Verified:  verified,
		CreatedAt: now(),
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO domains (id, project_id, slug, verified, created_at) VALUES (?, ?, ?, ?, ?)
	`), d.ID, d.ProjectID, d.Slug, d.Verified, d.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDomainTaken
		}
		return nil, err
	}
	return d, nil
}

// GetBySlug returns the domain matching slug, or ErrNotFound.
func (s *DomainStore) GetBySlug(ctx context.Context, slug string) (*Domain, error) {
	var d Domain
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT * FROM domains WHERE slug = ?`), slug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByProject returns the project's domains ordered by slug.
func (s *DomainStore) ListByProject(ctx context.Context, projectID string) ([]*Domain, error) {
	var domains []*Domain
	err := s.db.SelectContext(ctx, &domains, s.db.Rebind(`
		SELECT * FROM domains WHERE project_id = ? ORDER BY slug ASC
	`), projectID)
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// SetVerified updates the verified flag of the domain with id.
func (s *DomainStore) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE domains SET verified = ? WHERE id = ?`), verified, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// BelongsTo reports whether slug is registered to projectID and verified.
// Links cannot be created on an unverified domain.
func (s *DomainStore) BelongsTo(ctx context.Context, projectID, slug string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`
		SELECT COUNT(*) FROM domains WHERE project_id = ? AND slug = ? AND verified = ?
	`), projectID, slug, true)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
