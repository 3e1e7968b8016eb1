package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jmoiron/sqlx"
)

// Project roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// projectCacheSize bounds the number of projects kept by slug.
const projectCacheSize = 1024

// Project represents a row in the projects table. Links, domains, and tags
// all belong to exactly one project.
type Project struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProjectStore manages projects and their memberships. Lookups by slug go
// through an expiring LRU cache; project rows are immutable once created, so
// the TTL only bounds how long a deleted project keeps resolving.
type ProjectStore struct {
	db    *sqlx.DB
	cache *expirable.LRU[string, *Project]
}

func NewProjectStore(db *sqlx.DB, cacheTTL time.Duration) *ProjectStore {
	return &ProjectStore{
		db:    db,
		cache: expirable.NewLRU[string, *Project](projectCacheSize, nil, cacheTTL),
	}
}

// Create inserts a project and registers ownerID as its owner.
func (s *ProjectStore) Create(ctx context.Context, name, slug, ownerID string) (*Project, error) {
	if err := ValidateProjectSlug(slug); err != nil {
		return nil, err
	}
	p := &Project{ID: uuid.New().String(), Name: name, Slug: slug}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO projects (id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Slug, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrProjectSlugTaken
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO project_users (project_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
	`), p.ID, ownerID, RoleOwner, p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// GetBySlug returns the project matching slug, or ErrNotFound.
func (s *ProjectStore) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	if p, ok := s.cache.Get(slug); ok {
		return p, nil
	}

	var p Project
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM projects WHERE slug = ?`), slug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.cache.Add(slug, &p)
	return &p, nil
}

// AddMember adds userID to the project with role.
// Returns ErrAlreadyMember if already present.
func (s *ProjectStore) AddMember(ctx context.Context, projectID, userID, role string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO project_users (project_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
	`), projectID, userID, role, now())
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

// MemberRole returns userID's role in the project, or ErrNotFound if the user
// is not a member.
func (s *ProjectStore) MemberRole(ctx context.Context, projectID, userID string) (string, error) {
	var role string
	err := s.db.GetContext(ctx, &role, s.db.Rebind(`
		SELECT role FROM project_users WHERE project_id = ? AND user_id = ?
	`), projectID, userID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}
