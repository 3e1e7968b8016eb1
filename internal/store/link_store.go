package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Link represents a row in the links table. A link is addressed by its
// (Domain, Key) pair, which is unique across all projects.
type Link struct {
	ID          string       `db:"id"`
	ProjectID   string       `db:"project_id"`
	UserID      string       `db:"user_id"`
	Domain      string       `db:"domain"`
	Key         string       `db:"link_key"`
	URL         string       `db:"url"`
	Archived    bool         `db:"archived"`
	ExpiresAt   sql.NullTime `db:"expires_at"`
	ExpiredURL  string       `db:"expired_url"`
	Password    string       `db:"password"`
	Proxy       bool         `db:"proxy"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Image       string       `db:"image"`
	Rewrite     bool         `db:"rewrite"`
	IOS         string       `db:"ios"`
	Android     string       `db:"android"`
	Geo         string       `db:"geo"` // JSON object of country code -> URL, "" when unset
	PublicStats bool         `db:"public_stats"`
	Comments    string       `db:"comments"`
	Clicks      int64        `db:"clicks"`
	LastClicked sql.NullTime `db:"last_clicked"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// NewLink is a link to insert together with the ids of the tags to attach.
// ID, Clicks, and the timestamps are assigned by the store.
type NewLink struct {
	Link
	TagIDs []string
}

// LinkStore is the sqlx-backed link repository.
type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

// CreateMany inserts all links and their tag attachments in one transaction.
// Either every link is created or none is. A domain/key collision aborts the
// batch with an error wrapping ErrKeyTaken. The returned links are in input
// order.
func (s *LinkStore) CreateMany(ctx context.Context, links []*NewLink) ([]*Link, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	insertLink := tx.Rebind(`
		INSERT INTO links (id, project_id, user_id, domain, link_key, url, archived, expires_at,
			expired_url, password, proxy, title, description, image, rewrite, ios, android, geo,
			public_stats, comments, clicks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`)
	insertTag := tx.Rebind(`INSERT INTO link_tags (link_id, tag_id) VALUES (?, ?)`)

	ts := now()
	created := make([]*Link, 0, len(links))
	for _, nl := range links {
		l := nl.Link
		l.ID = uuid.New().String()
		l.Clicks = 0
		l.LastClicked = sql.NullTime{}
		l.CreatedAt = ts
		l.UpdatedAt = ts

		_, err := tx.ExecContext(ctx, insertLink,
			l.ID, l.ProjectID, l.UserID, l.Domain, l.Key, l.URL, l.Archived, l.ExpiresAt,
			l.ExpiredURL, l.Password, l.Proxy, l.Title, l.Description, l.Image, l.Rewrite,
			l.IOS, l.Android, l.Geo, l.PublicStats, l.Comments, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, fmt.Errorf("%w: %s/%s", ErrKeyTaken, l.Domain, l.Key)
			}
			return nil, fmt.Errorf("insert link %s/%s: %w", l.Domain, l.Key, err)
		}

		for _, tagID := range nl.TagIDs {
			if _, err := tx.ExecContext(ctx, insertTag, l.ID, tagID); err != nil {
				return nil, fmt.Errorf("attach tag %s: %w", tagID, err)
			}
		}
		created = append(created, &l)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByDomainKey returns the link addressed by domain and key, or ErrNotFound.
// Keys are case-sensitive.
func (s *LinkStore) GetByDomainKey(ctx context.Context, domain, key string) (*Link, error) {
	var l Link
	err := s.db.GetContext(ctx, &l, s.db.Rebind(`SELECT * FROM links WHERE domain = ? AND link_key = ?`), domain, key)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ExistingKeys returns the subset of keys already in use on domain.
func (s *LinkStore) ExistingKeys(ctx context.Context, domain string, keys []string) (map[string]bool, error) {
	taken := make(map[string]bool)
	if len(keys) == 0 {
		return taken, nil
	}
	query, args, err := sqlx.In(`SELECT link_key FROM links WHERE domain = ? AND link_key IN (?)`, domain, keys)
	if err != nil {
		return nil, err
	}
	var found []string
	if err := s.db.SelectContext(ctx, &found, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, k := range found {
		taken[k] = true
	}
	return taken, nil
}

// CountByProject returns the number of links in a project.
func (s *LinkStore) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM links WHERE project_id = ?`), projectID)
	return n, err
}
