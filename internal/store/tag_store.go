package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrTagColorInvalid is returned when a tag color is not in TagColors.
var ErrTagColorInvalid = errors.New("tag color must be one of: red, yellow, green, blue, purple, pink, brown")

// TagColors lists the accepted tag colors. The first entry is the default.
var TagColors = []string{"blue", "red", "yellow", "green", "purple", "pink", "brown"}

// Tag represents a row in the tags table. Tag names are unique per project.
type Tag struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

// TagStore is the sqlx-backed tag repository.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// Create adds a tag to the project. An empty color selects the default.
func (s *TagStore) Create(ctx context.Context, projectID, name, color string) (*Tag, error) {
	if color == "" {
		color = TagColors[0]
	}
	if !slices.Contains(TagColors, color) {
		return nil, ErrTagColorInvalid
	}
	t := &Tag{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		Color:     color,
		CreatedAt: now(),
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO tags (id, project_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)
	`), t.ID, t.ProjectID, t.Name, t.Color, t.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTagTaken
		}
		return nil, err
	}
	return t, nil
}

// GetByIDs returns the project's tags whose id is in ids. Unknown ids and ids
// belonging to other projects are silently absent from the result.
func (s *TagStore) GetByIDs(ctx context.Context, projectID string, ids []string) ([]*Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM tags WHERE project_id = ? AND id IN (?) ORDER BY name ASC`, projectID, ids)
	if err != nil {
		return nil, err
	}
	var tags []*Tag
	if err := s.db.SelectContext(ctx, &tags, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByProject returns all tags of a project ordered by name.
func (s *TagStore) ListByProject(ctx context.Context, projectID string) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, s.db.Rebind(`
		SELECT * FROM tags WHERE project_id = ? ORDER BY name ASC
	`), projectID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// linkTag is a tag row joined with the link it is attached to.
type linkTag struct {
	LinkID string `db:"link_id"`
	Tag
}

// ListByLinks returns the tags attached to each of linkIDs, keyed by link id.
func (s *TagStore) ListByLinks(ctx context.Context, linkIDs []string) (map[string][]*Tag, error) {
	out := make(map[string][]*Tag, len(linkIDs))
	if len(linkIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT lt.link_id, t.* FROM tags t
		INNER JOIN link_tags lt ON lt.tag_id = t.id
		WHERE lt.link_id IN (?)
		ORDER BY t.name ASC
	`, linkIDs)
	if err != nil {
		return nil, err
	}
	var rows []linkTag
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i := range rows {
		t := rows[i].Tag
		out[rows[i].LinkID] = append(out[rows[i].LinkID], &t)
	}
	return out, nil
}
