package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joestump/shortlinks/internal/store"
	"github.com/joestump/shortlinks/internal/testutil"
)

type stores struct {
	Users    *store.UserStore
	Projects *store.ProjectStore
	Domains  *store.DomainStore
	Tags     *store.TagStore
	Links    *store.LinkStore
}

func newStores(t *testing.T) *stores {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &stores{
		Users:    store.NewUserStore(db),
		Projects: store.NewProjectStore(db, time.Minute),
		Domains:  store.NewDomainStore(db),
		Tags:     store.NewTagStore(db),
		Links:    store.NewLinkStore(db),
	}
}

// seedProject creates an owner and a project with the given slug.
func seedProject(t *testing.T, s *stores, slug string) (*store.User, *store.Project) {
	t.Helper()
	ctx := context.Background()
	u, err := s.Users.Create(ctx, slug+"-owner@example.com", "Owner")
	require.NoError(t, err)
	p, err := s.Projects.Create(ctx, "Project "+slug, slug, u.ID)
	require.NoError(t, err)
	return u, p
}

func newLink(p *store.Project, u *store.User, domain, key string) *store.NewLink {
	return &store.NewLink{Link: store.Link{
		ProjectID: p.ID,
		UserID:    u.ID,
		Domain:    domain,
		Key:       key,
		URL:       "https://example.com/" + key,
	}}
}
