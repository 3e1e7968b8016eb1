package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/shortlinks/internal/store"
)

func TestLinkStore_CreateMany(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	u, p := seedProject(t, s, "acme")

	tag, err := s.Tags.Create(ctx, p.ID, "docs", "")
	require.NoError(t, err)

	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	first := newLink(p, u, "sl.ink", "first")
	first.ExpiresAt = sql.NullTime{Time: expires, Valid: true}
	first.TagIDs = []string{tag.ID}
	second := newLink(p, u, "sl.ink", "Second")

	created, err := s.Links.CreateMany(ctx, []*store.NewLink{first, second})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "first", created[0].Key)
	assert.Equal(t, "Second", created[1].Key)
	assert.NotEmpty(t, created[0].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	got, err := s.Links.GetByDomainKey(ctx, "sl.ink", "first")
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, got.ID)
	assert.Equal(t, "https://example.com/first", got.URL)
	require.True(t, got.ExpiresAt.Valid)
	assert.True(t, expires.Equal(got.ExpiresAt.Time))

	tags, err := s.Tags.ListByLinks(ctx, []string{created[0].ID, created[1].ID})
	require.NoError(t, err)
	require.Len(t, tags[created[0].ID], 1)
	assert.Equal(t, "docs", tags[created[0].ID][0].Name)
	assert.Empty(t, tags[created[1].ID])

	n, err := s.Links.CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLinkStore_CreateManyIsAtomic(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	u, p := seedProject(t, s, "acme")

	_, err := s.Links.CreateMany(ctx, []*store.NewLink{newLink(p, u, "sl.ink", "taken")})
	require.NoError(t, err)

	_, err = s.Links.CreateMany(ctx, []*store.NewLink{
		newLink(p, u, "sl.ink", "fresh"),
		newLink(p, u, "sl.ink", "taken"),
	})
	assert.ErrorIs(t, err, store.ErrKeyTaken)

	_, err = s.Links.GetByDomainKey(ctx, "sl.ink", "fresh")
	assert.ErrorIs(t, err, store.ErrNotFound, "first link of a failed batch must be rolled back")
}

func TestLinkStore_KeysAreCaseSensitivePerDomain(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	u, p := seedProject(t, s, "acme")

	_, err := s.Links.CreateMany(ctx, []*store.NewLink{
		newLink(p, u, "sl.ink", "abc"),
		newLink(p, u, "sl.ink", "ABC"),
		newLink(p, u, "go.acme.com", "abc"),
	})
	require.NoError(t, err)

	taken, err := s.Links.ExistingKeys(ctx, "sl.ink", []string{"abc", "Abc", "xyz"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"abc": true}, taken)
}

func TestLinkStore_GetMissing(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	_, err := s.Links.GetByDomainKey(ctx, "sl.ink", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
