package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/shortlinks/internal/store"
)

func TestProjectStore_CreateRegistersOwner(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	owner, p := seedProject(t, s, "acme")

	got, err := s.Projects.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	role, err := s.Projects.MemberRole(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, store.RoleOwner, role)
}

func TestProjectStore_SlugRules(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	owner, _ := seedProject(t, s, "acme")

	_, err := s.Projects.Create(ctx, "Again", "acme", owner.ID)
	assert.ErrorIs(t, err, store.ErrProjectSlugTaken)

	_, err = s.Projects.Create(ctx, "Bad", "Not A Slug", owner.ID)
	assert.ErrorIs(t, err, store.ErrProjectSlugInvalid)
}

func TestProjectStore_Members(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	_, p := seedProject(t, s, "acme")

	member, err := s.Users.Create(ctx, "member@example.com", "Member")
	require.NoError(t, err)

	_, err = s.Projects.MemberRole(ctx, p.ID, member.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Projects.AddMember(ctx, p.ID, member.ID, store.RoleMember))
	assert.ErrorIs(t, s.Projects.AddMember(ctx, p.ID, member.ID, store.RoleMember), store.ErrAlreadyMember)

	role, err := s.Projects.MemberRole(ctx, p.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, store.RoleMember, role)
}

func TestProjectStore_GetBySlugMissing(t *testing.T) {
	s := newStores(t)
	_, err := s.Projects.GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDomainStore(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	_, acme := seedProject(t, s, "acme")
	_, other := seedProject(t, s, "other")

	d, err := s.Domains.Add(ctx, acme.ID, "Go.Acme.COM", true)
	require.NoError(t, err)
	assert.Equal(t, "go.acme.com", d.Slug)

	_, err = s.Domains.Add(ctx, other.ID, "go.acme.com", false)
	assert.ErrorIs(t, err, store.ErrDomainTaken)

	_, err = s.Domains.Add(ctx, other.ID, "not a domain", false)
	assert.ErrorIs(t, err, store.ErrDomainInvalid)

	ok, err := s.Domains.BelongsTo(ctx, acme.ID, "go.acme.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Domains.BelongsTo(ctx, other.ID, "go.acme.com")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := s.Domains.ListByProject(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Verified)
}

func TestDomainStore_Unverified(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	_, acme := seedProject(t, s, "acme")

	_, err := s.Domains.Add(ctx, acme.ID, "go.acme.com", false)
	require.NoError(t, err)

	ok, err := s.Domains.BelongsTo(ctx, acme.ID, "go.acme.com")
	require.NoError(t, err)
	assert.False(t, ok, "unverified domains do not accept links")

	d, err := s.Domains.GetBySlug(ctx, "go.acme.com")
	require.NoError(t, err)
	assert.False(t, d.Verified)
	require.NoError(t, s.Domains.SetVerified(ctx, d.ID, true))

	ok, err = s.Domains.BelongsTo(ctx, acme.ID, "go.acme.com")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, s.Domains.SetVerified(ctx, "missing", true), store.ErrNotFound)
	_, err = s.Domains.GetBySlug(ctx, "missing.example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
