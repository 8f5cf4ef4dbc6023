package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/accounts/adapters/memory"
	"github.com/Apurer/storefront/internal/domains/accounts/domain"
)

func newTestService() *Service {
	return NewService(memory.NewProfileRepository(), memory.NewSessionStore(time.Hour))
}

func TestSignIn_IssuesTokenAndSeedsProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	token, err := svc.SignIn(ctx, domain.Identity{UID: "u1", Email: "asha@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UID)
	assert.Equal(t, domain.RoleCustomer, identity.Role)

	profile, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, []string{"name", "phone"}, profile.MissingContactFields())
}

func TestAuthenticate_UnknownOrSignedOut(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = svc.Authenticate(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	token, err := svc.SignIn(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "u1", domain.Profile{Email: "broken"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	updated, err := svc.UpdateProfile(ctx, "u1", domain.Profile{
		UID:     "someone-else",
		Name:    " Asha ",
		Phone:   "9876543210",
		Address: domain.Address{Street: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.UID)
	assert.Equal(t, "Asha", updated.Name)
	assert.Empty(t, updated.MissingAddressFields())

	_, err = svc.UpdateProfile(ctx, " ", domain.Profile{})
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
