package session

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/orbit-console/internal/domain/role"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := &User{ID: uuid.New(), Email: "seller@example.com", RoleID: int(role.Seller)}
	org := &Organization{ID: uuid.New(), Name: "Acme"}

	auth := &mockAuthenticator{token: "tok-1"}
	s := New(auth, &mockIdentity{user: user, org: org})

	require.NoError(t, s.Login(ctx, Credentials{Username: "seller@example.com", Password: "secret"}))

	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, user, s.User())
	assert.Equal(t, org, s.Organization())
	assert.Equal(t, "secret", auth.got.Password)
	assert.True(t, role.HasRole(s, role.Admin, role.Seller))
}

func TestLogin_AuthFailure(t *testing.T) {
	s := New(&mockAuthenticator{err: errors.New("incorrect email or password")}, &mockIdentity{})

	err := s.Login(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect email or password")
	assert.Empty(t, s.Token())
}

func TestLogin_IdentityFailureSignsOut(t *testing.T) {
	identity := &mockIdentity{
		user:   &User{RoleID: int(role.Admin)},
		orgErr: errors.New("organization disabled"),
	}
	s := New(&mockAuthenticator{token: "tok"}, identity)

	err := s.Login(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current organization")
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestRefresh_SignedOut(t *testing.T) {
	s := New(&mockAuthenticator{}, &mockIdentity{})
	require.ErrorIs(t, s.Refresh(context.Background()), ErrNotAuthenticated)
}

func TestLogout(t *testing.T) {
	s := New(&mockAuthenticator{token: "tok"}, &mockIdentity{
		user: &User{RoleID: int(role.Admin)},
		org:  &Organization{},
	})
	require.NoError(t, s.Login(context.Background(), Credentials{}))

	var order []string
	s.OnLogout(func() { order = append(order, "cache") })
	s.OnLogout(func() { order = append(order, "dialog") })

	s.Logout()

	assert.Equal(t, []string{"cache", "dialog"}, order)
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Nil(t, s.Organization())
	assert.False(t, role.HasRole(s, role.Admin))
}

func TestNilUserHasNoRole(t *testing.T) {
	var u *User
	assert.Equal(t, 0, u.AssignedRole())
	assert.False(t, role.HasRole(u, role.Admin, role.Seller, role.Viewer))
}

// --- Mock implementations ---

type mockAuthenticator struct {
	token string
	err   error
	got   Credentials
}

func (m *mockAuthenticator) Login(_ context.Context, creds Credentials) (string, error) {
	m.got = creds
	return m.token, m.err
}

type mockIdentity struct {
	user    *User
	org     *Organization
	userErr error
	orgErr  error
}

func (m *mockIdentity) CurrentUser(context.Context) (*User, error) {
	return m.user, m.userErr
}

func (m *mockIdentity) CurrentOrganization(context.Context) (*Organization, error) {
	return m.org, m.orgErr
}
