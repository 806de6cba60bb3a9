// Package session holds the signed-in identity for one console process. It is
// built once at the application root and passed explicitly to everything that
// needs the current user.
package session

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotAuthenticated is returned when an operation needs a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// User is the signed-in operator.
type User struct {
	ID             uuid.UUID
	Email          string
	FirstName      string
	LastName       string
	OrganizationID uuid.UUID
	RoleID         int
	IsActive       bool
}

// AssignedRole returns the role identifier. A nil user reports 0.
func (u *User) AssignedRole() int {
	if u == nil {
		return 0
	}
	return u.RoleID
}

// Organization is the tenant the user belongs to.
type Organization struct {
	ID       uuid.UUID
	Name     string
	Slug     string
	IsActive bool
}

// Credentials are exchanged for an access token.
type Credentials struct {
	Username string
	Password string
}

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (token string, err error)
}

// IdentityProvider loads the identity behind the current token.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
	CurrentOrganization(ctx context.Context) (*Organization, error)
}

// Session is safe for concurrent use.
type Session struct {
	auth     Authenticator
	identity IdentityProvider

	mu       sync.RWMutex
	token    string
	user     *User
	org      *Organization
	teardown []func()
}

// New creates a signed-out Session.
func New(auth Authenticator, identity IdentityProvider) *Session {
	return &Session{
		auth:     auth,
		identity: identity,
	}
}

// Login exchanges creds for a token and loads the user and organization.
// On failure the session stays signed out.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		return errors.Wrap(err, "login")
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.clear()
		return err
	}
	return nil
}

// Refresh reloads the user and organization for the current token.
func (s *Session) Refresh(ctx context.Context) error {
	if s.Token() == "" {
		return ErrNotAuthenticated
	}

	var (
		user *User
		org  *Organization
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.identity.CurrentUser(gctx)
		if err != nil {
			return errors.Wrap(err, "current user")
		}
		user = u
		return nil
	})
	g.Go(func() error {
		o, err := s.identity.CurrentOrganization(gctx)
		if err != nil {
			return errors.Wrap(err, "current organization")
		}
		org = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.org = org
	s.mu.Unlock()
	return nil
}

// Token returns the access token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or nil when signed out.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Organization returns the current organization, or nil when signed out.
func (s *Session) Organization() *Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.org
}

// AssignedRole makes the session usable as a role subject directly.
func (s *Session) AssignedRole() int {
	return s.User().AssignedRole()
}

// OnLogout registers fn to run when the session is cleared.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown = append(s.teardown, fn)
}

// Logout clears the identity and runs teardown hooks in registration order.
func (s *Session) Logout() {
	s.clear()

	s.mu.RLock()
	hooks := append([]func(){}, s.teardown...)
	s.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.org = nil
}
