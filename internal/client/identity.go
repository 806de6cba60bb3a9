package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/orbit-console/internal/domain/session"
)

var (
	_ session.Authenticator    = (*AuthAPI)(nil)
	_ session.IdentityProvider = (*IdentityAPI)(nil)
)

// AuthAPI covers /login.
type AuthAPI struct{ c *Client }

// Auth returns the login endpoints.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Login exchanges credentials for an access token using the OAuth2
// password form.
func (a *AuthAPI) Login(ctx context.Context, creds session.Credentials) (string, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var token string
	err := a.c.do(ctx, "login", request{
		method:      http.MethodPost,
		path:        "/login/access-token",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			if string(key) != "access_token" {
				return d.Skip()
			}
			var err error
			token, err = d.Str()
			return err
		})
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("login response has no access token")
	}
	return token, nil
}

// IdentityAPI covers /users/me and /organizations/me.
type IdentityAPI struct{ c *Client }

// Identity returns the current-identity endpoints.
func (c *Client) Identity() *IdentityAPI { return &IdentityAPI{c: c} }

// CurrentUser loads the user behind the token.
func (a *IdentityAPI) CurrentUser(ctx context.Context) (*session.User, error) {
	var u session.User
	err := a.c.do(ctx, "users.me", request{method: http.MethodGet, path: "/users/me"}, func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			var err error
			switch string(key) {
			case "id":
				u.ID, err = decodeUUID(d)
			case "email":
				u.Email, err = d.Str()
			case "first_name":
				u.FirstName, err = decodeStr(d)
			case "last_name":
				u.LastName, err = decodeStr(d)
			case "organization_id":
				u.OrganizationID, err = decodeUUID(d)
			case "role_id":
				u.RoleID, err = d.Int()
			case "is_active":
				u.IsActive, err = d.Bool()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentOrganization loads the tenant of the current user.
func (a *IdentityAPI) CurrentOrganization(ctx context.Context) (*session.Organization, error) {
	var o session.Organization
	err := a.c.do(ctx, "organizations.me", request{method: http.MethodGet, path: "/organizations/me"}, func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			var err error
			switch string(key) {
			case "id":
				o.ID, err = decodeUUID(d)
			case "name":
				o.Name, err = d.Str()
			case "slug":
				o.Slug, err = d.Str()
			case "is_active":
				o.IsActive, err = d.Bool()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}
