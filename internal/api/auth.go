package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/serviceerr"
)

// Login authenticates with the OAuth2 password form. The username is
// the account email. A 401 maps to ErrInvalidCredentials, not
// ErrUnauthorized: a rejected login is not a stale session.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token domain.Token
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		form:      form,
		anonymous: true,
	}, &token)
	if err != nil {
		var apiErr *serviceerr.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return domain.Token{}, serviceerr.NewAPIError(apiErr.Status, apiErr.Detail, serviceerr.ErrInvalidCredentials)
		}
		return domain.Token{}, err
	}
	return token, nil
}

// Register creates a new account. Validation failures carry the
// server's detail message.
func (c *Client) Register(ctx context.Context, in domain.UserCreate) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/register",
		body:      in,
		anonymous: true,
	}, &user)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Me returns the principal owning the current credential.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
