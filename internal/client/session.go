package client

import (
	"context"
	"net/http"
	"net/url"

	"babywords/internal/appctx"
	"babywords/internal/security"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type currentUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CSRFToken string `json:"csrfToken"`
}

// Provider is an OAuth provider offered by the server
type Provider struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (c *Client) acceptUser(resp currentUserResponse) *appctx.User {
	c.setCSRF(resp.CSRFToken)
	return &appctx.User{ID: resp.ID, Email: resp.Email, Name: resp.Name}
}

// CurrentUser returns the signed-in user, or nil when there is no valid session
func (c *Client) CurrentUser(ctx context.Context) (*appctx.User, error) {
	var resp currentUserResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &resp); err != nil {
		if IsUnauthorized(err) {
			c.setCSRF("")
			return nil, nil
		}
		return nil, err
	}
	return c.acceptUser(resp), nil
}

// SignIn signs in with email and password
func (c *Client) SignIn(ctx context.Context, email, password string) (*appctx.User, error) {
	var resp currentUserResponse
	req := credentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return c.acceptUser(resp), nil
}

// Register creates an account and signs it in
func (c *Client) Register(ctx context.Context, email, password, name string) (*appctx.User, error) {
	var resp currentUserResponse
	req := credentialsRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return c.acceptUser(resp), nil
}

// Providers lists the OAuth providers the server has configured
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	providers := []Provider{}
	if err := c.do(ctx, http.MethodGet, "/api/auth/providers", nil, nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// SignInWithProvider returns the URL that starts the OAuth flow for provider.
// When returnTo is a loopback address the server redirects there with the new
// session ID in the "session" query parameter.
func (c *Client) SignInWithProvider(provider, returnTo string) string {
	var query url.Values
	if returnTo != "" {
		query = url.Values{"return_to": {returnTo}}
	}
	return c.endpoint("/auth/"+url.PathEscape(provider)+"/start", query)
}

// SignOut ends the session on the server and forgets it locally
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.setCSRF("")
	c.UseSession("")
	return err
}

// SessionID returns the current session cookie value, if any
func (c *Client) SessionID() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == security.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// UseSession installs a session ID obtained elsewhere, such as a saved one or
// the value handed back by the OAuth loopback redirect. An empty id removes
// the session.
func (c *Client) UseSession(id string) {
	cookie := &http.Cookie{Name: security.SessionCookieName, Value: id, Path: "/"}
	if id == "" {
		cookie.MaxAge = -1
	}
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{cookie})
	c.setCSRF("")
}
