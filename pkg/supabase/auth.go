package supabase

import (
	"context"
	"time"

	"github.com/ecohabit/backend/pkg/api"
	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expiry returns when the access token stops being valid.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0).UTC()
	}

	if claims, err := ParseClaims(s.AccessToken); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time.UTC()
	}

	if s.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}

	return time.Time{}
}

type Claims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// ParseClaims reads the claims of an access token without verifying its
// signature. The backend verifies tokens on every call; the client only
// needs the subject and the expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (c *Client) authRequest(token, path string) api.Client {
	return c.newRequest(c.cfg.AnonKey, token, path)
}

func (c *Client) tokenGrant(ctx context.Context, grantType string, body api.JSON) (*Session, error) {
	resp, err := c.authRequest("", "/auth/v1/token").
		Query(api.Parameter{"grant_type": grantType}).
		Body(body).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var session Session
	if err := resp.Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenGrant(ctx, "password", api.JSON{"email": email, "password": password})
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	return c.tokenGrant(ctx, "refresh_token", api.JSON{"refresh_token": refreshToken})
}

// SignUp registers a new account. When the project requires an email
// confirmation the returned session only carries the user and ErrNoSession
// is returned alongside it.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	resp, err := c.authRequest("", "/auth/v1/signup").
		Body(api.JSON{"email": email, "password": password, "data": metadata}).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var session Session
	if err := resp.Decode(&session); err != nil {
		return nil, err
	}

	if session.AccessToken == "" {
		if err := resp.Decode(&session.User); err != nil {
			return nil, err
		}

		return &session, ErrNoSession
	}

	return &session, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.authRequest(accessToken, "/auth/v1/logout").POST(ctx)
	if err != nil {
		return err
	}

	// An already revoked token is as good as a successful sign out.
	if err := checkResponse(resp); err != nil && !isUnauthorized(err) {
		return err
	}

	return nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.authRequest(accessToken, "/auth/v1/user").GET(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var user User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	req := c.authRequest("", "/auth/v1/recover").Body(api.JSON{"email": email})
	if redirectTo != "" {
		req = req.Query(api.Parameter{"redirect_to": redirectTo})
	}

	resp, err := req.POST(ctx)
	if err != nil {
		return err
	}

	return checkResponse(resp)
}
