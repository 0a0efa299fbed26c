// Package supabase is a small client for the PostgREST and GoTrue endpoints
// of a Supabase project.
package supabase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ecohabit/backend/pkg/api"
)

var (
	// ErrNoRows is returned by single-row reads that matched nothing.
	ErrNoRows = errors.New("no rows in result set")

	// ErrNoSession is returned by sign up when the project requires email
	// confirmation before issuing tokens.
	ErrNoSession = errors.New("no session issued")
)

type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
}

type Client struct {
	cfg       Config
	generator api.Generator
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg, generator: api.NewGenerator(cfg.URL)}
}

// NewWithGenerator is used by tests to route requests to a fake server.
func NewWithGenerator(cfg Config, generator api.Generator) *Client {
	return &Client{cfg: cfg, generator: generator}
}

// Error is a non-2xx answer of the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == status
}

func checkResponse(resp *api.Response) error {
	if resp.OK() {
		return nil
	}

	return &Error{StatusCode: resp.Code, Message: resp.ErrorMessage()}
}

func (c *Client) newRequest(key, token, path string, args ...any) api.Client {
	if token == "" {
		token = key
	}

	return c.generator.New(path, args...).
		Header("apikey", key).
		Header("Authorization", "Bearer "+token).
		Header("Accept", "application/json")
}

func isUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}
