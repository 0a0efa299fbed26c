package gateway

import (
	"context"
	"errors"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/enum"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/supabase"
)

var (
	// ErrUnavailable is returned by every remote call of the fallback
	// gateway.
	ErrUnavailable = errorx.New(errorx.Unavailable, "Remote backend is unavailable")

	// ErrNotFound is returned when a single remote record does not exist.
	ErrNotFound = errors.New("remote record not found")

	// ErrNoSession is returned by calls which need a signed-in user.
	ErrNoSession = errors.New("no active session")
)

// Rejection returns the message of a 4xx answer of the remote backend, such
// as wrong credentials or a duplicate row.
func Rejection(err error) (string, bool) {
	var e *supabase.Error
	if errors.As(err, &e) && e.StatusCode >= 400 && e.StatusCode < 500 {
		return e.Message, true
	}

	return "", false
}

type SessionEvent string

var (
	SessionSignedIn       = enum.New(SessionEvent("signed_in"))
	SessionSignedOut      = enum.New(SessionEvent("signed_out"))
	SessionTokenRefreshed = enum.New(SessionEvent("token_refreshed"))
)

type SessionListener func(event SessionEvent, session *entity.AuthSession)

// RemoteGateway is the only way the application talks to the remote
// backend. It is chosen once at startup, see New.
type RemoteGateway interface {
	Available() bool

	SignIn(ctx context.Context, email, password string) (*entity.AuthSession, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*entity.AuthSession, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*entity.AuthSession, error)
	OnSessionChange(listener SessionListener) (unsubscribe func())
	ResetPassword(ctx context.Context, email string) error

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*Profile, error)
	InsertProfile(ctx context.Context, profile Profile) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	ListTopProfiles(ctx context.Context, limit int) ([]Profile, error)

	InsertAction(ctx context.Context, row ActionRow) error
	ListActions(ctx context.Context, userID string) ([]ActionRow, error)

	AddScore(ctx context.Context, userID string, points int) error
	MirrorAction(ctx context.Context, userID string, action entity.EcoAction) error
}
