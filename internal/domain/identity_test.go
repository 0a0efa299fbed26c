package domain

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/supabase"
	"github.com/ecohabit/backend/pkg/testutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type identityFixture struct {
	*storeFixture
	identityRepo repository.IdentityRepository
	identity     *identityDomain
}

func newIdentityFixture(t *testing.T, remote gateway.RemoteGateway) *identityFixture {
	if remote == nil {
		remote = &testutil.MockGateway{}
	}

	f := newStoreFixture(t, remote)
	kv := repository.NewKeyValueRepository()
	identityRepo := repository.NewIdentityRepository(kv)
	identity := NewIdentityDomain(identityRepo, repository.NewLocalUserRepository(kv), remote, f.store)
	identity.now = func() time.Time { return fixedNow }

	return &identityFixture{storeFixture: f, identityRepo: identityRepo, identity: identity}
}

func TestPasswordStrength(t *testing.T) {
	testCases := []struct {
		password string
		want     int
	}{
		{password: "", want: 0},
		{password: "abc", want: 0},
		{password: "abcdefgh", want: 1},
		{password: "Abcdefgh", want: 2},
		{password: "Abcdefg1", want: 3},
		{password: "Abcdef1!", want: 4},
		{password: "A1!", want: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			require.Equal(t, tc.want, PasswordStrength(tc.password))
		})
	}
}

func Test_identityDomain_Resolve_Fallback(t *testing.T) {
	f := newIdentityFixture(t, nil)

	resp, err := f.identity.ResolveSession(f.ctx, &model.ResolveSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAnonymous, resp.State)
	require.True(t, resp.UsingFallback)
	require.Nil(t, resp.User)

	// A cached identity is restored in fallback mode.
	g := newIdentityFixture(t, nil)
	cached := &entity.Identity{ID: "local-1", Email: "eco@example.com", Name: "eco"}
	require.NoError(t, g.identityRepo.Save(g.ctx, cached))

	resp, err = g.identity.ResolveSession(g.ctx, &model.ResolveSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAuthenticated, resp.State)
	require.Equal(t, cached, resp.User)
}

func Test_identityDomain_SignIn_Demo(t *testing.T) {
	f := newIdentityFixture(t, nil)

	_, err := f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "password"})
	require.True(t, errorx.Is(err, errorx.InvalidCredentials))

	resp, err := f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "tester@example.com", Password: "password"})
	require.NoError(t, err)
	require.True(t, resp.UsingFallback)
	require.Equal(t, fmt.Sprintf("local-%d", fixedNow.UnixMilli()), resp.User.ID)
	require.Equal(t, "tester", resp.User.Name)

	session, err := f.identity.GetSession(f.ctx, &model.GetSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAuthenticated, session.State)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, state.User.ID)
	require.Equal(t, "tester@example.com", state.User.Email)
}

func Test_identityDomain_SignIn_DemoDisabledInProduction(t *testing.T) {
	f := newIdentityFixture(t, nil)

	cfg := xcontext.Configs(f.ctx)
	cfg.Env = "production"
	ctx := xcontext.WithConfigs(f.ctx, cfg)

	_, err := f.identity.SignIn(ctx, &model.SignInRequest{Email: "tester@example.com", Password: "password"})
	require.True(t, errorx.Is(err, errorx.InvalidCredentials))
}

func Test_identityDomain_SignUp_Validation(t *testing.T) {
	f := newIdentityFixture(t, nil)

	testCases := []struct {
		name string
		req  *model.SignUpRequest
		code errorx.Code
	}{
		{
			name: "missing email",
			req:  &model.SignUpRequest{Password: "Abcdef1!", ConfirmPassword: "Abcdef1!", Username: "eco"},
			code: errorx.MissingField,
		},
		{
			name: "mismatch",
			req:  &model.SignUpRequest{Email: "a@b.c", Password: "Abcdef1!", ConfirmPassword: "Abcdef1?", Username: "eco"},
			code: errorx.PasswordMismatch,
		},
		{
			name: "weak",
			req:  &model.SignUpRequest{Email: "a@b.c", Password: "abcdefgh", ConfirmPassword: "abcdefgh", Username: "eco"},
			code: errorx.WeakPassword,
		},
		{
			name: "invalid username",
			req:  &model.SignUpRequest{Email: "a@b.c", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!", Username: "eco user"},
			code: errorx.InvalidUsername,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.identity.SignUp(f.ctx, tc.req)
			require.True(t, errorx.Is(err, tc.code), "got %v", err)
		})
	}
}

func Test_identityDomain_Fallback_Account(t *testing.T) {
	f := newIdentityFixture(t, nil)

	req := &model.SignUpRequest{
		Email:           "eco@example.com",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
		Username:        "eco_user",
	}
	resp, err := f.identity.SignUp(f.ctx, req)
	require.NoError(t, err)
	require.True(t, resp.UsingFallback)
	require.Equal(t, "eco_user", resp.User.Name)

	available, err := f.identity.CheckUsernameAvailable(f.ctx, &model.CheckUsernameRequest{Username: "ECO_USER"})
	require.NoError(t, err)
	require.False(t, available.Available)

	_, err = f.identity.SignUp(f.ctx, req)
	require.True(t, errorx.Is(err, errorx.UsernameTaken))

	_, err = f.identity.SignOut(f.ctx, &model.SignOutRequest{})
	require.NoError(t, err)

	session, err := f.identity.GetSession(f.ctx, &model.GetSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAnonymous, session.State)

	_, err = f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "wrong"})
	require.True(t, errorx.Is(err, errorx.InvalidCredentials))

	signIn, err := f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	require.Equal(t, resp.User, signIn.User)
}

func Test_identityDomain_SignIn_Remote(t *testing.T) {
	remote := signedInGateway()
	remote.SignInFunc = func(ctx context.Context, email, password string) (*entity.AuthSession, error) {
		return &entity.AuthSession{AccessToken: "token", UserID: "user-1", Email: email}, nil
	}
	remote.GetProfileFunc = func(ctx context.Context, userID string) (*gateway.Profile, error) {
		return &gateway.Profile{ID: userID, Username: "eco_user", Points: 240, Streak: 2}, nil
	}
	remote.ListActionsFunc = func(ctx context.Context, userID string) ([]gateway.ActionRow, error) {
		return []gateway.ActionRow{{ID: "remote-1", Name: "Biked to work", Category: "transportation", Timestamp: fixedNow}}, nil
	}

	f := newIdentityFixture(t, remote)

	resp, err := f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "secret"})
	require.NoError(t, err)
	require.False(t, resp.UsingFallback)
	require.Equal(t, entity.Identity{ID: "user-1", Email: "eco@example.com", Name: "eco_user"}, resp.User)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", state.User.ID)
	require.Equal(t, 240, state.User.Points)
	require.Equal(t, 3, state.User.Level)
	require.Len(t, state.Actions, 1)

	cached, err := f.identityRepo.Load(f.ctx)
	require.NoError(t, err)
	require.Equal(t, resp.User, *cached)
}

func Test_identityDomain_SignIn_RemoteRejected(t *testing.T) {
	remote := &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		SignInFunc: func(ctx context.Context, email, password string) (*entity.AuthSession, error) {
			return nil, &supabase.Error{StatusCode: 400, Message: "Invalid login credentials"}
		},
	}

	f := newIdentityFixture(t, remote)

	_, err := f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "secret"})
	require.True(t, errorx.Is(err, errorx.InvalidCredentials))
	require.Equal(t, "Invalid login credentials", err.Error())

	remote.SignInFunc = func(ctx context.Context, email, password string) (*entity.AuthSession, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	_, err = f.identity.SignIn(f.ctx, &model.SignInRequest{Email: "eco@example.com", Password: "secret"})
	require.True(t, errorx.Is(err, errorx.Unavailable))
}

func Test_identityDomain_SignUp_Remote(t *testing.T) {
	var inserted []gateway.Profile
	remote := &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		SignUpFunc: func(ctx context.Context, email, password string, metadata map[string]any) (*entity.AuthSession, error) {
			require.Equal(t, "eco_user", metadata["username"])
			return &entity.AuthSession{UserID: "user-2", Email: email}, nil
		},
		InsertProfileFunc: func(ctx context.Context, profile gateway.Profile) error {
			inserted = append(inserted, profile)
			return nil
		},
	}

	f := newIdentityFixture(t, remote)

	resp, err := f.identity.SignUp(f.ctx, &model.SignUpRequest{
		Email:           "eco@example.com",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
		Username:        "eco_user",
	})
	require.NoError(t, err)
	require.Equal(t, "user-2", resp.User.ID)
	require.Len(t, inserted, 1)
	require.Equal(t, "eco_user", inserted[0].Username)
	require.Equal(t, 1, inserted[0].Level)
	require.Equal(t, "metric", inserted[0].Settings["units"])

	remote.GetProfileByUsernameFunc = func(ctx context.Context, username string) (*gateway.Profile, error) {
		return &gateway.Profile{ID: "user-2", Username: username}, nil
	}
	_, err = f.identity.SignUp(f.ctx, &model.SignUpRequest{
		Email:           "other@example.com",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
		Username:        "eco_user",
	})
	require.True(t, errorx.Is(err, errorx.UsernameTaken))
}

func Test_identityDomain_CheckUsernameAvailable_FailsClosed(t *testing.T) {
	remote := &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		GetProfileByUsernameFunc: func(ctx context.Context, username string) (*gateway.Profile, error) {
			return nil, errors.New("timeout")
		},
	}

	f := newIdentityFixture(t, remote)

	resp, err := f.identity.CheckUsernameAvailable(f.ctx, &model.CheckUsernameRequest{Username: "eco_user"})
	require.NoError(t, err)
	require.False(t, resp.Available)

	remote.GetProfileByUsernameFunc = nil
	resp, err = f.identity.CheckUsernameAvailable(f.ctx, &model.CheckUsernameRequest{Username: "eco_user"})
	require.NoError(t, err)
	require.True(t, resp.Available)

	_, err = f.identity.CheckUsernameAvailable(f.ctx, &model.CheckUsernameRequest{Username: "eco-user"})
	require.True(t, errorx.Is(err, errorx.InvalidUsername))
}

func Test_identityDomain_SignOut_Remote(t *testing.T) {
	var synced, signedOut atomic.Int32
	remote := signedInGateway()
	remote.UpdateProfileFunc = func(ctx context.Context, userID string, update gateway.ProfileUpdate) error {
		synced.Add(1)
		return errors.New("offline")
	}
	remote.SignOutFunc = func(ctx context.Context) error {
		signedOut.Add(1)
		return errors.New("offline")
	}

	f := newIdentityFixture(t, remote)
	require.NoError(t, f.identityRepo.Save(f.ctx, &entity.Identity{ID: "user-1"}))

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	f.queue.Wait()
	synced.Store(0)

	_, err = f.identity.SignOut(f.ctx, &model.SignOutRequest{})
	require.NoError(t, err)
	require.Equal(t, int32(1), synced.Load())
	require.Equal(t, int32(1), signedOut.Load())

	_, err = f.identityRepo.Load(f.ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Empty(t, state.Actions)
	require.Equal(t, 0, state.User.Points)
}

func Test_identityDomain_Resolve_Remote(t *testing.T) {
	var listener gateway.SessionListener
	remote := signedInGateway()
	remote.OnSessionChangeFunc = func(l gateway.SessionListener) func() {
		listener = l
		return func() {}
	}
	remote.GetProfileFunc = func(ctx context.Context, userID string) (*gateway.Profile, error) {
		return nil, gateway.ErrNotFound
	}

	f := newIdentityFixture(t, remote)

	resp, err := f.identity.ResolveSession(f.ctx, &model.ResolveSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAuthenticated, resp.State)
	require.False(t, resp.UsingFallback)
	require.Equal(t, "user-1", resp.User.ID)
	require.Equal(t, "User", resp.User.Name)

	// Resolving again does not query the backend.
	remote.CurrentSessionFunc = func(ctx context.Context) (*entity.AuthSession, error) {
		return nil, errors.New("unexpected call")
	}
	resp, err = f.identity.ResolveSession(f.ctx, &model.ResolveSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAuthenticated, resp.State)

	require.NotNil(t, listener)
	listener(gateway.SessionSignedOut, nil)

	session, err := f.identity.GetSession(f.ctx, &model.GetSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAnonymous, session.State)
	require.Nil(t, session.User)
}

func Test_identityDomain_Resolve_RemoteErrorUsesCache(t *testing.T) {
	remote := &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		CurrentSessionFunc: func(ctx context.Context) (*entity.AuthSession, error) {
			return nil, errors.New("timeout")
		},
	}

	f := newIdentityFixture(t, remote)
	cached := &entity.Identity{ID: "user-1", Email: "eco@example.com", Name: "eco"}
	require.NoError(t, f.identityRepo.Save(f.ctx, cached))

	resp, err := f.identity.ResolveSession(f.ctx, &model.ResolveSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, model.IdentityAuthenticated, resp.State)
	require.Equal(t, cached, resp.User)
}

func Test_identityDomain_ResetPassword(t *testing.T) {
	var sent []string
	remote := &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		ResetPasswordFunc: func(ctx context.Context, email string) error {
			sent = append(sent, email)
			return nil
		},
	}

	f := newIdentityFixture(t, remote)

	_, err := f.identity.ResetPassword(f.ctx, &model.ResetPasswordRequest{})
	require.True(t, errorx.Is(err, errorx.MissingField))

	_, err = f.identity.ResetPassword(f.ctx, &model.ResetPasswordRequest{Email: "eco@example.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"eco@example.com"}, sent)
}
