package testutil

import (
	"context"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
)

type MockGateway struct {
	AvailableFunc            func() bool
	SignInFunc               func(ctx context.Context, email, password string) (*entity.AuthSession, error)
	SignUpFunc               func(ctx context.Context, email, password string, metadata map[string]any) (*entity.AuthSession, error)
	SignOutFunc              func(ctx context.Context) error
	CurrentSessionFunc       func(ctx context.Context) (*entity.AuthSession, error)
	OnSessionChangeFunc      func(listener gateway.SessionListener) func()
	ResetPasswordFunc        func(ctx context.Context, email string) error
	GetProfileFunc           func(ctx context.Context, userID string) (*gateway.Profile, error)
	GetProfileByUsernameFunc func(ctx context.Context, username string) (*gateway.Profile, error)
	InsertProfileFunc        func(ctx context.Context, profile gateway.Profile) error
	UpdateProfileFunc        func(ctx context.Context, userID string, update gateway.ProfileUpdate) error
	ListTopProfilesFunc      func(ctx context.Context, limit int) ([]gateway.Profile, error)
	InsertActionFunc         func(ctx context.Context, row gateway.ActionRow) error
	ListActionsFunc          func(ctx context.Context, userID string) ([]gateway.ActionRow, error)
	AddScoreFunc             func(ctx context.Context, userID string, points int) error
	MirrorActionFunc         func(ctx context.Context, userID string, action entity.EcoAction) error
}

func (m *MockGateway) Available() bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}

	return false
}

func (m *MockGateway) SignIn(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}

	return nil, gateway.ErrUnavailable
}

func (m *MockGateway) SignUp(
	ctx context.Context, email, password string, metadata map[string]any,
) (*entity.AuthSession, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, metadata)
	}

	return nil, gateway.ErrUnavailable
}

func (m *MockGateway) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}

	return nil
}

func (m *MockGateway) CurrentSession(ctx context.Context) (*entity.AuthSession, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc(ctx)
	}

	return nil, nil
}

func (m *MockGateway) OnSessionChange(listener gateway.SessionListener) func() {
	if m.OnSessionChangeFunc != nil {
		return m.OnSessionChangeFunc(listener)
	}

	return func() {}
}

func (m *MockGateway) ResetPassword(ctx context.Context, email string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email)
	}

	return nil
}

func (m *MockGateway) GetProfile(ctx context.Context, userID string) (*gateway.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}

	return nil, gateway.ErrNotFound
}

func (m *MockGateway) GetProfileByUsername(ctx context.Context, username string) (*gateway.Profile, error) {
	if m.GetProfileByUsernameFunc != nil {
		return m.GetProfileByUsernameFunc(ctx, username)
	}

	return nil, gateway.ErrNotFound
}

func (m *MockGateway) InsertProfile(ctx context.Context, profile gateway.Profile) error {
	if m.InsertProfileFunc != nil {
		return m.InsertProfileFunc(ctx, profile)
	}

	return nil
}

func (m *MockGateway) UpdateProfile(ctx context.Context, userID string, update gateway.ProfileUpdate) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}

	return nil
}

func (m *MockGateway) ListTopProfiles(ctx context.Context, limit int) ([]gateway.Profile, error) {
	if m.ListTopProfilesFunc != nil {
		return m.ListTopProfilesFunc(ctx, limit)
	}

	return nil, nil
}

func (m *MockGateway) InsertAction(ctx context.Context, row gateway.ActionRow) error {
	if m.InsertActionFunc != nil {
		return m.InsertActionFunc(ctx, row)
	}

	return nil
}

func (m *MockGateway) ListActions(ctx context.Context, userID string) ([]gateway.ActionRow, error) {
	if m.ListActionsFunc != nil {
		return m.ListActionsFunc(ctx, userID)
	}

	return nil, nil
}

func (m *MockGateway) AddScore(ctx context.Context, userID string, points int) error {
	if m.AddScoreFunc != nil {
		return m.AddScoreFunc(ctx, userID, points)
	}

	return nil
}

func (m *MockGateway) MirrorAction(ctx context.Context, userID string, action entity.EcoAction) error {
	if m.MirrorActionFunc != nil {
		return m.MirrorActionFunc(ctx, userID, action)
	}

	return nil
}
