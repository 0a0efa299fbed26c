package gateway

import (
	"context"

	"github.com/ecohabit/backend/internal/entity"
)

// unavailableGateway is used in local fallback mode.
type unavailableGateway struct{}

func NewUnavailableGateway() *unavailableGateway {
	return &unavailableGateway{}
}

func (unavailableGateway) Available() bool { return false }

func (unavailableGateway) SignIn(context.Context, string, string) (*entity.AuthSession, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) SignUp(context.Context, string, string, map[string]any) (*entity.AuthSession, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) SignOut(context.Context) error { return ErrUnavailable }

func (unavailableGateway) CurrentSession(context.Context) (*entity.AuthSession, error) {
	return nil, nil
}

func (unavailableGateway) OnSessionChange(SessionListener) func() { return func() {} }

func (unavailableGateway) ResetPassword(context.Context, string) error { return ErrUnavailable }

func (unavailableGateway) GetProfile(context.Context, string) (*Profile, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) GetProfileByUsername(context.Context, string) (*Profile, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) InsertProfile(context.Context, Profile) error { return ErrUnavailable }

func (unavailableGateway) UpdateProfile(context.Context, string, ProfileUpdate) error {
	return ErrUnavailable
}

func (unavailableGateway) ListTopProfiles(context.Context, int) ([]Profile, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) InsertAction(context.Context, ActionRow) error { return ErrUnavailable }

func (unavailableGateway) ListActions(context.Context, string) ([]ActionRow, error) {
	return nil, ErrUnavailable
}

func (unavailableGateway) AddScore(context.Context, string, int) error { return ErrUnavailable }

func (unavailableGateway) MirrorAction(context.Context, string, entity.EcoAction) error {
	return ErrUnavailable
}
