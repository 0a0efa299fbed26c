package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
)

var ErrInvalidPassword = errors.New("invalid password")

type IdentityRepository interface {
	Load(ctx context.Context) (*entity.Identity, error)
	Save(ctx context.Context, identity *entity.Identity) error
	Clear(ctx context.Context) error
}

type identityRepository struct {
	kv KeyValueRepository
}

func NewIdentityRepository(kv KeyValueRepository) *identityRepository {
	return &identityRepository{kv: kv}
}

func (r *identityRepository) Load(ctx context.Context) (*entity.Identity, error) {
	var identity entity.Identity
	if err := loadBlob(ctx, r.kv, common.StorageKeyIdentity, &identity); err != nil {
		return nil, err
	}

	return &identity, nil
}

func (r *identityRepository) Save(ctx context.Context, identity *entity.Identity) error {
	return saveBlob(ctx, r.kv, common.StorageKeyIdentity, identity)
}

func (r *identityRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, common.StorageKeyIdentity)
}

type SessionRepository interface {
	Load(ctx context.Context) (*entity.AuthSession, error)
	Save(ctx context.Context, session *entity.AuthSession) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	kv KeyValueRepository
}

func NewSessionRepository(kv KeyValueRepository) *sessionRepository {
	return &sessionRepository{kv: kv}
}

func (r *sessionRepository) Load(ctx context.Context) (*entity.AuthSession, error) {
	var session entity.AuthSession
	if err := loadBlob(ctx, r.kv, common.StorageKeySession, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.AuthSession) error {
	return saveBlob(ctx, r.kv, common.StorageKeySession, session)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, common.StorageKeySession)
}

// LocalUserRepository keeps the accounts created while the remote backend
// is unavailable.
type LocalUserRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	Add(ctx context.Context, user entity.LocalUser, password string) error
	Verify(ctx context.Context, email, password string) (*entity.LocalUser, error)
}

type localUserRepository struct {
	kv KeyValueRepository
}

func NewLocalUserRepository(kv KeyValueRepository) *localUserRepository {
	return &localUserRepository{kv: kv}
}

func (r *localUserRepository) list(ctx context.Context) ([]entity.LocalUser, error) {
	var users []entity.LocalUser
	err := loadBlob(ctx, r.kv, common.StorageKeyUsers, &users)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return users, nil
}

func (r *localUserRepository) Exists(ctx context.Context, username string) (bool, error) {
	users, err := r.list(ctx)
	if err != nil {
		return false, err
	}

	i := slices.IndexFunc(users, func(u entity.LocalUser) bool {
		return strings.EqualFold(u.Username, username)
	})

	return i >= 0, nil
}

func (r *localUserRepository) Add(ctx context.Context, user entity.LocalUser, password string) error {
	users, err := r.list(ctx)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	users = append(users, user)
	return saveBlob(ctx, r.kv, common.StorageKeyUsers, users)
}

func (r *localUserRepository) Verify(ctx context.Context, email, password string) (*entity.LocalUser, error) {
	users, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(users, func(u entity.LocalUser) bool {
		return strings.EqualFold(u.Email, email)
	})
	if i < 0 {
		return nil, ErrNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return &users[i], nil
}
