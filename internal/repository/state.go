package repository

import (
	"context"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/internal/entity"
)

type StateRepository interface {
	Load(ctx context.Context) (*entity.State, error)
	Save(ctx context.Context, state *entity.State) error
	Clear(ctx context.Context) error
}

type stateRepository struct {
	kv KeyValueRepository
}

func NewStateRepository(kv KeyValueRepository) *stateRepository {
	return &stateRepository{kv: kv}
}

func (r *stateRepository) Load(ctx context.Context) (*entity.State, error) {
	var state entity.State
	if err := loadBlob(ctx, r.kv, common.StorageKeyState, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (r *stateRepository) Save(ctx context.Context, state *entity.State) error {
	return saveBlob(ctx, r.kv, common.StorageKeyState, state)
}

func (r *stateRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, common.StorageKeyState)
}
