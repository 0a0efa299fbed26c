package repository

import (
	"context"

	"github.com/ecohabit/backend/pkg/xredis"
)

type redisKeyValueRepository struct {
	redisClient xredis.Client
}

func NewRedisKeyValueRepository(redisClient xredis.Client) *redisKeyValueRepository {
	return &redisKeyValueRepository{redisClient: redisClient}
}

func (r *redisKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.redisClient.Get(ctx, key)
	if err != nil {
		if xredis.IsNil(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return []byte(value), nil
}

func (r *redisKeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.redisClient.Set(ctx, key, string(value))
}

func (r *redisKeyValueRepository) Delete(ctx context.Context, key string) error {
	return r.redisClient.Del(ctx, key)
}
