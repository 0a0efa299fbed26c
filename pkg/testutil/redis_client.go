package testutil

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc func(ctx context.Context, key string) (bool, error)
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value string) error
	DelFunc   func(ctx context.Context, key ...string) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", redis.Nil
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}

	return nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

// NewMemoryRedisClient returns a mock backed by a map.
func NewMemoryRedisClient() *MockRedisClient {
	var mu sync.Mutex
	data := map[string]string{}

	return &MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			_, ok := data[key]
			return ok, nil
		},
		GetFunc: func(ctx context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			value, ok := data[key]
			if !ok {
				return "", redis.Nil
			}
			return value, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			mu.Lock()
			defer mu.Unlock()
			for _, key := range keys {
				delete(data, key)
			}
			return nil
		},
	}
}
