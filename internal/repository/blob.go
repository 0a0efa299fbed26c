package repository

import (
	"context"
	"encoding/json"
)

// loadBlob decodes the JSON value stored under key into v. It returns
// ErrNotFound if the key was never written.
func loadBlob(ctx context.Context, kv KeyValueRepository, key string, v any) error {
	b, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

func saveBlob(ctx context.Context, kv KeyValueRepository, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return kv.Set(ctx, key, b)
}
