package repository

import (
	"context"
	"errors"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/dateutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("key not found")

// KeyValueRepository is the local persistence adapter. Values are opaque
// blobs and every Set replaces the whole value.
type KeyValueRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type keyValueRepository struct{}

func NewKeyValueRepository() *keyValueRepository {
	return &keyValueRepository{}
}

func (r *keyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var result entity.KeyValue
	tx := xcontext.DB(ctx).Where("`key`=?", key).Limit(1).Find(&result)
	if tx.Error != nil {
		return nil, tx.Error
	}

	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return result.Value, nil
}

func (r *keyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entity.KeyValue{Key: key, Value: value, UpdatedAt: dateutil.Now()}).Error
}

func (r *keyValueRepository) Delete(ctx context.Context, key string) error {
	return xcontext.DB(ctx).Where("`key`=?", key).Delete(&entity.KeyValue{}).Error
}
