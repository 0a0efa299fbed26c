package entity

import (
	"context"
	"time"

	"github.com/ecohabit/backend/pkg/xcontext"
)

// KeyValue is a row of the local persistence table. Each key holds one
// JSON blob which is rewritten as a whole.
type KeyValue struct {
	Key       string `gorm:"primarykey;size:128"`
	Value     []byte
	UpdatedAt time.Time
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(&KeyValue{})
}
