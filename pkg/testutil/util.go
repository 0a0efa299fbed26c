package testutil

import (
	"context"
	"time"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/logger"
	"github.com/ecohabit/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens a new database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Env = "test"
	cfg.Sync.Workers = 1
	cfg.Sync.QueueSize = 16
	cfg.Sync.JobTimeout = config.Duration{Duration: 5 * time.Second}
	cfg.Sync.RateLimit = 0

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}
