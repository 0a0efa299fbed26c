package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey    struct{}
	loggerKey     struct{}
	dbKey         struct{}
	httpClientKey struct{}
	userIDKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	if db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok || client == nil {
		return &http.Client{Timeout: 15 * time.Second}
	}

	return client
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// Detach returns a context carrying the values of ctx but none of its
// cancellation, for work that outlives the request that scheduled it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
