package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/api"
	"github.com/ecohabit/backend/pkg/supabase"
	"github.com/ecohabit/backend/pkg/xcontext"
)

// Probe reports whether the remote backend answers within the probe
// timeout. Placeholder credentials never reach the network.
func Probe(ctx context.Context, cfg config.SupabaseConfigs, client *supabase.Client) bool {
	if !cfg.IsConfigured() {
		return false
	}

	if cfg.ProbeTimeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ProbeTimeout.Duration)
		defer cancel()
	}

	err := client.From(profilesTable).Select("id").Limit(1).Execute(ctx, nil)
	if err == nil {
		return true
	}

	// A rejected key means the backend cannot be used either.
	if supabase.IsStatus(err, http.StatusUnauthorized) || supabase.IsStatus(err, http.StatusForbidden) {
		xcontext.Logger(ctx).Warnf("Remote backend rejected the api key: %v", err)
		return false
	}

	var remoteErr *supabase.Error
	if errors.As(err, &remoteErr) && remoteErr.StatusCode < http.StatusInternalServerError {
		return true
	}

	xcontext.Logger(ctx).Warnf("Remote backend is unreachable: %v", err)
	return false
}

// New probes the remote backend once and returns the gateway to use for
// the lifetime of the process.
func New(ctx context.Context, sessionRepo repository.SessionRepository) RemoteGateway {
	cfg := xcontext.Configs(ctx)
	client := supabase.New(supabase.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
	})

	if !Probe(ctx, cfg.Supabase, client) {
		xcontext.Logger(ctx).Infof("Remote backend is unavailable, running in local fallback mode")
		return NewUnavailableGateway()
	}

	var scoring api.Generator
	if len(cfg.Scoring.Endpoints) > 0 {
		scoring = api.NewGenerator(cfg.Scoring.Endpoints...)
	}

	xcontext.Logger(ctx).Infof("Remote backend is available at %s", cfg.Supabase.URL)
	return NewLiveGateway(cfg.Supabase, client, scoring, sessionRepo)
}
