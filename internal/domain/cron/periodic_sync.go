package cron

import (
	"context"
	"time"

	"github.com/ecohabit/backend/internal/domain"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/pkg/xcontext"
)

const defaultSyncInterval = 15 * time.Minute

type PeriodicSyncCronJob struct {
	store    domain.StoreDomain
	identity domain.IdentityDomain
	interval time.Duration
}

func NewPeriodicSyncCronJob(
	store domain.StoreDomain,
	identity domain.IdentityDomain,
	interval time.Duration,
) *PeriodicSyncCronJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	return &PeriodicSyncCronJob{store: store, identity: identity, interval: interval}
}

func (job *PeriodicSyncCronJob) Do(ctx context.Context) {
	session, err := job.identity.GetSession(ctx, &model.GetSessionRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return
	}

	if session.State != model.IdentityAuthenticated || session.UsingFallback {
		return
	}

	resp, err := job.store.SyncWithSupabase(ctx, &model.SyncRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sync: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Periodic sync %s: pulled %d, pushed %d",
		resp.SyncStatus.Status, resp.Pulled, resp.Pushed)
}

func (job *PeriodicSyncCronJob) RunNow() bool {
	return false
}

func (job *PeriodicSyncCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
