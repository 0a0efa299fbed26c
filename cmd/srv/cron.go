package main

import (
	"github.com/ecohabit/backend/internal/domain/cron"
)

func (s *srv) newCronJobManager() *cron.CronJobManager {
	return cron.NewCronJobManager(
		cron.NewReminderCronJob(s.ctx, s.storeDomain),
		cron.NewPeriodicSyncCronJob(s.storeDomain, s.identityDomain, s.configs.Sync.Interval.Duration),
	)
}
