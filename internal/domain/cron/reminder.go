package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecohabit/backend/internal/domain"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/dateutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	robfigcron "github.com/robfig/cron/v3"
)

// ReminderSpec turns a "15:04" reminder time into a daily cron spec.
func ReminderSpec(reminderTime string) (string, error) {
	t, err := time.Parse("15:04", reminderTime)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// ReminderCronJob adds the daily reminder notification at the user's
// reminder time, in local time.
type ReminderCronJob struct {
	store domain.StoreDomain
	now   func() time.Time

	mutex    sync.Mutex
	schedule robfigcron.Schedule
}

func NewReminderCronJob(ctx context.Context, store domain.StoreDomain) *ReminderCronJob {
	job := &ReminderCronJob{store: store, now: dateutil.Now}
	job.refresh(ctx)
	return job
}

// refresh follows changes of the reminder time setting.
func (job *ReminderCronJob) refresh(ctx context.Context) {
	reminderTime := entity.DefaultSettings().ReminderTime
	if state, err := job.store.Snapshot(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read reminder time: %v", err)
	} else {
		reminderTime = state.User.Settings.ReminderTime
	}

	spec, err := ReminderSpec(reminderTime)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Invalid reminder time %q, use the default one", reminderTime)
		spec, _ = ReminderSpec(entity.DefaultSettings().ReminderTime)
	}

	schedule, err := robfigcron.ParseStandard(spec)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse reminder spec %q: %v", spec, err)
		return
	}

	job.mutex.Lock()
	job.schedule = schedule
	job.mutex.Unlock()
}

func (job *ReminderCronJob) Do(ctx context.Context) {
	defer job.refresh(ctx)

	if !xcontext.Configs(ctx).Reminder.Enabled {
		return
	}

	added, err := job.store.AddReminder(ctx, job.now().Local())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add daily reminder: %v", err)
		return
	}

	if added {
		xcontext.Logger(ctx).Infof("Added the daily reminder")
	}
}

func (job *ReminderCronJob) RunNow() bool {
	return false
}

func (job *ReminderCronJob) Next() time.Time {
	job.mutex.Lock()
	defer job.mutex.Unlock()

	now := job.now().Local()
	if job.schedule == nil {
		return dateutil.StartOfDay(now).AddDate(0, 0, 1)
	}

	return job.schedule.Next(now)
}
