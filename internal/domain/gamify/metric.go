package gamify

import (
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/dateutil"
)

const PointsPerLevel = 100

// ComputeStreak counts consecutive calendar days with at least one action,
// walking back from the day of now. Day boundaries are midnight in
// now.Location(). It is 0 when nothing was logged today.
func ComputeStreak(timestamps []time.Time, now time.Time) int {
	loc := now.Location()
	days := make(map[time.Time]struct{}, len(timestamps))
	for _, ts := range timestamps {
		days[dateutil.DayKey(ts, loc)] = struct{}{}
	}

	streak := 0
	day := dateutil.StartOfDay(now)
	for {
		if _, ok := days[day]; !ok {
			break
		}

		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// StreakOf is ComputeStreak over the timestamps of actions.
func StreakOf(actions []entity.EcoAction, now time.Time) int {
	timestamps := make([]time.Time, 0, len(actions))
	for _, action := range actions {
		timestamps = append(timestamps, action.Timestamp)
	}

	return ComputeStreak(timestamps, now)
}

// ComputeLevel derives the level from cumulative points. Level is never
// stored independently of points.
func ComputeLevel(points int) int {
	if points < 0 {
		points = 0
	}

	return points/PointsPerLevel + 1
}
