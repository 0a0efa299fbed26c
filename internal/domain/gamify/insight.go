package gamify

import (
	"sort"
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/pkg/dateutil"
)

const (
	dailyActionTarget = 3
	dailyPointTarget  = 20

	defaultTip = "Keep up the good work! Small actions add up to big environmental impacts."
	emptyTip   = "Start logging your eco-actions to get personalized tips!"
)

var tips = map[string]string{
	"Biked to class":        "Since you bike a lot, try reducing your shower time to save even more resources.",
	"Recycled plastic":      "Great job recycling! Consider buying products with less packaging to reduce waste further.",
	"Used reusable bottle":  "You're doing great with your reusable bottle! Try bringing your own utensils when eating out.",
	"Plant-based meal":      "Love your plant-based meals! Try growing some herbs at home to reduce your carbon footprint.",
	"Saved electricity":     "You're saving electricity! Consider unplugging devices when not in use to save even more.",
	"Reusable shopping bag": "Great job with reusable bags! Try shopping at local farmers markets to reduce food miles.",
}

// DailyGoals derives today's goals from the actions logged on the day of now.
// The returned percentage caps each goal at its target.
func DailyGoals(actions []entity.EcoAction, now time.Time) ([]model.DailyGoal, int) {
	count, points := 0, 0
	categories := map[entity.Category]struct{}{}
	for _, action := range actions {
		if !dateutil.SameDay(now, action.Timestamp) {
			continue
		}

		count++
		points += action.Points
		categories[action.Category] = struct{}{}
	}

	newCategory := 0
	if len(categories) > 0 {
		newCategory = 1
	}

	goals := []model.DailyGoal{
		newDailyGoal("daily-actions", "Log 3 eco-actions", "Record three sustainable actions today",
			count, dailyActionTarget),
		newDailyGoal("daily-points", "Earn 20 points", "Collect twenty points from today's actions",
			points, dailyPointTarget),
		newDailyGoal("daily-category", "Try a new category",
			"Log an action from a category you haven't tried before", newCategory, 1),
	}

	total, current := 0, 0
	for _, goal := range goals {
		total += goal.Target
		current += min(goal.Current, goal.Target)
	}

	return goals, current * 100 / total
}

func newDailyGoal(id, title, description string, current, target int) model.DailyGoal {
	return model.DailyGoal{
		ID:          id,
		Title:       title,
		Description: description,
		Current:     current,
		Target:      target,
		Completed:   current >= target,
	}
}

// EcoTip picks a tip for the most frequently logged action name. Ties go to
// the name seen first, that is the most recent one.
func EcoTip(actions []entity.EcoAction) string {
	if len(actions) == 0 {
		return emptyTip
	}

	counts := map[string]int{}
	order := []string{}
	for _, action := range actions {
		if _, ok := counts[action.Name]; !ok {
			order = append(order, action.Name)
		}
		counts[action.Name]++
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}

	if tip, ok := tips[best]; ok {
		return tip
	}

	return defaultTip
}

// LocalLeaderboard ranks the user against their friends.
func LocalLeaderboard(user entity.User, friends []entity.Friend, limit int) []model.LeaderboardEntry {
	entries := []model.LeaderboardEntry{{
		UserID:    user.ID,
		Name:      user.Name,
		Level:     user.Level,
		Points:    user.Points,
		Streak:    user.Streak,
		IsCurrent: true,
	}}

	for _, f := range friends {
		entries = append(entries, model.LeaderboardEntry{
			UserID: f.ID,
			Name:   f.Name,
			Level:  f.Level,
			Points: f.Points,
			Streak: f.Streak,
		})
	}

	return RankLeaderboard(entries, limit)
}

// RankLeaderboard sorts entries by points (then streak) and assigns ranks.
// A non-positive limit keeps every entry.
func RankLeaderboard(entries []model.LeaderboardEntry, limit int) []model.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Streak > entries[j].Streak
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
