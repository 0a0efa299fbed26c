package gamify

import (
	"strings"
	"time"

	"github.com/ecohabit/backend/internal/entity"
)

const (
	FirstStepsName      = "First Steps"
	WasteWarriorName    = "Waste Warrior"
	CyclingChampionName = "Cycling Champion"
)

type AchievementRule interface {
	// Name returns the name of the achievement driven by this rule.
	Name() string

	// Scan returns the progress a newly logged action adds to the
	// achievement, 0 if the action is irrelevant.
	Scan(action entity.EcoAction) int
}

type keywordRule struct {
	name    string
	keyword string
}

// NewKeywordRule counts actions whose name contains keyword.
func NewKeywordRule(name, keyword string) *keywordRule {
	return &keywordRule{name: name, keyword: keyword}
}

func (r *keywordRule) Name() string {
	return r.name
}

func (r *keywordRule) Scan(action entity.EcoAction) int {
	if strings.Contains(action.Name, r.keyword) {
		return 1
	}

	return 0
}

type everyActionRule struct {
	name string
}

func NewEveryActionRule(name string) *everyActionRule {
	return &everyActionRule{name: name}
}

func (r *everyActionRule) Name() string {
	return r.name
}

func (r *everyActionRule) Scan(entity.EcoAction) int {
	return 1
}

type AchievementManager struct {
	// Only written at initialization, read-only afterwards.
	rules map[string]AchievementRule
}

func NewAchievementManager(rules ...AchievementRule) *AchievementManager {
	manager := &AchievementManager{rules: make(map[string]AchievementRule)}
	for _, r := range rules {
		manager.rules[r.Name()] = r
	}

	return manager
}

func DefaultAchievementManager() *AchievementManager {
	return NewAchievementManager(
		NewEveryActionRule(FirstStepsName),
		NewKeywordRule(WasteWarriorName, "Recycl"),
		NewKeywordRule(CyclingChampionName, "Bike"),
	)
}

// Apply evaluates every locked achievement whose category is general or the
// action's category. It returns the updated list and the achievements
// unlocked by this action. The input slice is not modified.
func (m *AchievementManager) Apply(
	achievements []entity.Achievement,
	action entity.EcoAction,
	now time.Time,
) ([]entity.Achievement, []entity.Achievement) {
	updated := make([]entity.Achievement, len(achievements))
	copy(updated, achievements)

	unlocked := []entity.Achievement{}
	for i := range updated {
		a := &updated[i]
		if a.Unlocked {
			continue
		}

		if a.Category != entity.CategoryGeneral && a.Category != action.Category {
			continue
		}

		rule, ok := m.rules[a.Name]
		if !ok {
			continue
		}

		increment := rule.Scan(action)
		if increment <= 0 {
			continue
		}

		a.Progress += increment
		if a.Progress >= a.Target {
			unlockedAt := now
			a.Unlocked = true
			a.UnlockedAt = &unlockedAt
			unlocked = append(unlocked, *a)
		}
	}

	return updated, unlocked
}
