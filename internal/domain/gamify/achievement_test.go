package gamify

import (
	"testing"
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_AchievementManager_Apply(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	manager := DefaultAchievementManager()

	achievements := []entity.Achievement{
		{ID: "a1", Name: FirstStepsName, Category: entity.CategoryGeneral, Target: 1},
		{ID: "a2", Name: WasteWarriorName, Category: entity.CategoryWaste, Progress: 9, Target: 10},
		{ID: "a3", Name: CyclingChampionName, Category: entity.CategoryTransportation, Progress: 5, Target: 20},
	}

	updated, unlocked := manager.Apply(achievements, entity.EcoAction{
		Name:     "Recycled plastic",
		Category: entity.CategoryWaste,
	}, now)

	require.Len(t, unlocked, 2)
	require.Equal(t, "a1", unlocked[0].ID)
	require.Equal(t, "a2", unlocked[1].ID)

	require.True(t, updated[0].Unlocked)
	require.Equal(t, now, *updated[0].UnlockedAt)
	require.Equal(t, 10, updated[1].Progress)
	require.True(t, updated[1].Unlocked)

	// Transportation achievement is not evaluated for a waste action.
	require.Equal(t, 5, updated[2].Progress)

	// Input is untouched.
	require.False(t, achievements[0].Unlocked)
	require.Equal(t, 9, achievements[1].Progress)
}

func Test_AchievementManager_Monotonic(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	manager := DefaultAchievementManager()

	achievements := []entity.Achievement{
		{ID: "a3", Name: CyclingChampionName, Category: entity.CategoryTransportation, Progress: 0, Target: 2},
	}

	actions := []entity.EcoAction{
		{Name: "Bike to work", Category: entity.CategoryTransportation},
		{Name: "Bike home", Category: entity.CategoryTransportation},
		{Name: "Bike again", Category: entity.CategoryTransportation},
		{Name: "Used public transport", Category: entity.CategoryTransportation},
	}

	var firstUnlockedAt time.Time
	for i, action := range actions {
		previous := achievements[0]
		var unlocked []entity.Achievement
		achievements, unlocked = manager.Apply(achievements, action, now.Add(time.Duration(i)*time.Hour))

		require.GreaterOrEqual(t, achievements[0].Progress, previous.Progress)
		if previous.Unlocked {
			require.True(t, achievements[0].Unlocked)
			require.Empty(t, unlocked)
			require.Equal(t, firstUnlockedAt, *achievements[0].UnlockedAt)
		}

		if i == 1 {
			require.Len(t, unlocked, 1)
			firstUnlockedAt = *achievements[0].UnlockedAt
		}
	}

	require.Equal(t, 2, achievements[0].Progress)
}

func Test_AchievementManager_UnknownRule(t *testing.T) {
	manager := NewAchievementManager(NewKeywordRule(WasteWarriorName, "Recycl"))

	updated, unlocked := manager.Apply([]entity.Achievement{
		{ID: "x", Name: "Mystery", Category: entity.CategoryGeneral, Target: 1},
	}, entity.EcoAction{Name: "Recycled glass", Category: entity.CategoryWaste}, time.Now())

	require.Empty(t, unlocked)
	require.Equal(t, 0, updated[0].Progress)
}
