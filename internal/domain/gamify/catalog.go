package gamify

import (
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/pkg/dateutil"
	"golang.org/x/exp/slices"
)

var presetActions = []model.PresetAction{
	{
		Key:         "bike",
		Name:        "Biked to class",
		Icon:        "🚲",
		Points:      10,
		Category:    entity.CategoryTransportation,
		Description: "Used a bicycle instead of a car or public transport",
		Impact:      "Reduces carbon emissions and promotes physical health",
		CarbonSaved: 2.5,
	},
	{
		Key:         "recycle",
		Name:        "Recycled plastic",
		Icon:        "♻️",
		Points:      5,
		Category:    entity.CategoryWaste,
		Description: "Properly sorted and recycled plastic waste",
		Impact:      "Reduces landfill waste and conserves resources",
		WasteSaved:  0.5,
	},
	{
		Key:         "bottle",
		Name:        "Used reusable bottle",
		Icon:        "💧",
		Points:      3,
		Category:    entity.CategoryWaste,
		Description: "Used a reusable water bottle instead of single-use plastic",
		Impact:      "Reduces plastic waste and saves money",
		WasteSaved:  0.2,
		WaterSaved:  1.5,
	},
	{
		Key:         "plant-meal",
		Name:        "Plant-based meal",
		Icon:        "🥗",
		Points:      8,
		Category:    entity.CategoryFood,
		Description: "Chose a plant-based meal over animal products",
		Impact:      "Reduces carbon footprint and water usage",
		CarbonSaved: 1.2,
		WaterSaved:  2.5,
	},
	{
		Key:         "electricity",
		Name:        "Saved electricity",
		Icon:        "💡",
		Points:      4,
		Category:    entity.CategoryEnergy,
		Description: "Turned off lights and unplugged devices when not in use",
		Impact:      "Reduces energy consumption and carbon emissions",
		EnergySaved: 1.5,
		CarbonSaved: 0.8,
	},
	{
		Key:         "bag",
		Name:        "Reusable shopping bag",
		Icon:        "🛍️",
		Points:      3,
		Category:    entity.CategoryWaste,
		Description: "Used a reusable bag instead of plastic bags",
		Impact:      "Reduces plastic waste and pollution",
		WasteSaved:  0.3,
	},
	{
		Key:         "compost",
		Name:        "Composted food waste",
		Icon:        "🌱",
		Points:      6,
		Category:    entity.CategoryWaste,
		Description: "Composted food scraps instead of throwing them away",
		Impact:      "Reduces methane emissions from landfills and creates nutrient-rich soil",
		WasteSaved:  1.0,
	},
	{
		Key:         "transit",
		Name:        "Used public transport",
		Icon:        "🚌",
		Points:      7,
		Category:    entity.CategoryTransportation,
		Description: "Used public transportation instead of a personal vehicle",
		Impact:      "Reduces carbon emissions and traffic congestion",
		CarbonSaved: 1.8,
	},
	{
		Key:         "litter",
		Name:        "Picked up litter",
		Icon:        "🗑️",
		Points:      8,
		Category:    entity.CategoryWaste,
		Description: "Collected and properly disposed of litter in public spaces",
		Impact:      "Prevents pollution and protects wildlife",
		WasteSaved:  0.8,
	},
}

func PresetActions() []model.PresetAction {
	return slices.Clone(presetActions)
}

func PresetAction(key string) (model.PresetAction, bool) {
	i := slices.IndexFunc(presetActions, func(p model.PresetAction) bool { return p.Key == key })
	if i < 0 {
		return model.PresetAction{}, false
	}

	return presetActions[i], true
}

func DefaultAchievements() []entity.Achievement {
	return []entity.Achievement{
		{
			ID:          "achievement-1",
			Name:        FirstStepsName,
			Description: "Log your first eco-action",
			Icon:        "👣",
			Category:    entity.CategoryGeneral,
			Rarity:      entity.RarityCommon,
			Target:      1,
		},
		{
			ID:          "achievement-2",
			Name:        WasteWarriorName,
			Description: "Recycle 10 times",
			Icon:        "♻️",
			Category:    entity.CategoryWaste,
			Rarity:      entity.RarityUncommon,
			Target:      10,
		},
		{
			ID:          "achievement-3",
			Name:        CyclingChampionName,
			Description: "Bike instead of driving 20 times",
			Icon:        "🚲",
			Category:    entity.CategoryTransportation,
			Rarity:      entity.RarityRare,
			Target:      20,
		},
	}
}

// DefaultChallenges returns the starter challenges, running for a week from
// the day of now.
func DefaultChallenges(now time.Time) []entity.Challenge {
	start := dateutil.StartOfDay(now)
	end := start.AddDate(0, 0, 7).Add(-time.Second)

	return []entity.Challenge{
		{
			ID:           "challenge-1",
			Title:        "Zero Plastic Day",
			Description:  "Use zero single-use plastic for 1 day",
			Category:     entity.CategoryWaste,
			Difficulty:   entity.DifficultyMedium,
			Points:       50,
			StartDate:    start,
			EndDate:      end,
			Target:       1,
			Unit:         "day",
			Participants: 128,
		},
		{
			ID:           "challenge-2",
			Title:        "Water Saver",
			Description:  "Reduce shower time by 2 minutes for a week",
			Category:     entity.CategoryWater,
			Difficulty:   entity.DifficultyEasy,
			Points:       100,
			StartDate:    start,
			EndDate:      end,
			Target:       7,
			Unit:         "days",
			Participants: 85,
		},
		{
			ID:           "challenge-3",
			Title:        "Plant Power",
			Description:  "Eat plant-based meals for 3 days",
			Category:     entity.CategoryFood,
			Difficulty:   entity.DifficultyMedium,
			Points:       75,
			StartDate:    start,
			EndDate:      end,
			Target:       3,
			Unit:         "meals",
			Participants: 64,
		},
	}
}

func DefaultQuests() []entity.Quest {
	return []entity.Quest{
		{
			ID:          "quest-1",
			Title:       "Eco Explorer",
			Description: "Complete your first set of eco-friendly actions",
			Steps: []entity.QuestStep{
				{ID: "step-1", Description: "Log a transportation action"},
				{ID: "step-2", Description: "Log a waste reduction action"},
				{ID: "step-3", Description: "Join a challenge"},
				{ID: "step-4", Description: "Maintain a 3-day streak"},
			},
			Reward: entity.QuestReward{
				Points: 50,
				Badge: &entity.Badge{
					ID:          "badge-eco-explorer",
					Name:        "Eco Explorer",
					Description: "Completed the Eco Explorer quest",
					Icon:        "🧭",
				},
			},
		},
		{
			ID:          "quest-2",
			Title:       "Water Guardian",
			Description: "Become a protector of water resources",
			Steps: []entity.QuestStep{
				{ID: "step-1", Description: "Use a reusable water bottle 5 times"},
				{ID: "step-2", Description: "Complete the Water Saver challenge"},
				{ID: "step-3", Description: "Save 10 liters of water"},
			},
			Reward: entity.QuestReward{Points: 75},
		},
	}
}

// DefaultState is the state of a fresh user: zeroed gamification counters,
// starter templates and empty collections.
func DefaultState(now time.Time) entity.State {
	return entity.State{
		User: entity.User{
			Level:      ComputeLevel(0),
			JoinedDate: now,
			Badges:     []entity.Badge{},
			Settings:   entity.DefaultSettings(),
		},
		Actions:        []entity.EcoAction{},
		Challenges:     DefaultChallenges(now),
		Achievements:   DefaultAchievements(),
		Quests:         DefaultQuests(),
		Notifications:  []entity.Notification{},
		Friends:        []entity.Friend{},
		CommunityPosts: []entity.CommunityPost{},
	}
}
