package model

import "github.com/ecohabit/backend/internal/entity"

type LogActionRequest struct {
	Name        string           `json:"name"`
	Icon        string           `json:"icon"`
	Points      int              `json:"points"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Impact      string           `json:"impact"`
	Location    *entity.Location `json:"location"`
	CarbonSaved float64          `json:"carbon_saved"`
	WaterSaved  float64          `json:"water_saved"`
	WasteSaved  float64          `json:"waste_saved"`
	EnergySaved float64          `json:"energy_saved"`
}

type LogActionResponse struct {
	Action               entity.EcoAction     `json:"action"`
	Level                int                  `json:"level"`
	LeveledUp            bool                 `json:"leveled_up"`
	UnlockedAchievements []entity.Achievement `json:"unlocked_achievements"`
}

type PresetAction struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Points      int             `json:"points"`
	Category    entity.Category `json:"category"`
	Description string          `json:"description"`
	Impact      string          `json:"impact"`
	CarbonSaved float64         `json:"carbon_saved,omitempty"`
	WaterSaved  float64         `json:"water_saved,omitempty"`
	WasteSaved  float64         `json:"waste_saved,omitempty"`
	EnergySaved float64         `json:"energy_saved,omitempty"`
}

// ToLogActionRequest turns a catalog entry into a log request.
func (p PresetAction) ToLogActionRequest() *LogActionRequest {
	return &LogActionRequest{
		Name:        p.Name,
		Icon:        p.Icon,
		Points:      p.Points,
		Category:    string(p.Category),
		Description: p.Description,
		Impact:      p.Impact,
		CarbonSaved: p.CarbonSaved,
		WaterSaved:  p.WaterSaved,
		WasteSaved:  p.WasteSaved,
		EnergySaved: p.EnergySaved,
	}
}

type GetPresetActionsRequest struct{}

type GetPresetActionsResponse struct {
	Actions []PresetAction `json:"actions"`
}
