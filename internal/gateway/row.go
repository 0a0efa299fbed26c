package gateway

import (
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/enum"
)

// Profile is a row of the remote profiles table.
type Profile struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Level     int            `json:"level"`
	Points    int            `json:"points"`
	Streak    int            `json:"streak"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// NewProfile mirrors the default user shape for a newly registered account.
func NewProfile(id, username, email string) Profile {
	return Profile{
		ID:       id,
		Username: username,
		Email:    email,
		Level:    1,
		Settings: entity.DefaultSettings().Map(),
	}
}

// DecodeSettings returns the settings blob on top of the defaults. A
// malformed blob yields the defaults.
func (p Profile) DecodeSettings() entity.Settings {
	settings, err := entity.MergeSettings(entity.DefaultSettings(), p.Settings)
	if err != nil {
		return entity.DefaultSettings()
	}

	return settings
}

type ProfileUpdate struct {
	Level     int            `json:"level"`
	Points    int            `json:"points"`
	Streak    int            `json:"streak"`
	Settings  map[string]any `json:"settings"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func ProfileUpdateFromUser(user entity.User, now time.Time) ProfileUpdate {
	return ProfileUpdate{
		Level:     user.Level,
		Points:    user.Points,
		Streak:    user.Streak,
		Settings:  user.Settings.Map(),
		UpdatedAt: now,
	}
}

// ActionRow is a row of the remote action log table.
type ActionRow struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Icon        string           `json:"icon"`
	Points      int              `json:"points"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Impact      string           `json:"impact"`
	Timestamp   time.Time        `json:"timestamp"`
	Location    *entity.Location `json:"location"`
	CarbonSaved float64          `json:"carbon_saved"`
	WaterSaved  float64          `json:"water_saved"`
	WasteSaved  float64          `json:"waste_saved"`
	EnergySaved float64          `json:"energy_saved"`
}

func ActionRowFromEntity(userID string, action entity.EcoAction) ActionRow {
	return ActionRow{
		ID:          action.ID,
		UserID:      userID,
		Name:        action.Name,
		Icon:        action.Icon,
		Points:      action.Points,
		Category:    string(action.Category),
		Description: action.Description,
		Impact:      action.Impact,
		Timestamp:   action.Timestamp,
		Location:    action.Location,
		CarbonSaved: action.CarbonSaved,
		WaterSaved:  action.WaterSaved,
		WasteSaved:  action.WasteSaved,
		EnergySaved: action.EnergySaved,
	}
}

// ToEntity converts the row back. Unknown categories become general.
func (r ActionRow) ToEntity() entity.EcoAction {
	category, err := enum.ToEnum[entity.Category](r.Category)
	if err != nil {
		category = entity.CategoryGeneral
	}

	return entity.EcoAction{
		ID:          r.ID,
		Name:        r.Name,
		Icon:        r.Icon,
		Points:      r.Points,
		Category:    category,
		Description: r.Description,
		Impact:      r.Impact,
		Timestamp:   r.Timestamp.UTC(),
		Location:    r.Location,
		CarbonSaved: r.CarbonSaved,
		WaterSaved:  r.WaterSaved,
		WasteSaved:  r.WasteSaved,
		EnergySaved: r.EnergySaved,
	}
}
