package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

type Units string

var (
	UnitsMetric   = enum.New(Units("metric"))
	UnitsImperial = enum.New(Units("imperial"))
)

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	Level      int       `json:"level"`
	Points     int       `json:"points"`
	Streak     int       `json:"streak"`
	JoinedDate time.Time `json:"joinedDate"`
	Badges     []Badge   `json:"badges"`
	Settings   Settings  `json:"settings"`
}

type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// Settings is stored remotely as a JSON blob with the same camelCase keys.
type Settings struct {
	Notifications bool   `json:"notifications" mapstructure:"notifications" structs:"notifications"`
	DarkMode      bool   `json:"darkMode" mapstructure:"darkMode" structs:"darkMode"`
	ReminderTime  string `json:"reminderTime" mapstructure:"reminderTime" structs:"reminderTime"`
	ShareProgress bool   `json:"shareProgress" mapstructure:"shareProgress" structs:"shareProgress"`
	GoalPoints    int    `json:"goalPoints" mapstructure:"goalPoints" structs:"goalPoints"`
	Language      string `json:"language" mapstructure:"language" structs:"language"`
	Units         Units  `json:"units" mapstructure:"units" structs:"units"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		DarkMode:      false,
		ReminderTime:  "18:00",
		ShareProgress: true,
		GoalPoints:    500,
		Language:      "en",
		Units:         UnitsMetric,
	}
}

// Map returns the settings keyed by their JSON names.
func (s Settings) Map() map[string]any {
	m := structs.Map(s)
	m["units"] = string(s.Units)
	return m
}

// MergeSettings overlays the keys present in values on top of base. Unknown
// keys are ignored; a value of the wrong type is an error.
func MergeSettings(base Settings, values map[string]any) (Settings, error) {
	merged := base.Map()
	for key, value := range values {
		if _, ok := merged[key]; ok && value != nil {
			merged[key] = value
		}
	}

	var result Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &result,
		TagName: "mapstructure",
	})
	if err != nil {
		return base, err
	}

	if err := decoder.Decode(merged); err != nil {
		return base, err
	}

	return result, nil
}

// Identity is the cached "who is signed in" record, independent from the
// gamification state.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
