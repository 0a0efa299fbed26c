package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
)

type Difficulty string

var (
	DifficultyEasy   = enum.New(Difficulty("easy"))
	DifficultyMedium = enum.New(Difficulty("medium"))
	DifficultyHard   = enum.New(Difficulty("hard"))
)

type Challenge struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     Category        `json:"category"`
	Difficulty   Difficulty      `json:"difficulty"`
	Points       int             `json:"points"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Progress     int             `json:"progress"`
	Target       int             `json:"target"`
	Unit         string          `json:"unit"`
	Joined       bool            `json:"joined"`
	Completed    bool            `json:"completed"`
	Participants int             `json:"participants"`
	Tasks        []ChallengeTask `json:"tasks,omitempty"`

	// RewardClaimed is set the first time the challenge completes, so the
	// reward is credited once even if progress later goes down and up.
	RewardClaimed bool `json:"rewardClaimed,omitempty"`
}

type ChallengeTask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
