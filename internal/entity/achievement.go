package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
)

type Rarity string

var (
	RarityCommon    = enum.New(Rarity("common"))
	RarityUncommon  = enum.New(Rarity("uncommon"))
	RarityRare      = enum.New(Rarity("rare"))
	RarityEpic      = enum.New(Rarity("epic"))
	RarityLegendary = enum.New(Rarity("legendary"))
)

// Achievement progress is monotonic: Progress never decreases and Unlocked
// never goes back to false.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    Category   `json:"category"`
	Rarity      Rarity     `json:"rarity"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}
