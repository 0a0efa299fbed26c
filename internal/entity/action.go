package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
)

type Category string

var (
	CategoryTransportation = enum.New(Category("transportation"))
	CategoryWaste          = enum.New(Category("waste"))
	CategoryEnergy         = enum.New(Category("energy"))
	CategoryWater          = enum.New(Category("water"))
	CategoryFood           = enum.New(Category("food"))
	CategoryGeneral        = enum.New(Category("general"))
)

// EcoAction is immutable once logged.
type EcoAction struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Points      int       `json:"points"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Timestamp   time.Time `json:"timestamp"`
	Location    *Location `json:"location,omitempty"`
	CarbonSaved float64   `json:"carbonSaved,omitempty"`
	WaterSaved  float64   `json:"waterSaved,omitempty"`
	WasteSaved  float64   `json:"wasteSaved,omitempty"`
	EnergySaved float64   `json:"energySaved,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}
