package entity

type ImpactStats struct {
	CarbonSaved  float64 `json:"carbonSaved"`
	WaterSaved   float64 `json:"waterSaved"`
	WasteSaved   float64 `json:"wasteSaved"`
	TreesPlanted float64 `json:"treesPlanted"`
	EnergySaved  float64 `json:"energySaved"`
}

// Add folds the savings of one action into the totals.
func (s *ImpactStats) Add(action EcoAction) {
	s.CarbonSaved += action.CarbonSaved
	s.WaterSaved += action.WaterSaved
	s.WasteSaved += action.WasteSaved
	s.EnergySaved += action.EnergySaved
}

// RecomputeImpact sums the savings of all actions from scratch. TreesPlanted
// is not derived from actions and is carried over.
func RecomputeImpact(previous ImpactStats, actions []EcoAction) ImpactStats {
	stats := ImpactStats{TreesPlanted: previous.TreesPlanted}
	for _, action := range actions {
		stats.Add(action)
	}

	return stats
}
