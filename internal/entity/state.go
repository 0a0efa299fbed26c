package entity

import "encoding/json"

// State is the whole store snapshot, persisted locally as one blob.
type State struct {
	User           User            `json:"user"`
	Actions        []EcoAction     `json:"actions"`
	Challenges     []Challenge     `json:"challenges"`
	Achievements   []Achievement   `json:"achievements"`
	Quests         []Quest         `json:"quests"`
	Notifications  []Notification  `json:"notifications"`
	Friends        []Friend        `json:"friends"`
	CommunityPosts []CommunityPost `json:"communityPosts"`
	ImpactStats    ImpactStats     `json:"impactStats"`
}

// Clone returns a deep copy, so callers outside the store never share
// slices with it.
func (s *State) Clone() State {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	var clone State
	if err := json.Unmarshal(b, &clone); err != nil {
		panic(err)
	}

	return clone
}
