package model

type DailyGoal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
	Completed   bool   `json:"completed"`
}

type GetDailyGoalsRequest struct{}

type GetDailyGoalsResponse struct {
	Goals    []DailyGoal `json:"goals"`
	Progress int         `json:"progress"`
}

type GetEcoTipRequest struct{}

type GetEcoTipResponse struct {
	Tip string `json:"tip"`
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Points    int    `json:"points"`
	Streak    int    `json:"streak"`
	IsCurrent bool   `json:"is_current"`
}

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Remote  bool               `json:"remote"`
}
