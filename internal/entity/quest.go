package entity

import "time"

type Quest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Steps       []QuestStep `json:"steps"`
	Reward      QuestReward `json:"reward"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
	Completed   bool        `json:"completed"`

	// Progress is a percentage derived from Steps, see UpdateProgress.
	Progress int `json:"progress"`
}

type QuestStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type QuestReward struct {
	Points int    `json:"points"`
	Badge  *Badge `json:"badge,omitempty"`
}

// UpdateProgress recomputes Progress and Completed from the steps.
func (q *Quest) UpdateProgress() {
	if len(q.Steps) == 0 {
		q.Progress = 0
		return
	}

	done := 0
	for _, step := range q.Steps {
		if step.Completed {
			done++
		}
	}

	q.Progress = done * 100 / len(q.Steps)
	q.Completed = done == len(q.Steps)
}
