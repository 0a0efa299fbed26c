package model

import (
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/enum"
)

type SyncStatusType string

var (
	SyncIdle    = enum.New(SyncStatusType("idle"))
	SyncSyncing = enum.New(SyncStatusType("syncing"))
	SyncSuccess = enum.New(SyncStatusType("success"))
	SyncError   = enum.New(SyncStatusType("error"))
)

type SyncStatus struct {
	Status    SyncStatusType `json:"status"`
	Message   string         `json:"message,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type GetStateRequest struct{}

type GetStateResponse struct {
	State      entity.State `json:"state"`
	SyncStatus SyncStatus   `json:"sync_status"`
}

type GetSyncStatusRequest struct{}

type GetSyncStatusResponse SyncStatus

type SyncRequest struct{}

type SyncResponse struct {
	SyncStatus SyncStatus `json:"sync_status"`
	Pulled     int        `json:"pulled"`
	Pushed     int        `json:"pushed"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse struct{}

type UpdateChallengeProgressRequest struct {
	ChallengeID string `json:"challenge_id"`
	Progress    int    `json:"progress"`
}

type UpdateChallengeProgressResponse struct {
	Completed bool `json:"completed"`
}

type CompleteQuestStepRequest struct {
	QuestID string `json:"quest_id"`
	StepID  string `json:"step_id"`
}

type CompleteQuestStepResponse struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notification_id"`
}

type MarkNotificationReadResponse struct{}

type ClearAllNotificationsRequest struct{}

type ClearAllNotificationsResponse struct{}

type ToggleDarkModeRequest struct{}

type ToggleDarkModeResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// UpdateSettingsRequest carries a partial settings object keyed like
// entity.Settings' JSON fields. Absent keys are left untouched.
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings"`
}

type UpdateSettingsResponse struct {
	Settings entity.Settings `json:"settings"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
	Points *int    `json:"points"`
	Streak *int    `json:"streak"`
}

type UpdateUserResponse struct {
	User entity.User `json:"user"`
}

type LikePostRequest struct {
	PostID string `json:"post_id"`
}

type LikePostResponse struct{}

type CreatePostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type CreatePostResponse struct {
	Post entity.CommunityPost `json:"post"`
}

type AddFriendRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Points int    `json:"points"`
	Streak int    `json:"streak"`
}

type AddFriendResponse struct{}
