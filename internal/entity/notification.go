package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
)

type NotificationType string

var (
	NotificationChallenge   = enum.New(NotificationType("challenge"))
	NotificationReminder    = enum.New(NotificationType("reminder"))
	NotificationAchievement = enum.New(NotificationType("achievement"))
	NotificationQuest       = enum.New(NotificationType("quest"))
	NotificationSocial      = enum.New(NotificationType("social"))
	NotificationSystem      = enum.New(NotificationType("system"))
)

type Notification struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Type      NotificationType    `json:"type"`
	Read      bool                `json:"read"`
	Timestamp time.Time           `json:"timestamp"`
	Action    *NotificationAction `json:"action,omitempty"`
}

type NotificationAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
