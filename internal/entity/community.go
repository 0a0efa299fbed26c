package entity

import (
	"time"

	"github.com/ecohabit/backend/pkg/enum"
)

type FriendStatus string

var (
	FriendOnline  = enum.New(FriendStatus("online"))
	FriendOffline = enum.New(FriendStatus("offline"))
)

type Friend struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Avatar     string       `json:"avatar"`
	Level      int          `json:"level"`
	Points     int          `json:"points"`
	Streak     int          `json:"streak"`
	LastActive time.Time    `json:"lastActive"`
	Status     FriendStatus `json:"status"`
}

type CommunityPost struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	Timestamp  time.Time `json:"timestamp"`
	Liked      bool      `json:"liked"`
}
