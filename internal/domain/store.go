package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/internal/domain/gamify"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/dateutil"
	"github.com/ecohabit/backend/pkg/enum"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/idutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

const defaultAvatar = "/placeholder.svg?height=96&width=96"

type StoreDomain interface {
	Initialize(ctx context.Context) error
	Snapshot(ctx context.Context) (entity.State, error)
	SyncStatus() model.SyncStatus

	GetState(context.Context, *model.GetStateRequest) (*model.GetStateResponse, error)
	GetSyncStatus(context.Context, *model.GetSyncStatusRequest) (*model.GetSyncStatusResponse, error)
	GetPresetActions(context.Context, *model.GetPresetActionsRequest) (*model.GetPresetActionsResponse, error)
	GetDailyGoals(context.Context, *model.GetDailyGoalsRequest) (*model.GetDailyGoalsResponse, error)
	GetEcoTip(context.Context, *model.GetEcoTipRequest) (*model.GetEcoTipResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)

	LogAction(context.Context, *model.LogActionRequest) (*model.LogActionResponse, error)
	JoinChallenge(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	UpdateChallengeProgress(context.Context, *model.UpdateChallengeProgressRequest) (*model.UpdateChallengeProgressResponse, error)
	CompleteQuestStep(context.Context, *model.CompleteQuestStepRequest) (*model.CompleteQuestStepResponse, error)
	MarkNotificationRead(context.Context, *model.MarkNotificationReadRequest) (*model.MarkNotificationReadResponse, error)
	ClearAllNotifications(context.Context, *model.ClearAllNotificationsRequest) (*model.ClearAllNotificationsResponse, error)
	ToggleDarkMode(context.Context, *model.ToggleDarkModeRequest) (*model.ToggleDarkModeResponse, error)
	UpdateSettings(context.Context, *model.UpdateSettingsRequest) (*model.UpdateSettingsResponse, error)
	UpdateUser(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	LikePost(context.Context, *model.LikePostRequest) (*model.LikePostResponse, error)
	CreatePost(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	AddFriend(context.Context, *model.AddFriendRequest) (*model.AddFriendResponse, error)

	// AddReminder adds the daily reminder notification when reminders are
	// enabled and nothing was logged on the day of now. It reports whether
	// a notification was added.
	AddReminder(ctx context.Context, now time.Time) (bool, error)
	HydrateUser(ctx context.Context, identity entity.Identity, profile *gateway.Profile) error
	Reset(ctx context.Context) error

	SyncWithSupabase(context.Context, *model.SyncRequest) (*model.SyncResponse, error)
	LoadActionsFromSupabase(ctx context.Context) (bool, error)
}

// SyncScheduler runs remote work after a mutation has returned.
type SyncScheduler interface {
	Enqueue(name string, do func(ctx context.Context) error) bool
}

type storeDomain struct {
	stateRepo          repository.StateRepository
	remote             gateway.RemoteGateway
	scheduler          SyncScheduler
	achievementManager *gamify.AchievementManager
	now                func() time.Time

	// mu serializes mutations. Each one updates the state and persists it
	// before releasing the lock.
	mu          sync.Mutex
	initialized bool
	state       entity.State
	syncStatus  model.SyncStatus

	// profileMu orders profile pushes across sync workers. It is taken
	// before mu, never after.
	profileMu sync.Mutex
}

func NewStoreDomain(
	stateRepo repository.StateRepository,
	remote gateway.RemoteGateway,
	scheduler SyncScheduler,
	achievementManager *gamify.AchievementManager,
) *storeDomain {
	return &storeDomain{
		stateRepo:          stateRepo,
		remote:             remote,
		scheduler:          scheduler,
		achievementManager: achievementManager,
		now:                dateutil.Now,
		syncStatus:         model.SyncStatus{Status: model.SyncIdle},
	}
}

func (d *storeDomain) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.initLocked(ctx)
}

func (d *storeDomain) initLocked(ctx context.Context) error {
	if d.initialized {
		return nil
	}

	state, err := d.stateRepo.Load(ctx)
	switch {
	case err == nil:
		d.state = *state
		normalizeState(&d.state)
	case errors.Is(err, repository.ErrNotFound):
		d.state = gamify.DefaultState(d.now())
	default:
		xcontext.Logger(ctx).Errorf("Cannot load local state: %v", err)
		return errorx.Unknown
	}

	d.initialized = true
	return nil
}

// lock acquires the store and makes sure the state is loaded. The caller
// must unlock d.mu when err is nil.
func (d *storeDomain) lock(ctx context.Context) error {
	d.mu.Lock()
	if err := d.initLocked(ctx); err != nil {
		d.mu.Unlock()
		return err
	}

	return nil
}

// persistLocked rewrites the whole snapshot. A failed write is logged only,
// the in-memory state stays authoritative.
func (d *storeDomain) persistLocked(ctx context.Context) {
	if err := d.stateRepo.Save(ctx, &d.state); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist local state: %v", err)
	}
}

func normalizeState(state *entity.State) {
	if state.Actions == nil {
		state.Actions = []entity.EcoAction{}
	}
	if state.Challenges == nil {
		state.Challenges = []entity.Challenge{}
	}
	if state.Achievements == nil {
		state.Achievements = []entity.Achievement{}
	}
	if state.Quests == nil {
		state.Quests = []entity.Quest{}
	}
	if state.Notifications == nil {
		state.Notifications = []entity.Notification{}
	}
	if state.Friends == nil {
		state.Friends = []entity.Friend{}
	}
	if state.CommunityPosts == nil {
		state.CommunityPosts = []entity.CommunityPost{}
	}
	if state.User.Badges == nil {
		state.User.Badges = []entity.Badge{}
	}
}

func (d *storeDomain) Snapshot(ctx context.Context) (entity.State, error) {
	if err := d.lock(ctx); err != nil {
		return entity.State{}, err
	}
	defer d.mu.Unlock()

	return d.state.Clone(), nil
}

func (d *storeDomain) SyncStatus() model.SyncStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.syncStatus
}

func (d *storeDomain) setSyncStatus(status model.SyncStatusType, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.syncStatus = model.SyncStatus{Status: status, Message: message, UpdatedAt: d.now()}
}

// prependNotificationsLocked puts the given notifications, in order, before
// the existing ones.
func (d *storeDomain) prependNotificationsLocked(notifications ...entity.Notification) {
	if len(notifications) == 0 {
		return
	}

	d.state.Notifications = append(notifications, d.state.Notifications...)
}

func (d *storeDomain) newNotification(
	title, message string, typ entity.NotificationType, action *entity.NotificationAction,
) entity.Notification {
	return entity.Notification{
		ID:        idutil.NewSnowflakeID(),
		Title:     title,
		Message:   message,
		Type:      typ,
		Timestamp: d.now(),
		Action:    action,
	}
}

func (d *storeDomain) levelUpNotification(level int) entity.Notification {
	return d.newNotification("Level Up!",
		fmt.Sprintf("Congratulations! You've reached Level %d!", level),
		entity.NotificationSystem, nil)
}

// creditPointsLocked adds points to the user and recomputes the level. It
// returns the level-up notification, if any.
func (d *storeDomain) creditPointsLocked(points int) []entity.Notification {
	oldLevel := d.state.User.Level
	d.state.User.Points += points
	d.state.User.Level = gamify.ComputeLevel(d.state.User.Points)

	if d.state.User.Level > oldLevel {
		return []entity.Notification{d.levelUpNotification(d.state.User.Level)}
	}

	return nil
}

func (d *storeDomain) GetState(
	ctx context.Context, req *model.GetStateRequest,
) (*model.GetStateResponse, error) {
	state, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &model.GetStateResponse{State: state, SyncStatus: d.SyncStatus()}, nil
}

func (d *storeDomain) GetSyncStatus(
	ctx context.Context, req *model.GetSyncStatusRequest,
) (*model.GetSyncStatusResponse, error) {
	resp := model.GetSyncStatusResponse(d.SyncStatus())
	return &resp, nil
}

func (d *storeDomain) GetPresetActions(
	ctx context.Context, req *model.GetPresetActionsRequest,
) (*model.GetPresetActionsResponse, error) {
	return &model.GetPresetActionsResponse{Actions: gamify.PresetActions()}, nil
}

func (d *storeDomain) GetDailyGoals(
	ctx context.Context, req *model.GetDailyGoalsRequest,
) (*model.GetDailyGoalsResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	goals, progress := gamify.DailyGoals(d.state.Actions, d.now().Local())
	return &model.GetDailyGoalsResponse{Goals: goals, Progress: progress}, nil
}

func (d *storeDomain) GetEcoTip(
	ctx context.Context, req *model.GetEcoTipRequest,
) (*model.GetEcoTipResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	return &model.GetEcoTipResponse{Tip: gamify.EcoTip(d.state.Actions)}, nil
}

func (d *storeDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	user := d.state.User
	friends := slices.Clone(d.state.Friends)
	d.mu.Unlock()

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	// The remote ranking is preferred; any failure falls back to the local
	// one built from friends.
	if profiles, err := d.remote.ListTopProfiles(ctx, limit); err == nil && len(profiles) > 0 {
		entries := make([]model.LeaderboardEntry, 0, len(profiles))
		for _, p := range profiles {
			entries = append(entries, model.LeaderboardEntry{
				UserID:    p.ID,
				Name:      p.Username,
				Level:     p.Level,
				Points:    p.Points,
				Streak:    p.Streak,
				IsCurrent: p.ID == user.ID,
			})
		}

		return &model.GetLeaderboardResponse{Entries: gamify.RankLeaderboard(entries, limit), Remote: true}, nil
	} else if err != nil && !errors.Is(err, gateway.ErrUnavailable) {
		xcontext.Logger(ctx).Warnf("Cannot get remote leaderboard: %v", err)
	}

	return &model.GetLeaderboardResponse{Entries: gamify.LocalLeaderboard(user, friends, limit)}, nil
}

func validateLogAction(req *model.LogActionRequest) (entity.Category, error) {
	if req.Name == "" {
		return "", errorx.New(errorx.BadRequest, "Not allow empty action name")
	}

	category, err := enum.ToEnum[entity.Category](req.Category)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Invalid category %q", req.Category)
	}

	if req.Points < 0 {
		return "", errorx.New(errorx.BadRequest, "Points must not be negative")
	}

	if req.CarbonSaved < 0 || req.WaterSaved < 0 || req.WasteSaved < 0 || req.EnergySaved < 0 {
		return "", errorx.New(errorx.BadRequest, "Savings must not be negative")
	}

	return category, nil
}

func (d *storeDomain) LogAction(
	ctx context.Context, req *model.LogActionRequest,
) (*model.LogActionResponse, error) {
	category, err := validateLogAction(req)
	if err != nil {
		return nil, err
	}

	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	now := d.now()
	action := entity.EcoAction{
		ID:          idutil.NewID(),
		Name:        req.Name,
		Icon:        req.Icon,
		Points:      req.Points,
		Category:    category,
		Description: req.Description,
		Impact:      req.Impact,
		Timestamp:   now,
		Location:    req.Location,
		CarbonSaved: req.CarbonSaved,
		WaterSaved:  req.WaterSaved,
		WasteSaved:  req.WasteSaved,
		EnergySaved: req.EnergySaved,
	}

	d.state.Actions = append([]entity.EcoAction{action}, d.state.Actions...)
	d.state.User.Streak = gamify.StreakOf(d.state.Actions, now.Local())
	levelUp := d.creditPointsLocked(action.Points)
	d.state.ImpactStats.Add(action)

	var unlocked []entity.Achievement
	d.state.Achievements, unlocked = d.achievementManager.Apply(d.state.Achievements, action, now)

	notifications := []entity.Notification{}
	for _, a := range unlocked {
		notifications = append(notifications, d.newNotification(
			"Achievement Unlocked",
			fmt.Sprintf("You've earned the '%s' achievement!", a.Name),
			entity.NotificationAchievement,
			&entity.NotificationAction{Label: "View Achievements", URL: "/achievements"},
		))
	}
	notifications = append(notifications, levelUp...)
	d.prependNotificationsLocked(notifications...)

	d.persistLocked(ctx)
	common.PromCounters[common.EcoActionsLoggedTotal].WithLabelValues(string(category)).Inc()

	d.scheduler.Enqueue("log_action", func(ctx context.Context) error {
		return d.pushAction(ctx, action)
	})

	return &model.LogActionResponse{
		Action:               action,
		Level:                d.state.User.Level,
		LeveledUp:            len(levelUp) > 0,
		UnlockedAchievements: unlocked,
	}, nil
}

func (d *storeDomain) JoinChallenge(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.state.Challenges, func(c entity.Challenge) bool { return c.ID == req.ChallengeID })
	if i < 0 || d.state.Challenges[i].Joined {
		return &model.JoinChallengeResponse{}, nil
	}

	d.state.Challenges[i].Joined = true
	d.state.Challenges[i].Participants++
	d.persistLocked(ctx)

	return &model.JoinChallengeResponse{}, nil
}

func (d *storeDomain) UpdateChallengeProgress(
	ctx context.Context, req *model.UpdateChallengeProgressRequest,
) (*model.UpdateChallengeProgressResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.state.Challenges, func(c entity.Challenge) bool { return c.ID == req.ChallengeID })
	if i < 0 {
		return &model.UpdateChallengeProgressResponse{}, nil
	}

	if req.Progress < 0 {
		return nil, errorx.New(errorx.BadRequest, "Progress must not be negative")
	}

	challenge := &d.state.Challenges[i]
	if !challenge.Joined {
		return nil, errorx.New(errorx.BadRequest, "Challenge %s is not joined", challenge.ID)
	}

	challenge.Progress = req.Progress
	challenge.Completed = challenge.Progress >= challenge.Target

	if challenge.Completed && !challenge.RewardClaimed {
		challenge.RewardClaimed = true
		title := challenge.Title
		levelUp := d.creditPointsLocked(challenge.Points)

		notifications := []entity.Notification{d.newNotification(
			"Challenge Completed",
			fmt.Sprintf("You've completed the '%s' challenge!", title),
			entity.NotificationChallenge,
			&entity.NotificationAction{Label: "View Challenges", URL: "/challenges"},
		)}
		d.prependNotificationsLocked(append(notifications, levelUp...)...)
		d.schedulePushProfileLocked()
	}

	d.persistLocked(ctx)

	return &model.UpdateChallengeProgressResponse{Completed: d.state.Challenges[i].Completed}, nil
}

func (d *storeDomain) CompleteQuestStep(
	ctx context.Context, req *model.CompleteQuestStepRequest,
) (*model.CompleteQuestStepResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	qi := slices.IndexFunc(d.state.Quests, func(q entity.Quest) bool { return q.ID == req.QuestID })
	if qi < 0 {
		return &model.CompleteQuestStepResponse{}, nil
	}

	quest := &d.state.Quests[qi]
	si := slices.IndexFunc(quest.Steps, func(s entity.QuestStep) bool { return s.ID == req.StepID })
	if si < 0 || quest.Steps[si].Completed {
		return &model.CompleteQuestStepResponse{Progress: quest.Progress, Completed: quest.Completed}, nil
	}

	wasCompleted := quest.Completed
	quest.Steps[si].Completed = true
	quest.UpdateProgress()

	if quest.Completed && !wasCompleted {
		now := d.now()
		reward := quest.Reward
		title := quest.Title
		levelUp := d.creditPointsLocked(reward.Points)

		if reward.Badge != nil {
			badgeID := reward.Badge.ID
			owned := slices.IndexFunc(d.state.User.Badges, func(b entity.Badge) bool { return b.ID == badgeID })
			if owned < 0 {
				badge := *reward.Badge
				badge.EarnedAt = now
				d.state.User.Badges = append(d.state.User.Badges, badge)
			}
		}

		notifications := []entity.Notification{d.newNotification(
			"Quest Completed",
			fmt.Sprintf("You've completed the '%s' quest!", title),
			entity.NotificationQuest,
			&entity.NotificationAction{Label: "View Quests", URL: "/quests"},
		)}
		d.prependNotificationsLocked(append(notifications, levelUp...)...)
		d.schedulePushProfileLocked()
	}

	d.persistLocked(ctx)

	quest = &d.state.Quests[qi]
	return &model.CompleteQuestStepResponse{Progress: quest.Progress, Completed: quest.Completed}, nil
}

func (d *storeDomain) MarkNotificationRead(
	ctx context.Context, req *model.MarkNotificationReadRequest,
) (*model.MarkNotificationReadResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.state.Notifications, func(n entity.Notification) bool {
		return n.ID == req.NotificationID
	})
	if i < 0 || d.state.Notifications[i].Read {
		return &model.MarkNotificationReadResponse{}, nil
	}

	d.state.Notifications[i].Read = true
	d.persistLocked(ctx)

	return &model.MarkNotificationReadResponse{}, nil
}

func (d *storeDomain) ClearAllNotifications(
	ctx context.Context, req *model.ClearAllNotificationsRequest,
) (*model.ClearAllNotificationsResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	d.state.Notifications = []entity.Notification{}
	d.persistLocked(ctx)

	return &model.ClearAllNotificationsResponse{}, nil
}

func (d *storeDomain) ToggleDarkMode(
	ctx context.Context, req *model.ToggleDarkModeRequest,
) (*model.ToggleDarkModeResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	d.state.User.Settings.DarkMode = !d.state.User.Settings.DarkMode
	d.persistLocked(ctx)
	d.schedulePushProfileLocked()

	return &model.ToggleDarkModeResponse{DarkMode: d.state.User.Settings.DarkMode}, nil
}

func (d *storeDomain) UpdateSettings(
	ctx context.Context, req *model.UpdateSettingsRequest,
) (*model.UpdateSettingsResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	settings, err := entity.MergeSettings(d.state.User.Settings, req.Settings)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid settings: %v", err)
	}

	if _, err := enum.ToEnum[entity.Units](string(settings.Units)); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid units %q", settings.Units)
	}

	if _, err := time.Parse("15:04", settings.ReminderTime); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reminder time %q", settings.ReminderTime)
	}

	d.state.User.Settings = settings
	d.persistLocked(ctx)
	d.schedulePushProfileLocked()

	return &model.UpdateSettingsResponse{Settings: settings}, nil
}

func (d *storeDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	if req.Points != nil && *req.Points < 0 {
		return nil, errorx.New(errorx.BadRequest, "Points must not be negative")
	}

	if req.Streak != nil && *req.Streak < 0 {
		return nil, errorx.New(errorx.BadRequest, "Streak must not be negative")
	}

	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	user := &d.state.User
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Points != nil {
		user.Points = *req.Points
	}
	if req.Streak != nil {
		user.Streak = *req.Streak
	}

	// Level is never stored independently of points.
	user.Level = gamify.ComputeLevel(user.Points)

	d.persistLocked(ctx)
	d.schedulePushProfileLocked()

	return &model.UpdateUserResponse{User: d.state.Clone().User}, nil
}

func (d *storeDomain) LikePost(
	ctx context.Context, req *model.LikePostRequest,
) (*model.LikePostResponse, error) {
	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.state.CommunityPosts, func(p entity.CommunityPost) bool { return p.ID == req.PostID })
	if i < 0 {
		return &model.LikePostResponse{}, nil
	}

	post := &d.state.CommunityPosts[i]
	if post.Liked {
		post.Likes--
	} else {
		post.Likes++
	}
	post.Liked = !post.Liked

	d.persistLocked(ctx)
	return &model.LikePostResponse{}, nil
}

func (d *storeDomain) CreatePost(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	post := entity.CommunityPost{
		ID:         idutil.NewSnowflakeID(),
		UserID:     d.state.User.ID,
		UserName:   d.state.User.Name,
		UserAvatar: d.state.User.Avatar,
		Content:    req.Content,
		Image:      req.Image,
		Timestamp:  d.now(),
	}

	d.state.CommunityPosts = append([]entity.CommunityPost{post}, d.state.CommunityPosts...)
	d.persistLocked(ctx)

	return &model.CreatePostResponse{Post: post}, nil
}

func (d *storeDomain) AddFriend(
	ctx context.Context, req *model.AddFriendRequest,
) (*model.AddFriendResponse, error) {
	if req.ID == "" || req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Friend id and name are required")
	}

	if err := d.lock(ctx); err != nil {
		return nil, err
	}
	defer d.mu.Unlock()

	if slices.IndexFunc(d.state.Friends, func(f entity.Friend) bool { return f.ID == req.ID }) >= 0 {
		return nil, errorx.New(errorx.AlreadyExists, "Friend %s already added", req.ID)
	}

	d.state.Friends = append(d.state.Friends, entity.Friend{
		ID:         req.ID,
		Name:       req.Name,
		Avatar:     req.Avatar,
		Level:      gamify.ComputeLevel(req.Points),
		Points:     req.Points,
		Streak:     req.Streak,
		LastActive: d.now(),
		Status:     entity.FriendOffline,
	})
	d.persistLocked(ctx)

	return &model.AddFriendResponse{}, nil
}

func (d *storeDomain) AddReminder(ctx context.Context, now time.Time) (bool, error) {
	if err := d.lock(ctx); err != nil {
		return false, err
	}
	defer d.mu.Unlock()

	if !d.state.User.Settings.Notifications {
		return false, nil
	}

	for _, action := range d.state.Actions {
		if dateutil.SameDay(now, action.Timestamp) {
			return false, nil
		}
	}

	// At most one reminder a day.
	for _, n := range d.state.Notifications {
		if n.Type == entity.NotificationReminder && dateutil.SameDay(now, n.Timestamp) {
			return false, nil
		}
	}

	reminder := d.newNotification(
		"Daily Reminder",
		"Don't forget to log your eco-actions today and keep your streak going!",
		entity.NotificationReminder,
		&entity.NotificationAction{Label: "Log Action", URL: "/log"},
	)
	reminder.Timestamp = now.UTC()
	d.prependNotificationsLocked(reminder)
	d.persistLocked(ctx)

	return true, nil
}

// HydrateUser maps the remote profile of the signed-in user into the local
// user. Without a profile only the identity fields are taken.
func (d *storeDomain) HydrateUser(ctx context.Context, identity entity.Identity, profile *gateway.Profile) error {
	if err := d.lock(ctx); err != nil {
		return err
	}
	defer d.mu.Unlock()

	user := &d.state.User
	user.ID = identity.ID
	user.Name = identity.Name
	user.Email = identity.Email
	if user.Avatar == "" {
		user.Avatar = defaultAvatar
	}

	if profile != nil {
		if profile.Username != "" {
			user.Name = profile.Username
		}
		user.Points = profile.Points
		user.Level = gamify.ComputeLevel(profile.Points)
		user.Streak = profile.Streak
		user.Settings = profile.DecodeSettings()
		if profile.CreatedAt != nil {
			user.JoinedDate = profile.CreatedAt.UTC()
		}
	}

	d.persistLocked(ctx)
	return nil
}

// Reset drops the local snapshot and starts over from the default state.
func (d *storeDomain) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.stateRepo.Clear(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear local state: %v", err)
	}

	d.state = gamify.DefaultState(d.now())
	d.syncStatus = model.SyncStatus{Status: model.SyncIdle, UpdatedAt: d.now()}
	d.initialized = true

	return nil
}
