package domain

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecohabit/backend/internal/domain/gamify"
	"github.com/ecohabit/backend/internal/domain/syncqueue"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/testutil"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type storeFixture struct {
	ctx       context.Context
	stateRepo repository.StateRepository
	queue     *syncqueue.Queue
	store     *storeDomain
}

func newStoreFixture(t *testing.T, remote gateway.RemoteGateway) *storeFixture {
	return newStoreFixtureWithContext(t, testutil.MockContext(), remote)
}

func newStoreFixtureWithContext(t *testing.T, ctx context.Context, remote gateway.RemoteGateway) *storeFixture {
	if remote == nil {
		remote = &testutil.MockGateway{}
	}

	queue := syncqueue.New(ctx)
	t.Cleanup(queue.Stop)

	stateRepo := repository.NewStateRepository(repository.NewKeyValueRepository())
	store := NewStoreDomain(stateRepo, remote, queue, gamify.DefaultAchievementManager())
	store.now = func() time.Time { return fixedNow }

	return &storeFixture{ctx: ctx, stateRepo: stateRepo, queue: queue, store: store}
}

func signedInGateway() *testutil.MockGateway {
	return &testutil.MockGateway{
		AvailableFunc: func() bool { return true },
		CurrentSessionFunc: func(ctx context.Context) (*entity.AuthSession, error) {
			return &entity.AuthSession{AccessToken: "token", UserID: "user-1"}, nil
		},
	}
}

func bikeRequest() *model.LogActionRequest {
	preset, _ := gamify.PresetAction("bike")
	return preset.ToLogActionRequest()
}

func Test_storeDomain_LogAction(t *testing.T) {
	f := newStoreFixture(t, nil)

	req := bikeRequest()
	resp, err := f.store.LogAction(f.ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Action.ID)
	require.Equal(t, fixedNow, resp.Action.Timestamp)
	require.False(t, resp.LeveledUp)
	require.Len(t, resp.UnlockedAchievements, 1)
	require.Equal(t, gamify.FirstStepsName, resp.UnlockedAchievements[0].Name)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 1)
	require.Equal(t, req.Points, state.User.Points)
	require.Equal(t, 1, state.User.Level)
	require.Equal(t, 1, state.User.Streak)
	require.Equal(t, req.CarbonSaved, state.ImpactStats.CarbonSaved)
	require.Len(t, state.Notifications, 1)
	require.Equal(t, "Achievement Unlocked", state.Notifications[0].Title)

	_, err = f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)

	state, err = f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 2)
	require.Equal(t, 2*req.Points, state.User.Points)
	require.Equal(t, 2*req.CarbonSaved, state.ImpactStats.CarbonSaved)
	require.Equal(t, 1, state.User.Streak)
}

func Test_storeDomain_LogAction_Invalid(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.LogAction(f.ctx, &model.LogActionRequest{Name: "x", Category: "space"})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = f.store.LogAction(f.ctx, &model.LogActionRequest{Category: "waste"})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Empty(t, state.Actions)
}

func Test_storeDomain_LogAction_LevelUp(t *testing.T) {
	f := newStoreFixture(t, nil)

	points := 95
	_, err := f.store.UpdateUser(f.ctx, &model.UpdateUserRequest{Points: &points})
	require.NoError(t, err)

	resp, err := f.store.LogAction(f.ctx, &model.LogActionRequest{
		Name:     "Planted a tree",
		Points:   10,
		Category: "general",
	})
	require.NoError(t, err)
	require.True(t, resp.LeveledUp)
	require.Equal(t, 2, resp.Level)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 105, state.User.Points)
	require.Len(t, state.Notifications, 2)
	require.Equal(t, "Achievement Unlocked", state.Notifications[0].Title)
	require.Equal(t, "Level Up!", state.Notifications[1].Title)
	require.Equal(t, "Congratulations! You've reached Level 2!", state.Notifications[1].Message)
}

func Test_storeDomain_LogAction_RemoteFailure(t *testing.T) {
	remote := signedInGateway()
	remote.InsertActionFunc = func(ctx context.Context, row gateway.ActionRow) error {
		return errors.New("connection reset")
	}

	f := newStoreFixture(t, remote)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	f.queue.Wait()

	status := f.store.SyncStatus()
	require.Equal(t, model.SyncError, status.Status)
	require.Contains(t, status.Message, "connection reset")

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 1)
}

func Test_storeDomain_LogAction_RemotePush(t *testing.T) {
	var inserted []gateway.ActionRow
	var scored atomic.Int32

	remote := signedInGateway()
	remote.InsertActionFunc = func(ctx context.Context, row gateway.ActionRow) error {
		inserted = append(inserted, row)
		return nil
	}
	remote.AddScoreFunc = func(ctx context.Context, userID string, points int) error {
		scored.Add(int32(points))
		return errors.New("scoring is down")
	}

	f := newStoreFixture(t, remote)

	resp, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	f.queue.Wait()

	require.Len(t, inserted, 1)
	require.Equal(t, resp.Action.ID, inserted[0].ID)
	require.Equal(t, "user-1", inserted[0].UserID)
	require.Equal(t, int32(resp.Action.Points), scored.Load())
	require.Equal(t, model.SyncSuccess, f.store.SyncStatus().Status)
}

func Test_storeDomain_Challenge(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    1,
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = f.store.JoinChallenge(f.ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-1"})
	require.NoError(t, err)
	_, err = f.store.JoinChallenge(f.ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-1"})
	require.NoError(t, err)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.True(t, state.Challenges[0].Joined)
	require.Equal(t, 129, state.Challenges[0].Participants)

	resp, err := f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    1,
	})
	require.NoError(t, err)
	require.True(t, resp.Completed)

	// Going below the target and back must not pay the reward twice.
	_, err = f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    0,
	})
	require.NoError(t, err)
	_, err = f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    1,
	})
	require.NoError(t, err)

	state, err = f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 50, state.User.Points)
	require.Len(t, state.Notifications, 1)
	require.Equal(t, "Challenge Completed", state.Notifications[0].Title)

	_, err = f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    -1,
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_storeDomain_CompleteQuestStep(t *testing.T) {
	f := newStoreFixture(t, nil)

	for i, step := range []string{"step-1", "step-2", "step-3"} {
		resp, err := f.store.CompleteQuestStep(f.ctx, &model.CompleteQuestStepRequest{
			QuestID: "quest-1",
			StepID:  step,
		})
		require.NoError(t, err)
		require.Equal(t, (i+1)*25, resp.Progress)
		require.False(t, resp.Completed)
	}

	// Completing a step twice is a no-op.
	resp, err := f.store.CompleteQuestStep(f.ctx, &model.CompleteQuestStepRequest{
		QuestID: "quest-1",
		StepID:  "step-1",
	})
	require.NoError(t, err)
	require.Equal(t, 75, resp.Progress)

	resp, err = f.store.CompleteQuestStep(f.ctx, &model.CompleteQuestStepRequest{
		QuestID: "quest-1",
		StepID:  "step-4",
	})
	require.NoError(t, err)
	require.Equal(t, 100, resp.Progress)
	require.True(t, resp.Completed)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 50, state.User.Points)
	require.Len(t, state.User.Badges, 1)
	require.Equal(t, "badge-eco-explorer", state.User.Badges[0].ID)
	require.Equal(t, fixedNow, state.User.Badges[0].EarnedAt)
	require.Equal(t, "Quest Completed", state.Notifications[0].Title)
	require.Equal(t, "/quests", state.Notifications[0].Action.URL)
}

func Test_storeDomain_Notifications(t *testing.T) {
	f := newStoreFixture(t, nil)

	added, err := f.store.AddReminder(f.ctx, fixedNow)
	require.NoError(t, err)
	require.True(t, added)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Notifications, 1)
	require.Equal(t, entity.NotificationReminder, state.Notifications[0].Type)
	require.False(t, state.Notifications[0].Read)

	_, err = f.store.MarkNotificationRead(f.ctx, &model.MarkNotificationReadRequest{
		NotificationID: state.Notifications[0].ID,
	})
	require.NoError(t, err)

	state, err = f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.True(t, state.Notifications[0].Read)

	_, err = f.store.ClearAllNotifications(f.ctx, &model.ClearAllNotificationsRequest{})
	require.NoError(t, err)

	state, err = f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Empty(t, state.Notifications)
}

func Test_storeDomain_AddReminder_LoggedToday(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)

	added, err := f.store.AddReminder(f.ctx, fixedNow)
	require.NoError(t, err)
	require.False(t, added)

	added, err = f.store.AddReminder(f.ctx, fixedNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.True(t, added)

	added, err = f.store.AddReminder(f.ctx, fixedNow.AddDate(0, 0, 1).Add(time.Hour))
	require.NoError(t, err)
	require.False(t, added)
}

func Test_storeDomain_UpdateSettings(t *testing.T) {
	f := newStoreFixture(t, nil)

	resp, err := f.store.UpdateSettings(f.ctx, &model.UpdateSettingsRequest{
		Settings: map[string]any{"darkMode": true, "goalPoints": 800, "unknown": "x"},
	})
	require.NoError(t, err)

	expected := entity.DefaultSettings()
	expected.DarkMode = true
	expected.GoalPoints = 800
	require.Equal(t, expected, resp.Settings)

	_, err = f.store.UpdateSettings(f.ctx, &model.UpdateSettingsRequest{
		Settings: map[string]any{"units": "kelvin"},
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = f.store.UpdateSettings(f.ctx, &model.UpdateSettingsRequest{
		Settings: map[string]any{"reminderTime": "25:99"},
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	toggle, err := f.store.ToggleDarkMode(f.ctx, &model.ToggleDarkModeRequest{})
	require.NoError(t, err)
	require.False(t, toggle.DarkMode)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	expected.DarkMode = false
	require.Equal(t, expected, state.User.Settings)
}

func Test_storeDomain_UpdateUser(t *testing.T) {
	f := newStoreFixture(t, nil)

	name := "Eco Friend"
	points := 250
	resp, err := f.store.UpdateUser(f.ctx, &model.UpdateUserRequest{Name: &name, Points: &points})
	require.NoError(t, err)
	require.Equal(t, name, resp.User.Name)
	require.Equal(t, 3, resp.User.Level)

	negative := -1
	_, err = f.store.UpdateUser(f.ctx, &model.UpdateUserRequest{Points: &negative})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_storeDomain_Community(t *testing.T) {
	f := newStoreFixture(t, nil)

	created, err := f.store.CreatePost(f.ctx, &model.CreatePostRequest{Content: "Biked 20km today"})
	require.NoError(t, err)

	_, err = f.store.LikePost(f.ctx, &model.LikePostRequest{PostID: created.Post.ID})
	require.NoError(t, err)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, state.CommunityPosts[0].Likes)
	require.True(t, state.CommunityPosts[0].Liked)

	_, err = f.store.LikePost(f.ctx, &model.LikePostRequest{PostID: created.Post.ID})
	require.NoError(t, err)

	state, err = f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 0, state.CommunityPosts[0].Likes)
	require.False(t, state.CommunityPosts[0].Liked)

	_, err = f.store.CreatePost(f.ctx, &model.CreatePostRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = f.store.AddFriend(f.ctx, &model.AddFriendRequest{ID: "friend-1", Name: "Alex", Points: 320})
	require.NoError(t, err)
	_, err = f.store.AddFriend(f.ctx, &model.AddFriendRequest{ID: "friend-1", Name: "Alex"})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))

	board, err := f.store.GetLeaderboard(f.ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.False(t, board.Remote)
	require.Len(t, board.Entries, 2)
	require.Equal(t, "Alex", board.Entries[0].Name)
	require.Equal(t, 1, board.Entries[0].Rank)
}

func Test_storeDomain_GetLeaderboard_Remote(t *testing.T) {
	remote := &testutil.MockGateway{
		ListTopProfilesFunc: func(ctx context.Context, limit int) ([]gateway.Profile, error) {
			require.Equal(t, 10, limit)
			return []gateway.Profile{
				{ID: "a", Username: "alpha", Level: 2, Points: 150},
				{ID: "b", Username: "beta", Level: 4, Points: 320},
			}, nil
		},
	}
	f := newStoreFixture(t, remote)

	board, err := f.store.GetLeaderboard(f.ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.True(t, board.Remote)
	require.Equal(t, "beta", board.Entries[0].Name)
	require.Equal(t, "alpha", board.Entries[1].Name)
}

func Test_storeDomain_Persistence(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	_, err = f.store.JoinChallenge(f.ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-2"})
	require.NoError(t, err)

	expected, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)

	reloaded := NewStoreDomain(f.stateRepo, &testutil.MockGateway{}, f.queue, gamify.DefaultAchievementManager())
	actual, err := reloaded.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}

func Test_storeDomain_Reset(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)

	require.NoError(t, f.store.Reset(f.ctx))

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Empty(t, state.Actions)
	require.Equal(t, 0, state.User.Points)
	require.Equal(t, model.SyncIdle, f.store.SyncStatus().Status)

	_, err = f.stateRepo.Load(f.ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func Test_storeDomain_HydrateUser(t *testing.T) {
	f := newStoreFixture(t, nil)

	createdAt := fixedNow.AddDate(0, -1, 0)
	err := f.store.HydrateUser(f.ctx,
		entity.Identity{ID: "user-1", Email: "eco@example.com", Name: "eco"},
		&gateway.Profile{
			ID:        "user-1",
			Username:  "eco_user",
			Points:    230,
			Streak:    4,
			Settings:  map[string]any{"darkMode": true},
			CreatedAt: &createdAt,
		})
	require.NoError(t, err)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", state.User.ID)
	require.Equal(t, "eco_user", state.User.Name)
	require.Equal(t, 3, state.User.Level)
	require.Equal(t, 4, state.User.Streak)
	require.True(t, state.User.Settings.DarkMode)
	require.Equal(t, createdAt, state.User.JoinedDate)
}

func Test_storeDomain_SyncWithSupabase(t *testing.T) {
	remoteAction := gateway.ActionRow{
		ID:          "remote-1",
		UserID:      "user-1",
		Name:        "Recycled",
		Points:      5,
		Category:    "waste",
		Timestamp:   fixedNow.Add(-time.Hour),
		WasteSaved:  0.5,
		CarbonSaved: 0.3,
	}

	var pushed []string
	var profileUpdates atomic.Int32
	remote := signedInGateway()
	remote.ListActionsFunc = func(ctx context.Context, userID string) ([]gateway.ActionRow, error) {
		require.Equal(t, "user-1", userID)
		return []gateway.ActionRow{remoteAction}, nil
	}
	remote.InsertActionFunc = func(ctx context.Context, row gateway.ActionRow) error {
		pushed = append(pushed, row.ID)
		return nil
	}
	remote.UpdateProfileFunc = func(ctx context.Context, userID string, update gateway.ProfileUpdate) error {
		profileUpdates.Add(1)
		return nil
	}

	f := newStoreFixture(t, remote)

	local, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	f.queue.Wait()
	pushed = nil

	resp, err := f.store.SyncWithSupabase(f.ctx, &model.SyncRequest{})
	require.NoError(t, err)
	require.Equal(t, model.SyncSuccess, resp.SyncStatus.Status)
	require.Equal(t, 1, resp.Pulled)
	require.Equal(t, 1, resp.Pushed)
	require.Equal(t, []string{local.Action.ID}, pushed)
	require.Equal(t, int32(2), profileUpdates.Load())

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 2)
	require.Equal(t, local.Action.ID, state.Actions[0].ID)
	require.Equal(t, "remote-1", state.Actions[1].ID)
	require.InDelta(t, local.Action.CarbonSaved+0.3, state.ImpactStats.CarbonSaved, 1e-9)
}

func Test_storeDomain_SyncWithSupabase_NoSession(t *testing.T) {
	f := newStoreFixture(t, nil)

	resp, err := f.store.SyncWithSupabase(f.ctx, &model.SyncRequest{})
	require.NoError(t, err)
	require.Equal(t, model.SyncError, resp.SyncStatus.Status)
	require.Equal(t, gateway.ErrUnavailable.Error(), resp.SyncStatus.Message)
}

func Test_storeDomain_LoadActionsFromSupabase(t *testing.T) {
	remote := signedInGateway()
	remote.ListActionsFunc = func(ctx context.Context, userID string) ([]gateway.ActionRow, error) {
		return []gateway.ActionRow{{
			ID:          "remote-1",
			Name:        "Composted",
			Category:    "unknown",
			Points:      7,
			Timestamp:   fixedNow,
			WasteSaved:  1,
			EnergySaved: 0,
		}}, nil
	}

	f := newStoreFixture(t, remote)

	loaded, err := f.store.LoadActionsFromSupabase(f.ctx)
	require.NoError(t, err)
	require.True(t, loaded)

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 1)
	require.Equal(t, entity.CategoryGeneral, state.Actions[0].Category)
	require.Equal(t, 1.0, state.ImpactStats.WasteSaved)
	require.Equal(t, 0, state.User.Points)
}

func Test_storeDomain_ProfilePushesKeepOrder(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Sync.Workers = 2
	ctx = xcontext.WithConfigs(ctx, cfg)

	var mu sync.Mutex
	var calls int
	var lastPoints int
	firstStarted := make(chan struct{})

	remote := signedInGateway()
	remote.UpdateProfileFunc = func(ctx context.Context, userID string, update gateway.ProfileUpdate) error {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()

		if first {
			close(firstStarted)
			time.Sleep(100 * time.Millisecond)
		}

		mu.Lock()
		lastPoints = update.Points
		mu.Unlock()
		return nil
	}

	f := newStoreFixtureWithContext(t, ctx, remote)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)

	// The second action is logged while the first push is still in flight.
	select {
	case <-firstStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("first profile push did not start")
	}

	_, err = f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)
	f.queue.Wait()

	state, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
	require.Equal(t, state.User.Points, lastPoints)
	require.Equal(t, model.SyncSuccess, f.store.SyncStatus().Status)
}

func Test_storeDomain_Initialize_Idempotent(t *testing.T) {
	f := newStoreFixture(t, nil)

	_, err := f.store.LogAction(f.ctx, bikeRequest())
	require.NoError(t, err)

	before, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.Initialize(f.ctx))
	require.NoError(t, f.store.Initialize(f.ctx))

	after, err := f.store.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, after.Actions, len(before.Actions))
	require.Equal(t, before.User.Points, after.User.Points)
	require.Len(t, after.Notifications, len(before.Notifications))

	// A new store over the same blob loads it once.
	reloaded := NewStoreDomain(f.stateRepo, &testutil.MockGateway{}, f.queue, gamify.DefaultAchievementManager())
	reloaded.now = func() time.Time { return fixedNow }
	require.NoError(t, reloaded.Initialize(f.ctx))
	require.NoError(t, reloaded.Initialize(f.ctx))

	state, err := reloaded.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, state.Actions, 1)
	require.Equal(t, before.User.Points, state.User.Points)
	require.Len(t, state.Notifications, len(before.Notifications))
	require.Equal(t, before.Actions[0].ID, state.Actions[0].ID)
}

func Test_storeDomain_UpdateChallengeProgress_UnknownID(t *testing.T) {
	f := newStoreFixture(t, nil)

	resp, err := f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "unknown",
		Progress:    -1,
	})
	require.NoError(t, err)
	require.False(t, resp.Completed)

	_, err = f.store.JoinChallenge(f.ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-1"})
	require.NoError(t, err)

	_, err = f.store.UpdateChallengeProgress(f.ctx, &model.UpdateChallengeProgressRequest{
		ChallengeID: "challenge-1",
		Progress:    -1,
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}
