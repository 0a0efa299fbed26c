package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/pkg/xcontext"
)

// remoteSession returns the session remote work runs under, or nil when
// there is none. In local fallback mode there is never a session.
func (d *storeDomain) remoteSession(ctx context.Context) (*entity.AuthSession, error) {
	session, err := d.remote.CurrentSession(ctx)
	if err != nil {
		d.setSyncStatus(model.SyncError, fmt.Sprintf("Cannot get session: %v", err))
		return nil, err
	}

	return session, nil
}

// pushAction is the background tail of LogAction.
func (d *storeDomain) pushAction(ctx context.Context, action entity.EcoAction) error {
	session, err := d.remoteSession(ctx)
	if err != nil || session == nil {
		return err
	}

	d.setSyncStatus(model.SyncSyncing, "")

	err = d.remote.InsertAction(ctx, gateway.ActionRowFromEntity(session.UserID, action))
	if err != nil {
		d.setSyncStatus(model.SyncError, fmt.Sprintf("Cannot insert action: %v", err))
		return err
	}

	if err := d.sendProfile(ctx, session.UserID); err != nil {
		d.setSyncStatus(model.SyncError, fmt.Sprintf("Cannot update profile: %v", err))
		return err
	}

	// The scoring API only mirrors the data, its failures do not change the
	// sync status.
	if err := d.remote.AddScore(ctx, session.UserID, action.Points); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot add score: %v", err)
	}

	if err := d.remote.MirrorAction(ctx, session.UserID, action); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot mirror action: %v", err)
	}

	d.setSyncStatus(model.SyncSuccess, "")
	return nil
}

// sendProfile pushes the user as it is when the push starts, not as it was
// when the job was queued. Pushes never overlap, so the last one to reach
// the backend carries the newest state.
func (d *storeDomain) sendProfile(ctx context.Context, userID string) error {
	d.profileMu.Lock()
	defer d.profileMu.Unlock()

	d.mu.Lock()
	user := d.state.User
	d.mu.Unlock()

	return d.remote.UpdateProfile(ctx, userID, gateway.ProfileUpdateFromUser(user, d.now()))
}

// schedulePushProfileLocked must be called with d.mu held.
func (d *storeDomain) schedulePushProfileLocked() {
	d.scheduler.Enqueue("push_profile", d.pushProfile)
}

func (d *storeDomain) pushProfile(ctx context.Context) error {
	session, err := d.remoteSession(ctx)
	if err != nil || session == nil {
		return err
	}

	d.setSyncStatus(model.SyncSyncing, "")
	if err := d.sendProfile(ctx, session.UserID); err != nil {
		d.setSyncStatus(model.SyncError, fmt.Sprintf("Cannot update profile: %v", err))
		return err
	}

	d.setSyncStatus(model.SyncSuccess, "")
	return nil
}

func toEntities(rows []gateway.ActionRow) []entity.EcoAction {
	actions := make([]entity.EcoAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, row.ToEntity())
	}

	return actions
}

// SyncWithSupabase pushes the profile, replaces the local actions with the
// remote ones and pushes back the actions only known locally. Every remote
// step may fail on its own; failures end up in the sync status and are
// never returned.
func (d *storeDomain) SyncWithSupabase(
	ctx context.Context, req *model.SyncRequest,
) (*model.SyncResponse, error) {
	if err := d.Initialize(ctx); err != nil {
		return nil, err
	}

	session, err := d.remoteSession(ctx)
	if err != nil {
		return &model.SyncResponse{SyncStatus: d.SyncStatus()}, nil
	}

	if session == nil {
		message := gateway.ErrNoSession.Error()
		if !d.remote.Available() {
			message = gateway.ErrUnavailable.Error()
		}

		d.setSyncStatus(model.SyncError, message)
		return &model.SyncResponse{SyncStatus: d.SyncStatus()}, nil
	}

	d.setSyncStatus(model.SyncSyncing, "")
	failures := []string{}

	if err := d.sendProfile(ctx, session.UserID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot push profile: %v", err)
		failures = append(failures, fmt.Sprintf("cannot push profile: %v", err))
	}

	rows, err := d.remote.ListActions(ctx, session.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot pull actions: %v", err)
		failures = append(failures, fmt.Sprintf("cannot pull actions: %v", err))
		d.setSyncStatus(model.SyncError, strings.Join(failures, "; "))
		return &model.SyncResponse{SyncStatus: d.SyncStatus()}, nil
	}

	localOnly := d.replaceActions(ctx, toEntities(rows))

	pushed := 0
	for _, action := range localOnly {
		err := d.remote.InsertAction(ctx, gateway.ActionRowFromEntity(session.UserID, action))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot push action %s: %v", action.ID, err)
			failures = append(failures, fmt.Sprintf("cannot push action %s: %v", action.ID, err))
			continue
		}

		pushed++
	}

	if len(failures) > 0 {
		d.setSyncStatus(model.SyncError, strings.Join(failures, "; "))
	} else {
		d.setSyncStatus(model.SyncSuccess, "")
	}

	return &model.SyncResponse{SyncStatus: d.SyncStatus(), Pulled: len(rows), Pushed: pushed}, nil
}

// replaceActions swaps the local action list for the remote one. Local
// actions missing remotely, matched by id or exact timestamp, are kept in
// the list and returned so they can be pushed.
func (d *storeDomain) replaceActions(ctx context.Context, remote []entity.EcoAction) []entity.EcoAction {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make(map[string]struct{}, len(remote))
	timestamps := make(map[int64]struct{}, len(remote))
	for _, action := range remote {
		ids[action.ID] = struct{}{}
		timestamps[action.Timestamp.UnixNano()] = struct{}{}
	}

	localOnly := []entity.EcoAction{}
	for _, action := range d.state.Actions {
		_, knownID := ids[action.ID]
		_, knownTimestamp := timestamps[action.Timestamp.UnixNano()]
		if !knownID && !knownTimestamp {
			localOnly = append(localOnly, action)
		}
	}

	merged := append(remote, localOnly...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	d.state.Actions = merged
	d.state.ImpactStats = entity.RecomputeImpact(d.state.ImpactStats, merged)
	d.persistLocked(ctx)

	return localOnly
}

// LoadActionsFromSupabase replaces the local actions with the remote ones
// when there are any. The user profile is left untouched.
func (d *storeDomain) LoadActionsFromSupabase(ctx context.Context) (bool, error) {
	if err := d.Initialize(ctx); err != nil {
		return false, err
	}

	session, err := d.remoteSession(ctx)
	if err != nil || session == nil {
		return false, nil
	}

	rows, err := d.remote.ListActions(ctx, session.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load remote actions: %v", err)
		d.setSyncStatus(model.SyncError, fmt.Sprintf("Cannot load actions: %v", err))
		return false, nil
	}

	if len(rows) == 0 {
		return false, nil
	}

	actions := toEntities(rows)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Actions = actions
	d.state.ImpactStats = entity.RecomputeImpact(d.state.ImpactStats, actions)
	d.persistLocked(ctx)

	return true, nil
}
