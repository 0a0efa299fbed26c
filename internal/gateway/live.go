package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/api"
	"github.com/ecohabit/backend/pkg/dateutil"
	"github.com/ecohabit/backend/pkg/supabase"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

const (
	profilesTable = "profiles"
	actionsTable  = "actions"
)

type liveGateway struct {
	cfg         config.SupabaseConfigs
	client      *supabase.Client
	scoring     api.Generator
	sessionRepo repository.SessionRepository

	mu      sync.Mutex
	session *entity.AuthSession

	listeners      *xsync.MapOf[string, SessionListener]
	listenerSerial atomic.Uint64
}

// NewLiveGateway talks to the Supabase project and, when scoring is not
// nil, to the scoring API.
func NewLiveGateway(
	cfg config.SupabaseConfigs,
	client *supabase.Client,
	scoring api.Generator,
	sessionRepo repository.SessionRepository,
) *liveGateway {
	return &liveGateway{
		cfg:         cfg,
		client:      client,
		scoring:     scoring,
		sessionRepo: sessionRepo,
		listeners:   xsync.NewMapOf[SessionListener](),
	}
}

func (g *liveGateway) Available() bool {
	return true
}

func (g *liveGateway) OnSessionChange(listener SessionListener) func() {
	key := strconv.FormatUint(g.listenerSerial.Add(1), 10)
	g.listeners.Store(key, listener)
	return func() { g.listeners.Delete(key) }
}

func (g *liveGateway) emit(event SessionEvent, session *entity.AuthSession) {
	g.listeners.Range(func(_ string, listener SessionListener) bool {
		listener(event, session)
		return true
	})
}

func toAuthSession(s *supabase.Session) *entity.AuthSession {
	return &entity.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.Expiry(),
		UserID:       s.User.ID,
		Email:        s.User.Email,
		UserMetadata: s.User.UserMetadata,
	}
}

// setSession must be called with g.mu held.
func (g *liveGateway) setSession(ctx context.Context, session *entity.AuthSession) {
	g.session = session

	var err error
	if session == nil {
		err = g.sessionRepo.Clear(ctx)
	} else {
		err = g.sessionRepo.Save(ctx, session)
	}

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot persist auth session: %v", err)
	}
}

func (g *liveGateway) SignIn(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	resp, err := g.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := toAuthSession(resp)
	g.mu.Lock()
	g.setSession(ctx, session)
	g.mu.Unlock()

	g.emit(SessionSignedIn, session)
	return session, nil
}

func (g *liveGateway) SignUp(
	ctx context.Context, email, password string, metadata map[string]any,
) (*entity.AuthSession, error) {
	resp, err := g.client.SignUp(ctx, email, password, metadata)
	if errors.Is(err, supabase.ErrNoSession) {
		// The account exists but is waiting for an email confirmation.
		return toAuthSession(resp), nil
	}

	if err != nil {
		return nil, err
	}

	session := toAuthSession(resp)
	g.mu.Lock()
	g.setSession(ctx, session)
	g.mu.Unlock()

	g.emit(SessionSignedIn, session)
	return session, nil
}

func (g *liveGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	session, err := g.loadSession(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load auth session: %v", err)
	}
	g.setSession(ctx, nil)
	g.mu.Unlock()

	g.emit(SessionSignedOut, nil)
	if session == nil || session.AccessToken == "" {
		return nil
	}

	return g.client.SignOut(ctx, session.AccessToken)
}

// loadSession must be called with g.mu held. Another process sharing the
// local storage may have signed in, so a missing session is looked up again.
func (g *liveGateway) loadSession(ctx context.Context) (*entity.AuthSession, error) {
	if g.session != nil {
		return g.session, nil
	}

	session, err := g.sessionRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	g.session = session
	return session, nil
}

// CurrentSession returns the signed-in session, refreshing the access token
// when it has expired. A failed refresh signs the user out.
func (g *liveGateway) CurrentSession(ctx context.Context) (*entity.AuthSession, error) {
	g.mu.Lock()
	session, err := g.loadSession(ctx)
	if err != nil || session == nil {
		g.mu.Unlock()
		return nil, err
	}

	if !session.Expired(dateutil.Now()) {
		g.mu.Unlock()
		return session, nil
	}

	resp, err := g.client.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot refresh auth session: %v", err)
		g.setSession(ctx, nil)
		g.mu.Unlock()

		g.emit(SessionSignedOut, nil)
		return nil, nil
	}

	session = toAuthSession(resp)
	g.setSession(ctx, session)
	g.mu.Unlock()

	g.emit(SessionTokenRefreshed, session)
	return session, nil
}

func (g *liveGateway) ResetPassword(ctx context.Context, email string) error {
	return g.client.ResetPasswordForEmail(ctx, email, g.cfg.ResetRedirect)
}

// token returns the access token of the current session, or an empty
// string to run as the anonymous role.
func (g *liveGateway) token(ctx context.Context) string {
	session, err := g.CurrentSession(ctx)
	if err != nil || session == nil {
		return ""
	}

	return session.AccessToken
}

func (g *liveGateway) requireToken(ctx context.Context) (string, error) {
	token := g.token(ctx)
	if token == "" {
		return "", ErrNoSession
	}

	return token, nil
}

func (g *liveGateway) getProfileBy(ctx context.Context, column, value string) (*Profile, error) {
	var profile Profile
	err := g.client.From(profilesTable).
		Select("*").
		Eq(column, value).
		Single().
		WithToken(g.token(ctx)).
		Execute(ctx, &profile)
	if err != nil {
		if errors.Is(err, supabase.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &profile, nil
}

func (g *liveGateway) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return g.getProfileBy(ctx, "id", userID)
}

func (g *liveGateway) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	return g.getProfileBy(ctx, "username", username)
}

func (g *liveGateway) InsertProfile(ctx context.Context, profile Profile) error {
	now := dateutil.Now()
	profile.CreatedAt, profile.UpdatedAt = &now, &now

	return g.client.From(profilesTable).
		WithToken(g.token(ctx)).
		AsServiceRole().
		Insert(ctx, []Profile{profile}, nil)
}

func (g *liveGateway) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	token, err := g.requireToken(ctx)
	if err != nil {
		return err
	}

	return g.client.From(profilesTable).
		Eq("id", userID).
		WithToken(token).
		Update(ctx, update)
}

func (g *liveGateway) ListTopProfiles(ctx context.Context, limit int) ([]Profile, error) {
	var profiles []Profile
	err := g.client.From(profilesTable).
		Select("id,username,level,points,streak").
		Order("points", false).
		Limit(limit).
		WithToken(g.token(ctx)).
		Execute(ctx, &profiles)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (g *liveGateway) InsertAction(ctx context.Context, row ActionRow) error {
	token, err := g.requireToken(ctx)
	if err != nil {
		return err
	}

	return g.client.From(actionsTable).WithToken(token).Insert(ctx, []ActionRow{row}, nil)
}

func (g *liveGateway) ListActions(ctx context.Context, userID string) ([]ActionRow, error) {
	token, err := g.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ActionRow
	err = g.client.From(actionsTable).
		Select("*").
		Eq("user_id", userID).
		Order("timestamp", false).
		WithToken(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (g *liveGateway) callScoring(ctx context.Context, path string, body api.JSON) error {
	if g.scoring == nil {
		return nil
	}

	resp, err := g.scoring.New(path).Body(body).POST(ctx)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("scoring api %s: %d %s", path, resp.Code, resp.ErrorMessage())
	}

	return nil
}

func (g *liveGateway) AddScore(ctx context.Context, userID string, points int) error {
	return g.callScoring(ctx, "/add-score", api.JSON{"user_id": userID, "points": points})
}

func (g *liveGateway) MirrorAction(ctx context.Context, userID string, action entity.EcoAction) error {
	return g.callScoring(ctx, "/log-action", api.JSON{
		"user_id":      userID,
		"name":         action.Name,
		"points":       action.Points,
		"category":     string(action.Category),
		"description":  action.Description,
		"impact":       action.Impact,
		"carbon_saved": action.CarbonSaved,
		"water_saved":  action.WaterSaved,
		"waste_saved":  action.WasteSaved,
		"energy_saved": action.EnergySaved,
	})
}
