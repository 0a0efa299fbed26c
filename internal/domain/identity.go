package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/dateutil"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/xcontext"
)

const (
	demoEmailMarker = "test"
	demoPassword    = "password"

	minPasswordStrength = 3
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

type IdentityDomain interface {
	ResolveSession(context.Context, *model.ResolveSessionRequest) (*model.ResolveSessionResponse, error)
	GetSession(context.Context, *model.GetSessionRequest) (*model.GetSessionResponse, error)
	SignIn(context.Context, *model.SignInRequest) (*model.SignInResponse, error)
	SignUp(context.Context, *model.SignUpRequest) (*model.SignUpResponse, error)
	SignOut(context.Context, *model.SignOutRequest) (*model.SignOutResponse, error)
	CheckUsernameAvailable(context.Context, *model.CheckUsernameRequest) (*model.CheckUsernameResponse, error)
	ResetPassword(context.Context, *model.ResetPasswordRequest) (*model.ResetPasswordResponse, error)
}

type identityDomain struct {
	identityRepo  repository.IdentityRepository
	localUserRepo repository.LocalUserRepository
	remote        gateway.RemoteGateway
	store         StoreDomain
	now           func() time.Time

	// mu guards state and user only, it is never held across a remote
	// call since the gateway reports session changes synchronously.
	mu    sync.Mutex
	state model.IdentityState
	user  *entity.Identity
}

func NewIdentityDomain(
	identityRepo repository.IdentityRepository,
	localUserRepo repository.LocalUserRepository,
	remote gateway.RemoteGateway,
	store StoreDomain,
) *identityDomain {
	d := &identityDomain{
		identityRepo:  identityRepo,
		localUserRepo: localUserRepo,
		remote:        remote,
		store:         store,
		now:           dateutil.Now,
		state:         model.IdentityUnresolved,
	}

	remote.OnSessionChange(d.onSessionChange)
	return d
}

// onSessionChange follows sign-outs decided by the gateway, such as a
// refresh token being rejected.
func (d *identityDomain) onSessionChange(event gateway.SessionEvent, _ *entity.AuthSession) {
	if event != gateway.SessionSignedOut {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == model.IdentityAuthenticated {
		d.state = model.IdentityAnonymous
		d.user = nil
	}
}

func (d *identityDomain) setUser(identity *entity.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.user = identity
	if identity == nil {
		d.state = model.IdentityAnonymous
	} else {
		d.state = model.IdentityAuthenticated
	}
}

func (d *identityDomain) current() *model.ResolveSessionResponse {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp := &model.ResolveSessionResponse{State: d.state, UsingFallback: !d.remote.Available()}
	if d.user != nil {
		user := *d.user
		resp.User = &user
	}

	return resp
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}

	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}

	return "User"
}

func (d *identityDomain) localID() string {
	return fmt.Sprintf("local-%d", d.now().UnixMilli())
}

func (d *identityDomain) cachedIdentity(ctx context.Context) *entity.Identity {
	identity, err := d.identityRepo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot load cached identity: %v", err)
		}

		return nil
	}

	return identity
}

// remember caches the identity and maps it, with the profile if any, into
// the store's user.
func (d *identityDomain) remember(ctx context.Context, identity *entity.Identity, profile *gateway.Profile) {
	if err := d.identityRepo.Save(ctx, identity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cache identity: %v", err)
	}

	if err := d.store.HydrateUser(ctx, *identity, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate user: %v", err)
	}
}

// profileOf returns nil when the signed-in user has no profile row or the
// row cannot be read.
func (d *identityDomain) profileOf(ctx context.Context, userID string) (*gateway.Profile, error) {
	profile, err := d.remote.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return profile, nil
}

func (d *identityDomain) ResolveSession(
	ctx context.Context, req *model.ResolveSessionRequest,
) (*model.ResolveSessionResponse, error) {
	d.mu.Lock()
	if d.state != model.IdentityUnresolved {
		d.mu.Unlock()
		return d.current(), nil
	}
	d.state = model.IdentityResolving
	d.mu.Unlock()

	d.setUser(d.resolve(ctx))
	return d.current(), nil
}

func (d *identityDomain) resolve(ctx context.Context) *entity.Identity {
	if !d.remote.Available() {
		return d.cachedIdentity(ctx)
	}

	session, err := d.remote.CurrentSession(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get current session, use cached identity: %v", err)
		return d.cachedIdentity(ctx)
	}

	if session == nil {
		return nil
	}

	profile, err := d.profileOf(ctx, session.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get profile, use cached identity: %v", err)
		return d.cachedIdentity(ctx)
	}

	identity := &entity.Identity{ID: session.UserID, Email: session.Email}
	if profile != nil {
		identity.Name = displayName(profile.Username, session.Email)
	} else {
		identity.Name = displayName("", session.Email)
	}

	d.remember(ctx, identity, profile)
	return identity
}

func (d *identityDomain) GetSession(
	ctx context.Context, req *model.GetSessionRequest,
) (*model.GetSessionResponse, error) {
	resp := model.GetSessionResponse(*d.current())
	return &resp, nil
}

func (d *identityDomain) SignIn(
	ctx context.Context, req *model.SignInRequest,
) (*model.SignInResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errorx.New(errorx.MissingField, "Email and password are required")
	}

	var identity *entity.Identity
	if d.remote.Available() {
		session, err := d.remote.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			if message, ok := gateway.Rejection(err); ok {
				return nil, errorx.New(errorx.InvalidCredentials, "%s", message)
			}

			xcontext.Logger(ctx).Errorf("Cannot sign in: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot reach the remote backend")
		}

		email := session.Email
		if email == "" {
			email = req.Email
		}

		profile, err := d.profileOf(ctx, session.UserID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get profile of %s: %v", session.UserID, err)
		}

		identity = &entity.Identity{ID: session.UserID, Email: email}
		if profile != nil {
			identity.Name = displayName(profile.Username, email)
		} else {
			identity.Name = displayName("", email)
		}

		d.remember(ctx, identity, profile)
		if _, err := d.store.LoadActionsFromSupabase(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot load remote actions: %v", err)
		}
	} else {
		var err error
		identity, err = d.fallbackSignIn(ctx, req)
		if err != nil {
			return nil, err
		}

		d.remember(ctx, identity, nil)
	}

	d.setUser(identity)
	return &model.SignInResponse{User: *identity, UsingFallback: !d.remote.Available()}, nil
}

// fallbackSignIn accepts accounts created while the remote backend was
// unavailable, and the demonstration credential outside production.
func (d *identityDomain) fallbackSignIn(ctx context.Context, req *model.SignInRequest) (*entity.Identity, error) {
	user, err := d.localUserRepo.Verify(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		return &entity.Identity{ID: user.ID, Email: user.Email, Name: displayName(user.Username, user.Email)}, nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidPassword):
	default:
		xcontext.Logger(ctx).Errorf("Cannot verify local user: %v", err)
		return nil, errorx.Unknown
	}

	if xcontext.Configs(ctx).DemoLoginEnabled() &&
		strings.Contains(req.Email, demoEmailMarker) && req.Password == demoPassword {
		return &entity.Identity{ID: d.localID(), Email: req.Email, Name: displayName("", req.Email)}, nil
	}

	return nil, errorx.New(errorx.InvalidCredentials, "Invalid credentials")
}

// PasswordStrength counts how many of these hold: at least 8 characters,
// an uppercase letter, a digit, a character other than a letter or digit.
func PasswordStrength(password string) int {
	strength := 0
	if len(password) >= 8 {
		strength++
	}

	for _, r := range []*regexp.Regexp{uppercaseRegex, digitRegex, specialRegex} {
		if r.MatchString(password) {
			strength++
		}
	}

	return strength
}

func validateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errorx.New(errorx.InvalidUsername, "Username can only contain letters, numbers, and underscores")
	}

	return nil
}

func validateSignUp(req *model.SignUpRequest) error {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return errorx.New(errorx.MissingField, "Email, password and username are required")
	}

	if req.Password != req.ConfirmPassword {
		return errorx.New(errorx.PasswordMismatch, "Passwords do not match")
	}

	if PasswordStrength(req.Password) < minPasswordStrength {
		return errorx.New(errorx.WeakPassword, "Please create a stronger password")
	}

	return validateUsername(req.Username)
}

func (d *identityDomain) usernameAvailable(ctx context.Context, username string) (bool, error) {
	if !d.remote.Available() {
		exists, err := d.localUserRepo.Exists(ctx, username)
		return !exists, err
	}

	_, err := d.remote.GetProfileByUsername(ctx, username)
	if errors.Is(err, gateway.ErrNotFound) {
		return true, nil
	}

	return false, err
}

func (d *identityDomain) SignUp(
	ctx context.Context, req *model.SignUpRequest,
) (*model.SignUpResponse, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	available, err := d.usernameAvailable(ctx, req.Username)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check username availability: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot check username availability")
	}

	if !available {
		return nil, errorx.New(errorx.UsernameTaken,
			"This username is already taken. Please choose a different one.")
	}

	var identity *entity.Identity
	if d.remote.Available() {
		session, err := d.remote.SignUp(ctx, req.Email, req.Password, map[string]any{"username": req.Username})
		if err != nil {
			if message, ok := gateway.Rejection(err); ok {
				return nil, errorx.New(errorx.BadRequest, "%s", message)
			}

			xcontext.Logger(ctx).Errorf("Cannot sign up: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot reach the remote backend")
		}

		profile := gateway.NewProfile(session.UserID, req.Username, req.Email)
		if err := d.remote.InsertProfile(ctx, profile); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create profile: %v", err)
			return nil, errorx.New(errorx.Internal, "Error creating user profile: %v", err)
		}

		identity = &entity.Identity{ID: session.UserID, Email: req.Email, Name: req.Username}
		d.remember(ctx, identity, &profile)
	} else {
		identity = &entity.Identity{ID: d.localID(), Email: req.Email, Name: req.Username}
		err := d.localUserRepo.Add(ctx, entity.LocalUser{
			ID:        identity.ID,
			Email:     req.Email,
			Username:  req.Username,
			CreatedAt: d.now(),
		}, req.Password)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot add local user: %v", err)
			return nil, errorx.Unknown
		}

		d.remember(ctx, identity, nil)
	}

	d.setUser(identity)
	return &model.SignUpResponse{User: *identity, UsingFallback: !d.remote.Available()}, nil
}

// SignOut pushes the local state on a best-effort basis, then clears the
// identity and the local snapshot whatever happened remotely.
func (d *identityDomain) SignOut(
	ctx context.Context, req *model.SignOutRequest,
) (*model.SignOutResponse, error) {
	if d.remote.Available() {
		if _, err := d.store.SyncWithSupabase(ctx, &model.SyncRequest{}); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot sync before sign out: %v", err)
		}

		if err := d.remote.SignOut(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot sign out remotely: %v", err)
		}
	}

	if err := d.identityRepo.Clear(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear cached identity: %v", err)
	}

	if err := d.store.Reset(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset local state: %v", err)
	}

	d.setUser(nil)
	return &model.SignOutResponse{}, nil
}

// CheckUsernameAvailable reports a username as taken when the lookup
// fails.
func (d *identityDomain) CheckUsernameAvailable(
	ctx context.Context, req *model.CheckUsernameRequest,
) (*model.CheckUsernameResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}

	available, err := d.usernameAvailable(ctx, req.Username)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check username %s: %v", req.Username, err)
		return &model.CheckUsernameResponse{Available: false}, nil
	}

	return &model.CheckUsernameResponse{Available: available}, nil
}

func (d *identityDomain) ResetPassword(
	ctx context.Context, req *model.ResetPasswordRequest,
) (*model.ResetPasswordResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.MissingField, "Email is required")
	}

	if !d.remote.Available() {
		return &model.ResetPasswordResponse{}, nil
	}

	if err := d.remote.ResetPassword(ctx, req.Email); err != nil {
		if message, ok := gateway.Rejection(err); ok {
			return nil, errorx.New(errorx.BadRequest, "%s", message)
		}

		xcontext.Logger(ctx).Errorf("Cannot send password reset email: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Failed to send password reset email")
	}

	return &model.ResetPasswordResponse{}, nil
}
