package entity

import "time"

// AuthSession is the remote backend session, cached locally so that it
// survives between command invocations.
type AuthSession struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	UserID       string         `json:"userId"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"userMetadata,omitempty"`
}

// Expired reports whether the access token is no longer valid at now.
func (s *AuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// LocalUser is an account created while the remote backend was
// unavailable.
type LocalUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
