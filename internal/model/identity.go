package model

import (
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/pkg/enum"
)

type IdentityState string

var (
	IdentityUnresolved    = enum.New(IdentityState("unresolved"))
	IdentityResolving     = enum.New(IdentityState("resolving"))
	IdentityAuthenticated = enum.New(IdentityState("authenticated"))
	IdentityAnonymous     = enum.New(IdentityState("anonymous"))
)

type ResolveSessionRequest struct{}

type ResolveSessionResponse struct {
	State         IdentityState    `json:"state"`
	User          *entity.Identity `json:"user,omitempty"`
	UsingFallback bool             `json:"using_fallback"`
}

type GetSessionRequest struct{}

type GetSessionResponse ResolveSessionResponse

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	User          entity.Identity `json:"user"`
	UsingFallback bool            `json:"using_fallback"`
}

type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Username        string `json:"username"`
}

type SignUpResponse struct {
	User          entity.Identity `json:"user"`
	UsingFallback bool            `json:"using_fallback"`
}

type SignOutRequest struct{}

type SignOutResponse struct{}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

type CheckUsernameResponse struct {
	Available bool `json:"available"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordResponse struct{}
