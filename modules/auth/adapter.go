package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"golang.org/x/sync/singleflight"
)

// AuthPort defines the authentication operations other modules use.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)
	Login(ctx context.Context, username, password string) (*user.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
	GetUser(ctx context.Context, userID int64) (*user.User, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return mapServiceError(service, err)
	}
	return nil
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	var resp RegisterResponse
	if err := call(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for tokens.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (*user.TokenPair, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp TokenResponse
	if err := call(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return toTokenPair(resp), nil
}

// Refresh exchanges a refresh token for a new token pair.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp TokenResponse
	if err := call(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	return toTokenPair(resp), nil
}

// Logout revokes a refresh token.
func (a *AuthAdapter) Logout(ctx context.Context, refreshToken string) error {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp LogoutResponse
	return call(ctx, a.container, "logout", &req, &resp)
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := call(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		if resp.Error == "token expired" {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	return &user.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Email:    resp.Email,
	}, nil
}

// GetUser retrieves a user by ID, failing with ErrUserNotFound for an unknown id.
func (a *AuthAdapter) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := call(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Found || resp.User == nil {
		return nil, ErrUserNotFound
	}
	return resp.User, nil
}

// UserAdapter exposes the auth module's users as a read-only user.Repository.
// Concurrent lookups of the same id share one service call.
type UserAdapter struct {
	auth    *AuthAdapter
	lookups singleflight.Group
}

var _ user.Repository = (*UserAdapter)(nil)

// NewUserAdapter creates a user repository backed by the auth module's services.
func NewUserAdapter(container mono.ServiceContainer) *UserAdapter {
	if container == nil {
		panic("user adapter requires non-nil ServiceContainer")
	}
	return &UserAdapter{auth: NewAuthAdapter(container)}
}

// GetByID returns nil, nil when the user does not exist.
// The shared lookup outlives a cancelled caller; each caller still stops waiting on its own ctx.
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*user.User, error) {
	shared := context.WithoutCancel(ctx)
	ch := a.lookups.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		return a.auth.GetUser(shared, id)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	val, err := res.Val, res.Err
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u, ok := val.(*user.User)
	if !ok || u == nil {
		return nil, nil
	}
	found := *u
	return &found, nil
}

// GetAll returns every user.
func (a *UserAdapter) GetAll(ctx context.Context) ([]user.User, error) {
	var req ListUsersRequest
	var resp ListUsersResponse
	if err := call(ctx, a.auth.container, "list-users", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func toTokenPair(resp TokenResponse) *user.TokenPair {
	return &user.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	}
}

// serviceErrors lists the errors recognised in a failed service call, most specific first.
var serviceErrors = []error{
	ErrInvalidCredentials,
	ErrUsernameExists,
	ErrEmailExists,
	ErrInvalidEmail,
	ErrInvalidUsername,
	ErrWeakPassword,
	ErrPasswordTooLong,
	ErrTokenRevoked,
	ErrExpiredToken,
	ErrInvalidToken,
	ErrUserNotFound,
}

// mapServiceError converts service error messages back to sentinel errors.
func mapServiceError(service string, err error) error {
	msg := err.Error()
	for _, known := range serviceErrors {
		if strings.Contains(msg, known.Error()) {
			return known
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}
