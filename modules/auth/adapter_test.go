package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"invalid credentials", errors.New("service error: invalid username or password"), ErrInvalidCredentials},
		{"username exists", errors.New("handler failed: user with this username already exists"), ErrUsernameExists},
		{"email exists", errors.New("user with this email already exists"), ErrEmailExists},
		{"weak password", errors.New("password must be at least 8 characters"), ErrWeakPassword},
		{"revoked", errors.New("token has been revoked"), ErrTokenRevoked},
		{"expired", errors.New("token has expired"), ErrExpiredToken},
		{"user not found", errors.New("user not found"), ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapServiceError("login", tt.err), tt.wantErr)
		})
	}
}

func TestMapServiceErrorUnknown(t *testing.T) {
	cause := fmt.Errorf("nats: timeout")

	err := mapServiceError("login", cause)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "login request failed: nats: timeout")
}

func newTestAuthContainer(t *testing.T) *fakeContainer {
	t.Helper()

	m := NewModule(Config{
		DBPath:     filepath.Join(t.TempDir(), "auth.db"),
		BcryptCost: bcrypt.MinCost,
		JWT:        testJWTConfig(),
	}, &mockLogger{})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() {
		_ = m.Stop(context.Background())
	})

	container := newFakeContainer()
	require.NoError(t, m.RegisterServices(container))
	return container
}

func TestAuthAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := NewAuthAdapter(newTestAuthContainer(t))

	registered, err := adapter.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, registered.ID)

	_, err = adapter.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = adapter.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := adapter.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)

	_, err = adapter.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, adapter.Logout(ctx, tokens.RefreshToken))
	_, err = adapter.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = adapter.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserAdapterGetByID(t *testing.T) {
	ctx := context.Background()
	container := newTestAuthContainer(t)
	registered, err := NewAuthAdapter(container).Register(ctx, RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		FirstName: "Alice",
	})
	require.NoError(t, err)

	users := NewUserAdapter(container)

	got, err := users.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Alice", got.FirstName)

	missing, err := users.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, registered.ID, all[0].ID)
}

func TestUserAdapterGetByIDPropagatesFailures(t *testing.T) {
	container := newFakeContainer()
	require.NoError(t, helper.RegisterTypedRequestReplyService(container, "get-user", json.Unmarshal, json.Marshal,
		func(context.Context, GetUserRequest, *mono.Msg) (GetUserResponse, error) {
			return GetUserResponse{}, errors.New("database is locked")
		}))

	got, err := NewUserAdapter(container).GetByID(context.Background(), 1)

	assert.Nil(t, got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestUserAdapterSharedLookupSurvivesCancelledCaller(t *testing.T) {
	container := newFakeContainer()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	require.NoError(t, helper.RegisterTypedRequestReplyService(container, "get-user", json.Unmarshal, json.Marshal,
		func(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
			once.Do(func() { close(started) })
			select {
			case <-ctx.Done():
				return GetUserResponse{}, ctx.Err()
			case <-release:
			}
			return GetUserResponse{Found: true, User: &user.User{ID: req.UserID, Username: "alice"}}, nil
		}))
	users := NewUserAdapter(container)

	cancelCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := users.GetByID(cancelCtx, 1)
		firstErr <- err
	}()
	<-started

	type result struct {
		u   *user.User
		err error
	}
	second := make(chan result, 1)
	go func() {
		u, err := users.GetByID(context.Background(), 1)
		second <- result{u, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	require.NotNil(t, got.u)
	assert.Equal(t, "alice", got.u.Username)
}
