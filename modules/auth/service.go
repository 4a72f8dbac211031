package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/example/task-tracker/domain/user"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidUsername is returned when the username is blank.
	ErrInvalidUsername = errors.New("username is required")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrTokenRevoked is returned for a refresh token that was logged out.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// RegisterParams holds the fields of a new account.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  *UserRepository
	tokens *TokenRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserRepository, tokens *TokenRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(params.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(params.Password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, ErrUsernameExists
	}

	exists, err = s.users.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		Username:     username,
		Email:        params.Email,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(ctx, account); err != nil {
		return nil, err
	}

	u := account.ToUser()
	return &u, nil
}

// Login authenticates by username and password and returns tokens.
func (s *AuthService) Login(ctx context.Context, username, password string) (*user.TokenPair, error) {
	account, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(account)
}

// RefreshTokens rotates a refresh token: the old one is revoked and a new pair issued.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	claims, err := s.validRefreshClaims(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	account, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.generateTokenPair(account)
}

// Logout revokes the refresh token so it can no longer be exchanged.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validRefreshClaims(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
}

func (s *AuthService) validRefreshClaims(ctx context.Context, refreshToken string) (*JWTClaims, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// ValidateToken validates an access token and returns claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &user.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := account.ToUser()
	return &u, nil
}

// ListUsers returns every user.
func (s *AuthService) ListUsers(ctx context.Context) ([]user.User, error) {
	accounts, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(accounts))
	for i := range accounts {
		users = append(users, accounts[i].ToUser())
	}
	return users, nil
}

func (s *AuthService) generateTokenPair(account *Account) (*user.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &user.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
