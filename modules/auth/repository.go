package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("user with this email already exists")
	// ErrUsernameExists is returned when the username is already taken.
	ErrUsernameExists = errors.New("user with this username already exists")
)

// UserRepository handles account persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new account in the database.
func (r *UserRepository) Create(ctx context.Context, account *Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	return nil
}

// FindByID finds an account by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername finds an account by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*Account, error) {
	var account Account
	result := r.db.WithContext(ctx).First(&account, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &account, nil
}

// FindAll returns every account ordered by id.
func (r *UserRepository) FindAll(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := r.db.WithContext(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return accounts, nil
}

// EmailExists checks if an account with the given email exists.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// UsernameExists checks if an account with the given username exists.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Account{}).Where(query, arg).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// TokenRepository tracks revoked refresh tokens.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Revoke marks the token id as unusable. Revoking twice is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	token := RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&token)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return count > 0, nil
}

// PurgeExpired drops revocations for tokens that have expired anyway.
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&RevokedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
