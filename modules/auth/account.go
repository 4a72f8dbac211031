package auth

import (
	"time"

	"github.com/example/task-tracker/domain/user"
)

// Account is the GORM model for a registered user.
type Account struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"uniqueIndex;size:254;not null"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the Account model.
func (Account) TableName() string {
	return "users"
}

// ToUser returns the public user view of the account.
func (a *Account) ToUser() user.User {
	return user.User{
		ID:        a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
	}
}

// RevokedToken records a refresh token that was logged out before it expired.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:36"`
	UserID    int64     `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName returns the table name for the RevokedToken model.
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
