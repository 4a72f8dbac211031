package auth

import "github.com/example/task-tracker/domain/user"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	User user.User `json:"user"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest represents a token refresh or logout request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID int64 `json:"user_id"`
}

// GetUserResponse represents a get user response. Found is false for an unknown id.
type GetUserResponse struct {
	Found bool       `json:"found"`
	User  *user.User `json:"user,omitempty"`
}

// ListUsersRequest represents a list users request.
type ListUsersRequest struct{}

// ListUsersResponse represents a list users response.
type ListUsersResponse struct {
	Users []user.User `json:"users"`
}
