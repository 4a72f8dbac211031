package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/example/task-tracker/modules/task"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message,omitempty"`
	Modules map[string]ModuleStatus `json:"modules,omitempty"`
	Details map[string]any          `json:"details,omitempty"`
}

// ModuleStatus is one module's entry in the health response.
type ModuleStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh or logout request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// OptionalID is a JSON user reference that distinguishes an absent field from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present; null leaves Value nil.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// ID returns the referenced id, or 0 for null.
func (o OptionalID) ID() int64 {
	if o.Value == nil {
		return 0
	}
	return *o.Value
}

// CreateTaskRequest represents a create task request.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  OptionalID `json:"assigned_to"`
}

// UpdateTaskRequest represents a full (PUT) or partial (PATCH) task update.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  OptionalID `json:"assigned_to"`
}

// AssignTaskRequest represents an assignment change. A null assignee unassigns the task.
type AssignTaskRequest struct {
	AssignedTo OptionalID `json:"assigned_to"`
}

// UpdateStatusRequest represents a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateCommentRequest represents a new comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// TaskListResponse represents a page of tasks.
type TaskListResponse struct {
	Tasks  []task.TaskDTO `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CommentListResponse represents a task's comments.
type CommentListResponse struct {
	Comments []task.CommentDTO `json:"comments"`
	Total    int               `json:"total"`
}

// ProfileResponse represents the current user's profile.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	FetchedAt time.Time `json:"fetched_at"`
}
