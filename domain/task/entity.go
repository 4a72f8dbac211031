package task

import (
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/user"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// String returns the canonical encoding of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts a canonical status string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Task is the core domain entity. A zero ID means the task has not been persisted yet.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   user.User  `json:"created_by"`
	AssignedTo  *user.User `json:"assigned_to,omitempty"`
	Comments    []Comment  `json:"comments"`
}

// New builds an unpersisted pending task.
func New(title, description string, createdBy user.User, assignedTo *user.User, now time.Time) *Task {
	return &Task{
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		AssignedTo:  assignedTo,
	}
}

// Touch refreshes the modification timestamp. UpdatedAt never moves before CreatedAt.
func (t *Task) Touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// Rename replaces the title.
func (t *Task) Rename(title string, now time.Time) {
	t.Title = title
	t.Touch(now)
}

// Describe replaces the description.
func (t *Task) Describe(description string, now time.Time) {
	t.Description = description
	t.Touch(now)
}

// UpdateStatus moves the task to the given status.
func (t *Task) UpdateStatus(status Status, now time.Time) {
	t.Status = status
	t.Touch(now)
}

// AssignTo sets the assignee. A nil user clears the assignment.
func (t *Task) AssignTo(assignee *user.User, now time.Time) {
	t.AssignedTo = assignee
	t.Touch(now)
}

// AddComment records a comment on the task, keeping comments newest first.
func (t *Task) AddComment(c Comment) {
	t.Comments = append([]Comment{c}, t.Comments...)
}

// IsAssigned reports whether the task has an assignee.
func (t *Task) IsAssigned() bool {
	return t.AssignedTo != nil
}

// InvolvesUser reports whether the user created or is assigned to the task.
func (t *Task) InvolvesUser(userID int64) bool {
	if t.CreatedBy.ID == userID {
		return true
	}
	return t.AssignedTo != nil && t.AssignedTo.ID == userID
}

// Comment is a note left on a task by a user.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    user.User `json:"author"`
	TaskID    int64     `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment builds an unpersisted comment.
func NewComment(taskID int64, content string, author user.User, now time.Time) *Comment {
	return &Comment{
		Content:   content,
		Author:    author,
		TaskID:    taskID,
		CreatedAt: now,
	}
}
