package task

import "context"

// TaskRepository is the persistence contract for tasks.
// Implementations return tasks newest first and hydrate creator, assignee and comments.
type TaskRepository interface {
	// GetByID returns nil, nil when the task does not exist.
	GetByID(ctx context.Context, id int64) (*Task, error)
	GetAll(ctx context.Context) ([]Task, error)
	// GetByUser returns tasks the user created or is assigned to, without duplicates.
	GetByUser(ctx context.Context, userID int64) ([]Task, error)
	GetAssignedToUser(ctx context.Context, userID int64) ([]Task, error)
	GetCreatedByUser(ctx context.Context, userID int64) ([]Task, error)
	// Save inserts a task with ID 0 and updates an existing one otherwise.
	// Updating an id that is not stored fails with ErrUnknownID.
	Save(ctx context.Context, t *Task) (*Task, error)
	// Delete removes the task and its comments, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// CommentRepository is the persistence contract for task comments.
type CommentRepository interface {
	// GetByTaskID returns the task's comments newest first; an unknown task yields an empty slice.
	GetByTaskID(ctx context.Context, taskID int64) ([]Comment, error)
	Save(ctx context.Context, c *Comment) (*Comment, error)
	// Delete removes the comment only when it belongs to taskID, reporting whether it did.
	Delete(ctx context.Context, taskID, id int64) (bool, error)
}
