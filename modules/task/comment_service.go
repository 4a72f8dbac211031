package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// CommentService manages comments on tasks.
type CommentService struct {
	comments domain.CommentRepository
	tasks    domain.TaskRepository
	users    user.Repository
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments domain.CommentRepository, tasks domain.TaskRepository, users user.Repository, opts ...Option) *CommentService {
	o := buildOptions(opts)
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		users:    users,
		now:      o.now,
	}
}

// GetTaskComments returns the task's comments newest first.
func (s *CommentService) GetTaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	return s.comments.GetByTaskID(ctx, taskID)
}

// CreateComment adds a comment to an existing task.
// Content is stored as given; blank content is rejected by the transport.
func (s *CommentService) CreateComment(ctx context.Context, taskID int64, content string, authorID int64) (*domain.Comment, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	if t == nil {
		return nil, &domain.TaskNotFoundError{ID: taskID}
	}

	author, err := resolveUser(ctx, s.users, authorID)
	if err != nil {
		return nil, err
	}

	c := domain.NewComment(taskID, content, *author, s.now())
	saved, err := s.comments.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return saved, nil
}

// DeleteComment removes a comment of the given task, reporting whether it existed there.
// A comment addressed through another task is left alone.
func (s *CommentService) DeleteComment(ctx context.Context, taskID, commentID int64) (bool, error) {
	deleted, err := s.comments.Delete(ctx, taskID, commentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return deleted, nil
}
