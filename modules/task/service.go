package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CreateTaskParams describes a new task. AssignedToID 0 leaves the task unassigned.
type CreateTaskParams struct {
	Title        string
	Description  string
	CreatedByID  int64
	AssignedToID int64
}

// UpdateTaskParams lists the fields to change; nil fields are left untouched.
// AssignedToID pointing at 0 clears the assignment.
type UpdateTaskParams struct {
	Title        *string
	Description  *string
	AssignedToID *int64
}

// TaskService implements the task lifecycle rules on top of the repository contracts.
type TaskService struct {
	tasks domain.TaskRepository
	users user.Repository
	now   func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository, users user.Repository, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{
		tasks: tasks,
		users: users,
		now:   o.now,
	}
}

// GetTaskByID returns nil when the task does not exist.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// GetAllTasks returns every task.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.GetAll(ctx)
}

// GetUserTasks returns tasks the user created or is assigned to.
func (s *TaskService) GetUserTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.GetByUser(ctx, userID)
}

// GetAssignedTasks returns tasks assigned to the user.
func (s *TaskService) GetAssignedTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.GetAssignedToUser(ctx, userID)
}

// GetCreatedTasks returns tasks created by the user.
func (s *TaskService) GetCreatedTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.GetCreatedByUser(ctx, userID)
}

// CreateTask validates the referenced users and persists a new pending task.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	creator, err := resolveUser(ctx, s.users, params.CreatedByID)
	if err != nil {
		return nil, err
	}

	var assignee *user.User
	if params.AssignedToID != 0 {
		assignee, err = resolveUser(ctx, s.users, params.AssignedToID)
		if err != nil {
			return nil, err
		}
	}

	t := domain.New(params.Title, params.Description, *creator, assignee, s.now())
	saved, err := s.tasks.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return saved, nil
}

// UpdateTask applies the supplied fields. It returns nil, nil when the task does not exist.
// UpdatedAt is refreshed even when no field is supplied.
func (s *TaskService) UpdateTask(ctx context.Context, taskID int64, params UpdateTaskParams) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	if t == nil {
		return nil, nil
	}

	// Resolve the assignee before touching the entity so a failed lookup changes nothing.
	var assignee *user.User
	if params.AssignedToID != nil && *params.AssignedToID != 0 {
		assignee, err = resolveUser(ctx, s.users, *params.AssignedToID)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	if params.Title != nil {
		t.Rename(*params.Title, now)
	}
	if params.Description != nil {
		t.Describe(*params.Description, now)
	}
	if params.AssignedToID != nil {
		t.AssignTo(assignee, now)
	}
	t.Touch(now)

	return s.save(ctx, t)
}

// UpdateTaskStatus moves the task to status. It returns nil, nil when the task does not exist.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID int64, status domain.Status) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	if t == nil {
		return nil, nil
	}

	t.UpdateStatus(status, s.now())
	return s.save(ctx, t)
}

// CompleteTask marks the task completed.
func (s *TaskService) CompleteTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.UpdateTaskStatus(ctx, taskID, domain.StatusCompleted)
}

// AssignTask assigns the task to userID, or clears the assignment when userID is 0.
// It returns nil, nil when the task does not exist.
func (s *TaskService) AssignTask(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	if t == nil {
		return nil, nil
	}

	var assignee *user.User
	if userID != 0 {
		assignee, err = resolveUser(ctx, s.users, userID)
		if err != nil {
			return nil, err
		}
	}

	t.AssignTo(assignee, s.now())
	return s.save(ctx, t)
}

// DeleteTask removes the task and its comments, reporting whether it existed.
func (s *TaskService) DeleteTask(ctx context.Context, taskID int64) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task %d: %w", taskID, err)
	}
	return deleted, nil
}

func (s *TaskService) save(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	saved, err := s.tasks.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to save task %d: %w", t.ID, err)
	}
	return saved, nil
}

// resolveUser loads a referenced user, failing with *UserNotFoundError when absent.
func resolveUser(ctx context.Context, users user.Repository, id int64) (*user.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	if u == nil {
		return nil, &domain.UserNotFoundError{ID: id}
	}
	return u, nil
}
