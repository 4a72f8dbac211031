package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the interface other modules use to reach task functionality.
// Lookups of a missing target task return nil (or false) without an error;
// referential failures come back as *task.UserNotFoundError or *task.TaskNotFoundError.
type TaskPort interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskDTO, error)
	GetTask(ctx context.Context, taskID int64) (*TaskDTO, error)
	ListTasks(ctx context.Context, req ListTasksRequest) ([]TaskDTO, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*TaskDTO, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*TaskDTO, error)
	AssignTask(ctx context.Context, taskID, userID int64) (*TaskDTO, error)
	CompleteTask(ctx context.Context, taskID int64) (*TaskDTO, error)
	DeleteTask(ctx context.Context, taskID int64) (bool, error)
	ListComments(ctx context.Context, taskID int64) ([]CommentDTO, error)
	CreateComment(ctx context.Context, req CreateCommentRequest) (*CommentDTO, error)
	DeleteComment(ctx context.Context, taskID, commentID int64) (bool, error)
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func callTask[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*TaskDTO, error) {
	var resp TaskResponse
	if err := callService(ctx, container, service, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if !resp.Found {
		return nil, nil
	}
	return resp.Task, nil
}

func (a *taskAdapter) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskDTO, error) {
	return callTask(ctx, a.container, "create-task", &req)
}

func (a *taskAdapter) GetTask(ctx context.Context, taskID int64) (*TaskDTO, error) {
	return callTask(ctx, a.container, "get-task", &GetTaskRequest{TaskID: taskID})
}

func (a *taskAdapter) ListTasks(ctx context.Context, req ListTasksRequest) ([]TaskDTO, error) {
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Tasks, nil
}

func (a *taskAdapter) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*TaskDTO, error) {
	return callTask(ctx, a.container, "update-task", &req)
}

func (a *taskAdapter) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*TaskDTO, error) {
	return callTask(ctx, a.container, "update-task-status", &UpdateTaskStatusRequest{TaskID: taskID, Status: status})
}

func (a *taskAdapter) AssignTask(ctx context.Context, taskID, userID int64) (*TaskDTO, error) {
	return callTask(ctx, a.container, "assign-task", &AssignTaskRequest{TaskID: taskID, UserID: userID})
}

func (a *taskAdapter) CompleteTask(ctx context.Context, taskID int64) (*TaskDTO, error) {
	return callTask(ctx, a.container, "complete-task", &CompleteTaskRequest{TaskID: taskID})
}

func (a *taskAdapter) DeleteTask(ctx context.Context, taskID int64) (bool, error) {
	var resp DeleteResponse
	if err := callService(ctx, a.container, "delete-task", &DeleteTaskRequest{TaskID: taskID}, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

func (a *taskAdapter) ListComments(ctx context.Context, taskID int64) ([]CommentDTO, error) {
	var resp ListCommentsResponse
	if err := callService(ctx, a.container, "list-comments", &ListCommentsRequest{TaskID: taskID}, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

func (a *taskAdapter) CreateComment(ctx context.Context, req CreateCommentRequest) (*CommentDTO, error) {
	var resp CommentResponse
	if err := callService(ctx, a.container, "create-comment", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Comment, nil
}

func (a *taskAdapter) DeleteComment(ctx context.Context, taskID, commentID int64) (bool, error) {
	req := DeleteCommentRequest{TaskID: taskID, CommentID: commentID}
	var resp DeleteResponse
	if err := callService(ctx, a.container, "delete-comment", &req, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}
