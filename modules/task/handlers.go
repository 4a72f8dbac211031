package task

import (
	"context"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
)

// taskResult turns a service result into a TaskResponse, moving domain failures into the body.
func (m *TaskModule) taskResult(op string, t *domain.Task, err error) (TaskResponse, error) {
	if err != nil {
		if svcErr := newServiceError(err); svcErr != nil {
			m.logger.Warn("Task request rejected", "operation", op, "code", svcErr.Code, "id", svcErr.ID)
			return TaskResponse{Error: svcErr}, nil
		}
		m.logger.Error("Task request failed", "operation", op, "error", err)
		return TaskResponse{}, err
	}
	if t == nil {
		return TaskResponse{Found: false}, nil
	}
	dto := ToTaskDTO(t)
	return TaskResponse{Found: true, Task: &dto}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.tasks.CreateTask(ctx, CreateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		CreatedByID:  req.CreatedByID,
		AssignedToID: req.AssignedToID,
	})
	if err == nil {
		m.logger.Info("Task created", "task_id", t.ID, "created_by", t.CreatedBy.ID)
	}
	return m.taskResult("create-task", t, err)
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.tasks.GetTaskByID(ctx, req.TaskID)
	return m.taskResult("get-task", t, err)
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	var (
		tasks []domain.Task
		err   error
	)
	switch req.Scope {
	case "", ScopeAll:
		tasks, err = m.tasks.GetAllTasks(ctx)
	case ScopeMine:
		tasks, err = m.tasks.GetUserTasks(ctx, req.UserID)
	case ScopeAssigned:
		tasks, err = m.tasks.GetAssignedTasks(ctx, req.UserID)
	case ScopeCreated:
		tasks, err = m.tasks.GetCreatedTasks(ctx, req.UserID)
	default:
		err = fmt.Errorf("%w: unknown scope %q", ErrInvalidArgument, req.Scope)
	}
	if err != nil {
		if svcErr := newServiceError(err); svcErr != nil {
			return ListTasksResponse{Tasks: []TaskDTO{}, Error: svcErr}, nil
		}
		m.logger.Error("Task request failed", "operation", "list-tasks", "error", err)
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{
		Tasks: ToTaskDTOs(tasks),
		Total: len(tasks),
	}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.tasks.UpdateTask(ctx, req.TaskID, UpdateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	})
	return m.taskResult("update-task", t, err)
}

func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return m.taskResult("update-task-status", nil, err)
	}
	t, err := m.tasks.UpdateTaskStatus(ctx, req.TaskID, status)
	return m.taskResult("update-task-status", t, err)
}

func (m *TaskModule) assignTask(ctx context.Context, req AssignTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.tasks.AssignTask(ctx, req.TaskID, req.UserID)
	return m.taskResult("assign-task", t, err)
}

func (m *TaskModule) completeTask(ctx context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.tasks.CompleteTask(ctx, req.TaskID)
	return m.taskResult("complete-task", t, err)
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteResponse, error) {
	deleted, err := m.tasks.DeleteTask(ctx, req.TaskID)
	if err != nil {
		m.logger.Error("Task request failed", "operation", "delete-task", "error", err)
		return DeleteResponse{}, err
	}
	if deleted {
		m.logger.Info("Task deleted", "task_id", req.TaskID)
	}
	return DeleteResponse{Deleted: deleted}, nil
}

func (m *TaskModule) listComments(ctx context.Context, req ListCommentsRequest, _ *mono.Msg) (ListCommentsResponse, error) {
	comments, err := m.comments.GetTaskComments(ctx, req.TaskID)
	if err != nil {
		m.logger.Error("Comment request failed", "operation", "list-comments", "error", err)
		return ListCommentsResponse{}, err
	}
	return ListCommentsResponse{Comments: ToCommentDTOs(comments)}, nil
}

func (m *TaskModule) createComment(ctx context.Context, req CreateCommentRequest, _ *mono.Msg) (CommentResponse, error) {
	c, err := m.comments.CreateComment(ctx, req.TaskID, req.Content, req.AuthorID)
	if err != nil {
		if svcErr := newServiceError(err); svcErr != nil {
			m.logger.Warn("Comment request rejected", "operation", "create-comment", "code", svcErr.Code, "id", svcErr.ID)
			return CommentResponse{Error: svcErr}, nil
		}
		m.logger.Error("Comment request failed", "operation", "create-comment", "error", err)
		return CommentResponse{}, err
	}
	dto := ToCommentDTO(*c)
	return CommentResponse{Comment: &dto}, nil
}

func (m *TaskModule) deleteComment(ctx context.Context, req DeleteCommentRequest, _ *mono.Msg) (DeleteResponse, error) {
	deleted, err := m.comments.DeleteComment(ctx, req.TaskID, req.CommentID)
	if err != nil {
		m.logger.Error("Comment request failed", "operation", "delete-comment", "error", err)
		return DeleteResponse{}, err
	}
	return DeleteResponse{Deleted: deleted}, nil
}
