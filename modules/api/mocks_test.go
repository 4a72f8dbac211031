package api

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

var errNotImplemented = errors.New("not implemented")

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	registerFunc      func(ctx context.Context, req auth.RegisterRequest) (*user.User, error)
	loginFunc         func(ctx context.Context, username, password string) (*user.TokenPair, error)
	refreshFunc       func(ctx context.Context, refreshToken string) (*user.TokenPair, error)
	logoutFunc        func(ctx context.Context, refreshToken string) error
	validateTokenFunc func(ctx context.Context, token string) (*user.Claims, error)
	getUserFunc       func(ctx context.Context, userID int64) (*user.User, error)
}

var _ auth.AuthPort = (*mockAuthPort)(nil)

func (m *mockAuthPort) Register(ctx context.Context, req auth.RegisterRequest) (*user.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, username, password string) (*user.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Logout(ctx context.Context, refreshToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, refreshToken)
	}
	return errNotImplemented
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	createTaskFunc       func(ctx context.Context, req task.CreateTaskRequest) (*task.TaskDTO, error)
	getTaskFunc          func(ctx context.Context, taskID int64) (*task.TaskDTO, error)
	listTasksFunc        func(ctx context.Context, req task.ListTasksRequest) ([]task.TaskDTO, error)
	updateTaskFunc       func(ctx context.Context, req task.UpdateTaskRequest) (*task.TaskDTO, error)
	updateTaskStatusFunc func(ctx context.Context, taskID int64, status string) (*task.TaskDTO, error)
	assignTaskFunc       func(ctx context.Context, taskID, userID int64) (*task.TaskDTO, error)
	completeTaskFunc     func(ctx context.Context, taskID int64) (*task.TaskDTO, error)
	deleteTaskFunc       func(ctx context.Context, taskID int64) (bool, error)
	listCommentsFunc     func(ctx context.Context, taskID int64) ([]task.CommentDTO, error)
	createCommentFunc    func(ctx context.Context, req task.CreateCommentRequest) (*task.CommentDTO, error)
	deleteCommentFunc    func(ctx context.Context, taskID, commentID int64) (bool, error)
}

var _ task.TaskPort = (*mockTaskPort)(nil)

func (m *mockTaskPort) CreateTask(ctx context.Context, req task.CreateTaskRequest) (*task.TaskDTO, error) {
	if m.createTaskFunc != nil {
		return m.createTaskFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) GetTask(ctx context.Context, taskID int64) (*task.TaskDTO, error) {
	if m.getTaskFunc != nil {
		return m.getTaskFunc(ctx, taskID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) ListTasks(ctx context.Context, req task.ListTasksRequest) ([]task.TaskDTO, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (*task.TaskDTO, error) {
	if m.updateTaskFunc != nil {
		return m.updateTaskFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*task.TaskDTO, error) {
	if m.updateTaskStatusFunc != nil {
		return m.updateTaskStatusFunc(ctx, taskID, status)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) AssignTask(ctx context.Context, taskID, userID int64) (*task.TaskDTO, error) {
	if m.assignTaskFunc != nil {
		return m.assignTaskFunc(ctx, taskID, userID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) CompleteTask(ctx context.Context, taskID int64) (*task.TaskDTO, error) {
	if m.completeTaskFunc != nil {
		return m.completeTaskFunc(ctx, taskID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, taskID int64) (bool, error) {
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, taskID)
	}
	return false, errNotImplemented
}

func (m *mockTaskPort) ListComments(ctx context.Context, taskID int64) ([]task.CommentDTO, error) {
	if m.listCommentsFunc != nil {
		return m.listCommentsFunc(ctx, taskID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) CreateComment(ctx context.Context, req task.CreateCommentRequest) (*task.CommentDTO, error) {
	if m.createCommentFunc != nil {
		return m.createCommentFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) DeleteComment(ctx context.Context, taskID, commentID int64) (bool, error) {
	if m.deleteCommentFunc != nil {
		return m.deleteCommentFunc(ctx, taskID, commentID)
	}
	return false, errNotImplemented
}

const testToken = "valid-token"

// authenticatedPort accepts testToken as user 1.
func authenticatedPort() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*user.Claims, error) {
			if token != testToken {
				return nil, auth.ErrInvalidToken
			}
			return &user.Claims{UserID: 1, Username: "alice", Email: "alice@example.com"}, nil
		},
	}
}

func newTestApp(authPort *mockAuthPort, taskPort *mockTaskPort) *fiber.App {
	return newApp(NewHandlers(authPort, taskPort, nil, &mockLogger{}), authPort)
}

// doRequest sends an authenticated JSON request and returns the status and body.
func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp.StatusCode, string(data)
}
