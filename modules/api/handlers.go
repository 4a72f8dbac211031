package api

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth   auth.AuthPort
	tasks  task.TaskPort
	health HealthFunc
	logger types.Logger
}

// NewHandlers creates a new Handlers instance. A nil health reports only the API itself.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, health HealthFunc, logger types.Logger) *Handlers {
	return &Handlers{
		auth:   authPort,
		tasks:  taskPort,
		health: health,
		logger: logger,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	if h.health == nil {
		return c.JSON(HealthResponse{
			Status:  "healthy",
			Details: map[string]any{"module": "api"},
		})
	}

	report := h.health(c.UserContext())
	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleStatus, len(report.Modules)),
	}
	for name, mod := range report.Modules {
		resp.Modules[name] = ModuleStatus{Healthy: mod.Healthy, Message: mod.Message}
	}
	if !report.Healthy {
		resp.Status = "unhealthy"
		resp.Message = report.Message
		h.logger.Warn("Health check failed", "message", report.Message)
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

func taskNotFound(c *fiber.Ctx, id int64) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: fmt.Sprintf("Task with id %d not found", id),
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

// handleTaskError maps task service failures to responses without exposing internals.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	var userErr *domain.UserNotFoundError
	var taskErr *domain.TaskNotFoundError

	switch {
	case errors.As(err, &userErr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "user_not_found",
			Message: userErr.Error(),
		})
	case errors.As(err, &taskErr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "task_not_found",
			Message: taskErr.Error(),
		})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, task.ErrInvalidArgument):
		return badRequest(c, err.Error())
	default:
		h.logger.Error("Internal error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleAuthError maps auth failures to responses.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid username or password",
		})
	case errors.Is(err, auth.ErrUsernameExists), errors.Is(err, auth.ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenRevoked):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	default:
		h.logger.Error("Internal error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "Username, email and password are required")
	}

	u, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(task.ToUserDTO(*u))
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	tokens, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	tokens, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return h.handleAuthError(c, err)
	}
	return c.JSON(MessageResponse{Message: "Successfully logged out"})
}

// Profile handles GET /api/v1/auth/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	u, err := h.auth.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: "User not found",
			})
		}
		return h.handleAuthError(c, err)
	}

	return c.JSON(ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		FetchedAt: time.Now().UTC(),
	})
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	scope := c.Query("scope", task.ScopeAll)
	if !allowedScopes[scope] {
		return badRequest(c, "Invalid scope. Must be one of: all, mine, assigned, created")
	}
	limit := clampLimit(c.QueryInt("limit", defaultLimit))
	offset := clampOffset(c.QueryInt("offset", 0))

	tasks, err := h.tasks.ListTasks(c.UserContext(), task.ListTasksRequest{
		Scope:  scope,
		UserID: claims.UserID,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(TaskListResponse{
		Tasks:  paginate(tasks, offset, limit),
		Total:  len(tasks),
		Limit:  limit,
		Offset: offset,
	})
}

// CreateTask handles POST /api/v1/tasks. The caller becomes the creator.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	title, err := validateTitle(req.Title)
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tasks.CreateTask(c.UserContext(), task.CreateTaskRequest{
		Title:        title,
		Description:  req.Description,
		CreatedByID:  claims.UserID,
		AssignedToID: req.AssignedTo.ID(),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tasks.GetTask(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}
	return c.JSON(t)
}

// ReplaceTask handles PUT /api/v1/tasks/:id. Title is required; an omitted description is cleared.
func (h *Handlers) ReplaceTask(c *fiber.Ctx) error {
	return h.updateTask(c, true)
}

// PatchTask handles PATCH /api/v1/tasks/:id.
func (h *Handlers) PatchTask(c *fiber.Ctx) error {
	return h.updateTask(c, false)
}

func (h *Handlers) updateTask(c *fiber.Ctx, full bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	update := task.UpdateTaskRequest{TaskID: id, Description: req.Description}
	if full && req.Title == nil {
		return badRequest(c, errTitleRequired.Error())
	}
	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return badRequest(c, err.Error())
		}
		update.Title = &title
	}
	if full && update.Description == nil {
		empty := ""
		update.Description = &empty
	}
	if req.AssignedTo.Set {
		assignee := req.AssignedTo.ID()
		update.AssignedToID = &assignee
	}

	t, err := h.tasks.UpdateTask(c.UserContext(), update)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}
	return c.JSON(t)
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	deleted, err := h.tasks.DeleteTask(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if !deleted {
		return taskNotFound(c, id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignTask handles PATCH /api/v1/tasks/:id/assign.
func (h *Handlers) AssignTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if !req.AssignedTo.Set {
		return badRequest(c, "assigned_to field is required")
	}

	t, err := h.tasks.AssignTask(c.UserContext(), id, req.AssignedTo.ID())
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}
	return c.JSON(t)
}

// CompleteTask handles PATCH /api/v1/tasks/:id/complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tasks.CompleteTask(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}
	return c.JSON(t)
}

// UpdateStatus handles PATCH /api/v1/tasks/:id/status.
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	status, err := validateStatus(req.Status)
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tasks.UpdateTaskStatus(c.UserContext(), id, status.String())
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}
	return c.JSON(t)
}

// ListComments handles GET /api/v1/tasks/:id/comments.
func (h *Handlers) ListComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tasks.GetTask(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if t == nil {
		return taskNotFound(c, id)
	}

	comments, err := h.tasks.ListComments(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(CommentListResponse{Comments: comments, Total: len(comments)})
}

// CreateComment handles POST /api/v1/tasks/:id/comments. The caller becomes the author.
func (h *Handlers) CreateComment(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return badRequest(c, err.Error())
	}

	comment, err := h.tasks.CreateComment(c.UserContext(), task.CreateCommentRequest{
		TaskID:   id,
		Content:  content,
		AuthorID: claims.UserID,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/v1/tasks/:id/comments/:commentId.
func (h *Handlers) DeleteComment(c *fiber.Ctx) error {
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	deleted, err := h.tasks.DeleteComment(c.UserContext(), taskID, commentID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("Comment with id %d not found on task %d", commentID, taskID),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
