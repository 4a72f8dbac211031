package task

// List scopes accepted by the list-tasks service.
const (
	ScopeAll      = "all"
	ScopeMine     = "mine"
	ScopeAssigned = "assigned"
	ScopeCreated  = "created"
)

// CreateTaskRequest is the request for create-task.
type CreateTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreatedByID  int64  `json:"created_by_id"`
	AssignedToID int64  `json:"assigned_to_id,omitempty"`
}

// GetTaskRequest is the request for get-task.
type GetTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// ListTasksRequest is the request for list-tasks. UserID is required for every scope but "all".
type ListTasksRequest struct {
	Scope  string `json:"scope"`
	UserID int64  `json:"user_id,omitempty"`
}

// UpdateTaskRequest is the request for update-task. Nil fields are not changed.
type UpdateTaskRequest struct {
	TaskID       int64   `json:"task_id"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	AssignedToID *int64  `json:"assigned_to_id,omitempty"`
}

// UpdateTaskStatusRequest is the request for update-task-status.
type UpdateTaskStatusRequest struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
}

// AssignTaskRequest is the request for assign-task. UserID 0 clears the assignment.
type AssignTaskRequest struct {
	TaskID int64 `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// CompleteTaskRequest is the request for complete-task.
type CompleteTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// DeleteTaskRequest is the request for delete-task.
type DeleteTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// TaskResponse carries a single task. Found is false when the target task does not exist.
type TaskResponse struct {
	Found bool          `json:"found"`
	Task  *TaskDTO      `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// ListTasksResponse carries a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskDTO     `json:"tasks"`
	Total int           `json:"total"`
	Error *ServiceError `json:"error,omitempty"`
}

// DeleteResponse reports whether a record was deleted.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ListCommentsRequest is the request for list-comments.
type ListCommentsRequest struct {
	TaskID int64 `json:"task_id"`
}

// ListCommentsResponse carries a task's comments.
type ListCommentsResponse struct {
	Comments []CommentDTO `json:"comments"`
}

// CreateCommentRequest is the request for create-comment.
type CreateCommentRequest struct {
	TaskID   int64  `json:"task_id"`
	Content  string `json:"content"`
	AuthorID int64  `json:"author_id"`
}

// CommentResponse carries a single comment.
type CommentResponse struct {
	Comment *CommentDTO   `json:"comment,omitempty"`
	Error   *ServiceError `json:"error,omitempty"`
}

// DeleteCommentRequest is the request for delete-comment.
type DeleteCommentRequest struct {
	TaskID    int64 `json:"task_id"`
	CommentID int64 `json:"comment_id"`
}
