package task

import (
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// UserDTO is the public view of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// CommentDTO is the public view of a comment.
type CommentDTO struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    UserDTO   `json:"author"`
}

// TaskDTO is the public view of a task.
type TaskDTO struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CreatedBy   UserDTO      `json:"created_by"`
	AssignedTo  *UserDTO     `json:"assigned_to"`
	Comments    []CommentDTO `json:"comments"`
}

// ToUserDTO converts a user.
func ToUserDTO(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// ToCommentDTO converts a comment using its embedded author.
func ToCommentDTO(c domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    ToUserDTO(c.Author),
	}
}

// ToCommentDTOs converts a list of comments.
func ToCommentDTOs(comments []domain.Comment) []CommentDTO {
	result := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		result = append(result, ToCommentDTO(c))
	}
	return result
}

// NewTaskDTO builds a task DTO from explicitly supplied users.
// Comments whose author is missing from commentUsers are left out.
func NewTaskDTO(t *domain.Task, createdBy user.User, assignedTo *user.User, commentUsers map[int64]user.User) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CreatedBy:   ToUserDTO(createdBy),
		Comments:    make([]CommentDTO, 0, len(t.Comments)),
	}
	if assignedTo != nil {
		assignee := ToUserDTO(*assignedTo)
		dto.AssignedTo = &assignee
	}

	for _, c := range t.Comments {
		author, ok := commentUsers[c.Author.ID]
		if !ok {
			continue
		}
		dto.Comments = append(dto.Comments, CommentDTO{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    ToUserDTO(author),
		})
	}
	return dto
}

// ToTaskDTO converts a hydrated task using the users embedded in it, so no comment is dropped.
func ToTaskDTO(t *domain.Task) TaskDTO {
	commentUsers := make(map[int64]user.User, len(t.Comments))
	for _, c := range t.Comments {
		commentUsers[c.Author.ID] = c.Author
	}
	return NewTaskDTO(t, t.CreatedBy, t.AssignedTo, commentUsers)
}

// ToTaskDTOs converts a list of hydrated tasks.
func ToTaskDTOs(tasks []domain.Task) []TaskDTO {
	result := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		result = append(result, ToTaskDTO(&tasks[i]))
	}
	return result
}
