package task

import (
	"errors"

	domain "github.com/example/task-tracker/domain/task"
)

// Error codes carried by ServiceError.
const (
	CodeUserNotFound    = "user_not_found"
	CodeTaskNotFound    = "task_not_found"
	CodeInvalidStatus   = "invalid_status"
	CodeInvalidArgument = "invalid_argument"
)

// ErrInvalidArgument is returned for malformed service requests.
var ErrInvalidArgument = errors.New("invalid argument")

// ServiceError is a domain failure encoded in a service response so it survives
// the trip through the service container.
type ServiceError struct {
	Code    string `json:"code"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// newServiceError encodes known domain failures. It returns nil for anything else,
// which the caller reports as an infrastructure error.
func newServiceError(err error) *ServiceError {
	var userErr *domain.UserNotFoundError
	var taskErr *domain.TaskNotFoundError

	switch {
	case errors.As(err, &userErr):
		return &ServiceError{Code: CodeUserNotFound, ID: userErr.ID, Message: userErr.Error()}
	case errors.As(err, &taskErr):
		return &ServiceError{Code: CodeTaskNotFound, ID: taskErr.ID, Message: taskErr.Error()}
	case errors.Is(err, domain.ErrInvalidStatus):
		return &ServiceError{Code: CodeInvalidStatus, Message: err.Error()}
	case errors.Is(err, ErrInvalidArgument):
		return &ServiceError{Code: CodeInvalidArgument, Message: err.Error()}
	}
	return nil
}

// Err rebuilds the domain error described by e.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case CodeUserNotFound:
		return &domain.UserNotFoundError{ID: e.ID}
	case CodeTaskNotFound:
		return &domain.TaskNotFoundError{ID: e.ID}
	case CodeInvalidStatus:
		return &remoteError{msg: e.Message, base: domain.ErrInvalidStatus}
	case CodeInvalidArgument:
		return &remoteError{msg: e.Message, base: ErrInvalidArgument}
	}
	return errors.New(e.Message)
}

// remoteError keeps the original message while still matching its sentinel.
type remoteError struct {
	msg  string
	base error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.base }
