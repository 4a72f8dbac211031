package task

import (
	"errors"
	"fmt"
)

var (
	// ErrReferenceNotFound is matched by every referential validation failure.
	ErrReferenceNotFound = errors.New("referenced entity not found")
	// ErrInvalidStatus is returned when a status string is not a known status.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrUnknownID is returned by repositories asked to update a record that does not exist.
	ErrUnknownID = errors.New("no record with this id")
)

// UserNotFoundError reports a referenced user that does not exist.
type UserNotFoundError struct {
	ID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id %d not found", e.ID)
}

// Is makes errors.Is(err, ErrReferenceNotFound) hold.
func (e *UserNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// TaskNotFoundError reports a referenced task that does not exist.
type TaskNotFoundError struct {
	ID int64
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task with id %d not found", e.ID)
}

// Is makes errors.Is(err, ErrReferenceNotFound) hold.
func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}
