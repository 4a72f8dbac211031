package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	maxTitleLength = 200

	defaultLimit = 20
	maxLimit     = 100
)

var (
	errTitleRequired   = errors.New("title cannot be empty")
	errTitleTooLong    = fmt.Errorf("title cannot exceed %d characters", maxTitleLength)
	errContentRequired = errors.New("comment content cannot be empty")
)

// allowedStatuses are the statuses a client may set directly.
var allowedStatuses = map[domain.Status]bool{
	domain.StatusPending:    true,
	domain.StatusInProgress: true,
	domain.StatusCompleted:  true,
}

var allowedScopes = map[string]bool{
	task.ScopeAll:      true,
	task.ScopeMine:     true,
	task.ScopeAssigned: true,
	task.ScopeCreated:  true,
}

// validateTitle trims the title and checks it is non-blank and short enough.
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", errTitleTooLong
	}
	return title, nil
}

// validateContent trims comment content and checks it is non-blank.
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errContentRequired
	}
	return content, nil
}

// validateStatus checks the status against the client allow-list.
func validateStatus(status string) (domain.Status, error) {
	s, err := domain.ParseStatus(status)
	if err != nil || !allowedStatuses[s] {
		return "", errors.New("invalid status, must be one of: pending, in_progress, completed")
	}
	return s, nil
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", param)
	}
	return id, nil
}

// clampLimit ensures limit is within valid bounds.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// clampOffset ensures offset is non-negative.
func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// paginate returns the window of items selected by offset and limit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
