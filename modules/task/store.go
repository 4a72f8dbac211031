package task

import (
	"cmp"
	"slices"

	domain "github.com/example/task-tracker/domain/task"
)

// Store bundles the repositories backed by one persistence engine.
type Store interface {
	Tasks() domain.TaskRepository
	Comments() domain.CommentRepository
}

func sortTasksNewestFirst(tasks []domain.Task) {
	slices.SortFunc(tasks, func(a, b domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func sortCommentsNewestFirst(comments []domain.Comment) {
	slices.SortFunc(comments, func(a, b domain.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
