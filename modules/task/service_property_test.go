package task

import (
	"context"
	"errors"
	"testing"

	domain "github.com/example/task-tracker/domain/task"
	"pgregory.net/rapid"
)

// TestPropertyEmptyUpdateOnlyAdvancesUpdatedAt verifies that an update with no
// fields leaves every field but UpdatedAt unchanged.
func TestPropertyEmptyUpdateOnlyAdvancesUpdatedAt(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		title := rapid.StringMatching(`[A-Za-z ]{1,40}`).Draw(rt, "title")
		desc := rapid.String().Draw(rt, "description")
		assignee := rapid.SampledFrom([]int64{0, alice.ID, bob.ID}).Draw(rt, "assignee")

		created, err := f.tasks.CreateTask(ctx, CreateTaskParams{
			Title: title, Description: desc, CreatedByID: alice.ID, AssignedToID: assignee,
		})
		if err != nil {
			rt.Fatalf("CreateTask failed: %v", err)
		}

		updated, err := f.tasks.UpdateTask(ctx, created.ID, UpdateTaskParams{})
		if err != nil {
			rt.Fatalf("UpdateTask failed: %v", err)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			rt.Fatalf("UpdatedAt = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
		}
		if updated.Title != created.Title || updated.Description != created.Description ||
			updated.Status != created.Status || !updated.CreatedAt.Equal(created.CreatedAt) {
			rt.Fatalf("fields changed: got %+v, had %+v", updated, created)
		}
		if updated.IsAssigned() != created.IsAssigned() {
			rt.Fatalf("assignment changed: got %v, had %v", updated.AssignedTo, created.AssignedTo)
		}
	})
}

// TestPropertyAssignZeroClears verifies that assigning user 0 always leaves the task unassigned.
func TestPropertyAssignZeroClears(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		assignee := rapid.SampledFrom([]int64{0, alice.ID, bob.ID}).Draw(rt, "assignee")
		created, err := f.tasks.CreateTask(ctx, CreateTaskParams{Title: "t", CreatedByID: bob.ID, AssignedToID: assignee})
		if err != nil {
			rt.Fatalf("CreateTask failed: %v", err)
		}

		cleared, err := f.tasks.AssignTask(ctx, created.ID, 0)
		if err != nil {
			rt.Fatalf("AssignTask failed: %v", err)
		}
		if cleared.AssignedTo != nil {
			rt.Fatalf("AssignedTo = %+v, want nil", cleared.AssignedTo)
		}
	})
}

// TestPropertyUnknownCreatorPersistsNothing verifies that a failed create never stores a task.
func TestPropertyUnknownCreatorPersistsNothing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		creator := rapid.Int64Range(3, 1_000_000).Draw(rt, "creator")
		_, err := f.tasks.CreateTask(ctx, CreateTaskParams{Title: "t", CreatedByID: creator})

		var userErr *domain.UserNotFoundError
		if !errors.As(err, &userErr) || userErr.ID != creator {
			rt.Fatalf("err = %v, want user %d not found", err, creator)
		}

		all, err := f.tasks.GetAllTasks(ctx)
		if err != nil {
			rt.Fatalf("GetAllTasks failed: %v", err)
		}
		if len(all) != 0 {
			rt.Fatalf("stored %d tasks, want 0", len(all))
		}
	})
}

// TestPropertyDeleteUnknownReturnsFalse verifies that deleting ids never issued reports false.
func TestPropertyDeleteUnknownReturnsFalse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		n := rapid.IntRange(0, 5).Draw(rt, "num_tasks")
		for i := 0; i < n; i++ {
			if _, err := f.tasks.CreateTask(ctx, CreateTaskParams{Title: "t", CreatedByID: alice.ID}); err != nil {
				rt.Fatalf("CreateTask failed: %v", err)
			}
		}

		id := rapid.Int64Range(int64(n)+1, 1_000_000).Draw(rt, "id")
		deleted, err := f.tasks.DeleteTask(ctx, id)
		if err != nil {
			rt.Fatalf("DeleteTask failed: %v", err)
		}
		if deleted {
			rt.Fatalf("DeleteTask(%d) = true, want false", id)
		}

		all, err := f.tasks.GetAllTasks(ctx)
		if err != nil {
			rt.Fatalf("GetAllTasks failed: %v", err)
		}
		if len(all) != n {
			rt.Fatalf("stored %d tasks, want %d", len(all), n)
		}
	})
}

// TestPropertyCommentOnMissingTaskPersistsNothing verifies that comments never attach to absent tasks.
func TestPropertyCommentOnMissingTaskPersistsNothing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		taskID := rapid.Int64Range(1, 1_000_000).Draw(rt, "task_id")
		content := rapid.StringMatching(`[a-z ]{1,30}`).Draw(rt, "content")

		_, err := f.comments.CreateComment(ctx, taskID, content, alice.ID)
		var taskErr *domain.TaskNotFoundError
		if !errors.As(err, &taskErr) || taskErr.ID != taskID {
			rt.Fatalf("err = %v, want task %d not found", err, taskID)
		}

		comments, err := f.comments.GetTaskComments(ctx, taskID)
		if err != nil {
			rt.Fatalf("GetTaskComments failed: %v", err)
		}
		if len(comments) != 0 {
			rt.Fatalf("stored %d comments, want 0", len(comments))
		}
	})
}

// TestPropertyStatusRoundTrip verifies that any supported status is read back as written.
func TestPropertyStatusRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		created, err := f.tasks.CreateTask(ctx, CreateTaskParams{Title: "t", CreatedByID: alice.ID})
		if err != nil {
			rt.Fatalf("CreateTask failed: %v", err)
		}

		status := rapid.SampledFrom(domain.Statuses).Draw(rt, "status")
		if _, err := f.tasks.UpdateTaskStatus(ctx, created.ID, status); err != nil {
			rt.Fatalf("UpdateTaskStatus failed: %v", err)
		}

		stored, err := f.tasks.GetTaskByID(ctx, created.ID)
		if err != nil {
			rt.Fatalf("GetTaskByID failed: %v", err)
		}
		if stored.Status != status {
			rt.Fatalf("Status = %q, want %q", stored.Status, status)
		}
	})
}
