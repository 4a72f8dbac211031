package task

import (
	"time"

	"github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono/pkg/types"
)

var (
	alice = user.User{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Smith", Email: "alice@example.com"}
	bob   = user.User{ID: 2, Username: "bob", FirstName: "Bob", LastName: "Jones", Email: "bob@example.com"}
)

// stepClock advances by one second on every reading.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store    *MemoryStore
	users    *MemoryUsers
	clock    *stepClock
	tasks    *TaskService
	comments *CommentService
}

func newFixture() *fixture {
	store := NewMemoryStore()
	users := NewMemoryUsers(alice, bob)
	clock := newStepClock()
	return &fixture{
		store:    store,
		users:    users,
		clock:    clock,
		tasks:    NewTaskService(store.Tasks(), users, WithClock(clock.Now)),
		comments: NewCommentService(store.Comments(), store.Tasks(), users, WithClock(clock.Now)),
	}
}

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

func ptr[T any](v T) *T {
	return &v
}
