package task

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// MemoryStore keeps tasks and comments in process memory.
type MemoryStore struct {
	mu            sync.RWMutex
	tasks         map[int64]domain.Task
	comments      map[int64]domain.Comment
	nextTaskID    int64
	nextCommentID int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[int64]domain.Task),
		comments: make(map[int64]domain.Comment),
	}
}

// Tasks returns the task repository view of the store.
func (s *MemoryStore) Tasks() domain.TaskRepository {
	return memoryTasks{s}
}

// Comments returns the comment repository view of the store.
func (s *MemoryStore) Comments() domain.CommentRepository {
	return memoryComments{s}
}

// hydrate returns a deep copy of t with its comments attached. Callers hold s.mu.
func (s *MemoryStore) hydrate(t domain.Task) domain.Task {
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		t.AssignedTo = &assignee
	}
	t.Comments = s.commentsOf(t.ID)
	return t
}

func (s *MemoryStore) commentsOf(taskID int64) []domain.Comment {
	result := make([]domain.Comment, 0)
	for _, c := range s.comments {
		if c.TaskID == taskID {
			result = append(result, c)
		}
	}
	sortCommentsNewestFirst(result)
	return result
}

func (s *MemoryStore) filterTasks(keep func(domain.Task) bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			result = append(result, s.hydrate(t))
		}
	}
	sortTasksNewestFirst(result)
	return result
}

type memoryTasks struct {
	s *MemoryStore
}

func (r memoryTasks) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, found := r.s.tasks[id]
	if !found {
		return nil, nil
	}
	hydrated := r.s.hydrate(t)
	return &hydrated, nil
}

func (r memoryTasks) GetAll(_ context.Context) ([]domain.Task, error) {
	return r.s.filterTasks(func(domain.Task) bool { return true }), nil
}

func (r memoryTasks) GetByUser(_ context.Context, userID int64) ([]domain.Task, error) {
	return r.s.filterTasks(func(t domain.Task) bool { return t.InvolvesUser(userID) }), nil
}

func (r memoryTasks) GetAssignedToUser(_ context.Context, userID int64) ([]domain.Task, error) {
	return r.s.filterTasks(func(t domain.Task) bool {
		return t.AssignedTo != nil && t.AssignedTo.ID == userID
	}), nil
}

func (r memoryTasks) GetCreatedByUser(_ context.Context, userID int64) ([]domain.Task, error) {
	return r.s.filterTasks(func(t domain.Task) bool { return t.CreatedBy.ID == userID }), nil
}

func (r memoryTasks) Save(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *t
	stored.Comments = nil
	if stored.AssignedTo != nil {
		assignee := *stored.AssignedTo
		stored.AssignedTo = &assignee
	}

	if stored.ID == 0 {
		r.s.nextTaskID++
		stored.ID = r.s.nextTaskID
	} else if _, found := r.s.tasks[stored.ID]; !found {
		return nil, fmt.Errorf("task %d: %w", stored.ID, domain.ErrUnknownID)
	}

	r.s.tasks[stored.ID] = stored
	hydrated := r.s.hydrate(stored)
	return &hydrated, nil
}

func (r memoryTasks) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, found := r.s.tasks[id]; !found {
		return false, nil
	}
	delete(r.s.tasks, id)
	for commentID, c := range r.s.comments {
		if c.TaskID == id {
			delete(r.s.comments, commentID)
		}
	}
	return true, nil
}

type memoryComments struct {
	s *MemoryStore
}

func (r memoryComments) GetByTaskID(_ context.Context, taskID int64) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.commentsOf(taskID), nil
}

func (r memoryComments) Save(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, found := r.s.tasks[c.TaskID]; !found {
		return nil, &domain.TaskNotFoundError{ID: c.TaskID}
	}

	stored := *c
	if stored.ID == 0 {
		r.s.nextCommentID++
		stored.ID = r.s.nextCommentID
	} else if _, found := r.s.comments[stored.ID]; !found {
		return nil, fmt.Errorf("comment %d: %w", stored.ID, domain.ErrUnknownID)
	}

	r.s.comments[stored.ID] = stored
	saved := stored
	return &saved, nil
}

func (r memoryComments) Delete(_ context.Context, taskID, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, found := r.s.comments[id]
	if !found || c.TaskID != taskID {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}

// MemoryUsers is a fixed user directory, used when tasks run without the auth module and in tests.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[int64]user.User
}

var _ user.Repository = (*MemoryUsers)(nil)

// NewMemoryUsers creates a directory holding the given users.
func NewMemoryUsers(users ...user.User) *MemoryUsers {
	m := &MemoryUsers{users: make(map[int64]user.User, len(users))}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

// Add inserts or replaces a user.
func (m *MemoryUsers) Add(u user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// GetByID returns nil, nil when the user is unknown.
func (m *MemoryUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, found := m.users[id]
	if !found {
		return nil, nil
	}
	return &u, nil
}

// GetAll returns every user ordered by id.
func (m *MemoryUsers) GetAll(_ context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	slices.SortFunc(result, func(a, b user.User) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}
