package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

// GormStore persists tasks and comments through GORM.
// Users are not stored here; they are resolved through the injected user repository.
type GormStore struct {
	db    *gorm.DB
	users user.Repository
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, users user.Repository) *GormStore {
	return &GormStore{db: db, users: users}
}

// Migrate creates or updates the task tables.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&taskRecord{}, &commentRecord{}); err != nil {
		return fmt.Errorf("failed to migrate task tables: %w", err)
	}
	return nil
}

// Tasks returns the task repository view of the store.
func (s *GormStore) Tasks() domain.TaskRepository {
	return gormTasks{s}
}

// Comments returns the comment repository view of the store.
func (s *GormStore) Comments() domain.CommentRepository {
	return gormComments{s}
}

// userCache memoizes user lookups for the duration of one repository call.
type userCache struct {
	users user.Repository
	seen  map[int64]user.User
}

func (s *GormStore) newUserCache() *userCache {
	return &userCache{users: s.users, seen: make(map[int64]user.User)}
}

// get resolves a user id. Ids the directory no longer knows are kept as bare references.
func (c *userCache) get(ctx context.Context, id int64) (user.User, error) {
	if u, ok := c.seen[id]; ok {
		return u, nil
	}
	u, err := c.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	resolved := user.User{ID: id}
	if u != nil {
		resolved = *u
	}
	c.seen[id] = resolved
	return resolved, nil
}

func (s *GormStore) toComment(ctx context.Context, cache *userCache, rec commentRecord) (domain.Comment, error) {
	author, err := cache.get(ctx, rec.AuthorID)
	if err != nil {
		return domain.Comment{}, err
	}
	return domain.Comment{
		ID:        rec.ID,
		Content:   rec.Content,
		Author:    author,
		TaskID:    rec.TaskID,
		CreatedAt: rec.CreatedAt.UTC(),
	}, nil
}

// toTasks converts records into hydrated tasks, loading all their comments in one query.
func (s *GormStore) toTasks(ctx context.Context, db *gorm.DB, records []taskRecord) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(records))
	if len(records) == 0 {
		return tasks, nil
	}

	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	var commentRecs []commentRecord
	if err := db.Where("task_id IN ?", ids).Order(newestFirst).Find(&commentRecs).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	cache := s.newUserCache()
	byTask := make(map[int64][]domain.Comment, len(records))
	for _, rec := range commentRecs {
		c, err := s.toComment(ctx, cache, rec)
		if err != nil {
			return nil, err
		}
		byTask[rec.TaskID] = append(byTask[rec.TaskID], c)
	}

	for _, rec := range records {
		creator, err := cache.get(ctx, rec.CreatedByID)
		if err != nil {
			return nil, err
		}
		t := domain.Task{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Status:      domain.Status(rec.Status),
			CreatedAt:   rec.CreatedAt.UTC(),
			UpdatedAt:   rec.UpdatedAt.UTC(),
			CreatedBy:   creator,
			Comments:    byTask[rec.ID],
		}
		if t.Comments == nil {
			t.Comments = []domain.Comment{}
		}
		if rec.AssignedToID != nil {
			assignee, err := cache.get(ctx, *rec.AssignedToID)
			if err != nil {
				return nil, err
			}
			t.AssignedTo = &assignee
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *GormStore) findTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	db := s.db.WithContext(ctx)
	q := db.Order(newestFirst)
	if query != "" {
		q = q.Where(query, args...)
	}

	var records []taskRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return s.toTasks(ctx, db, records)
}

type gormTasks struct {
	s *GormStore
}

func (r gormTasks) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	db := r.s.db.WithContext(ctx)

	var rec taskRecord
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	tasks, err := r.s.toTasks(ctx, db, []taskRecord{rec})
	if err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (r gormTasks) GetAll(ctx context.Context) ([]domain.Task, error) {
	return r.s.findTasks(ctx, "")
}

func (r gormTasks) GetByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return r.s.findTasks(ctx, "created_by_id = ? OR assigned_to_id = ?", userID, userID)
}

func (r gormTasks) GetAssignedToUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return r.s.findTasks(ctx, "assigned_to_id = ?", userID)
}

func (r gormTasks) GetCreatedByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return r.s.findTasks(ctx, "created_by_id = ?", userID)
}

func (r gormTasks) Save(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	rec := taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedByID: t.CreatedBy.ID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.AssignedTo != nil {
		id := t.AssignedTo.ID
		rec.AssignedToID = &id
	}

	err := r.s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rec.ID == 0 {
			return tx.Create(&rec).Error
		}
		var count int64
		if err := tx.Model(&taskRecord{}).Where("id = ?", rec.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("task %d: %w", rec.ID, domain.ErrUnknownID)
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return r.GetByID(ctx, rec.ID)
}

func (r gormTasks) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&taskRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return deleted, nil
}

type gormComments struct {
	s *GormStore
}

func (r gormComments) GetByTaskID(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	var records []commentRecord
	if err := r.s.db.WithContext(ctx).Where("task_id = ?", taskID).Order(newestFirst).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	cache := r.s.newUserCache()
	comments := make([]domain.Comment, 0, len(records))
	for _, rec := range records {
		c, err := r.s.toComment(ctx, cache, rec)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func (r gormComments) Save(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	rec := commentRecord{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.Author.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
	}

	err := r.s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&taskRecord{}).Where("id = ?", rec.TaskID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &domain.TaskNotFoundError{ID: rec.TaskID}
		}

		if rec.ID == 0 {
			return tx.Create(&rec).Error
		}
		if err := tx.Model(&commentRecord{}).Where("id = ?", rec.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("comment %d: %w", rec.ID, domain.ErrUnknownID)
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrReferenceNotFound) || errors.Is(err, domain.ErrUnknownID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	saved, err := r.s.toComment(ctx, r.s.newUserCache(), rec)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r gormComments) Delete(ctx context.Context, taskID, id int64) (bool, error) {
	result := r.s.db.WithContext(ctx).Delete(&commentRecord{}, "id = ? AND task_id = ?", id, taskID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
