package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config configures the task module's storage.
type Config struct {
	Driver string
	DBPath string
	Debug  bool
}

// TaskModule owns task storage and exposes the task and comment services.
type TaskModule struct {
	cfg      Config
	db       *gorm.DB
	store    Store
	users    user.Repository
	tasks    *TaskService
	comments *CommentService
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.DependentModule       = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a new TaskModule.
func NewModule(cfg Config, logger types.Logger) *TaskModule {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &TaskModule{
		cfg:    cfg,
		logger: logger.WithModule("task"),
	}
}

// NewModuleWithServices creates a TaskModule around prebuilt services.
// Start keeps them instead of opening storage.
func NewModuleWithServices(tasks *TaskService, comments *CommentService, logger types.Logger) *TaskModule {
	return &TaskModule{
		cfg:      Config{Driver: DriverMemory},
		tasks:    tasks,
		comments: comments,
		logger:   logger.WithModule("task"),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.users = auth.NewUserAdapter(container)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"create-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.createTask)
		}},
		{"get-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-task", json.Unmarshal, json.Marshal, m.getTask)
		}},
		{"list-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{"update-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{"update-task-status", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus)
		}},
		{"assign-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "assign-task", json.Unmarshal, json.Marshal, m.assignTask)
		}},
		{"complete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "complete-task", json.Unmarshal, json.Marshal, m.completeTask)
		}},
		{"delete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask)
		}},
		{"list-comments", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-comments", json.Unmarshal, json.Marshal, m.listComments)
		}},
		{"create-comment", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-comment", json.Unmarshal, json.Marshal, m.createComment)
		}},
		{"delete-comment", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-comment", json.Unmarshal, json.Marshal, m.deleteComment)
		}},
	}

	names := make([]string, 0, len(services))
	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
		names = append(names, svc.name)
	}

	m.logger.Info("Registered services", "services", names)
	return nil
}

// Start opens storage and builds the services.
func (m *TaskModule) Start(_ context.Context) error {
	if m.tasks != nil && m.comments != nil {
		m.logger.Info("Module started", "storage", "injected")
		return nil
	}
	if m.users == nil {
		return fmt.Errorf("auth dependency not set")
	}

	switch m.cfg.Driver {
	case DriverMemory:
		m.store = NewMemoryStore()
	case DriverSQLite:
		db, err := openDatabase(m.cfg)
		if err != nil {
			return err
		}
		store := NewGormStore(db, m.users)
		if err := store.Migrate(); err != nil {
			return err
		}
		m.db = db
		m.store = store
	default:
		return fmt.Errorf("unknown storage driver %q", m.cfg.Driver)
	}

	m.tasks = NewTaskService(m.store.Tasks(), m.users)
	m.comments = NewCommentService(m.store.Comments(), m.store.Tasks(), m.users)

	m.logger.Info("Module started", "driver", m.cfg.Driver, "database", m.cfg.DBPath)
	return nil
}

// Stop closes the database connection.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				m.logger.Warn("Failed to close database", "error", err)
			}
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.tasks == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "services not initialized",
		}
	}
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"driver": m.cfg.Driver},
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":   m.cfg.Driver,
			"database": m.cfg.DBPath,
		},
	}
}

func openDatabase(cfg Config) (*gorm.DB, error) {
	level := gormlogger.Silent
	if cfg.Debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
