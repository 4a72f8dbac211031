package task

import (
	"time"
)

// taskRecord is the GORM model for the tasks table.
type taskRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"size:200;not null"`
	Description  string    `gorm:"type:text;not null"`
	Status       string    `gorm:"size:20;not null;index"`
	CreatedByID  int64     `gorm:"not null;index"`
	AssignedToID *int64    `gorm:"index"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

// commentRecord is the GORM model for the task_comments table.
type commentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	TaskID    int64     `gorm:"not null;index"`
	AuthorID  int64     `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

// TableName returns the table name for commentRecord.
func (commentRecord) TableName() string {
	return "task_comments"
}
