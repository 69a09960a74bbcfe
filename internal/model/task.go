package model

import (
	"time"

	"github.com/google/uuid"
)

// Default task statuses. Status is stored as plain text so deployments can
// extend the set; create requests are validated against these defaults.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Recurrence types.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string     `gorm:"not null"`
	Description string
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate     *time.Time
	Status      string `gorm:"not null;default:todo"`
	Priority    string `gorm:"not null;default:medium;check:priority IN ('low', 'medium', 'high')"`
	Bookmarked  bool   `gorm:"not null;default:false"`

	RecurrenceType     string     `gorm:"not null;default:none;check:recurrence_type IN ('none', 'daily', 'weekly', 'monthly')"`
	RecurrenceInterval int        `gorm:"not null;default:1"`
	RecurrenceEndDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Project     Project      `gorm:"foreignKey:ProjectID"`
	Assignee    *User        `gorm:"foreignKey:AssignedTo"`
	Creator     User         `gorm:"foreignKey:CreatedBy"`
	Reminders   []Reminder   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// Reminder types.
const (
	ReminderEmail        = "email"
	ReminderNotification = "notification"
)

type Reminder struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Time      time.Time `gorm:"not null"`
	Type      string    `gorm:"not null;default:notification;check:type IN ('email', 'notification')"`
	Sent      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename   string    `gorm:"not null"`
	URL        string    `gorm:"not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// Recurring reports whether completing the task should spawn a successor.
func (t *Task) Recurring() bool {
	return t.RecurrenceType != "" && t.RecurrenceType != RecurrenceNone
}

// NextDueDate computes the due date of the next occurrence. Returns false when
// the task has no due date or the advance would pass the recurrence end date.
func (t *Task) NextDueDate() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	interval := t.RecurrenceInterval
	if interval < 1 {
		interval = 1
	}
	var next time.Time
	switch t.RecurrenceType {
	case RecurrenceDaily:
		next = t.DueDate.AddDate(0, 0, interval)
	case RecurrenceWeekly:
		next = t.DueDate.AddDate(0, 0, 7*interval)
	case RecurrenceMonthly:
		next = t.DueDate.AddDate(0, interval, 0)
	default:
		return time.Time{}, false
	}
	if t.RecurrenceEndDate != nil && next.After(*t.RecurrenceEndDate) {
		return time.Time{}, false
	}
	return next, true
}
