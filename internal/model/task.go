package model

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusInTesting  TaskStatus = "in-testing"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every valid status in board-column order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusInTesting,
	TaskStatusDone,
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusInTesting, TaskStatusDone:
		return true
	}
	return false
}

// NormalizeStatus maps unknown or empty values to the default status.
func NormalizeStatus(s string) TaskStatus {
	if st := TaskStatus(s); st.IsValid() {
		return st
	}
	return TaskStatusTodo
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// NormalizePriority maps unknown or empty values to the default priority.
func NormalizePriority(p string) TaskPriority {
	if pr := TaskPriority(p); pr.IsValid() {
		return pr
	}
	return TaskPriorityMedium
}

// Task is a single tracked task. Deadline is a calendar date (YYYY-MM-DD)
// with no time component; nil means no deadline. The owner reference is
// never serialized to clients.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"-"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    *string      `json:"deadline"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Order       int          `json:"order"`
}
