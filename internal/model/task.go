package model

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskPending          TaskStatus = "pending"
	TaskAwaitingApproval TaskStatus = "awaiting_approval"
	TaskCompleted        TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskAwaitingApproval, TaskCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus accepts the stored form as well as the display labels
// ("Awaiting Approval") the dashboards use.
func ParseTaskStatus(input string) (TaskStatus, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "_")
	st := TaskStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid task status: %q", input)
	}
	return st, nil
}

// Label returns the human-readable status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskPending:
		return "Pending"
	case TaskAwaitingApproval:
		return "Awaiting Approval"
	case TaskCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Task is a one-off task or, when TemplateID is set, a materialized
// occurrence of a recurring template.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	AssignedTo  int64      `json:"assigned_to"`
	Status      TaskStatus `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	DueTime     string     `json:"due_time"`
	TemplateID  *int64     `json:"template_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsInstance reports whether the task was spawned from a recurring template.
func (t Task) IsInstance() bool {
	return t.TemplateID != nil
}
