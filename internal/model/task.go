package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a raw string onto a Priority. Anything that is not
// exactly "low", "medium" or "high" comes back as medium; bad input is
// coerced, never rejected.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

type Task struct {
	ID          int64      `json:"id"`
	ListID      int64      `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithList is a task joined with the name of the list it belongs to,
// used by the cross-list dashboard queries.
type TaskWithList struct {
	Task
	ListName string `json:"list_name"`
}

// TaskStats are aggregate counts over every task a user can access.
// Overdue and upcoming both count pending tasks, so the categories
// overlap with pending but not with each other.
type TaskStats struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
	Pending   int `json:"pending_tasks"`
	Overdue   int `json:"overdue_tasks"`
	Upcoming  int `json:"upcoming_tasks"`
}
