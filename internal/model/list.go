package model

import "time"

type TaskList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListSummary is a list as seen by a particular user: owner display
// name plus whether that user is the owner.
type TaskListSummary struct {
	TaskList
	OwnerName string `json:"owner_name"`
	IsOwner   bool   `json:"is_owner"`
}

type ListShare struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ShareUser is a row of a list's share roster.
type ShareUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
