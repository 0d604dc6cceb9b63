package domain

import "time"

// Status is the board column a todo lives in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns the valid statuses in board column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      Status

	// OwnerName is filled by list/get queries (join on users) so board
	// cards can show who a task belongs to. Not a column on todos.
	OwnerName string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Trashed reports whether the todo is soft-deleted.
func (t Todo) Trashed() bool { return t.DeletedAt != nil }
