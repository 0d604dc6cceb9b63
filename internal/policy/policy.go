// Package policy holds the authorization rules for todos as a plain
// decision function, consulted by the service before every operation.
package policy

import "taskboard/internal/domain"

// Action is something a user can attempt on todos.
type Action string

const (
	ActionViewAny     Action = "viewAny"
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRestore     Action = "restore"
	ActionForceDelete Action = "forceDelete"
)

// Can reports whether user may perform action on todo. viewAny and
// create need no target and ignore todo; every other action requires
// ownership or admin.
func Can(user domain.User, action Action, todo domain.Todo) bool {
	switch action {
	case ActionViewAny, ActionCreate:
		return true
	case ActionView, ActionUpdate, ActionDelete, ActionRestore, ActionForceDelete:
		return user.ID == todo.UserID || user.IsAdmin
	}
	return false
}
