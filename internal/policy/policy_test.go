package policy

import (
	"testing"

	"taskboard/internal/domain"

	"github.com/stretchr/testify/assert"
)

var targetActions = []Action{ActionView, ActionUpdate, ActionDelete, ActionRestore, ActionForceDelete}

func TestCanOwner(t *testing.T) {
	owner := domain.User{ID: 7}
	todo := domain.Todo{ID: 1, UserID: 7}

	for _, action := range targetActions {
		assert.True(t, Can(owner, action, todo), "owner denied %s", action)
	}
}

func TestCanNonOwnerDenied(t *testing.T) {
	stranger := domain.User{ID: 8}
	todo := domain.Todo{ID: 1, UserID: 7}

	for _, action := range targetActions {
		assert.False(t, Can(stranger, action, todo), "non-owner allowed %s", action)
	}
}

func TestCanAdminAlwaysAllowed(t *testing.T) {
	admin := domain.User{ID: 99, IsAdmin: true}
	todo := domain.Todo{ID: 1, UserID: 7}

	for _, action := range targetActions {
		assert.True(t, Can(admin, action, todo), "admin denied %s", action)
	}
}

func TestCanUntargetedActions(t *testing.T) {
	for _, user := range []domain.User{{ID: 1}, {ID: 2, IsAdmin: true}} {
		assert.True(t, Can(user, ActionViewAny, domain.Todo{}))
		assert.True(t, Can(user, ActionCreate, domain.Todo{}))
	}
}

func TestCanUnknownAction(t *testing.T) {
	admin := domain.User{ID: 1, IsAdmin: true}
	assert.False(t, Can(admin, Action("publish"), domain.Todo{UserID: 1}))
}
