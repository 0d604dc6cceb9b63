package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	dom "taskboard/internal/domain"
	"taskboard/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTodoRepo is an in-memory TodoRepo. The clock advances on every
// create so created_at ordering is deterministic.
type memTodoRepo struct {
	seq   int64
	clock time.Time
	todos map[int64]*dom.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		todos: map[int64]*dom.Todo{},
	}
}

func (m *memTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	t.ID = m.seq
	if t.Status == "" {
		t.Status = dom.StatusTodo
	}
	t.CreatedAt = m.clock
	t.UpdatedAt = m.clock
	t.DeletedAt = nil
	cp := t
	m.todos[t.ID] = &cp
	return t, nil
}

func (m *memTodoRepo) GetByID(_ context.Context, id int64, includeTrashed bool) (dom.Todo, error) {
	t, ok := m.todos[id]
	if !ok || (t.DeletedAt != nil && !includeTrashed) {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return *t, nil
}

func (m *memTodoRepo) List(_ context.Context, f repo.ListFilter) (dom.Page, error) {
	var items []dom.Todo
	for _, t := range m.todos {
		if f.OwnerID != nil && t.UserID != *f.OwnerID {
			continue
		}
		if t.DeletedAt != nil && !f.IncludeTrashed {
			continue
		}
		items = append(items, *t)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	total := len(items)
	start := (f.Page - 1) * f.PerPage
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return dom.Page{Items: items[start:end], Page: f.Page, PerPage: f.PerPage, Total: total}, nil
}

func (m *memTodoRepo) Update(_ context.Context, id int64, patch dom.Todo) (dom.Todo, error) {
	t, ok := m.todos[id]
	if !ok || t.DeletedAt != nil {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Title = patch.Title
	t.Description = patch.Description
	t.UpdatedAt = m.clock
	return *t, nil
}

func (m *memTodoRepo) SetStatus(_ context.Context, id int64, status dom.Status) (dom.Todo, error) {
	t, ok := m.todos[id]
	if !ok || t.DeletedAt != nil {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Status = status
	t.UpdatedAt = m.clock
	return *t, nil
}

func (m *memTodoRepo) SoftDelete(_ context.Context, id int64) error {
	if t, ok := m.todos[id]; ok && t.DeletedAt == nil {
		m.clock = m.clock.Add(time.Minute)
		now := m.clock
		t.DeletedAt = &now
		t.UpdatedAt = now
	}
	return nil
}

func (m *memTodoRepo) Restore(_ context.Context, id int64) error {
	if t, ok := m.todos[id]; ok {
		m.clock = m.clock.Add(time.Minute)
		t.DeletedAt = nil
		t.UpdatedAt = m.clock
	}
	return nil
}

func (m *memTodoRepo) HardDelete(_ context.Context, id int64) error {
	delete(m.todos, id)
	return nil
}

var (
	alice = dom.User{ID: 1, Name: "Alice"}
	bob   = dom.User{ID: 2, Name: "Bob"}
	root  = dom.User{ID: 3, Name: "Root", IsAdmin: true}
)

func newTestService() (*TodoService, *memTodoRepo) {
	r := newMemTodoRepo()
	return NewTodoService(r, nil, 10), r
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "A", "B")
	require.NoError(t, err)

	got, err := svc.fetch(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "B", got.Description)
	assert.Equal(t, dom.StatusTodo, got.Status)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Nil(t, got.DeletedAt)
}

func TestCreateValidation(t *testing.T) {
	svc, r := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		title string
		desc  string
		field string
	}{
		{"empty title", "", "desc", "title"},
		{"whitespace title", "   ", "desc", "title"},
		{"title too long", strings.Repeat("x", 256), "", "title"},
		{"description too long", "ok", strings.Repeat("x", 256), "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, tc.title, tc.desc)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Empty(t, r.todos, "validation failures must not create records")
}

func TestCreateTrimsAndAcceptsBoundary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "  edge  ", strings.Repeat("d", 255))
	require.NoError(t, err)
	assert.Equal(t, "edge", created.Title)
	assert.Len(t, created.Description, 255)

	// Limits count characters, not bytes: 255 two-byte runes are valid.
	multi, err := svc.Create(ctx, alice, strings.Repeat("я", 255), strings.Repeat("é", 255))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("я", 255), multi.Title)

	_, err = svc.Create(ctx, alice, strings.Repeat("я", 256), "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestUpdateAuthorization(t *testing.T) {
	svc, r := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "original", "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, created.ID, "hijacked", "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "original", r.todos[created.ID].Title, "denied update must leave the record unchanged")

	updated, err := svc.Update(ctx, root, created.ID, "by admin", "notes")
	require.NoError(t, err)
	assert.Equal(t, "by admin", updated.Title)
	assert.Equal(t, alice.ID, updated.UserID, "ownership never changes")
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "task", "")
	require.NoError(t, err)

	moved, err := svc.UpdateStatus(ctx, alice, created.ID, dom.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, dom.StatusDone, moved.Status)

	_, err = svc.UpdateStatus(ctx, alice, created.ID, dom.Status("blocked"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	_, err = svc.UpdateStatus(ctx, bob, created.ID, dom.StatusTodo)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "keep me", "details")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, alice, created.ID, dom.StatusInProgress)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, created.ID))

	_, err = svc.fetch(ctx, created.ID, false)
	assert.ErrorIs(t, err, ErrNotFound, "trashed records must not resolve in default lookups")

	restored, err := svc.Restore(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, "keep me", restored.Title)
	assert.Equal(t, "details", restored.Description)
	assert.Equal(t, dom.StatusInProgress, restored.Status)
	assert.Equal(t, alice.ID, restored.UserID)
	assert.True(t, restored.UpdatedAt.After(created.UpdatedAt),
		"restore must return the freshly stamped row")
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "once", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice, created.ID), ErrNotFound)
}

func TestDeleteAuthorization(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "mine", "")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, bob, created.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, root, created.ID))
}

func TestForceDeleteRequiresTrash(t *testing.T) {
	svc, r := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "active", "")
	require.NoError(t, err)

	err = svc.ForceDelete(ctx, alice, created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "force delete on an active record must fail")
	assert.Contains(t, r.todos, created.ID)

	require.NoError(t, svc.Delete(ctx, alice, created.ID))
	require.NoError(t, svc.ForceDelete(ctx, alice, created.ID))
	assert.NotContains(t, r.todos, created.ID)

	assert.ErrorIs(t, svc.ForceDelete(ctx, alice, created.ID), ErrNotFound)
}

func TestRestoreRequiresTrash(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "active", "")
	require.NoError(t, err)

	_, err = svc.Restore(ctx, alice, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, alice, created.ID))
	_, err = svc.Restore(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListScopes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a1, err := svc.Create(ctx, alice, "alice 1", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "bob 1", "")
	require.NoError(t, err)
	a2, err := svc.Create(ctx, alice, "alice 2", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice, a1.ID))

	// Non-admin: own rows only, trashed included, newest first.
	page, err := svc.List(ctx, alice, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, a2.ID, page.Items[0].ID)
	assert.Equal(t, a1.ID, page.Items[1].ID)
	assert.NotNil(t, page.Items[1].DeletedAt)
	for _, item := range page.Items {
		assert.Equal(t, alice.ID, item.UserID)
	}

	// Admin: everyone's rows, trashed included.
	page, err = svc.List(ctx, root, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
}

func TestListPaginationAndOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, alice, "task", "")
		require.NoError(t, err)
	}

	page1, err := svc.List(ctx, alice, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 25, page1.Total)
	assert.Equal(t, 3, page1.LastPage())
	for i := 1; i < len(page1.Items); i++ {
		assert.False(t, page1.Items[i].CreatedAt.After(page1.Items[i-1].CreatedAt),
			"listing must be newest first")
	}

	page3, err := svc.List(ctx, alice, 3)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)
}

func TestListIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, alice, "task", "")
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, alice, 1)
	require.NoError(t, err)
	second, err := svc.List(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
