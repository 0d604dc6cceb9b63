package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"taskboard/internal/cache"
	dom "taskboard/internal/domain"
	"taskboard/internal/policy"
	"taskboard/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

const maxFieldLen = 255

// TodoService runs every use case as validate → authorize → act. The
// current user is always an explicit parameter; there is no ambient
// session state below the handlers.
type TodoService struct {
	repo    repo.TodoRepo
	cache   *cache.BoardCache
	perPage int
	sf      singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.BoardCache, perPage int) *TodoService {
	if perPage <= 0 {
		perPage = 10
	}
	return &TodoService{repo: r, cache: c, perPage: perPage}
}

// List returns one page for user's scope: every row including trashed
// ones for admins, the user's own rows including trashed ones
// otherwise. Trashed rows ride along so the client can split the
// payload into board and trash views without another request.
func (s *TodoService) List(ctx context.Context, user dom.User, page int) (dom.Page, error) {
	if !policy.Can(user, policy.ActionViewAny, dom.Todo{}) {
		return dom.Page{}, ErrForbidden
	}
	if page < 1 {
		page = 1
	}

	f := repo.ListFilter{IncludeTrashed: true, Page: page, PerPage: s.perPage}
	scope := cache.ScopeAll
	if !user.IsAdmin {
		id := user.ID
		f.OwnerID = &id
		scope = cache.ScopeUser(user.ID)
	}

	if s.cache == nil {
		return s.repo.List(ctx, f)
	}
	key := scope + ":" + strconv.Itoa(page)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if p, err := s.cache.GetPage(ctx, scope, page); err == nil && p != nil {
			return *p, nil
		}
		p, err := s.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetPage(ctx, scope, page, p)
		return p, nil
	})
	if err != nil {
		return dom.Page{}, err
	}
	return v.(dom.Page), nil
}

// Create stores a new todo owned by user, starting in the todo column.
func (s *TodoService) Create(ctx context.Context, user dom.User, title, desc string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if verr := validateFields(title, desc); verr != nil {
		return dom.Todo{}, verr
	}
	if !policy.Can(user, policy.ActionCreate, dom.Todo{}) {
		return dom.Todo{}, ErrForbidden
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:      user.ID,
		Title:       title,
		Description: desc,
		Status:      dom.StatusTodo,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidate(ctx, user.ID)
	return t, nil
}

// Update replaces the title and description of an active todo.
func (s *TodoService) Update(ctx context.Context, user dom.User, id int64, title, desc string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if verr := validateFields(title, desc); verr != nil {
		return dom.Todo{}, verr
	}
	existing, err := s.fetch(ctx, id, false)
	if err != nil {
		return dom.Todo{}, err
	}
	if !policy.Can(user, policy.ActionUpdate, existing) {
		return dom.Todo{}, ErrForbidden
	}

	patch := existing
	patch.Title = title
	patch.Description = desc
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidate(ctx, existing.UserID)
	return t, nil
}

// UpdateStatus moves an active todo to another board column.
func (s *TodoService) UpdateStatus(ctx context.Context, user dom.User, id int64, status dom.Status) (dom.Todo, error) {
	if !status.Valid() {
		return dom.Todo{}, &ValidationError{Field: "status", Message: "must be one of todo, in_progress, done"}
	}
	existing, err := s.fetch(ctx, id, false)
	if err != nil {
		return dom.Todo{}, err
	}
	if !policy.Can(user, policy.ActionUpdate, existing) {
		return dom.Todo{}, ErrForbidden
	}

	t, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidate(ctx, existing.UserID)
	return t, nil
}

// Delete moves an active todo to the trash. A trashed id resolves the
// same as a missing one, so deleting twice is a not-found.
func (s *TodoService) Delete(ctx context.Context, user dom.User, id int64) error {
	existing, err := s.fetch(ctx, id, false)
	if err != nil {
		return err
	}
	if !policy.Can(user, policy.ActionDelete, existing) {
		return ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.UserID)
	return nil
}

// Restore brings a trashed todo back to the board.
func (s *TodoService) Restore(ctx context.Context, user dom.User, id int64) (dom.Todo, error) {
	existing, err := s.fetch(ctx, id, true)
	if err != nil {
		return dom.Todo{}, err
	}
	if !existing.Trashed() {
		return dom.Todo{}, ErrNotFound
	}
	if !policy.Can(user, policy.ActionRestore, existing) {
		return dom.Todo{}, ErrForbidden
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return dom.Todo{}, err
	}
	s.invalidate(ctx, existing.UserID)
	// Re-read so the response carries the restore's updated_at stamp.
	return s.fetch(ctx, id, false)
}

// ForceDelete permanently removes a trashed todo. An active record can
// never be force-deleted; it fails as not-found.
func (s *TodoService) ForceDelete(ctx context.Context, user dom.User, id int64) error {
	existing, err := s.fetch(ctx, id, true)
	if err != nil {
		return err
	}
	if !existing.Trashed() {
		return ErrNotFound
	}
	if !policy.Can(user, policy.ActionForceDelete, existing) {
		return ErrForbidden
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.UserID)
	return nil
}

func (s *TodoService) fetch(ctx context.Context, id int64, includeTrashed bool) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id, includeTrashed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) invalidate(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, ownerID)
	}
}

func validateFields(title, desc string) *ValidationError {
	if title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	// Character limits, not byte limits: multibyte input within 255
	// characters is valid, same as the binding tags and the columns.
	if utf8.RuneCountInString(title) > maxFieldLen {
		return &ValidationError{Field: "title", Message: "title must be at most 255 characters"}
	}
	if utf8.RuneCountInString(desc) > maxFieldLen {
		return &ValidationError{Field: "description", Message: "description must be at most 255 characters"}
	}
	return nil
}
