package repo

import (
	"context"
	"strconv"
	"time"

	dom "taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter narrows a todo listing. OwnerID nil means all users.
type ListFilter struct {
	OwnerID        *int64
	IncludeTrashed bool
	Page           int
	PerPage        int
}

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	// GetByID resolves a todo. Trashed rows only match when includeTrashed is set.
	GetByID(ctx context.Context, id int64, includeTrashed bool) (dom.Todo, error)
	List(ctx context.Context, f ListFilter) (dom.Page, error)
	Update(ctx context.Context, id int64, patch dom.Todo) (dom.Todo, error)
	SetStatus(ctx context.Context, id int64, status dom.Status) (dom.Todo, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `t.id, t.user_id, t.title, t.description, t.status, u.name,
		t.created_at, t.updated_at, t.deleted_at`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		WITH ins AS (
			INSERT INTO todos (user_id, title, description, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, title, description, status, created_at, updated_at, deleted_at
		)
		SELECT t.id, t.user_id, t.title, t.description, t.status, u.name,
			t.created_at, t.updated_at, t.deleted_at
		FROM ins t JOIN users u ON u.id = t.user_id`
	status := t.Status
	if status == "" {
		status = dom.StatusTodo
	}
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Description, status).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Status, &out.OwnerName,
		&out.CreatedAt, &out.UpdatedAt, &out.DeletedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64, includeTrashed bool) (dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos t JOIN users u ON u.id = t.user_id
		WHERE t.id = $1`
	if !includeTrashed {
		query += ` AND t.deleted_at IS NULL`
	}
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.OwnerName,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) List(ctx context.Context, f ListFilter) (dom.Page, error) {
	where := "WHERE TRUE"
	args := []any{}
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		where += " AND t.user_id = $1"
	}
	if !f.IncludeTrashed {
		where += " AND t.deleted_at IS NULL"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM todos t ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return dom.Page{}, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * f.PerPage
	limitArgs := append(args, f.PerPage, offset)
	n := len(args)
	query := `
		SELECT ` + todoColumns + `
		FROM todos t JOIN users u ON u.id = t.user_id
		` + where + `
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	rows, err := r.db.Query(ctx, query, limitArgs...)
	if err != nil {
		return dom.Page{}, err
	}
	defer rows.Close()
	var items []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.OwnerName,
			&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return dom.Page{}, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return dom.Page{}, err
	}
	return dom.Page{Items: items, Page: page, PerPage: f.PerPage, Total: total}, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		WITH upd AS (
			UPDATE todos SET title = $2, description = $3, updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING id, user_id, title, description, status, created_at, updated_at, deleted_at
		)
		SELECT t.id, t.user_id, t.title, t.description, t.status, u.name,
			t.created_at, t.updated_at, t.deleted_at
		FROM upd t JOIN users u ON u.id = t.user_id`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.OwnerName,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) SetStatus(ctx context.Context, id int64, status dom.Status) (dom.Todo, error) {
	query := `
		WITH upd AS (
			UPDATE todos SET status = $2, updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING id, user_id, title, description, status, created_at, updated_at, deleted_at
		)
		SELECT t.id, t.user_id, t.title, t.description, t.status, u.name,
			t.created_at, t.updated_at, t.deleted_at
		FROM upd t JOIN users u ON u.id = t.user_id`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.OwnerName,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`UPDATE todos SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, now)
	return err
}

func (r *PGTodoRepo) Restore(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE todos SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`,
		id)
	return err
}

func (r *PGTodoRepo) HardDelete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}
