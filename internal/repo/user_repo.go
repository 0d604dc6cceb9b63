package repo

import (
	"context"

	dom "taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, name, username, passwordHash string) (dom.User, error)
	CreateAdmin(ctx context.Context, name, username, passwordHash string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByID returns the user by primary key.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, username, password_hash, is_admin, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, username, password_hash, is_admin, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it. New users are never admins;
// the admin flag is only set by seeding or by hand.
func (r *PGUserRepo) Create(ctx context.Context, name, username, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (name, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, username, password_hash, is_admin, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, name, username, passwordHash).Scan(
		&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	return u, err
}

// CreateAdmin inserts a user with the admin flag set. Used by startup seeding.
func (r *PGUserRepo) CreateAdmin(ctx context.Context, name, username, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (name, username, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, name, username, password_hash, is_admin, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, name, username, passwordHash).Scan(
		&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	return u, err
}
