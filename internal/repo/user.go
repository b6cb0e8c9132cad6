package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"adminpanel/m/domain"
)

const userColumns = `id, username, email, password, is_admin, is_blocked, created_at`

// UserRepo translates user operations into parameterized statements against
// the users table. It holds no state beyond the shared connection pool.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo returns a UserRepo backed by db.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and returns the persisted row including the
// database-assigned id. created_at is stamped here, once, and never
// rewritten by any update path.
func (r *UserRepo) Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`INSERT INTO users (username, email, password, is_admin, is_blocked, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING `+userColumns,
		params.Username, params.Email, params.Password, params.IsAdmin, params.IsBlocked, time.Now().UTC())
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// List returns every user ordered by id. Display ordering is a presentation
// concern; id order just keeps the sequence deterministic.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

// GetByID returns a single user, or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetByEmail looks up a user by email, case-insensitively. Used by the
// login route; the API surface itself is id-based.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// Update applies a partial update and returns the updated row. Only non-nil
// fields in params are written; the SET clause is assembled from that fixed
// field set, so no caller-supplied name ever reaches the statement.
// Returns ErrNoFields when params is empty and ErrNotFound when no row
// matches.
func (r *UserRepo) Update(ctx context.Context, id int64, params domain.UpdateUserParams) (*domain.User, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Username != nil {
		add("username", *params.Username)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Password != nil {
		add("password", *params.Password)
	}
	if params.IsAdmin != nil {
		add("is_admin", *params.IsAdmin)
	}
	if params.IsBlocked != nil {
		add("is_blocked", *params.IsBlocked)
	}
	if len(set) == 0 {
		return nil, ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(set, ", "), len(args))

	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// Delete removes a user and returns the deleted row's prior state, or
// ErrNotFound when no row matched. Destructive and immediate; there is no
// soft delete.
func (r *UserRepo) Delete(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// Now returns the engine's current timestamp. Used by the liveness probe.
func (r *UserRepo) Now(ctx context.Context) (string, error) {
	var now string
	if err := r.db.GetContext(ctx, &now, `SELECT CURRENT_TIMESTAMP`); err != nil {
		return "", mapErr(err)
	}
	return now, nil
}
