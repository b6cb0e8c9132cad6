package domain

import "time"

// User is one row of the users table, the system's sole entity.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"password,omitempty" db:"password"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	IsBlocked bool      `json:"is_blocked" db:"is_blocked"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateUserParams holds the fields required to create a user.
// Username, Email and Password are mandatory; the booleans default to false.
type CreateUserParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
	IsBlocked bool   `json:"is_blocked"`
}

// UpdateUserParams is a partial update: only non-nil fields are written.
// The field set doubles as the update whitelist: nothing outside these
// five columns can ever reach a statement.
type UpdateUserParams struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
	IsBlocked *bool   `json:"is_blocked,omitempty"`
}

// Empty reports whether no field is set.
func (p UpdateUserParams) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil &&
		p.IsAdmin == nil && p.IsBlocked == nil
}
