package panel

import (
	"context"
	"errors"
	"regexp"

	"adminpanel/m/client"
	"adminpanel/m/domain"
)

// Client-side rules only; the server does not enforce any of these beyond
// requiring the three mandatory fields.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrNoChanges        = errors.New("no fields changed")
)

// CreateForm is the create-user form minus its rendering.
type CreateForm struct {
	Username  string
	Email     string
	Password  string
	IsAdmin   bool
	IsBlocked bool
}

// Validate applies the form's input rules.
func (f CreateForm) Validate() error {
	if len(f.Username) < 3 {
		return ErrUsernameTooShort
	}
	if !emailRE.MatchString(f.Email) {
		return ErrInvalidEmail
	}
	if len(f.Password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

// Submit validates the form and creates the user.
func (f CreateForm) Submit(ctx context.Context, api *client.Client) (*domain.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return api.CreateUser(ctx, domain.CreateUserParams{
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password,
		IsAdmin:   f.IsAdmin,
		IsBlocked: f.IsBlocked,
	})
}

// EditForm is the edit-user form; only set fields are submitted, as a
// partial update.
type EditForm struct {
	ID     int64
	Fields domain.UpdateUserParams
}

// Validate requires at least one changed field and checks the same input
// rules as the create form for whichever fields are present.
func (f EditForm) Validate() error {
	if f.Fields.Empty() {
		return ErrNoChanges
	}
	if f.Fields.Username != nil && len(*f.Fields.Username) < 3 {
		return ErrUsernameTooShort
	}
	if f.Fields.Email != nil && !emailRE.MatchString(*f.Fields.Email) {
		return ErrInvalidEmail
	}
	if f.Fields.Password != nil && len(*f.Fields.Password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

// Submit validates the form and applies the partial update.
func (f EditForm) Submit(ctx context.Context, api *client.Client) (*domain.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return api.UpdateUser(ctx, f.ID, f.Fields)
}
