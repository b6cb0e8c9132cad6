package panel_test

import (
	"context"
	"errors"
	"testing"

	"adminpanel/m/domain"
	"adminpanel/m/panel"
)

func TestCreateForm_Validate(t *testing.T) {
	cases := []struct {
		name string
		form panel.CreateForm
		want error
	}{
		{"valid", panel.CreateForm{Username: "alice", Email: "a@x.com", Password: "longenough1"}, nil},
		{"short username", panel.CreateForm{Username: "al", Email: "a@x.com", Password: "longenough1"}, panel.ErrUsernameTooShort},
		{"bad email", panel.CreateForm{Username: "alice", Email: "not-an-email", Password: "longenough1"}, panel.ErrInvalidEmail},
		{"missing tld", panel.CreateForm{Username: "alice", Email: "a@x", Password: "longenough1"}, panel.ErrInvalidEmail},
		{"short password", panel.CreateForm{Username: "alice", Email: "a@x.com", Password: "short"}, panel.ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.form.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateForm_Submit(t *testing.T) {
	_, c, _ := newTestPanel(t)

	form := panel.CreateForm{Username: "alice", Email: "a@x.com", Password: "longenough1"}
	user, err := form.Submit(context.Background(), c)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" || user.IsAdmin || user.IsBlocked {
		t.Fatalf("unexpected created user: %+v", user)
	}
}

func TestEditForm_Validate(t *testing.T) {
	if err := (panel.EditForm{ID: 1}).Validate(); !errors.Is(err, panel.ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}

	bad := "nope"
	form := panel.EditForm{ID: 1, Fields: domain.UpdateUserParams{Email: &bad}}
	if err := form.Validate(); !errors.Is(err, panel.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestEditForm_Submit_PartialUpdate(t *testing.T) {
	_, c, users := newTestPanel(t)
	seeded := seedUsers(t, users, "alice")

	newName := "alice2"
	form := panel.EditForm{ID: seeded[0].ID, Fields: domain.UpdateUserParams{Username: &newName}}
	updated, err := form.Submit(context.Background(), c)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if updated.Username != "alice2" {
		t.Fatalf("expected username updated, got %q", updated.Username)
	}
	if updated.Email != seeded[0].Email {
		t.Fatalf("email should be unchanged, got %q", updated.Email)
	}
	if !updated.CreatedAt.Equal(seeded[0].CreatedAt) {
		t.Fatal("created_at must not change on update")
	}
}
