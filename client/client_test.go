package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"adminpanel/m/client"
	"adminpanel/m/domain"
	"adminpanel/m/internal/api"
	"adminpanel/m/internal/config"
	"adminpanel/m/internal/repo"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			is_blocked BOOLEAN NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		t.Fatalf("schema: %v", err)
	}

	srv := httptest.NewServer(api.New(repo.NewUserRepo(db), config.Config{
		AuthSecret: "test_secret",
		CORSOrigin: "http://localhost:3000",
	}).Router())
	t.Cleanup(srv.Close)

	return client.New(srv.URL + "/api")
}

func TestClient_Roundtrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateUser(ctx, domain.CreateUserParams{
		Username: "alice", Email: "a@x.com", Password: "longenough1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := c.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Username != "alice" {
		t.Fatalf("unexpected user: %+v", fetched)
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestClient_NotFoundSurfacedAsAPIError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetUser(context.Background(), 99999)
	if !client.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "user not found" {
		t.Fatalf("unexpected error payload: %+v", apiErr)
	}
}

func TestClient_ValidationSurfaced(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateUser(context.Background(), domain.CreateUserParams{Username: "alice"})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	if _, err := c.ListUsers(ctx); err == nil {
		t.Fatal("expected an error for an expired context")
	}
}
