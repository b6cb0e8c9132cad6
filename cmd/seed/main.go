// Command seed inserts an initial admin user so the panel is usable on a
// fresh database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"adminpanel/m/domain"
	"adminpanel/m/internal/config"
	"adminpanel/m/internal/database"
	"adminpanel/m/internal/migrations"
	"adminpanel/m/internal/repo"
)

func main() {
	username := flag.String("username", "admin", "username for the seeded user")
	email := flag.String("email", "admin@example.com", "email for the seeded user")
	password := flag.String("password", "", "password for the seeded user (required)")
	admin := flag.Bool("admin", true, "grant the admin flag")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *password == "" {
		slog.Error("-password is required")
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		slog.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repo.NewUserRepo(db)
	user, err := users.Create(ctx, domain.CreateUserParams{
		Username: *username,
		Email:    *email,
		Password: *password,
		IsAdmin:  *admin,
	})
	if repo.IsDuplicate(err) {
		slog.Warn("user already exists, nothing to do", "email", *email)
		return
	}
	if err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}
	slog.Info("seeded user", "id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
}
