package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"adminpanel/m/internal/api"
	"adminpanel/m/internal/config"
	"adminpanel/m/internal/database"
	"adminpanel/m/internal/migrations"
	"adminpanel/m/internal/repo"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

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

	handler := api.New(repo.NewUserRepo(db), cfg)

	slog.Info("user admin server starting", "port", cfg.HTTPPort, "auth_required", cfg.RequireAuth)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
