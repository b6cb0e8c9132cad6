package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"adminpanel/m/domain"
	"adminpanel/m/internal/config"
	"adminpanel/m/internal/repo"
)

type ctxKey string

const ctxUserID ctxKey = "userID"

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	users       *repo.UserRepo
	secret      string
	corsOrigin  string
	requireAuth bool
}

// New constructs a Handler.
func New(users *repo.UserRepo, cfg config.Config) *Handler {
	return &Handler{
		users:       users,
		secret:      cfg.AuthSecret,
		corsOrigin:  cfg.CORSOrigin,
		requireAuth: cfg.RequireAuth,
	}
}

// Router wires up the HTTP API. Bearer auth wraps the user routes only when
// enforcement is enabled; the middleware itself is always defined.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{h.corsOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/db-test", h.dbTest)
		r.Post("/auth/login", h.login)

		r.Group(func(g chi.Router) {
			if h.requireAuth {
				g.Use(h.authMiddleware)
			}
			g.Route("/users", func(r chi.Router) {
				r.Post("/", h.createUser)
				r.Get("/", h.listUsers)
				r.Get("/{id}", h.getUser)
				r.Put("/{id}", h.updateUser)
				r.Delete("/{id}", h.deleteUser)
			})
		})
	})

	return r
}

// User handlers

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserParams
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		slog.Error("create user failed", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("list users failed", "err", err)
		respondError(w, http.StatusInternalServerError, "error fetching users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if repo.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		slog.Error("get user failed", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "error fetching user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateUserParams
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, repo.ErrNoFields):
		respondError(w, http.StatusBadRequest, "at least one field is required for update")
		return
	case repo.IsNotFound(err):
		respondError(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		slog.Error("update user failed", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "error updating user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Delete(r.Context(), id)
	if repo.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		slog.Error("delete user failed", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "error deleting user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// dbTest is the liveness probe: returns the engine's current time.
func (h *Handler) dbTest(w http.ResponseWriter, r *http.Request) {
	now, err := h.users.Now(r.Context())
	if err != nil {
		slog.Error("db-test failed", "err", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "database connection failed",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "time": now})
}

// Authentication

type authClaims struct {
	UserID  int64 `json:"user_id"`
	IsAdmin bool  `json:"is_admin"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !repo.IsNotFound(err) {
		slog.Error("login lookup failed", "err", err)
		respondError(w, http.StatusInternalServerError, "error fetching user")
		return
	}
	if user == nil || !passwordMatches(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(user.ID, user.IsAdmin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// passwordMatches accepts either a bcrypt hash or a verbatim stored value;
// records created through this API store the password as given.
func passwordMatches(stored, supplied string) bool {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func (h *Handler) generateToken(userID int64, isAdmin bool) (string, error) {
	claims := authClaims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helpers

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
