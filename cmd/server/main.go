package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Abdalla2024/stretchApp/internal/access"
	"github.com/Abdalla2024/stretchApp/internal/catalog"
	"github.com/Abdalla2024/stretchApp/internal/config"
	"github.com/Abdalla2024/stretchApp/internal/domain"
	httpapi "github.com/Abdalla2024/stretchApp/internal/http"
	"github.com/Abdalla2024/stretchApp/internal/session"
	"github.com/Abdalla2024/stretchApp/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		logger.Error("open repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	provider := catalog.Default()
	policies := func(userID string) access.Policy {
		return access.NewEntitlement(cfg.IsPremium(userID))
	}
	manager := session.NewManager(provider, storage.NewRecorder(repo), policies, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(extractUserMiddleware(logger, cfg.DevUserFallback))

	r.Post("/sessions", startSession(manager))
	r.Get("/sessions/{id}", getSession(manager))
	r.Get("/sessions/{id}/status", getSessionStatus(manager))
	r.Post("/sessions/{id}/next", navigate(manager.Next))
	r.Post("/sessions/{id}/previous", navigate(manager.Previous))
	r.Post("/sessions/{id}/shuffle", shuffleSession(manager))
	r.Post("/sessions/{id}/restart", restartSession(manager))
	r.Post("/sessions/{id}/pause", sessionAction(manager.Pause))
	r.Post("/sessions/{id}/resume", sessionAction(manager.Resume))
	r.Post("/sessions/{id}/complete", sessionAction(manager.CompleteSession))
	r.Post("/sessions/{id}/stop", sessionAction(manager.StopSession))
	r.Get("/sessions/{id}/events", httpapi.StreamSessionEvents(manager))

	r.Get("/categories/{id}/exercises", getCategoryExercises(provider))
	r.Get("/stats", getUserStats(repo))

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openRepository(cfg config.Config) (storage.Repository, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return storage.NewSQLiteRepository(cfg.DBDSN)
	case "postgres":
		return storage.NewPostgresRepository(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

func startSession(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CategoryID string `json:"categoryId"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.CategoryID == "" {
			respondError(w, "categoryId is required", http.StatusBadRequest)
			return
		}

		s, err := m.StartSession(r.Context(), getUserID(r), req.CategoryID)
		switch {
		case errors.Is(err, domain.ErrEmptyCatalog):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, catalog.ErrUnavailable):
			respondError(w, err.Error(), http.StatusServiceUnavailable)
		case err != nil:
			respondError(w, err.Error(), http.StatusInternalServerError)
		default:
			respondJSON(w, s, http.StatusCreated)
		}
	}
}

func getSession(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s, ok := m.GetSession(id)
		if !ok {
			respondError(w, "session not found", http.StatusNotFound)
			return
		}

		respondJSON(w, s, http.StatusOK)
	}
}

func getSessionStatus(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s, ok := m.GetSession(id)
		if !ok {
			respondError(w, "session not found", http.StatusNotFound)
			return
		}

		status := struct {
			ID         string `json:"id"`
			Completed  bool   `json:"completed"`
			Active     bool   `json:"active"`
			Current    int    `json:"currentIdx"`
			ElapsedSec int    `json:"elapsedSec"`
		}{
			ID:         s.ID,
			Completed:  s.Completed,
			Active:     s.Active,
			Current:    s.CurrentIdx,
			ElapsedSec: s.ElapsedSec,
		}

		respondJSON(w, status, http.StatusOK)
	}
}

func navigate(op func(id string) (session.NavigationResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := op(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}

		respondJSON(w, res, http.StatusOK)
	}
}

func shuffleSession(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := m.Shuffle(id); err != nil {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}

		s, _ := m.GetSession(id)
		respondJSON(w, s, http.StatusOK)
	}
}

func restartSession(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.RestartSession(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, catalog.ErrUnavailable):
			respondError(w, err.Error(), http.StatusServiceUnavailable)
		case err != nil:
			respondError(w, err.Error(), http.StatusInternalServerError)
		default:
			respondJSON(w, s, http.StatusCreated)
		}
	}
}

func sessionAction(op func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(chi.URLParam(r, "id")); err != nil {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getCategoryExercises(provider *catalog.Memory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exercises, err := provider.FetchExercises(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}

		respondJSON(w, exercises, http.StatusOK)
	}
}

func getUserStats(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := repo.GetSessionStats(getUserID(r))
		if err != nil {
			respondError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		respondJSON(w, stats, http.StatusOK)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
