package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playgrid/tictactoe-backend/internal/repository"
)

// Start - starts the HTTP API server.
func Start(logger *slog.Logger, port string, archiveRepo repository.ArchiveRepository) error {
	h := &handlers{
		logger:      logger.With("component", "rest"),
		archiveRepo: archiveRepo,
	}

	router := chi.NewRouter()
	router.Get("/ping", h.Ping)
	router.Post("/analyze", h.Analyze)
	router.Get("/archive", h.Archive)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
