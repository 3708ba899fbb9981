package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/playgrid/tictactoe-backend/internal/engine"
	"github.com/playgrid/tictactoe-backend/internal/repository"
)

const (
	defaultArchiveLimit = 20
	maxArchiveLimit     = 100
)

var errUnreachableBoard = errors.New("board is not reachable by legal play")

type handlers struct {
	logger      *slog.Logger
	archiveRepo repository.ArchiveRepository
}

// AnalyzeRequest is a board position to analyze.
type AnalyzeRequest struct {
	Board engine.Board `json:"board"`
}

// AnalyzeResponse is the engine's verdict on a position. BestMove is
// omitted for terminal boards.
type AnalyzeResponse struct {
	Player   string         `json:"player"`
	Winner   string         `json:"winner"`
	Terminal bool           `json:"terminal"`
	Utility  int            `json:"utility"`
	BestMove *engine.Action `json:"best_move,omitempty"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// Analyze - runs the engine on a client-supplied board: whose move it is,
// whether the game is over, the utility, and the optimal next action.
func (that *handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Analyze")

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// reject boards that could not come from legal play
	if err := validateBoard(req.Board); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := AnalyzeResponse{
		Player:   engine.CurrentPlayer(req.Board),
		Winner:   engine.Winner(req.Board),
		Terminal: engine.Terminal(req.Board),
		Utility:  engine.Utility(req.Board),
	}

	if action, ok := engine.BestMove(req.Board); ok {
		resp.BestMove = &action
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// Archive - lists recently finished games from the archive.
func (that *handlers) Archive(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Archive")

	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxArchiveLimit {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := that.archiveRepo.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error("failed to list archive", "error", err)
		http.Error(w, "failed to list archive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(records); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// validateBoard - checks the marks are well formed and the position is
// reachable by alternating play (X moves first, so X is never more than
// one mark ahead and never behind).
func validateBoard(board engine.Board) error {
	var countX, countO int

	for i := range board {
		for j := range board[i] {
			switch board[i][j] {
			case engine.MarkX:
				countX++
			case engine.MarkO:
				countO++
			case engine.EmptyCell:
			default:
				return errors.New("unknown mark: " + board[i][j])
			}
		}
	}

	if countX < countO || countX-countO > 1 {
		return errUnreachableBoard
	}

	return nil
}
