package entity

import (
	"fmt"
	"math/rand"

	"github.com/playgrid/tictactoe-backend/internal/apperror"
	"github.com/playgrid/tictactoe-backend/internal/engine"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	// PlayerTie marks a finished game without a winner.
	PlayerTie = "-"
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

// Game wraps an engine board with the session state the backend tracks:
// who plays in it, whether it has started and how it ended. All rule
// questions are delegated to the engine; in particular the turn is never
// stored, it is derived from the board so it can never drift out of sync.
type Game struct {
	ID      string       `json:"id"`
	Board   engine.Board `json:"board"`
	Winner  string       `json:"winner"`
	Status  string       `json:"status"`
	Players []*Player    `json:"players,omitempty"`
	Type    string       `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  engine.InitialState(),
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// Turn - returns the mark to move, or an empty string once the game is
// finished.
func (that *Game) Turn() string {
	if that.IsFinished() {
		return ""
	}

	return engine.CurrentPlayer(that.Board)
}

// MakeTurn - plays one move for the given mark. The transition itself is
// validated by the engine; this method only adds the session-level checks
// (game finished, playing out of turn) and refreshes the game status.
func (that *Game) MakeTurn(playerMark string, action engine.Action) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn() != playerMark {
		return apperror.ErrNotYourTurn
	}

	board, err := engine.Apply(that.Board, action)
	if err != nil {
		return fmt.Errorf("failed to apply action: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

// UpdateGameState - derives Winner and Status from the board.
func (that *Game) UpdateGameState() {
	if !engine.Terminal(that.Board) {
		that.Status = StatusOngoing
		return
	}

	if winner := engine.Winner(that.Board); winner != engine.EmptyCell {
		that.Winner = winner
	} else {
		that.Winner = PlayerTie
	}

	that.Status = StatusFinished
}

// Utility - the engine score of the board: +1 X won, -1 O won, 0 draw.
func (that *Game) Utility() int {
	return engine.Utility(that.Board)
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return engine.MarkX, engine.MarkO
	}
	return engine.MarkO, engine.MarkX
}
