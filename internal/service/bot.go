package service

import (
	"errors"
	"fmt"

	"github.com/playgrid/tictactoe-backend/internal/engine"
	"github.com/playgrid/tictactoe-backend/internal/entity"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn - plays the optimal move for the bot player. The move comes
// from the engine's minimax search, so the bot never loses: against
// perfect play every game it takes part in ends in a draw.
func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	action, ok := engine.BestMove(game.Board)
	if !ok {
		return ErrNoAvailableMoves
	}

	if err := game.MakeTurn(botPlayer.Mark, action); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
