package apperror

import "errors"

var (
	ErrInvalidAction    = errors.New("invalid action")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameIsFull       = errors.New("game already has two players")
)
