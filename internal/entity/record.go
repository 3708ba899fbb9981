package entity

import "time"

// GameRecord is the archived outcome of a finished game.
// Score is the engine utility of the final board: +1 X won, -1 O won, 0 draw.
type GameRecord struct {
	GameID     string    `json:"game_id"`
	Type       string    `json:"type"`
	Winner     string    `json:"winner"`
	Score      int       `json:"score"`
	FinishedAt time.Time `json:"finished_at"`
}
