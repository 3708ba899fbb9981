// Package engine implements the rules of a 3x3 tic-tac-toe position and
// an exhaustive minimax search for the optimal move.
//
// A Board is a plain value: every transition returns a fresh copy and the
// input is never touched, so callers may keep old boards around for history.
package engine

import (
	"fmt"

	"github.com/playgrid/tictactoe-backend/internal/apperror"
)

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""
)

// WinLines - the eight winning lines as cell coordinates, in fixed order:
// the three rows, the three columns, then the two diagonals
// (top-left to bottom-right first). Winner checks them in this order.
var WinLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 grid of marks, stored row-major.
type Board [3][3]string

// Action addresses a single cell; Row and Col are both in [0,2].
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InitialState - returns the empty board X moves on first.
func InitialState() Board {
	return Board{}
}

// CurrentPlayer - returns the mark to move, derived from the cell counts.
// X always moves first, so X is to move whenever the counts are equal.
// Only boards reachable through Apply are meaningful inputs.
func CurrentPlayer(board Board) string {
	var countX, countO int

	for i := range board {
		for j := range board[i] {
			switch board[i][j] {
			case MarkX:
				countX++
			case MarkO:
				countO++
			}
		}
	}

	if countX <= countO {
		return MarkX
	}

	return MarkO
}

// Actions - returns the legal actions for the board in row-major order.
// A terminal board has no legal actions and yields an empty slice.
// The order is part of the contract: BestMove breaks ties by it.
func Actions(board Board) []Action {
	if Terminal(board) {
		return []Action{}
	}

	actions := make([]Action, 0, 9)
	for i := range board {
		for j := range board[i] {
			if board[i][j] == EmptyCell {
				actions = append(actions, Action{Row: i, Col: j})
			}
		}
	}

	return actions
}

// Apply - places the current player's mark on the addressed cell and
// returns the resulting board. The input board is never modified.
// Fails with apperror.ErrInvalidAction if the coordinates are out of
// range or the cell is already occupied.
func Apply(board Board, action Action) (Board, error) {
	if action.Row < 0 || action.Row > 2 || action.Col < 0 || action.Col > 2 {
		return board, fmt.Errorf("%w: cell (%d,%d) is out of range", apperror.ErrInvalidAction, action.Row, action.Col)
	}

	if board[action.Row][action.Col] != EmptyCell {
		return board, fmt.Errorf("%w: cell (%d,%d) is already occupied", apperror.ErrInvalidAction, action.Row, action.Col)
	}

	next := board
	next[action.Row][action.Col] = CurrentPlayer(board)

	return next, nil
}

// Winner - returns the mark holding a completed line, or EmptyCell when
// no line is complete. Lines are checked in the fixed WinLines order and
// the first complete one decides the result.
func Winner(board Board) string {
	for _, line := range WinLines {
		a := board[line[0][0]][line[0][1]]
		b := board[line[1][0]][line[1][1]]
		c := board[line[2][0]][line[2][1]]

		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// Terminal - reports whether the game is over: somebody won or the board
// is full.
func Terminal(board Board) bool {
	if Winner(board) != EmptyCell {
		return true
	}

	for i := range board {
		for j := range board[i] {
			if board[i][j] == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Utility - scores a finished board from X's point of view: +1 when X
// won, -1 when O won, 0 for a draw. Non-terminal boards also score 0;
// the search only ever asks about terminal ones. All three cases are
// explicit branches so the draw case can never fall through.
func Utility(board Board) int {
	switch Winner(board) {
	case MarkX:
		return 1
	case MarkO:
		return -1
	default:
		return 0
	}
}
