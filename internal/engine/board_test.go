package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/tictactoe-backend/internal/apperror"
)

func TestInitialState(t *testing.T) {
	// Given: a fresh board
	board := InitialState()

	// Then: every cell is empty and X is to move
	for i := range board {
		for j := range board[i] {
			assert.Equal(t, EmptyCell, board[i][j])
		}
	}
	assert.Equal(t, MarkX, CurrentPlayer(board))
}

func TestCurrentPlayer(t *testing.T) {
	t.Run("Alternates strictly between X and O from the empty board", func(t *testing.T) {
		// Given: the empty board
		board := InitialState()

		moves := []Action{
			{Row: 0, Col: 0},
			{Row: 1, Col: 1},
			{Row: 0, Col: 1},
			{Row: 2, Col: 2},
			{Row: 1, Col: 0},
		}

		// When: legal moves are applied in sequence
		expected := MarkX
		for _, move := range moves {
			// Then: the player to move alternates, X first
			require.Equal(t, expected, CurrentPlayer(board))

			var err error
			board, err = Apply(board, move)
			require.NoError(t, err)

			if expected == MarkX {
				expected = MarkO
			} else {
				expected = MarkX
			}
		}
	})

	t.Run("Returns O when X is one mark ahead", func(t *testing.T) {
		// Given: a board where X has just moved
		board := Board{
			{MarkX, EmptyCell, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		// Then: O is to move
		assert.Equal(t, MarkO, CurrentPlayer(board))
	})
}

func TestActions(t *testing.T) {
	t.Run("Returns all nine cells in row-major order for the empty board", func(t *testing.T) {
		// Given: the empty board
		board := InitialState()

		// When: enumerating legal actions
		actions := Actions(board)

		// Then: all nine cells come back, row by row
		require.Len(t, actions, 9)
		assert.Equal(t, Action{Row: 0, Col: 0}, actions[0])
		assert.Equal(t, Action{Row: 0, Col: 2}, actions[2])
		assert.Equal(t, Action{Row: 1, Col: 0}, actions[3])
		assert.Equal(t, Action{Row: 2, Col: 2}, actions[8])
	})

	t.Run("Skips occupied cells", func(t *testing.T) {
		// Given: a board with two marks placed
		board := Board{
			{MarkX, EmptyCell, EmptyCell},
			{EmptyCell, MarkO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		// When: enumerating legal actions
		actions := Actions(board)

		// Then: the occupied cells are absent
		require.Len(t, actions, 7)
		assert.NotContains(t, actions, Action{Row: 0, Col: 0})
		assert.NotContains(t, actions, Action{Row: 1, Col: 1})
	})

	t.Run("Returns no actions for a terminal board", func(t *testing.T) {
		// Given: a board X already won with empty cells remaining
		board := Board{
			{MarkX, MarkX, MarkX},
			{MarkO, MarkO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		// When: enumerating legal actions
		actions := Actions(board)

		// Then: the set is empty even though cells are free
		assert.Empty(t, actions)
	})
}

func TestApply(t *testing.T) {
	t.Run("Places the current player's mark without touching the input", func(t *testing.T) {
		// Given: the empty board
		board := InitialState()

		// When: X plays the center
		next, err := Apply(board, Action{Row: 1, Col: 1})
		require.NoError(t, err)

		// Then: only the center differs and the input board is unchanged
		assert.Equal(t, MarkX, next[1][1])
		assert.Equal(t, InitialState(), board)

		for i := range next {
			for j := range next[i] {
				if i == 1 && j == 1 {
					continue
				}
				assert.Equal(t, board[i][j], next[i][j])
			}
		}
	})

	t.Run("Fails with ErrInvalidAction on an occupied cell", func(t *testing.T) {
		// Given: a board with the center taken
		board, err := Apply(InitialState(), Action{Row: 1, Col: 1})
		require.NoError(t, err)

		// When: the same cell is played again
		_, err = Apply(board, Action{Row: 1, Col: 1})

		// Then: the transition is rejected
		require.ErrorIs(t, err, apperror.ErrInvalidAction)
	})

	t.Run("Fails with ErrInvalidAction on out-of-range coordinates", func(t *testing.T) {
		board := InitialState()

		for _, action := range []Action{
			{Row: -1, Col: 0},
			{Row: 0, Col: -1},
			{Row: 3, Col: 0},
			{Row: 0, Col: 3},
		} {
			_, err := Apply(board, action)
			require.ErrorIs(t, err, apperror.ErrInvalidAction)
		}
	})
}

func TestWinner(t *testing.T) {
	t.Run("Detects a completed row", func(t *testing.T) {
		board := Board{
			{MarkX, MarkX, MarkX},
			{MarkO, MarkO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		assert.Equal(t, MarkX, Winner(board))
	})

	t.Run("Detects a completed column", func(t *testing.T) {
		board := Board{
			{MarkO, MarkX, EmptyCell},
			{MarkO, MarkX, EmptyCell},
			{MarkO, EmptyCell, MarkX},
		}

		assert.Equal(t, MarkO, Winner(board))
	})

	t.Run("Detects the top-left to bottom-right diagonal", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, EmptyCell},
			{MarkO, MarkX, EmptyCell},
			{EmptyCell, EmptyCell, MarkX},
		}

		assert.Equal(t, MarkX, Winner(board))
	})

	t.Run("Detects the top-right to bottom-left diagonal", func(t *testing.T) {
		board := Board{
			{MarkO, MarkX, MarkX},
			{MarkO, MarkX, EmptyCell},
			{MarkX, EmptyCell, EmptyCell},
		}

		assert.Equal(t, MarkX, Winner(board))
	})

	t.Run("Returns no winner for an undecided board", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, EmptyCell},
			{EmptyCell, MarkX, EmptyCell},
			{EmptyCell, EmptyCell, MarkO},
		}

		assert.Equal(t, EmptyCell, Winner(board))
	})

	t.Run("Returns no winner for a drawn board", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, MarkX},
			{MarkO, MarkX, MarkO},
			{MarkO, MarkX, MarkO},
		}

		assert.Equal(t, EmptyCell, Winner(board))
	})
}

func TestTerminal(t *testing.T) {
	t.Run("True when a player has won", func(t *testing.T) {
		board := Board{
			{MarkX, MarkX, MarkX},
			{MarkO, MarkO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		assert.True(t, Terminal(board))
	})

	t.Run("True when the board is full without a winner", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, MarkX},
			{MarkO, MarkX, MarkO},
			{MarkO, MarkX, MarkO},
		}

		assert.True(t, Terminal(board))
	})

	t.Run("False for an ongoing board", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, EmptyCell},
			{EmptyCell, MarkX, EmptyCell},
			{EmptyCell, EmptyCell, MarkO},
		}

		assert.False(t, Terminal(board))
	})

	t.Run("Actions is empty exactly when the board is terminal", func(t *testing.T) {
		boards := []Board{
			InitialState(),
			{
				{MarkX, MarkX, MarkX},
				{MarkO, MarkO, EmptyCell},
				{EmptyCell, EmptyCell, EmptyCell},
			},
			{
				{MarkX, MarkO, MarkX},
				{MarkO, MarkX, MarkO},
				{MarkO, MarkX, MarkO},
			},
			{
				{MarkX, MarkO, EmptyCell},
				{EmptyCell, MarkX, EmptyCell},
				{EmptyCell, EmptyCell, MarkO},
			},
		}

		for _, board := range boards {
			assert.Equal(t, Terminal(board), len(Actions(board)) == 0)
		}
	})
}

func TestUtility(t *testing.T) {
	t.Run("Scores +1 when X wins", func(t *testing.T) {
		board := Board{
			{MarkX, MarkX, MarkX},
			{MarkO, MarkO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		assert.Equal(t, 1, Utility(board))
	})

	t.Run("Scores -1 when O wins", func(t *testing.T) {
		board := Board{
			{MarkO, MarkO, MarkO},
			{MarkX, MarkX, EmptyCell},
			{EmptyCell, EmptyCell, MarkX},
		}

		assert.Equal(t, -1, Utility(board))
	})

	t.Run("Scores 0 for a draw", func(t *testing.T) {
		board := Board{
			{MarkX, MarkO, MarkX},
			{MarkO, MarkX, MarkO},
			{MarkO, MarkX, MarkO},
		}

		assert.Equal(t, 0, Utility(board))
	})

	t.Run("Always agrees with Winner on terminal boards", func(t *testing.T) {
		boards := []Board{
			{
				{MarkX, MarkX, MarkX},
				{MarkO, MarkO, EmptyCell},
				{EmptyCell, EmptyCell, EmptyCell},
			},
			{
				{MarkO, MarkO, MarkO},
				{MarkX, MarkX, EmptyCell},
				{EmptyCell, EmptyCell, MarkX},
			},
			{
				{MarkX, MarkO, MarkX},
				{MarkO, MarkX, MarkO},
				{MarkO, MarkX, MarkO},
			},
		}

		for _, board := range boards {
			score := Utility(board)
			assert.Contains(t, []int{-1, 0, 1}, score)

			switch Winner(board) {
			case MarkX:
				assert.Equal(t, 1, score)
			case MarkO:
				assert.Equal(t, -1, score)
			default:
				assert.Equal(t, 0, score)
			}
		}
	})
}

func TestTopRowEndToEnd(t *testing.T) {
	// Given: the empty board
	board := InitialState()

	// When: X plays the top row while O plays elsewhere
	moves := []Action{
		{Row: 0, Col: 0}, // X
		{Row: 1, Col: 0}, // O
		{Row: 0, Col: 1}, // X
		{Row: 1, Col: 1}, // O
		{Row: 0, Col: 2}, // X completes the top row
	}

	for i, move := range moves {
		// Then: the game is not over before X's third move
		require.False(t, Terminal(board), "board terminal before move %d", i)

		var err error
		board, err = Apply(board, move)
		require.NoError(t, err)
	}

	// Then: X has won and the board stays terminal
	assert.Equal(t, MarkX, Winner(board))
	assert.True(t, Terminal(board))
	assert.Equal(t, 1, Utility(board))
	assert.Empty(t, Actions(board))
}
