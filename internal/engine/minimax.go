package engine

import "math"

// BestMove - returns the game-theoretically optimal action for the player
// to move, computed by exhaustive minimax over every continuation. The
// second return value is false when the board is terminal and no move
// exists. When several actions score equally the first one in the
// row-major Actions order is kept, so repeated calls on the same board
// always return the same action.
func BestMove(board Board) (Action, bool) {
	if Terminal(board) {
		return Action{}, false
	}

	_, action := bestValue(board, CurrentPlayer(board) == MarkX)

	return action, true
}

// bestValue - the minimax recursion. X maximizes the utility, O minimizes
// it; the maximizing flag flips every ply because Apply alternates the
// player. The loop stops early once the side to move has found an outright
// win (+1 for the maximizer, -1 for the minimizer) since no later action
// can do better. Recursion depth is bounded by the nine cells.
func bestValue(board Board, maximizing bool) (int, Action) {
	if Terminal(board) {
		return Utility(board), Action{}
	}

	best := math.MinInt
	cutoff := 1
	if !maximizing {
		best = math.MaxInt
		cutoff = -1
	}

	var bestAction Action

	for _, action := range Actions(board) {
		next, _ := Apply(board, action) // actions come from the board itself and are always legal

		score, _ := bestValue(next, !maximizing)

		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			bestAction = action

			if best == cutoff {
				break
			}
		}
	}

	return best, bestAction
}
