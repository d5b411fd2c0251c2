package game

// Player is an agent able to play connect four.
type Player interface {
	// Move returns the column to drop the next tile into, given the
	// current board and the team the agent plays for. The returned
	// column must be one of board.PossibleMoves().
	Move(board *Board, me Team) int
}
