package game

import "errors"

// Validation failures surfaced to the offending client. The text is shown
// verbatim in the client UI, hence the sentence casing.
var (
	ErrGameNotStarted   = errors.New("The game has not started yet")
	ErrNotYourTurn      = errors.New("It's not your turn!")
	ErrSkipped          = errors.New("You were skipped! Wait for your next turn.")
	ErrInvalidPlay      = errors.New("Invalid play")
	ErrCardNotInHand    = errors.New("Card not in hand")
	ErrRoomUnjoinable   = errors.New("Cannot join room (full or game started)")
	ErrNotHost          = errors.New("Only the host can start the game")
	ErrNotEnoughPlayers = errors.New("Need at least 2 players to start")
	ErrGameNotEnded     = errors.New("Game has not ended yet")
	ErrUnoNotAllowed    = errors.New("You can only call UNO when you have 1 card!")
)
