package model

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("coordinate out of bounds")
	ErrNoPiece       = errors.New("no piece at start square")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrAlreadyQueued = errors.New("player already in queue")

	ErrDuplicateConnection = errors.New("connection already exists")
)

// MoveError carries the rejected move and the piece that was asked to make it.
type MoveError struct {
	Piece Piece
	From  Coordinate
	To    Coordinate
	Err   error
}

func (e *MoveError) Error() string {
	if e.Piece == nil {
		return fmt.Sprintf("move %s -> %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("move %s %s -> %s: %v", e.Piece, e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
