package apperror

import "errors"

var (
	ErrOutOfBounds  = errors.New("coordinate is out of bounds")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidToken = errors.New("invalid player token")
	ErrGameFinished = errors.New("game is already finished")
	ErrNotFound     = errors.New("not found")
)
