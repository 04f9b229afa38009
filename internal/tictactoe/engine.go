package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

// Engine owns one board and the table of winning lines.
// It records whatever token it is told to place; turn order belongs to the caller.
type Engine struct {
	board    entity.Board
	patterns [entity.PatternCount]entity.WinPattern
}

func NewEngine() *Engine {
	return &Engine{
		patterns: buildWinPatterns(),
	}
}

// buildWinPatterns lists rows top to bottom, columns left to right, then both diagonals.
func buildWinPatterns() [entity.PatternCount]entity.WinPattern {
	var patterns [entity.PatternCount]entity.WinPattern

	i := 0
	for y := range entity.BoardSize {
		for x := range entity.BoardSize {
			patterns[i][x] = entity.Coord{X: x, Y: y}
		}
		i++
	}

	for x := range entity.BoardSize {
		for y := range entity.BoardSize {
			patterns[i][y] = entity.Coord{X: x, Y: y}
		}
		i++
	}

	for k := range entity.BoardSize {
		patterns[i][k] = entity.Coord{X: k, Y: k}
		patterns[i+1][k] = entity.Coord{X: k, Y: entity.BoardSize - 1 - k}
	}

	return patterns
}

// Place puts token at (x, y). A failed placement leaves the board untouched.
func (that *Engine) Place(x, y int, token entity.Cell) error {
	coord := entity.Coord{X: x, Y: y}
	if !coord.InBounds() {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}

	if !token.IsPlayer() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidToken, token)
	}

	if that.board.At(coord) != entity.Empty {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	that.board[x][y] = token

	return nil
}

// Evaluate derives the outcome from the board without changing it.
// If both players own a line the first one in pattern order wins.
func (that *Engine) Evaluate() entity.Outcome {
	for _, pattern := range that.patterns {
		if winner := that.lineOwner(pattern); winner != entity.Empty {
			return entity.WinOutcome(winner)
		}
	}

	if that.board.IsFull() {
		return entity.DrawOutcome()
	}

	return entity.InProgressOutcome()
}

func (that *Engine) lineOwner(pattern entity.WinPattern) entity.Cell {
	var xCount, oCount int

	for _, coord := range pattern {
		switch that.board.At(coord) {
		case entity.PlayerX:
			xCount++
		case entity.PlayerO:
			oCount++
		}
	}

	switch {
	case xCount == len(pattern):
		return entity.PlayerX
	case oCount == len(pattern):
		return entity.PlayerO
	default:
		return entity.Empty
	}
}

// Render returns display glyphs row by row, left to right.
func (that *Engine) Render() [entity.CellCount]string {
	var symbols [entity.CellCount]string

	for y := range entity.BoardSize {
		for x := range entity.BoardSize {
			symbols[y*entity.BoardSize+x] = that.board[x][y].Symbol()
		}
	}

	return symbols
}

// Board returns a copy of the current board.
func (that *Engine) Board() entity.Board {
	return that.board
}

// Patterns returns a copy of the winning lines in evaluation order.
func (that *Engine) Patterns() [entity.PatternCount]entity.WinPattern {
	return that.patterns
}
