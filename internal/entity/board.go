package entity

import (
	"errors"
	"fmt"
)

const (
	BoardSize = 3
	CellCount = BoardSize * BoardSize

	// PatternCount is the number of winnable lines: 3 rows, 3 columns, 2 diagonals.
	PatternCount = 2*BoardSize + 2
)

var ErrUnknownCell = errors.New("unknown cell value")

// Cell is the content of one square of the board.
type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

// String returns the stored form of the cell: "X", "O" or "" for an empty cell.
func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Symbol returns the display glyph of the cell.
func (that Cell) Symbol() string {
	if that == Empty {
		return " "
	}
	return that.String()
}

func (that Cell) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's token. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	if that > PlayerO {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCell, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

func ParseCell(value string) (Cell, error) {
	switch value {
	case "X", "x":
		return PlayerX, nil
	case "O", "o":
		return PlayerO, nil
	case "", " ":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownCell, value)
	}
}

// Coord addresses a cell by column (X) and row (Y).
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Coord) InBounds() bool {
	return that.X >= 0 && that.X < BoardSize && that.Y >= 0 && that.Y < BoardSize
}

// Board is indexed [x][y]. A fresh Board has every cell Empty.
type Board [BoardSize][BoardSize]Cell

func (that *Board) At(c Coord) Cell {
	return that[c.X][c.Y]
}

// IsFull reports whether no Empty cell is left.
func (that *Board) IsFull() bool {
	for x := range BoardSize {
		for y := range BoardSize {
			if that[x][y] == Empty {
				return false
			}
		}
	}

	return true
}

// WinPattern is one line of three coordinates that wins the game when owned by one player.
type WinPattern [BoardSize]Coord
