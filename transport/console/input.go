package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrWrongCoordinateCount = errors.New("expected two coordinates")
	ErrNotANumber           = errors.New("coordinate is not a number")
)

// parseCoordinates reads "X Y". Range is left to the engine.
func parseCoordinates(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w, got %d", ErrWrongCoordinateCount, len(fields))
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: X=%q", ErrNotANumber, fields[0])
	}

	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: Y=%q", ErrNotANumber, fields[1])
	}

	return x, y, nil
}

func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "exit":
		return true
	default:
		return false
	}
}
