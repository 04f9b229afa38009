package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownOutcomeStatus = errors.New("unknown outcome status")

type OutcomeStatus uint8

const (
	InProgress OutcomeStatus = iota
	Win
	Draw
)

func (that OutcomeStatus) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", uint8(that))
	}
}

func (that OutcomeStatus) MarshalText() ([]byte, error) {
	if that > Draw {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcomeStatus, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *OutcomeStatus) UnmarshalText(text []byte) error {
	status, err := ParseOutcomeStatus(string(text))
	if err != nil {
		return err
	}

	*that = status

	return nil
}

func ParseOutcomeStatus(value string) (OutcomeStatus, error) {
	switch value {
	case "in_progress":
		return InProgress, nil
	case "win":
		return Win, nil
	case "draw":
		return Draw, nil
	default:
		return InProgress, fmt.Errorf("%w: %q", ErrUnknownOutcomeStatus, value)
	}
}

// Outcome is the status of a game derived from its board. Winner is set only for Win.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Winner Cell          `json:"winner"`
}

func InProgressOutcome() Outcome {
	return Outcome{Status: InProgress}
}

func WinOutcome(winner Cell) Outcome {
	return Outcome{Status: Win, Winner: winner}
}

func DrawOutcome() Outcome {
	return Outcome{Status: Draw}
}

// IsTerminal reports whether the game is over.
func (that Outcome) IsTerminal() bool {
	return that.Status == Win || that.Status == Draw
}

func (that Outcome) String() string {
	if that.Status == Win {
		return fmt.Sprintf("win(%s)", that.Winner)
	}
	return that.Status.String()
}
