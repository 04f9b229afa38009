package entity

import "time"

// Move is one accepted placement.
type Move struct {
	Player Cell `json:"player"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
}

// Result is the record of a finished game.
type Result struct {
	GameID     string        `json:"game_id"`
	Status     OutcomeStatus `json:"status"`
	Winner     Cell          `json:"winner"`
	Moves      []Move        `json:"moves,omitempty"`
	FinishedAt time.Time     `json:"finished_at"`
}

func (that *Result) Outcome() Outcome {
	return Outcome{Status: that.Status, Winner: that.Winner}
}

// Score is the running tally of finished games.
type Score struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (that *Score) Total() int {
	return that.XWins + that.OWins + that.Draws
}

// Add counts a finished outcome. In-progress outcomes are ignored.
func (that *Score) Add(outcome Outcome) {
	switch {
	case outcome.Status == Draw:
		that.Draws++
	case outcome.Status == Win && outcome.Winner == PlayerX:
		that.XWins++
	case outcome.Status == Win && outcome.Winner == PlayerO:
		that.OWins++
	}
}
