package console

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const boardFrame = "============="

func formatBoard(symbols [entity.CellCount]string) string {
	var sb strings.Builder

	sb.WriteString(boardFrame + "\n")
	for row := range entity.BoardSize {
		cells := symbols[row*entity.BoardSize : (row+1)*entity.BoardSize]
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString(boardFrame + "\n")

	return sb.String()
}

func formatOutcome(outcome entity.Outcome) string {
	switch outcome.Status {
	case entity.Win:
		return "WINNER" + strings.Repeat(" "+outcome.Winner.String(), 5)
	case entity.Draw:
		return "CATS game, end"
	default:
		return "Game in progress"
	}
}

func formatScore(score *entity.Score) string {
	return fmt.Sprintf("Score: X %d | O %d | draws %d", score.XWins, score.OWins, score.Draws)
}

func formatResults(results []*entity.Result) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("Recent games:\n")
	for _, result := range results {
		fmt.Fprintf(&sb, "  %s  %-9s %d moves  %s\n",
			shortID(result.GameID),
			formatResultOutcome(result.Outcome()),
			len(result.Moves),
			result.FinishedAt.Format("2006-01-02 15:04"),
		)
	}

	return sb.String()
}

func formatResultOutcome(outcome entity.Outcome) string {
	if outcome.Status == entity.Win {
		return outcome.Winner.String() + " won"
	}
	return outcome.Status.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
