package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

var ErrInputClosed = errors.New("input closed")

type gameUseCase interface {
	NewGame()
	GameID() string
	Turn() entity.Cell
	Outcome() entity.Outcome
	Render() [entity.CellCount]string
	MakeTurn(ctx context.Context, x, y int) (entity.Outcome, error)
	Score(ctx context.Context) (*entity.Score, error)
	RecentResults(ctx context.Context, limit int) ([]*entity.Result, error)
}

type Options struct {
	// Rematch offers another game after each finished one.
	Rematch bool
	// RecentResults is how many past games to list after a game; 0 disables the list.
	RecentResults int
}

// Server drives games over a line-oriented text stream.
type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	in          io.Reader
	out         io.Writer
	options     Options
}

func New(logger *slog.Logger, gameUseCase gameUseCase, in io.Reader, out io.Writer, options Options) *Server {
	return &Server{
		logger:      logger.With("component", "console"),
		gameUseCase: gameUseCase,
		in:          in,
		out:         out,
		options:     options,
	}
}

// Start plays until a game ends and no rematch is wanted, the player quits,
// the input closes (ErrInputClosed) or ctx is done.
func (that *Server) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	// releases the reader goroutine when the session ends with input still pending
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := that.readLines(ctx)

	for {
		quit, err := that.playGame(ctx, lines)
		if err != nil {
			return err
		}

		if quit {
			log.Info("player quit", "game_id", that.gameUseCase.GameID())
			that.printf("Bye\n")
			return nil
		}

		that.printSummary(ctx)

		if !that.options.Rematch {
			return nil
		}

		again, err := that.askRematch(ctx, lines)
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		if !again {
			return nil
		}

		that.gameUseCase.NewGame()
	}
}

// playGame runs the turn loop of the current game. It reports true if the player quit.
func (that *Server) playGame(ctx context.Context, lines <-chan string) (bool, error) {
	for {
		that.printf("\n%s", formatBoard(that.gameUseCase.Render()))

		if outcome := that.gameUseCase.Outcome(); outcome.IsTerminal() {
			that.printf("%s\n", formatOutcome(outcome))
			return false, nil
		}

		that.printf("Player %s Turn\n", that.gameUseCase.Turn())
		that.printf("Enter [X Y] coordinates\n")

		line, err := that.nextLine(ctx, lines)
		if err != nil {
			return false, err
		}

		if isQuit(line) {
			return true, nil
		}

		x, y, err := parseCoordinates(line)
		if err != nil {
			that.printf("Invalid input: %v, try again\n", err)
			continue
		}

		_, err = that.gameUseCase.MakeTurn(ctx, x, y)
		switch {
		case errors.Is(err, apperror.ErrOutOfBounds):
			that.printf("Invalid spot: (%d, %d) is off the board\n", x, y)
		case errors.Is(err, apperror.ErrCellOccupied):
			that.printf("Invalid spot: (%d, %d) is taken\n", x, y)
		case err != nil:
			return false, fmt.Errorf("failed to make turn: %w", err)
		}
	}
}

func (that *Server) printSummary(ctx context.Context) {
	log := that.logger.With("method", "printSummary")

	score, err := that.gameUseCase.Score(ctx)
	if err != nil {
		log.Warn("failed to get score", "error", err)
		that.printf("Score unavailable\n")
		return
	}

	that.printf("%s\n", formatScore(score))

	if that.options.RecentResults <= 0 {
		return
	}

	results, err := that.gameUseCase.RecentResults(ctx, that.options.RecentResults)
	if err != nil {
		log.Warn("failed to get recent results", "error", err)
		return
	}

	that.printf("%s", formatResults(results))
}

func (that *Server) askRematch(ctx context.Context, lines <-chan string) (bool, error) {
	that.printf("Play again? [y/N]\n")

	line, err := that.nextLine(ctx, lines)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLines reads input on its own goroutine so a blocked read does not hold up ctx cancellation.
// Lines of any length are delivered whole; a trailing line without a newline is delivered too.
func (that *Server) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		reader := bufio.NewReader(that.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}

			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				that.logger.Error("failed to read input", "error", err)
				return
			}
		}
	}()

	return lines
}

func (that *Server) nextLine(ctx context.Context, lines <-chan string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}

func (that *Server) printf(format string, args ...any) {
	// nothing useful to do if the terminal is gone
	_, _ = fmt.Fprintf(that.out, format, args...)
}
