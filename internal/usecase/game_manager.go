package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	Score(ctx context.Context) (*entity.Score, error)
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
}

// GameManager runs one game at a time on behalf of the console driver.
// It owns turn order and stops accepting moves once the game is over.
// Not safe for concurrent use.
type GameManager struct {
	logger     *slog.Logger
	resultRepo resultRepo

	engine  *tictactoe.Engine
	gameID  string
	turn    entity.Cell
	outcome entity.Outcome
	moves   []entity.Move
}

func NewGameManager(logger *slog.Logger, resultRepo resultRepo) *GameManager {
	manager := &GameManager{
		logger:     logger.With("component", "game_manager"),
		resultRepo: resultRepo,
	}
	manager.NewGame()

	return manager
}

// NewGame discards the current board and starts over with X to move.
func (that *GameManager) NewGame() {
	that.engine = tictactoe.NewEngine()
	that.gameID = uuid.NewString()
	that.turn = entity.PlayerX
	that.outcome = entity.InProgressOutcome()
	that.moves = nil

	that.logger.Info("game started", "game_id", that.gameID)
}

func (that *GameManager) GameID() string {
	return that.gameID
}

// Turn returns the player to move, or Empty once the game is over.
func (that *GameManager) Turn() entity.Cell {
	if that.outcome.IsTerminal() {
		return entity.Empty
	}
	return that.turn
}

func (that *GameManager) Outcome() entity.Outcome {
	return that.outcome
}

func (that *GameManager) Render() [entity.CellCount]string {
	return that.engine.Render()
}

// MakeTurn places the active player's token at (x, y).
// A rejected move does not consume the turn.
func (that *GameManager) MakeTurn(ctx context.Context, x, y int) (entity.Outcome, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", that.gameID)

	if that.outcome.IsTerminal() {
		return that.outcome, apperror.ErrGameFinished
	}

	if err := that.engine.Place(x, y, that.turn); err != nil {
		log.Debug("move rejected", "player", that.turn, "x", x, "y", y, "error", err)
		return that.outcome, fmt.Errorf("invalid turn: %w", err)
	}

	that.moves = append(that.moves, entity.Move{Player: that.turn, X: x, Y: y})
	that.outcome = that.engine.Evaluate()

	log.Debug("move accepted", "player", that.turn, "x", x, "y", y, "outcome", that.outcome)

	if that.outcome.IsTerminal() {
		that.finishGame(ctx)
		return that.outcome, nil
	}

	that.turn = that.turn.Opponent()

	return that.outcome, nil
}

// finishGame records the result. The outcome on screen stands even if the store fails.
func (that *GameManager) finishGame(ctx context.Context) {
	log := that.logger.With("method", "finishGame", "game_id", that.gameID)

	result := &entity.Result{
		GameID:     that.gameID,
		Status:     that.outcome.Status,
		Winner:     that.outcome.Winner,
		Moves:      append([]entity.Move(nil), that.moves...),
		FinishedAt: time.Now().UTC(),
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
		return
	}

	log.Info("game finished", "outcome", that.outcome, "moves", len(that.moves))
}

func (that *GameManager) Score(ctx context.Context) (*entity.Score, error) {
	score, err := that.resultRepo.Score(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *GameManager) RecentResults(ctx context.Context, limit int) ([]*entity.Result, error) {
	results, err := that.resultRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	return results, nil
}
