package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const (
	resultKeyPrefix = "result:"
	resultsListKey  = "results"
	scoreKey        = "score"

	scoreFieldX    = "x"
	scoreFieldO    = "o"
	scoreFieldDraw = "draw"

	// maxRecentResults bounds the results list; older records stay reachable by key only.
	maxRecentResults = 100
)

var (
	ErrResultNotTerminal = errors.New("result is not a finished game")
	ErrResultExists      = errors.New("result already saved")
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, gameID string) (*entity.Result, error)
	Score(ctx context.Context) (*entity.Score, error)
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	field, err := scoreField(result.Outcome())
	if err != nil {
		return err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	// the record key claims the game id, so a second Save never touches the list or the score
	created, err := that.client.SetNX(ctx, resultKeyPrefix+result.GameID, resultJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", ErrResultExists, result.GameID)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, resultsListKey, result.GameID)
		pipe.LTrim(ctx, resultsListKey, 0, maxRecentResults-1)
		pipe.HIncrBy(ctx, scoreKey, field, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByID(ctx context.Context, gameID string) (*entity.Result, error) {
	response, err := that.client.Get(ctx, resultKeyPrefix+gameID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("result %s: %w", gameID, apperror.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result by id: %w", err)
	}

	var result entity.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

func (that *dbResult) Score(ctx context.Context) (*entity.Score, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	score := &entity.Score{}
	targets := map[string]*int{
		scoreFieldX:    &score.XWins,
		scoreFieldO:    &score.OWins,
		scoreFieldDraw: &score.Draws,
	}

	for field, value := range fields {
		target, ok := targets[field]
		if !ok {
			continue
		}

		if *target, err = strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("invalid score field %s: %w", field, err)
		}
	}

	return score, nil
}

// Recent returns up to limit results, newest first.
func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := that.client.LRange(ctx, resultsListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*entity.Result, 0, len(ids))
	for _, id := range ids {
		result, err := that.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

func scoreField(outcome entity.Outcome) (string, error) {
	switch {
	case outcome.Status == entity.Draw:
		return scoreFieldDraw, nil
	case outcome.Status == entity.Win && outcome.Winner == entity.PlayerX:
		return scoreFieldX, nil
	case outcome.Status == entity.Win && outcome.Winner == entity.PlayerO:
		return scoreFieldO, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrResultNotTerminal, outcome)
	}
}
