package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

type sqlResult struct {
	conn *sql.DB
}

// NewSQLResultRepository expects the results table created by storage.Storage.Init.
func NewSQLResultRepository(conn *sql.DB) ResultRepository {
	return &sqlResult{
		conn: conn,
	}
}

func (that *sqlResult) Save(ctx context.Context, result *entity.Result) error {
	if _, err := scoreField(result.Outcome()); err != nil {
		return err
	}

	moves, err := json.Marshal(result.Moves)
	if err != nil {
		return fmt.Errorf("can't marshal moves: %w", err)
	}

	query := `INSERT INTO results (game_id, status, winner, moves, finished_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO NOTHING`

	res, err := that.conn.ExecContext(ctx, query,
		result.GameID,
		result.Status.String(),
		result.Winner.String(),
		string(moves),
		result.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't check saved result: %w", err)
	}

	if inserted == 0 {
		return fmt.Errorf("%w: %s", ErrResultExists, result.GameID)
	}

	return nil
}

func (that *sqlResult) GetByID(ctx context.Context, gameID string) (*entity.Result, error) {
	query := `SELECT game_id, status, winner, moves, finished_at FROM results WHERE game_id = ?`

	result, err := scanResult(that.conn.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", gameID, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find result: %w", err)
	}

	return result, nil
}

func (that *sqlResult) Score(ctx context.Context) (*entity.Score, error) {
	query := `SELECT status, winner, COUNT(*) FROM results GROUP BY status, winner`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't count results: %w", err)
	}
	defer rows.Close()

	score := &entity.Score{}
	for rows.Next() {
		var (
			status, winner string
			count          int
		)

		if err = rows.Scan(&status, &winner, &count); err != nil {
			return nil, fmt.Errorf("can't scan score row: %w", err)
		}

		outcome, err := parseOutcome(status, winner)
		if err != nil {
			return nil, err
		}

		for range count {
			score.Add(outcome)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read score rows: %w", err)
	}

	return score, nil
}

// Recent returns up to limit results, newest first.
func (that *sqlResult) Recent(ctx context.Context, limit int) ([]*entity.Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `SELECT game_id, status, winner, moves, finished_at FROM results ORDER BY rowid DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list results: %w", err)
	}
	defer rows.Close()

	var results []*entity.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read result rows: %w", err)
	}

	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*entity.Result, error) {
	var (
		result         entity.Result
		status, winner string
		moves          string
		finishedAt     int64
	)

	if err := row.Scan(&result.GameID, &status, &winner, &moves, &finishedAt); err != nil {
		return nil, err
	}

	outcome, err := parseOutcome(status, winner)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal([]byte(moves), &result.Moves); err != nil {
		return nil, fmt.Errorf("can't unmarshal moves: %w", err)
	}

	result.Status = outcome.Status
	result.Winner = outcome.Winner
	result.FinishedAt = time.UnixMilli(finishedAt).UTC()

	return &result, nil
}

func parseOutcome(status, winner string) (entity.Outcome, error) {
	parsedStatus, err := entity.ParseOutcomeStatus(status)
	if err != nil {
		return entity.Outcome{}, fmt.Errorf("invalid stored status: %w", err)
	}

	parsedWinner, err := entity.ParseCell(winner)
	if err != nil {
		return entity.Outcome{}, fmt.Errorf("invalid stored winner: %w", err)
	}

	return entity.Outcome{Status: parsedStatus, Winner: parsedWinner}, nil
}
