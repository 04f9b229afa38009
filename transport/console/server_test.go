package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/usecase"
)

var errStoreDown = errors.New("store down")

// memoryResults keeps results in a slice, newest last.
type memoryResults struct {
	results []*entity.Result
	fail    bool
}

func (that *memoryResults) Save(_ context.Context, result *entity.Result) error {
	that.results = append(that.results, result)
	return nil
}

func (that *memoryResults) Score(_ context.Context) (*entity.Score, error) {
	if that.fail {
		return nil, errStoreDown
	}

	score := &entity.Score{}
	for _, result := range that.results {
		score.Add(result.Outcome())
	}

	return score, nil
}

func (that *memoryResults) Recent(_ context.Context, limit int) ([]*entity.Result, error) {
	var recent []*entity.Result
	for i := len(that.results) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, that.results[i])
	}

	return recent, nil
}

func newTestServer(input string, options Options) (*Server, *bytes.Buffer, *memoryResults) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &memoryResults{}
	manager := usecase.NewGameManager(logger, store)
	out := &bytes.Buffer{}

	return New(logger, manager, strings.NewReader(input), out, options), out, store
}

func TestServer_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a game to a win", func(t *testing.T) {
		// Given: X takes the left column
		server, out, store := newTestServer("0 0\n1 1\n0 1\n1 0\n0 2\n", Options{})

		// When: the server runs
		err := server.Start(ctx)

		// Then: the win is announced and recorded
		require.NoError(t, err)
		assert.Contains(t, out.String(), "WINNER X X X X X")
		assert.Contains(t, out.String(), "| X | O |   |")
		assert.Contains(t, out.String(), "Score: X 1 | O 0 | draws 0")
		require.Len(t, store.results, 1)
		assert.Equal(t, entity.WinOutcome(entity.PlayerX), store.results[0].Outcome())
	})

	t.Run("Plays a game to a draw", func(t *testing.T) {
		server, out, _ := newTestServer("0 0\n1 0\n2 0\n1 1\n0 1\n2 1\n1 2\n0 2\n2 2\n", Options{})

		require.NoError(t, server.Start(ctx))
		assert.Contains(t, out.String(), "CATS game, end")
	})

	t.Run("Malformed input does not consume a turn", func(t *testing.T) {
		// Given: garbage between X's moves
		input := "hello\n0\n0 a\n0 0\n1 1\n0 1\n1 0\n0 2\n"
		server, out, store := newTestServer(input, Options{})

		// When: the server runs
		require.NoError(t, server.Start(ctx))

		// Then: every bad line is reported and X still wins
		assert.Equal(t, 2, strings.Count(out.String(), ErrWrongCoordinateCount.Error()))
		assert.Contains(t, out.String(), ErrNotANumber.Error())
		require.Len(t, store.results, 1)
		assert.Equal(t, entity.PlayerX, store.results[0].Winner)
	})

	t.Run("Over-long line is rejected and re-prompted", func(t *testing.T) {
		// Given: a line larger than a default scanner buffer before X's moves
		input := strings.Repeat("a", 70*1024) + "\n0 0\n1 1\n0 1\n1 0\n0 2\n"
		server, out, store := newTestServer(input, Options{})

		// When: the server runs
		err := server.Start(ctx)

		// Then: the line is reported as malformed and the game still finishes
		require.NoError(t, err)
		assert.Contains(t, out.String(), ErrWrongCoordinateCount.Error())
		assert.Contains(t, out.String(), "WINNER X X X X X")
		require.Len(t, store.results, 1)
		assert.Equal(t, entity.PlayerX, store.results[0].Winner)
	})

	t.Run("Rejected spots are reported and retried", func(t *testing.T) {
		// Given: O first picks an occupied cell, then one off the board
		input := "0 0\n0 0\n3 0\n1 1\n0 1\n1 0\n0 2\n"
		server, out, store := newTestServer(input, Options{})

		require.NoError(t, server.Start(ctx))

		assert.Contains(t, out.String(), "Invalid spot: (0, 0) is taken")
		assert.Contains(t, out.String(), "Invalid spot: (3, 0) is off the board")
		require.Len(t, store.results, 1)
		assert.Equal(t, entity.PlayerX, store.results[0].Winner)
	})

	t.Run("Quit ends the session", func(t *testing.T) {
		server, out, store := newTestServer("0 0\nquit\n", Options{})

		require.NoError(t, server.Start(ctx))
		assert.Contains(t, out.String(), "Bye")
		assert.Empty(t, store.results)
	})

	t.Run("Error on input closed mid game", func(t *testing.T) {
		server, _, _ := newTestServer("0 0\n", Options{})

		err := server.Start(ctx)

		assert.ErrorIs(t, err, ErrInputClosed)
	})

	t.Run("Rematch plays another game", func(t *testing.T) {
		// Given: two X wins separated by a yes
		game := "0 0\n1 1\n0 1\n1 0\n0 2\n"
		server, out, store := newTestServer(game+"y\n"+game+"n\n", Options{Rematch: true, RecentResults: 5})

		// When: the server runs
		require.NoError(t, server.Start(ctx))

		// Then: both games are recorded under different ids
		require.Len(t, store.results, 2)
		assert.NotEqual(t, store.results[0].GameID, store.results[1].GameID)
		assert.Contains(t, out.String(), "Score: X 2 | O 0 | draws 0")
		assert.Contains(t, out.String(), "Recent games:")
		assert.Equal(t, 2, strings.Count(out.String(), "Play again? [y/N]"))
	})

	t.Run("Rematch prompt at end of input stops cleanly", func(t *testing.T) {
		server, _, store := newTestServer("0 0\n1 1\n0 1\n1 0\n0 2\n", Options{Rematch: true})

		require.NoError(t, server.Start(ctx))
		assert.Len(t, store.results, 1)
	})

	t.Run("Score failure is reported", func(t *testing.T) {
		server, out, store := newTestServer("0 0\n1 1\n0 1\n1 0\n0 2\n", Options{})
		store.fail = true

		require.NoError(t, server.Start(ctx))
		assert.Contains(t, out.String(), "Score unavailable")
	})
}

func TestServer_Start_ContextCanceled(t *testing.T) {
	// Given: input that never arrives
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, &memoryResults{})
	server := New(logger, manager, reader, io.Discard, Options{})

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	// When: the context is canceled
	cancel()

	// Then: Start returns promptly
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestServer_Start_ReleasesReader(t *testing.T) {
	baseline := runtime.NumGoroutine()

	// Given: a winning game followed by lines nobody will read
	input := "0 0\n1 1\n0 1\n1 0\n0 2\n2 2\n2 1\n2 0\n"
	server, _, _ := newTestServer(input, Options{})

	// When: the game ends under a context that is never canceled
	require.NoError(t, server.Start(context.Background()))

	// Then: the reader goroutine exits anyway
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond)
}
